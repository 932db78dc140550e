package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Masterminds/semver/v3"
	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

func versionNotFoundDetail(version, contributor, name string) string {
	return fmt.Sprintf("Version %s not found for %s/%s", version, contributor, name)
}

// lookupPolicy resolves the (contributor, name) pair or writes the 404.
func lookupPolicy(c *gin.Context, s *store.Store) (*models.Policy, bool) {
	contributor := c.Param("contributor")
	name := c.Param("name")
	policy, err := s.GetPolicy(contributor, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": policyNotFoundDetail(contributor, name)})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return policy, true
}

// ListVersionsHandler lists a policy's versions, newest first.
func ListVersionsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, ok := lookupPolicy(c, s)
		if !ok {
			return
		}
		versions, err := s.ListVersions(policy.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data := make([]versionSummaryView, 0, len(versions))
		for _, v := range versions {
			data = append(data, versionSummaryView{Version: v.Version, CreatedAt: v.CreatedAt})
		}
		c.JSON(http.StatusOK, gin.H{
			"meta": gin.H{"count": len(data)},
			"data": data,
		})
	}
}

// GetVersionHandler serves one version, with distinguishable 404 messages
// for a missing policy versus a missing version.
func GetVersionHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, ok := lookupPolicy(c, s)
		if !ok {
			return
		}
		ver := c.Param("version")
		v, err := s.GetVersion(policy.ID, ver)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": versionNotFoundDetail(ver, policy.ContributorName, policy.Name)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		files, err := s.VersionFiles(v.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, newVersionDetailView(policy.Name, policy.ContributorName, v, files))
	}
}

// PublishVersionHandler publishes a version under an owned policy. The
// version string must be valid semver; re-publishing an existing string
// updates it in place.
func PublishVersionHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, ok := lookupPolicy(c, s)
		if !ok {
			return
		}
		contrib, err := s.GetContributorByName(policy.ContributorName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !requireOwnerOrStaff(c, s, contrib) {
			return
		}
		var req struct {
			Version          string `json:"version" binding:"required"`
			GitCommit        string `json:"git_commit"`
			GitTag           string `json:"git_tag"`
			Changelog        string `json:"changelog"`
			Checksum         string `json:"checksum"`
			Dependencies     string `json:"dependencies"`
			SupportedSystems string `json:"supported_systems"`
			SELinuxVersion   string `json:"selinux_version"`
			IsLatest         bool   `json:"is_latest"`
			Files            []struct {
				FilePath string          `json:"file_path"`
				FileType models.FileType `json:"file_type"`
				Content  string          `json:"content"`
			} `json:"files"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := semver.NewVersion(req.Version); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid semver"})
			return
		}
		files := make([]models.PolicyFile, 0, len(req.Files))
		for _, f := range req.Files {
			ft := f.FileType
			if ft == "" {
				ft = models.FileTypeOther
			}
			if !models.ValidFileType(ft) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid file type %q", f.FileType)})
				return
			}
			files = append(files, models.PolicyFile{FilePath: f.FilePath, FileType: ft, Content: f.Content})
		}
		deps := req.Dependencies
		if deps == "" {
			deps = "[]"
		}
		systems := req.SupportedSystems
		if systems == "" {
			systems = "[]"
		}
		v := &models.PolicyVersion{
			PolicyID:         policy.ID,
			Version:          req.Version,
			GitCommit:        req.GitCommit,
			GitTag:           req.GitTag,
			Changelog:        req.Changelog,
			Checksum:         req.Checksum,
			Dependencies:     deps,
			SupportedSystems: systems,
			SELinuxVersion:   req.SELinuxVersion,
			IsLatest:         req.IsLatest,
		}
		id, err := s.PublishVersion(v, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "version": req.Version})
	}
}

// DownloadVersionHandler records a download and returns the version record.
// Archive blobs live outside this service; only the log entry is written.
func DownloadVersionHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, ok := lookupPolicy(c, s)
		if !ok {
			return
		}
		ver := c.Param("version")
		v, err := s.GetVersion(policy.ID, ver)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": versionNotFoundDetail(ver, policy.ContributorName, policy.Name)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := s.LogDownload(policy.ID, v.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		files, err := s.VersionFiles(v.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, newVersionDetailView(policy.Name, policy.ContributorName, v, files))
	}
}
