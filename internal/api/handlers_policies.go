package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

func policyNotFoundDetail(contributor, name string) string {
	return fmt.Sprintf("Policy %s/%s not found", contributor, name)
}

// parseBoolParam interprets an optional query flag; anything but "true"
// (case-insensitive) counts as false, matching the upstream behavior.
func parseBoolParam(raw string) *bool {
	if raw == "" {
		return nil
	}
	v := strings.EqualFold(raw, "true")
	return &v
}

// ListPoliciesHandler serves the browsable catalog, filterable by
// contributor, name substring, deprecation status and tags (AND).
func ListPoliciesHandler(s *store.Store, cfg config.PageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := parsePage(c, cfg)
		filter := store.PolicyFilter{
			Contributor:  c.Query("contributor"),
			NameContains: c.Query("name"),
			IsDeprecated: parseBoolParam(c.Query("is_deprecated")),
			Limit:        p.Limit,
			Offset:       p.Offset,
		}
		if tags := c.Query("tags"); tags != "" {
			filter.Tags = strings.Split(tags, ",")
		}
		rows, total, err := s.SearchPolicies(filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		views := make([]policyListView, 0, len(rows))
		for _, row := range rows {
			tags, err := s.TagNames(row.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			latest, err := s.LatestVersion(row.ID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			views = append(views, newPolicyListView(row, tags, latest))
		}
		c.JSON(http.StatusOK, newPaginated(c, p, total, views))
	}
}

// GetPolicyHandler serves the detail view for a (contributor, name) pair.
func GetPolicyHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		contributor := c.Param("contributor")
		name := c.Param("name")
		policy, err := s.GetPolicy(contributor, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": policyNotFoundDetail(contributor, name)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		view, err := buildPolicyDetail(s, policy)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func buildPolicyDetail(s *store.Store, policy *models.Policy) (*policyDetailView, error) {
	contrib, err := s.GetContributorByName(policy.ContributorName)
	if err != nil {
		return nil, err
	}
	owners, err := s.OwnerNames(contrib.ID)
	if err != nil {
		return nil, err
	}
	tags, err := s.TagNames(policy.ID)
	if err != nil {
		return nil, err
	}
	versions, err := s.ListVersions(policy.ID)
	if err != nil {
		return nil, err
	}
	downloads, err := s.DownloadCount(policy.ID)
	if err != nil {
		return nil, err
	}
	avg, err := s.AverageRating(policy.ID)
	if err != nil {
		return nil, err
	}
	score, err := s.VoteScore(policy.ID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	view := &policyDetailView{
		ID:            policy.ID,
		Contributor:   newContributorView(contrib, owners),
		Name:          policy.Name,
		Description:   policy.Description,
		Versions:      make([]versionSummaryView, 0, len(versions)),
		Tags:          tags,
		DownloadCount: downloads,
		AverageRating: avg,
		VoteScore:     score,
		IsDeprecated:  policy.IsDeprecated,
		CreatedAt:     policy.CreatedAt,
		UpdatedAt:     policy.UpdatedAt,
	}
	for _, v := range versions {
		view.Versions = append(view.Versions, versionSummaryView{Version: v.Version, CreatedAt: v.CreatedAt})
	}
	latest, err := s.LatestVersion(policy.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	} else {
		files, err := s.VersionFiles(latest.ID)
		if err != nil {
			return nil, err
		}
		detail := newVersionDetailView(policy.Name, policy.ContributorName, latest, files)
		view.LatestVersion = &detail
	}
	return view, nil
}

// CreatePolicyHandler creates a policy under a contributor the caller owns.
func CreatePolicyHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Contributor      string   `json:"contributor" binding:"required"`
			Name             string   `json:"name" binding:"required"`
			DisplayName      string   `json:"display_name"`
			Description      string   `json:"description"`
			RepositoryURL    string   `json:"repository_url"`
			RepositoryBranch string   `json:"repository_branch"`
			Readme           string   `json:"readme"`
			DocumentationURL string   `json:"documentation_url"`
			License          string   `json:"license"`
			Tags             []string `json:"tags"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		contrib, err := s.GetContributorByName(req.Contributor)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Contributor '" + req.Contributor + "' does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !requireOwnerOrStaff(c, s, contrib) {
			return
		}
		branch := req.RepositoryBranch
		if branch == "" {
			branch = "main"
		}
		policy := &models.Policy{
			ContributorID:    contrib.ID,
			Name:             req.Name,
			DisplayName:      req.DisplayName,
			Description:      req.Description,
			RepositoryURL:    req.RepositoryURL,
			RepositoryBranch: branch,
			Readme:           req.Readme,
			DocumentationURL: req.DocumentationURL,
			License:          req.License,
		}
		id, err := s.CreatePolicy(policy, req.Tags)
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("policy %s/%s already exists", req.Contributor, req.Name)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "full_name": req.Contributor + "." + req.Name})
	}
}
