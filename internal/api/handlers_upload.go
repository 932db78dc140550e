package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/store"
)

// UploadPolicyHandler validates a policy package upload. The archive must
// be .tar.gz or .zip and within the size limit, and the target contributor
// must exist. Package extraction happens elsewhere; this endpoint only
// accepts the upload.
func UploadPolicyHandler(s *store.Store, cfg config.UploadConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if file.Size > cfg.MaxBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File size cannot exceed 10MB"})
			return
		}
		if !strings.HasSuffix(file.Filename, ".tar.gz") && !strings.HasSuffix(file.Filename, ".zip") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File must be .tar.gz or .zip"})
			return
		}
		contributor := c.PostForm("contributor")
		name := c.PostForm("name")
		version := c.PostForm("version")
		if contributor == "" || name == "" || version == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contributor, name and version are required"})
			return
		}
		if _, err := s.GetContributorByName(contributor); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Contributor '" + contributor + "' does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"detail":      "Policy upload initiated",
			"contributor": contributor,
			"name":        name,
			"version":     version,
		})
	}
}
