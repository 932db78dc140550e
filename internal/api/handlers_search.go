package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/store"
)

// SearchHandler serves the catalog search: keyword OR-match over policy
// name, description, contributor name and tag names, tag filters with AND
// semantics, and a small set of sort keys. There is no relevance scoring;
// -relevance falls back to most recently updated first.
func SearchHandler(s *store.Store, cfg config.PageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := parsePage(c, cfg)
		filter := store.PolicyFilter{
			Keywords:     c.Query("keywords"),
			Contributor:  c.Query("contributor"),
			IsDeprecated: parseBoolParam(c.Query("is_deprecated")),
			OrderBy:      c.DefaultQuery("order_by", "-updated_at"),
			Limit:        p.Limit,
			Offset:       p.Offset,
		}
		if tags := c.Query("tags"); tags != "" {
			filter.Tags = strings.Split(tags, ",")
		}
		rows, total, err := s.SearchPolicies(filter)
		if err != nil {
			if errors.Is(err, store.ErrBadOrderBy) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_by: " + filter.OrderBy})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		results := make([]searchResultView, 0, len(rows))
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
			results = append(results, newSearchResultView(row, tags, latest))
		}
		c.JSON(http.StatusOK, newPaginated(c, p, total, results))
	}
}
