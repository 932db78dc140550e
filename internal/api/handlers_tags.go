package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/store"
)

// ListTagsHandler lists tags alphabetically with a live policy count.
func ListTagsHandler(s *store.Store, cfg config.PageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := parsePage(c, cfg)
		tags, total, err := s.ListTags(p.Limit, p.Offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, newPaginated(c, p, total, tags))
	}
}
