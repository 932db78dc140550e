package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
)

// pageParams holds the resolved pagination window for a request.
type pageParams struct {
	Page   int
	Limit  int
	Offset int
}

// parsePage reads the page and limit query parameters. The limit is capped
// at the configured maximum; page numbers start at 1.
func parsePage(c *gin.Context, cfg config.PageConfig) pageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit := cfg.PageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > cfg.MaxPageSize {
		limit = cfg.MaxPageSize
	}
	return pageParams{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// paginated is the standard list envelope: total count, next/previous page
// URLs (null when absent) and the page items.
type paginated struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func pageURL(base *url.URL, page int) *string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// newPaginated builds the envelope, computing next/previous existence from
// the total count and the current window.
func newPaginated(c *gin.Context, p pageParams, total int64, results interface{}) paginated {
	out := paginated{Count: total, Results: results}
	if int64(p.Offset+p.Limit) < total {
		out.Next = pageURL(c.Request.URL, p.Page+1)
	}
	if p.Page > 1 {
		out.Previous = pageURL(c.Request.URL, p.Page-1)
	}
	return out
}
