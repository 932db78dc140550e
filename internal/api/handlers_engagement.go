package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/store"
)

// VoteHandler casts or replaces the caller's vote on a policy.
func VoteHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		policy, ok := lookupPolicy(c, s)
		if !ok {
			return
		}
		var req struct {
			Value   int    `json:"value" binding:"required"`
			Comment string `json:"comment"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Value != 1 && req.Value != -1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value must be 1 or -1"})
			return
		}
		if err := s.CastVote(claims.UserID, policy.ID, req.Value, req.Comment); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		score, err := s.VoteScore(policy.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "score": score})
	}
}

// RateHandler creates or replaces the caller's star rating. The user is
// always the authenticated caller; any client-supplied user is ignored.
func RateHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		policy, ok := lookupPolicy(c, s)
		if !ok {
			return
		}
		var req struct {
			Score  int    `json:"score" binding:"required"`
			Review string `json:"review"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Score < 1 || req.Score > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 1 and 5"})
			return
		}
		if err := s.Rate(claims.UserID, policy.ID, req.Score, req.Review); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rating, err := s.GetRating(claims.UserID, policy.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, rating)
	}
}

// ListRatingsHandler lists ratings, newest first, optionally filtered by
// the policy query parameter (a policy id).
func ListRatingsHandler(s *store.Store, cfg config.PageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := parsePage(c, cfg)
		var policyID int64
		if raw := c.Query("policy"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid policy id"})
				return
			}
			policyID = id
		}
		ratings, total, err := s.ListRatings(policyID, p.Limit, p.Offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, newPaginated(c, p, total, ratings))
	}
}

// RatingHelpfulHandler records the caller's helpfulness judgment on a
// rating. Judging one's own rating is permitted.
func RatingHelpfulHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		ratingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
			return
		}
		if _, err := s.GetRatingByID(ratingID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Rating not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var req struct {
			IsHelpful *bool `json:"is_helpful"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		helpful := true
		if req.IsHelpful != nil {
			helpful = *req.IsHelpful
		}
		if err := s.MarkRatingHelpful(claims.UserID, ratingID, helpful); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rating, err := s.GetRatingByID(ratingID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rating)
	}
}
