package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

func ListContributorsHandler(s *store.Store, cfg config.PageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := parsePage(c, cfg)
		cs, total, err := s.ListContributors(p.Limit, p.Offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		views := make([]contributorView, 0, len(cs))
		for i := range cs {
			owners, err := s.OwnerNames(cs[i].ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			views = append(views, newContributorView(&cs[i], owners))
		}
		c.JSON(http.StatusOK, newPaginated(c, p, total, views))
	}
}

func GetContributorHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		contrib, err := s.GetContributorByName(name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Contributor '" + name + "' not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		owners, err := s.OwnerNames(contrib.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, newContributorView(contrib, owners))
	}
}

func CreateContributorHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		var req struct {
			Name        string `json:"name" binding:"required"`
			DisplayName string `json:"display_name"`
			Description string `json:"description"`
			AvatarURL   string `json:"avatar_url"`
			Company     string `json:"company"`
			Website     string `json:"website"`
			Email       string `json:"email"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		contrib := &models.Contributor{
			Name:        req.Name,
			DisplayName: req.DisplayName,
			Description: req.Description,
			AvatarURL:   req.AvatarURL,
			Company:     req.Company,
			Website:     req.Website,
			Email:       req.Email,
		}
		if _, err := s.CreateContributor(contrib, claims.UserID); err != nil {
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "contributor '" + req.Name + "' already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		created, err := s.GetContributorByName(req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		owners, _ := s.OwnerNames(created.ID)
		c.JSON(http.StatusCreated, newContributorView(created, owners))
	}
}

// requireOwnerOrStaff checks that the caller owns the contributor or is
// staff. Authorization failures stay generic, never leaked as not-found.
func requireOwnerOrStaff(c *gin.Context, s *store.Store, contrib *models.Contributor) bool {
	claims := currentClaims(c)
	ok, err := s.IsOwner(contrib.ID, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	if !ok {
		user, err := s.GetUserByID(claims.UserID)
		if err == nil && user.IsStaff {
			return true
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "not an owner"})
		return false
	}
	return true
}

func UpdateContributorHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		contrib, err := s.GetContributorByName(name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Contributor '" + name + "' not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !requireOwnerOrStaff(c, s, contrib) {
			return
		}
		var req struct {
			DisplayName *string `json:"display_name"`
			Description *string `json:"description"`
			AvatarURL   *string `json:"avatar_url"`
			Company     *string `json:"company"`
			Website     *string `json:"website"`
			Email       *string `json:"email"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.DisplayName != nil {
			contrib.DisplayName = *req.DisplayName
		}
		if req.Description != nil {
			contrib.Description = *req.Description
		}
		if req.AvatarURL != nil {
			contrib.AvatarURL = *req.AvatarURL
		}
		if req.Company != nil {
			contrib.Company = *req.Company
		}
		if req.Website != nil {
			contrib.Website = *req.Website
		}
		if req.Email != nil {
			contrib.Email = *req.Email
		}
		if err := s.UpdateContributor(contrib); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		updated, err := s.GetContributorByName(name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		owners, _ := s.OwnerNames(updated.ID)
		c.JSON(http.StatusOK, newContributorView(updated, owners))
	}
}

// DeleteContributorHandler rejects deletion with a 400 naming the dependent
// policy count while any policies reference the contributor.
func DeleteContributorHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		contrib, err := s.GetContributorByName(name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Contributor '" + name + "' not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !requireOwnerOrStaff(c, s, contrib) {
			return
		}
		if err := s.DeleteContributor(name); err != nil {
			var hasPolicies *store.ErrContributorHasPolicies
			if errors.As(err, &hasPolicies) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": hasPolicies.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
