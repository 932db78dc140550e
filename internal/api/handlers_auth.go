package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrMEEE/yseal/internal/auth"
	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

const accessTokenTTL = time.Hour * 24

// RegisterHandler creates a user, its profile and (slug permitting) a
// personal contributor in one transaction, then returns an access token.
func RegisterHandler(s *store.Store, signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username  string `json:"username" binding:"required"`
			Email     string `json:"email" binding:"required,email"`
			Password  string `json:"password" binding:"required,min=8"`
			Password2 string `json:"password2" binding:"required"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Password != req.Password2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password fields didn't match."})
			return
		}
		pw, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		u := &models.User{
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		id, err := s.CreateUser(u, string(pw))
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		u.ID = id
		tok, err := auth.NewToken(signingKey, id, u.Username, accessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
			return
		}
		if err := s.RecordToken(id, tok); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		created, err := s.GetUserByID(id)
		if err == nil {
			u = created
		}
		c.JSON(http.StatusCreated, gin.H{
			"user":    newUserView(u),
			"token":   tok,
			"message": "User registered successfully",
		})
	}
}

func LoginHandler(s *store.Store, signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := s.GetUserByUsername(req.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		tok, err := auth.NewToken(signingKey, user.ID, user.Username, accessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
			return
		}
		if err := s.RecordToken(user.ID, tok); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": tok, "username": user.Username})
	}
}

// LogoutHandler revokes the caller's token. A storage failure is reported
// as a 500 with the underlying message rather than left unhandled.
func LogoutHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawIfc, exists := c.Get(string(CtxRawToken))
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		raw := rawIfc.(string)
		if err := s.RevokeToken(raw); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
	}
}

// MeHandler returns the authenticated user plus the contributors they own.
func MeHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		user, err := s.GetUserByID(claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		owned, err := s.OwnedContributors(claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		names := make([]string, 0, len(owned))
		for _, o := range owned {
			names = append(names, o.Name)
		}
		c.JSON(http.StatusOK, gin.H{"user": newUserView(user), "contributors": names})
	}
}
