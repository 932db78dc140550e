package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/auth"
	"github.com/MrMEEE/yseal/internal/store"
)

type ctxKey string

const (
	CtxClaims   ctxKey = "claims"
	CtxRawToken ctxKey = "raw_token"
)

// AuthMiddleware parses an optional Bearer token, rejects invalid or
// revoked tokens, and stashes the claims for downstream handlers. Requests
// without an Authorization header pass through unauthenticated.
func AuthMiddleware(s *store.Store, signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		tokenRaw := parts[1]
		claims, err := auth.ParseToken(signingKey, tokenRaw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		revoked, err := s.IsTokenRevoked(tokenRaw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}
		c.Set(string(CtxClaims), claims)
		c.Set(string(CtxRawToken), tokenRaw)
		c.Next()
	}
}

// RequireAuth aborts with 401 when the request carries no valid claims.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(string(CtxClaims)); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		c.Next()
	}
}

// currentClaims returns the authenticated caller's claims, or nil.
func currentClaims(c *gin.Context) *auth.Claims {
	ci, exists := c.Get(string(CtxClaims))
	if !exists {
		return nil
	}
	return ci.(*auth.Claims)
}
