package api

import (
	"github.com/gin-gonic/gin"

	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/store"
)

// SetupRouter wires all handlers. Read endpoints are open; mutating
// endpoints require a bearer token.
func SetupRouter(s *store.Store, cfg config.Config) *gin.Engine {
	r := gin.Default()
	signingKey := []byte(cfg.SigningKey)

	r.Use(AuthMiddleware(s, signingKey))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// auth
	r.POST("/register", RegisterHandler(s, signingKey))
	r.POST("/login", LoginHandler(s, signingKey))
	r.POST("/logout", RequireAuth(), LogoutHandler(s))
	r.GET("/me", RequireAuth(), MeHandler(s))

	// contributors
	r.GET("/contributors", ListContributorsHandler(s, cfg.Pagination))
	r.POST("/contributors", RequireAuth(), CreateContributorHandler(s))
	r.GET("/contributors/:name", GetContributorHandler(s))
	r.PUT("/contributors/:name", RequireAuth(), UpdateContributorHandler(s))
	r.DELETE("/contributors/:name", RequireAuth(), DeleteContributorHandler(s))

	// policies
	r.GET("/policies", ListPoliciesHandler(s, cfg.Pagination))
	r.POST("/policies", RequireAuth(), CreatePolicyHandler(s))
	r.POST("/policies/upload", RequireAuth(), UploadPolicyHandler(s, cfg.Upload))
	r.GET("/policies/:contributor/:name", GetPolicyHandler(s))

	// versions
	r.GET("/policies/:contributor/:name/versions", ListVersionsHandler(s))
	r.POST("/policies/:contributor/:name/versions", RequireAuth(), PublishVersionHandler(s))
	r.GET("/policies/:contributor/:name/versions/:version", GetVersionHandler(s))
	r.GET("/policies/:contributor/:name/versions/:version/download", DownloadVersionHandler(s))

	// engagement
	r.POST("/policies/:contributor/:name/votes", RequireAuth(), VoteHandler(s))
	r.POST("/policies/:contributor/:name/ratings", RequireAuth(), RateHandler(s))
	r.GET("/ratings", ListRatingsHandler(s, cfg.Pagination))
	r.POST("/ratings/:id/helpful", RequireAuth(), RatingHelpfulHandler(s))

	// search
	r.GET("/search", SearchHandler(s, cfg.Pagination))

	// tags
	r.GET("/tags", ListTagsHandler(s, cfg.Pagination))

	return r
}
