package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/nft-valuation/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Collection and token profiles (public read access)
		v1.GET("/collections", handler.ListCollections)
		v1.GET("/collections/:slug", handler.GetCollection)
		v1.GET("/collections/:slug/tokens/:id", handler.GetToken)
		v1.GET("/collections/:slug/tokens/:id/price", handler.GetTokenPrice)
		v1.GET("/collections/:slug/tokens/:id/liquidity", handler.GetTokenLiquidity)
		v1.GET("/collections/:slug/traits/:trait/floor-history", handler.GetTraitFloorHistory)

		// Collection lifecycle (requires authentication)
		admin := v1.Group("/admin", middleware.Auth(authCfg))
		admin.POST("/collections", handler.IngestCollection)
		admin.DELETE("/collections/:slug", handler.PurgeCollection)
	}
}
