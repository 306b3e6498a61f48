package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/api/middleware"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/valuation"
)

// Handler defines the REST API handlers
type Handler interface {
	// ListCollections lists every ingested collection
	// GET /api/v1/collections
	ListCollections(c *gin.Context)

	// GetCollection returns the market profile of a collection
	// GET /api/v1/collections/:slug
	GetCollection(c *gin.Context)

	// GetTokenPrice returns the price envelope of a token
	// GET /api/v1/collections/:slug/tokens/:id/price
	GetTokenPrice(c *gin.Context)

	// GetTokenLiquidity returns the liquidity profile of a token
	// GET /api/v1/collections/:slug/tokens/:id/liquidity
	GetTokenLiquidity(c *gin.Context)

	// GetToken returns the full token profile
	// GET /api/v1/collections/:slug/tokens/:id
	GetToken(c *gin.Context)

	// GetTraitFloorHistory returns the daily floor of a trait
	// GET /api/v1/collections/:slug/traits/:trait/floor-history?days=<days>
	GetTraitFloorHistory(c *gin.Context)

	// IngestCollection ingests or re-ingests a collection (requires authentication)
	// POST /api/v1/admin/collections
	IngestCollection(c *gin.Context)

	// PurgeCollection deletes a collection (requires authentication)
	// DELETE /api/v1/admin/collections/:slug
	PurgeCollection(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	valuer   valuation.Valuer
	ingestor ingest.Ingestor
}

// NewHandler creates the REST handler. A nil ingestor disables the admin routes' work
// and answers them with 503.
func NewHandler(valuer valuation.Valuer, ingestor ingest.Ingestor) Handler {
	return &handler{
		valuer:   valuer,
		ingestor: ingestor,
	}
}

func (h *handler) ListCollections(c *gin.Context) {
	collections, err := h.valuer.Collections(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *handler) GetCollection(c *gin.Context) {
	slug := c.Param("slug")

	profile, err := h.valuer.CollectionProfile(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err, "Failed to get collection profile", logger.Collection(slug))
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) GetTokenPrice(c *gin.Context) {
	slug := c.Param("slug")
	tokenID, err := parseTokenID(c)
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	profile, err := h.valuer.PriceProfile(c.Request.Context(), slug, tokenID)
	if err != nil {
		respondError(c, err, "Failed to get price profile", logger.Collection(slug), logger.TokenID(tokenID))
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) GetTokenLiquidity(c *gin.Context) {
	slug := c.Param("slug")
	tokenID, err := parseTokenID(c)
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	profile, err := h.valuer.LiquidityProfile(c.Request.Context(), slug, tokenID)
	if err != nil {
		respondError(c, err, "Failed to get liquidity profile", logger.Collection(slug), logger.TokenID(tokenID))
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) GetToken(c *gin.Context) {
	slug := c.Param("slug")
	tokenID, err := parseTokenID(c)
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	profile, err := h.valuer.TokenProfile(c.Request.Context(), slug, tokenID)
	if err != nil {
		respondError(c, err, "Failed to get token profile", logger.Collection(slug), logger.TokenID(tokenID))
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) GetTraitFloorHistory(c *gin.Context) {
	slug := c.Param("slug")
	traitID, err := parseTraitID(c)
	if err != nil {
		respondBadRequest(c, "Invalid trait", err.Error())
		return
	}

	params, err := ParseFloorHistoryQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	history, err := h.valuer.TraitFloorHistory(c.Request.Context(), slug, traitID, params.Days)
	if err != nil {
		respondError(c, err, "Failed to get trait floor history", logger.Collection(slug), logger.Trait(traitID.String()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trait":   traitID,
		"history": history,
	})
}

func (h *handler) IngestCollection(c *gin.Context) {
	if h.ingestor == nil {
		respondServiceUnavailable(c, "Ingestion is not enabled")
		return
	}

	var req ingest.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		respondValidationError(c, "slug is required")
		return
	}
	if req.RarityMultiplier != nil && *req.RarityMultiplier <= 0 {
		respondValidationError(c, "rarity_multiplier must be positive")
		return
	}

	result, err := h.ingestor.IngestCollection(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to ingest collection", logger.Collection(req.Slug))
		return
	}

	logger.InfoCtx(c.Request.Context(), "Collection ingested via API",
		logger.Collection(req.Slug),
		zap.String("runID", result.RunID),
		zap.String("auth_subject", c.GetString(middleware.AUTH_SUBJECT_KEY)),
	)
	c.JSON(http.StatusOK, result)
}

func (h *handler) PurgeCollection(c *gin.Context) {
	if h.ingestor == nil {
		respondServiceUnavailable(c, "Ingestion is not enabled")
		return
	}

	slug := c.Param("slug")
	if err := h.ingestor.PurgeCollection(c.Request.Context(), slug); err != nil {
		respondError(c, err, "Failed to purge collection", logger.Collection(slug))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "nft-valuation-api",
	})
}
