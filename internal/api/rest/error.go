package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/api/apierrors"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
)

func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, apierrors.NewValidationError(details))
}

func respondServiceUnavailable(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusServiceUnavailable, apierrors.NewUpstreamUnavailableError(message, details...))
}

// respondInternalError logs the error; its text never reaches the client
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.ErrorCtx(c.Request.Context(), err, append(fields, zap.String("path", c.Request.URL.Path))...)
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message))
}

// respondError maps domain errors to their status code and falls back to 500
func respondError(c *gin.Context, err error, message string, fields ...zap.Field) {
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound):
		respondNotFound(c, "Collection not found")
	case errors.Is(err, domain.ErrTokenNotFound):
		respondNotFound(c, "Token not found")
	case errors.Is(err, domain.ErrTraitNotFound):
		respondNotFound(c, "Trait not found")
	case errors.Is(err, opensea.ErrCollectionNotFound):
		respondNotFound(c, "Collection not found on marketplace")
	case errors.Is(err, domain.ErrInvalidInput):
		respondValidationError(c, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		logger.WarnCtx(c.Request.Context(), message, append(fields, zap.Error(err))...)
		respondServiceUnavailable(c, message)
	default:
		respondInternalError(c, err, message, fields...)
	}
}
