package rest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/nft-valuation/internal/domain"
)

const (
	DEFAULT_HISTORY_DAYS = 14
	MAX_HISTORY_DAYS     = 90
)

// FloorHistoryQueryParams holds query parameters for GET /collections/:slug/traits/:trait/floor-history
type FloorHistoryQueryParams struct {
	Days int `form:"days,default=14"`
}

// Validate checks the requested history window
func (p *FloorHistoryQueryParams) Validate() error {
	if p.Days < 1 || p.Days > MAX_HISTORY_DAYS {
		return fmt.Errorf("days must be between 1 and %d", MAX_HISTORY_DAYS)
	}
	return nil
}

// ParseFloorHistoryQuery parses query parameters for the trait floor history
func ParseFloorHistoryQuery(c *gin.Context) (*FloorHistoryQueryParams, error) {
	params := FloorHistoryQueryParams{Days: DEFAULT_HISTORY_DAYS}
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// parseTokenID parses the :id path parameter
func parseTokenID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid token id %q", raw)
	}
	return id, nil
}

// parseTraitID parses the :trait path parameter in "type:value" form
func parseTraitID(c *gin.Context) (domain.TraitID, error) {
	raw := c.Param("trait")
	traitType, value, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(traitType) == "" {
		return "", fmt.Errorf("invalid trait %q, expected type:value", raw)
	}
	return domain.NewTraitID(traitType, value), nil
}
