package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

// MarketplacesResponse is the GET /marketplaces reply.
type MarketplacesResponse struct {
	Marketplaces []asset.Marketplace `json:"marketplaces"`
	Total        int                 `json:"total"`
}

// MarketplaceHandler serves GET /marketplaces.
type MarketplaceHandler struct{}

func NewMarketplaceHandler() *MarketplaceHandler {
	return &MarketplaceHandler{}
}

// List returns the supported marketplace tokens in stable order.
func (h *MarketplaceHandler) List(c *gin.Context) {
	all := asset.AllMarketplaces()
	c.JSON(http.StatusOK, MarketplacesResponse{
		Marketplaces: all,
		Total:        len(all),
	})
}
