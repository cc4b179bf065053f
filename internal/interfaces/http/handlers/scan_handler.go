package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/scanning"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
)

// ScanRequest is the POST /scan body.
type ScanRequest struct {
	Query                    string   `json:"query"`
	Marketplaces             []string `json:"marketplaces"`
	MinUsers                 int      `json:"min_users"`
	MaxResultsPerMarketplace int      `json:"max_results_per_marketplace"`
}

// ScanResponse is the POST /scan reply.
type ScanResponse struct {
	Assets              []asset.EnrichedAsset `json:"assets"`
	TotalFound          int                   `json:"total_found"`
	MarketplacesScanned int                   `json:"marketplaces_scanned"`
	ScanDurationMS      int64                 `json:"scan_duration_ms"`
}

// ScanHandler serves POST /scan.
type ScanHandler struct {
	svc    *scanning.ScanService
	logger logging.Logger
}

func NewScanHandler(svc *scanning.ScanService, logger logging.Logger) *ScanHandler {
	return &ScanHandler{svc: svc, logger: logger.Named("scan_handler")}
}

// Scan sweeps the requested marketplaces.  Unrecognized marketplace tokens
// are dropped rather than failing the request; an empty selection after
// dropping falls back to the full sweep, same as an absent field.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	marketplaces := make([]asset.Marketplace, 0, len(req.Marketplaces))
	for _, token := range req.Marketplaces {
		mp, ok := asset.ParseMarketplace(token)
		if !ok {
			h.logger.Warn("dropping unknown marketplace token", logging.String("token", token))
			continue
		}
		marketplaces = append(marketplaces, mp)
	}

	result, err := h.svc.Scan(c.Request.Context(), scanning.ScanRequest{
		Query:                    req.Query,
		Marketplaces:             marketplaces,
		MinUsers:                 req.MinUsers,
		MaxResultsPerMarketplace: req.MaxResultsPerMarketplace,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	assets := result.Assets
	if assets == nil {
		assets = []asset.EnrichedAsset{}
	}
	c.JSON(http.StatusOK, ScanResponse{
		Assets:              assets,
		TotalFound:          result.TotalFound,
		MarketplacesScanned: result.MarketplacesScanned,
		ScanDurationMS:      result.ScanDurationMS,
	})
}
