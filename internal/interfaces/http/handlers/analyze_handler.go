package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
)

// AnalyzeHandler serves POST /analyze, the deep acquisition analysis.
type AnalyzeHandler struct {
	svc    *hunterai.AnalysisService
	logger logging.Logger
}

func NewAnalyzeHandler(svc *hunterai.AnalysisService, logger logging.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, logger: logger.Named("analyze_handler")}
}

// Analyze produces the acquisition-intelligence report for one enriched
// asset.  Unlike /scan and /verify this endpoint requires the generative
// collaborator: there is no meaningful local fallback for negotiation
// guidance, so an absent key yields 503.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var a asset.EnrichedAsset
	if err := c.ShouldBindJSON(&a); err != nil {
		respondBadRequest(c, err)
		return
	}
	if a.ID == "" {
		a.ID = asset.AssetID(a.URL)
	}

	report, err := h.svc.Analyze(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
