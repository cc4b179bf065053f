package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/valuation"
	"github.com/turtacn/AssetHunter-Intelligence/internal/application/verification"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

// VerifyRequest is the POST /verify body.
type VerifyRequest struct {
	AssetID     string `json:"asset_id"`
	AssetURL    string `json:"asset_url" binding:"required"`
	Marketplace string `json:"marketplace" binding:"required"`
}

// VerifyResponse is the POST /verify reply.
type VerifyResponse struct {
	AssetID            string                 `json:"asset_id"`
	Verified           bool                   `json:"verified"`
	DistressScore      int                    `json:"distress_score"`
	DistressSignals    []asset.DistressSignal `json:"distress_signals"`
	EstimatedMRR       float64                `json:"estimated_mrr"`
	EstimatedValuation float64                `json:"estimated_valuation"`
	VerificationNotes  string                 `json:"verification_notes"`
}

// VerifyHandler serves POST /verify.
type VerifyHandler struct {
	orchestrator *verification.Orchestrator
	logger       logging.Logger
}

func NewVerifyHandler(orchestrator *verification.Orchestrator, logger logging.Logger) *VerifyHandler {
	return &VerifyHandler{orchestrator: orchestrator, logger: logger.Named("verify_handler")}
}

// Verify runs a standalone verification for one asset URL.  The marketplace
// token is accepted even when unrecognized: scoring falls back to the default
// base rate rather than rejecting the request.
func (h *VerifyHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if !h.orchestrator.Configured() {
		respondError(c, errors.New(errors.ErrCodeAINotConfigured, "AI verifier is not configured"))
		return
	}

	// ParseMarketplace normalizes the token either way; an unrecognized
	// marketplace scores with the fallback base rate.
	mp, _ := asset.ParseMarketplace(req.Marketplace)

	raw := asset.RawSearchResult{
		Title:       "Asset to verify",
		URL:         req.AssetURL,
		Marketplace: mp,
	}
	outcome := h.orchestrator.Verify(c.Request.Context(), raw)

	assetID := req.AssetID
	if assetID == "" {
		assetID = asset.AssetID(req.AssetURL)
	}

	score := asset.Score(outcome.Signals)
	mrr := valuation.EstimateMRR(mp, outcome.EstimatedUsers, outcome.EstimatedRating)
	signals := outcome.Signals
	if signals == nil {
		signals = []asset.DistressSignal{}
	}

	c.JSON(http.StatusOK, VerifyResponse{
		AssetID:            assetID,
		Verified:           outcome.Verified,
		DistressScore:      score,
		DistressSignals:    signals,
		EstimatedMRR:       mrr,
		EstimatedValuation: valuation.Valuation(mrr, score),
		VerificationNotes:  outcome.Notes,
	})
}
