package hunterai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

const (
	analysisCacheTTL       = 24 * time.Hour
	analysisCacheKeyPrefix = "intel:analysis:"

	defaultRadarScore = 5
)

// RadarScores are the five acquisition-fitness axes, each an integer 1-10.
type RadarScores struct {
	Distress        int `json:"distress"`
	MonetizationGap int `json:"monetizationGap"`
	TechnicalRisk   int `json:"technicalRisk"`
	MarketPosition  int `json:"marketPosition"`
	FlipPotential   int `json:"flipPotential"`
}

// MRRPotential is the estimated monthly revenue range anchored on the local
// marketplace formula, not on model output.
type MRRPotential struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// ValuationRange expresses the acquisition price band as 3-5x annual revenue.
type ValuationRange struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Multiple string  `json:"multiple"`
}

// AcquisitionPlan is the model-generated negotiation strategy.
type AcquisitionPlan struct {
	Strategy     string `json:"strategy"`
	Approach     string `json:"approach"`
	OpeningOffer string `json:"openingOffer"`
	WalkAway     string `json:"walkAway"`
}

// ColdEmail is a ready-to-send first-contact draft.
type ColdEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OwnerIntel summarizes what is known or inferred about the seller.
type OwnerIntel struct {
	LikelyMotivation    string   `json:"likelyMotivation"`
	BestTimeToReach     string   `json:"bestTimeToReach"`
	NegotiationLeverage []string `json:"negotiationLeverage"`
}

// IntelligenceReport is the full deep-analysis output for one asset.
type IntelligenceReport struct {
	AssetID       string          `json:"asset_id"`
	HunterRadar   RadarScores     `json:"hunterRadar"`
	OverallScore  int             `json:"overallScore"`
	MRRPotential  MRRPotential    `json:"mrrPotential"`
	Valuation     ValuationRange  `json:"valuation"`
	Acquisition   AcquisitionPlan `json:"acquisition"`
	ColdEmail     ColdEmail       `json:"coldEmail"`
	OwnerIntel    OwnerIntel      `json:"ownerIntel"`
	Risks         []string        `json:"risks"`
	Opportunities []string        `json:"opportunities"`
	Cached        bool            `json:"cached"`
}

// analysisPayload is the shape we try to recover from model output.  Every
// field is optional; absent sections fall back to canned content.
type analysisPayload struct {
	HunterRadar   *RadarScores     `json:"hunterRadar"`
	Acquisition   *AcquisitionPlan `json:"acquisition"`
	ColdEmail     *ColdEmail       `json:"coldEmail"`
	OwnerIntel    *OwnerIntel      `json:"ownerIntel"`
	Risks         []string         `json:"risks"`
	Opportunities []string         `json:"opportunities"`
}

// AnalysisService produces acquisition intelligence reports.  Results are
// cached for a day keyed on the asset identity so repeated lookups stay
// deterministic and cheap.
type AnalysisService struct {
	generator TextGenerator
	cache     cache.Cache
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewAnalysisService wires the service.  generator may be nil, in which case
// Analyze returns AINotConfigured: unlike verification, deep analysis has no
// meaning without the collaborator.
func NewAnalysisService(generator TextGenerator, c cache.Cache, logger logging.Logger) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		cache:     c,
		logger:    logger.Named("analysis"),
	}
}

// SetMetrics attaches cache instrumentation.  m may be nil.
func (s *AnalysisService) SetMetrics(m *prometheus.AppMetrics) {
	s.metrics = m
}

// Analyze runs the deep acquisition analysis for a single enriched asset.
func (s *AnalysisService) Analyze(ctx context.Context, a asset.EnrichedAsset) (*IntelligenceReport, error) {
	if s.generator == nil {
		return nil, errors.New(errors.ErrCodeAINotConfigured, "analysis requires a configured generative collaborator")
	}

	key := analysisCacheKey(a)
	var cached IntelligenceReport
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheAccess("analysis", true)
		s.logger.Debug("analysis cache hit", logging.String("asset_id", a.ID))
		cached.Cached = true
		return &cached, nil
	}
	s.metrics.RecordCacheAccess("analysis", false)

	mrrLow, mrrMid, mrrHigh := mrrRange(a)
	prompt := BuildAnalysisPrompt(a, mrrLow, mrrHigh)

	report := s.defaultReport(a, mrrLow, mrrMid, mrrHigh)

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		// Deep analysis degrades like verification does: the canned
		// report ships instead of the error.
		s.logger.Warn("analysis generation failed, serving defaults",
			logging.String("asset_id", a.ID), logging.Err(err))
		return report, nil
	}

	payload, ok := parseAnalysisPayload(text)
	if !ok {
		s.logger.Warn("analysis payload unparsable, serving defaults",
			logging.String("asset_id", a.ID))
		return report, nil
	}

	s.merge(report, payload)

	if err := s.cache.Set(ctx, key, report, analysisCacheTTL); err != nil {
		s.logger.Warn("analysis cache write failed", logging.Err(err))
	}
	return report, nil
}

func parseAnalysisPayload(text string) (*analysisPayload, bool) {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return nil, false
	}
	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

func (s *AnalysisService) merge(report *IntelligenceReport, payload *analysisPayload) {
	if payload.HunterRadar != nil {
		report.HunterRadar = RadarScores{
			Distress:        clampScore(payload.HunterRadar.Distress),
			MonetizationGap: clampScore(payload.HunterRadar.MonetizationGap),
			TechnicalRisk:   clampScore(payload.HunterRadar.TechnicalRisk),
			MarketPosition:  clampScore(payload.HunterRadar.MarketPosition),
			FlipPotential:   clampScore(payload.HunterRadar.FlipPotential),
		}
	}
	report.OverallScore = overallScore(report.HunterRadar)
	if payload.Acquisition != nil {
		report.Acquisition = *payload.Acquisition
	}
	if payload.ColdEmail != nil {
		report.ColdEmail = *payload.ColdEmail
	}
	if payload.OwnerIntel != nil {
		report.OwnerIntel = *payload.OwnerIntel
	}
	if len(payload.Risks) > 0 {
		report.Risks = payload.Risks
	}
	if len(payload.Opportunities) > 0 {
		report.Opportunities = payload.Opportunities
	}
}

// mrrRange anchors the potential band on the asset's own MRR estimate: half
// of it at the low end, double at the high end.
func mrrRange(a asset.EnrichedAsset) (low, mid, high float64) {
	mid = a.EstimatedMRR
	if mid <= 0 {
		mid = float64(a.Users) * a.Marketplace.BaseRate()
	}
	mid = math.Round(mid*100) / 100
	return math.Round(mid*0.5*100) / 100, mid, math.Round(mid*2*100) / 100
}

// overallScore folds the radar into a 0-100 composite.  TechnicalRisk is
// inverted: lower risk raises the composite.
func overallScore(r RadarScores) int {
	sum := r.Distress + r.MonetizationGap + (10 - r.TechnicalRisk) + r.MarketPosition + r.FlipPotential
	return int(math.Round(float64(sum) / 5.0 * 10.0))
}

func clampScore(v int) int {
	if v < 1 {
		return defaultRadarScore
	}
	if v > 10 {
		return 10
	}
	return v
}

func (s *AnalysisService) defaultReport(a asset.EnrichedAsset, mrrLow, mrrMid, mrrHigh float64) *IntelligenceReport {
	radar := RadarScores{
		Distress:        defaultRadarScore,
		MonetizationGap: defaultRadarScore,
		TechnicalRisk:   defaultRadarScore,
		MarketPosition:  defaultRadarScore,
		FlipPotential:   defaultRadarScore,
	}
	annualLow := mrrLow * 12
	annualHigh := mrrHigh * 12
	return &IntelligenceReport{
		AssetID:      a.ID,
		HunterRadar:  radar,
		OverallScore: overallScore(radar),
		MRRPotential: MRRPotential{Low: mrrLow, Mid: mrrMid, High: mrrHigh},
		Valuation: ValuationRange{
			Low:      math.Round(annualLow * 3),
			High:     math.Round(annualHigh * 5),
			Multiple: "3-5x ARR",
		},
		Acquisition: AcquisitionPlan{
			Strategy:     "Position as a strategic acquisition opportunity with a clear value creation path.",
			Approach:     "Direct professional outreach to the developer with acquisition interest.",
			OpeningOffer: fmt.Sprintf("$%.0f - $%.0f", annualLow*2, annualLow*3),
			WalkAway:     fmt.Sprintf("$%.0f", annualHigh*4),
		},
		ColdEmail: ColdEmail{
			Subject: "Question about your project",
			Body:    "I'm interested in your project and would like to discuss a potential acquisition. Would you be open to a brief conversation?",
		},
		OwnerIntel: OwnerIntel{
			LikelyMotivation: "Side project fatigue, opportunity cost",
			BestTimeToReach:  "Weekday mornings",
			NegotiationLeverage: []string{
				"Limited time for maintenance",
				"Platform changes ahead",
				"Growth opportunity they can't pursue",
			},
		},
		Risks:         []string{"Platform dependency", "Technical debt", "User churn post-acquisition"},
		Opportunities: []string{"Premium tier", "Enterprise features", "Cross-platform expansion"},
	}
}

func analysisCacheKey(a asset.EnrichedAsset) string {
	name := strings.ToLower(strings.TrimSpace(a.Name))
	name = strings.ReplaceAll(name, " ", "-")
	if len(name) > 50 {
		name = name[:50]
	}
	return fmt.Sprintf("%s%s:%s:%d:%s", analysisCacheKeyPrefix, a.Marketplace, a.ID, a.Users, name)
}
