// Package verification asks the generative collaborator whether a discovered
// listing is a real, acquirable asset.  The collaborator is advisory only:
// every failure mode (absent key, timeout, malformed reply) degrades to a
// conservative default verdict, never to an error for the caller.
package verification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/valuation"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
)

const (
	defaultVerifyTimeout = 30 * time.Second

	// Conservative stand-ins used whenever the collaborator cannot be
	// consulted or its reply cannot be parsed.
	DefaultEstimatedUsers  = 5000
	DefaultEstimatedRating = 4.0
)

// Outcome is the verification verdict for one listing.  Fallback marks
// verdicts the collaborator never actually produced.
type Outcome struct {
	Verified           bool
	Signals            []asset.DistressSignal
	EstimatedUsers     int
	EstimatedRating    float64
	Notes              string
	OwnerLikelySelling bool
	Fallback           bool
}

// verifyPayload is the shape we try to recover from collaborator output.
// Pointer fields distinguish "absent" from zero values.
type verifyPayload struct {
	IsValidAsset       *bool    `json:"is_valid_asset"`
	DistressSignals    []string `json:"distress_signals"`
	EstimatedUsers     *int     `json:"estimated_users"`
	EstimatedRating    *float64 `json:"estimated_rating"`
	VerificationNotes  string   `json:"verification_notes"`
	OwnerLikelySelling bool     `json:"owner_likely_selling"`
}

// Orchestrator drives the verify call and its fallback path.
type Orchestrator struct {
	generator hunterai.TextGenerator
	timeout   time.Duration
	logger    logging.Logger
	now       func() time.Time
}

// NewOrchestrator wires the orchestrator.  generator may be nil; Configured
// then reports false and Verify returns defaults without a network call.
func NewOrchestrator(generator hunterai.TextGenerator, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		timeout:   defaultVerifyTimeout,
		logger:    logger.Named("verification"),
		now:       time.Now,
	}
}

// Configured reports whether a generative collaborator is wired in.
func (o *Orchestrator) Configured() bool {
	return o.generator != nil
}

// Verify runs the verification call for one listing.  It always returns a
// usable Outcome: collaborator failures surface only in the Notes field.
func (o *Orchestrator) Verify(ctx context.Context, raw asset.RawSearchResult) Outcome {
	if o.generator == nil {
		return o.fallback("verifier not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	text, err := o.generator.GenerateText(callCtx, hunterai.BuildVerificationPrompt(raw))
	if err != nil {
		o.logger.Warn("verification call failed, using defaults",
			logging.String("url", raw.URL), logging.Err(err))
		return o.fallback("Verification failed: " + err.Error())
	}

	span, ok := hunterai.ExtractJSONObject(text)
	if !ok {
		o.logger.Warn("verification reply had no JSON object", logging.String("url", raw.URL))
		return o.fallback("Unable to parse AI response")
	}

	var payload verifyPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		o.logger.Warn("verification reply unparsable",
			logging.String("url", raw.URL), logging.Err(err))
		return o.fallback("Unable to parse AI response")
	}

	return outcomeFromPayload(payload)
}

func outcomeFromPayload(p verifyPayload) Outcome {
	out := Outcome{
		Verified:           false,
		EstimatedUsers:     DefaultEstimatedUsers,
		EstimatedRating:    DefaultEstimatedRating,
		Notes:              p.VerificationNotes,
		OwnerLikelySelling: p.OwnerLikelySelling,
	}
	if p.IsValidAsset != nil {
		out.Verified = *p.IsValidAsset
	}
	if p.EstimatedUsers != nil && *p.EstimatedUsers >= 0 {
		out.EstimatedUsers = *p.EstimatedUsers
	}
	if p.EstimatedRating != nil && *p.EstimatedRating >= 0 && *p.EstimatedRating <= 5 {
		out.EstimatedRating = *p.EstimatedRating
	}
	// Unknown signal tokens from the collaborator are dropped, not scored.
	for _, token := range p.DistressSignals {
		if s, ok := asset.ParseSignal(token); ok {
			out.Signals = append(out.Signals, s)
		}
	}
	return out
}

func (o *Orchestrator) fallback(notes string) Outcome {
	return Outcome{
		Verified:        true,
		EstimatedUsers:  DefaultEstimatedUsers,
		EstimatedRating: DefaultEstimatedRating,
		Notes:           notes,
		Fallback:        true,
	}
}

// Enrich folds a verification outcome back over the raw listing: score the
// signals, estimate revenue, price the asset.
func (o *Orchestrator) Enrich(raw asset.RawSearchResult, out Outcome) asset.EnrichedAsset {
	score := asset.Score(out.Signals)
	mrr := valuation.EstimateMRR(raw.Marketplace, out.EstimatedUsers, out.EstimatedRating)
	name := raw.Title
	if name == "" {
		name = "Unknown Asset"
	}
	return asset.EnrichedAsset{
		ID:                 asset.AssetID(raw.URL),
		Name:               name,
		Description:        raw.Snippet,
		URL:                raw.URL,
		Marketplace:        raw.Marketplace,
		Users:              out.EstimatedUsers,
		Rating:             out.EstimatedRating,
		DistressSignals:    out.Signals,
		DistressScore:      score,
		EstimatedMRR:       mrr,
		EstimatedValuation: valuation.Valuation(mrr, score),
		Verified:           out.Verified,
		VerificationNotes:  out.Notes,
		ScrapedAt:          o.now().UTC(),
	}
}
