package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
)

type stubGenerator struct {
	text    string
	err     error
	lastCtx context.Context
	prompt  string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.lastCtx = ctx
	g.prompt = prompt
	return g.text, g.err
}

func rawListing() asset.RawSearchResult {
	return asset.RawSearchResult{
		Title:       "Tab Sorter - Chrome Web Store",
		URL:         "https://chromewebstore.google.com/detail/tab-sorter/abcdefghijabcdefghijabcdefghijkl",
		Snippet:     "50,000 users. Last updated 2019. Manifest V2.",
		Marketplace: asset.MarketplaceChrome,
	}
}

func TestVerify_ParsesCollaboratorVerdict(t *testing.T) {
	gen := &stubGenerator{text: `{
		"is_valid_asset": true,
		"distress_signals": ["no_updates", "manifest_v2", "not_a_real_signal"],
		"estimated_users": 48000,
		"estimated_rating": 4.2,
		"verification_notes": "Abandoned since 2019.",
		"owner_likely_selling": true
	}`}

	out := NewOrchestrator(gen, logging.NewNopLogger()).Verify(context.Background(), rawListing())

	assert.True(t, out.Verified)
	assert.Equal(t, 48000, out.EstimatedUsers)
	assert.InDelta(t, 4.2, out.EstimatedRating, 0.001)
	assert.Equal(t, "Abandoned since 2019.", out.Notes)
	assert.True(t, out.OwnerLikelySelling)
	assert.False(t, out.Fallback)
	// legacy alias maps, unknown token dropped
	assert.Equal(t, []asset.DistressSignal{asset.SignalNoUpdates, asset.SignalDeprecatedPlatform}, out.Signals)
}

func TestVerify_TolerantOfFencedReply(t *testing.T) {
	gen := &stubGenerator{text: "Sure, here is my assessment:\n```json\n{\"is_valid_asset\": false, \"estimated_users\": 200}\n```"}

	out := NewOrchestrator(gen, logging.NewNopLogger()).Verify(context.Background(), rawListing())
	assert.False(t, out.Verified)
	assert.Equal(t, 200, out.EstimatedUsers)
	assert.InDelta(t, DefaultEstimatedRating, out.EstimatedRating, 0.001)
}

func TestVerify_CallFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}

	out := NewOrchestrator(gen, logging.NewNopLogger()).Verify(context.Background(), rawListing())

	assert.True(t, out.Verified)
	assert.Equal(t, DefaultEstimatedUsers, out.EstimatedUsers)
	assert.InDelta(t, DefaultEstimatedRating, out.EstimatedRating, 0.001)
	assert.Empty(t, out.Signals)
	assert.Contains(t, out.Notes, "Verification failed")
	assert.True(t, out.Fallback)
}

func TestVerify_UnparsableReplyFallsBack(t *testing.T) {
	for _, text := range []string{"no json at all", `{"is_valid_asset": tru`} {
		gen := &stubGenerator{text: text}
		out := NewOrchestrator(gen, logging.NewNopLogger()).Verify(context.Background(), rawListing())
		assert.True(t, out.Verified, "input %q", text)
		assert.Equal(t, DefaultEstimatedUsers, out.EstimatedUsers)
		assert.Equal(t, "Unable to parse AI response", out.Notes)
	}
}

func TestVerify_NilGeneratorSkipsCall(t *testing.T) {
	o := NewOrchestrator(nil, logging.NewNopLogger())
	assert.False(t, o.Configured())

	out := o.Verify(context.Background(), rawListing())
	assert.True(t, out.Verified)
	assert.Equal(t, DefaultEstimatedUsers, out.EstimatedUsers)
}

func TestVerify_AppliesCallTimeout(t *testing.T) {
	gen := &stubGenerator{text: `{"is_valid_asset": true}`}
	NewOrchestrator(gen, logging.NewNopLogger()).Verify(context.Background(), rawListing())

	require.NotNil(t, gen.lastCtx)
	deadline, ok := gen.lastCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(defaultVerifyTimeout), deadline, 2*time.Second)
}

func TestVerify_RejectsOutOfRangeEstimates(t *testing.T) {
	gen := &stubGenerator{text: `{"is_valid_asset": true, "estimated_users": -5, "estimated_rating": 9.5}`}

	out := NewOrchestrator(gen, logging.NewNopLogger()).Verify(context.Background(), rawListing())
	assert.Equal(t, DefaultEstimatedUsers, out.EstimatedUsers)
	assert.InDelta(t, DefaultEstimatedRating, out.EstimatedRating, 0.001)
}

func TestEnrich_ScoresAndPrices(t *testing.T) {
	o := NewOrchestrator(nil, logging.NewNopLogger())
	o.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	out := Outcome{
		Verified:        true,
		Signals:         []asset.DistressSignal{asset.SignalNoUpdates, asset.SignalDeprecatedPlatform},
		EstimatedUsers:  50000,
		EstimatedRating: 4.0,
		Notes:           "stale listing",
	}
	enriched := o.Enrich(rawListing(), out)

	assert.Equal(t, asset.AssetID(rawListing().URL), enriched.ID)
	assert.Equal(t, "Tab Sorter - Chrome Web Store", enriched.Name)
	assert.Equal(t, 7, enriched.DistressScore)
	// 50000 users × 0.02 at neutral rating
	assert.InDelta(t, 1000.0, enriched.EstimatedMRR, 0.001)
	// score 7 lands in the ≥6 band
	assert.InDelta(t, 30000.0, enriched.EstimatedValuation, 0.001)
	assert.True(t, enriched.Verified)
	assert.Equal(t, "stale listing", enriched.VerificationNotes)
	assert.Equal(t, 2026, enriched.ScrapedAt.Year())
}

func TestEnrich_EmptyTitleBecomesUnknown(t *testing.T) {
	o := NewOrchestrator(nil, logging.NewNopLogger())
	raw := rawListing()
	raw.Title = ""

	enriched := o.Enrich(raw, o.fallback("verifier not configured"))
	assert.Equal(t, "Unknown Asset", enriched.Name)
}
