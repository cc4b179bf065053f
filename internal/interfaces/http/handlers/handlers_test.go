package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/scanning"
	"github.com/turtacn/AssetHunter-Intelligence/internal/application/verification"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSearcher struct {
	results map[asset.Marketplace][]asset.RawSearchResult
}

func (s *stubSearcher) Search(ctx context.Context, query string, mp asset.Marketplace, maxResults int) []asset.RawSearchResult {
	return s.results[mp]
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

func doJSON(t *testing.T, handler gin.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	engine := gin.New()
	engine.Handle(method, path, handler)

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- /scan ---

func newScanHandler(searcher *stubSearcher, gen hunterai.TextGenerator) *ScanHandler {
	orch := verification.NewOrchestrator(gen, logging.NewNopLogger())

	// a typed nil would read as a configured searcher
	var svc *scanning.ScanService
	if searcher != nil {
		svc = scanning.NewScanService(searcher, orch, nil, logging.NewNopLogger())
	} else {
		svc = scanning.NewScanService(nil, orch, nil, logging.NewNopLogger())
	}
	return NewScanHandler(svc, logging.NewNopLogger())
}

func TestScanHandler_SearchNotConfigured(t *testing.T) {
	rec := doJSON(t, newScanHandler(nil, nil).Scan, http.MethodPost, "/scan",
		ScanRequest{Query: "tabs"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "SRC_001", body.Code)
}

func TestScanHandler_OK(t *testing.T) {
	searcher := &stubSearcher{results: map[asset.Marketplace][]asset.RawSearchResult{
		asset.MarketplaceChrome: {{
			Title:       "Tab Sorter - Chrome Web Store",
			URL:         "https://chromewebstore.google.com/detail/tab-sorter/abcdefghijabcdefghijabcdefghijkl",
			Snippet:     "50,000 users. 4.5/5 rating.",
			Marketplace: asset.MarketplaceChrome,
		}},
	}}

	rec := doJSON(t, newScanHandler(searcher, nil).Scan, http.MethodPost, "/scan",
		ScanRequest{Query: "tabs", Marketplaces: []string{"chrome"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[ScanResponse](t, rec)
	assert.Equal(t, 1, body.TotalFound)
	assert.Equal(t, 1, body.MarketplacesScanned)
	require.Len(t, body.Assets, 1)
	assert.Equal(t, 50000, body.Assets[0].Users)
	assert.GreaterOrEqual(t, body.ScanDurationMS, int64(0))
}

func TestScanHandler_DropsUnknownMarketplaceTokens(t *testing.T) {
	searcher := &stubSearcher{results: map[asset.Marketplace][]asset.RawSearchResult{}}
	rec := doJSON(t, newScanHandler(searcher, nil).Scan, http.MethodPost, "/scan",
		ScanRequest{Query: "tabs", Marketplaces: []string{"chrome", "myspace"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[ScanResponse](t, rec)
	assert.Equal(t, 1, body.MarketplacesScanned)
}

func TestScanHandler_EmptyResultIsArray(t *testing.T) {
	searcher := &stubSearcher{results: map[asset.Marketplace][]asset.RawSearchResult{}}
	rec := doJSON(t, newScanHandler(searcher, nil).Scan, http.MethodPost, "/scan",
		ScanRequest{Query: "tabs", Marketplaces: []string{"chrome"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"assets":[]`)
}

func TestScanHandler_MalformedBody(t *testing.T) {
	engine := gin.New()
	engine.POST("/scan", newScanHandler(nil, nil).Scan)
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- /verify ---

func TestVerifyHandler_NotConfigured(t *testing.T) {
	h := NewVerifyHandler(verification.NewOrchestrator(nil, logging.NewNopLogger()), logging.NewNopLogger())
	rec := doJSON(t, h.Verify, http.MethodPost, "/verify",
		VerifyRequest{AssetURL: "https://apps.shopify.com/sales-tracker", Marketplace: "shopify"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "AI_001", body.Code)
}

func TestVerifyHandler_OK(t *testing.T) {
	gen := &stubGenerator{text: `{"is_valid_asset": true, "distress_signals": ["no_updates", "manifest_v2"], "estimated_users": 10000, "estimated_rating": 4.0, "verification_notes": "stale"}`}
	h := NewVerifyHandler(verification.NewOrchestrator(gen, logging.NewNopLogger()), logging.NewNopLogger())

	rec := doJSON(t, h.Verify, http.MethodPost, "/verify",
		VerifyRequest{AssetID: "abc123", AssetURL: "https://chromewebstore.google.com/detail/x/abcdefghijabcdefghijabcdefghijkl", Marketplace: "chrome"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[VerifyResponse](t, rec)
	assert.Equal(t, "abc123", body.AssetID)
	assert.True(t, body.Verified)
	assert.Equal(t, 7, body.DistressScore)
	// 10000 × 0.02 at neutral rating, score 7 → multiple 30
	assert.InDelta(t, 200.0, body.EstimatedMRR, 0.001)
	assert.InDelta(t, 6000.0, body.EstimatedValuation, 0.001)
}

func TestVerifyHandler_DerivesAssetID(t *testing.T) {
	gen := &stubGenerator{text: `{"is_valid_asset": true}`}
	h := NewVerifyHandler(verification.NewOrchestrator(gen, logging.NewNopLogger()), logging.NewNopLogger())

	url := "https://apps.shopify.com/sales-tracker"
	rec := doJSON(t, h.Verify, http.MethodPost, "/verify",
		VerifyRequest{AssetURL: url, Marketplace: "shopify"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[VerifyResponse](t, rec)
	assert.Equal(t, asset.AssetID(url), body.AssetID)
}

func TestVerifyHandler_UnknownMarketplaceStillScores(t *testing.T) {
	gen := &stubGenerator{text: `{"is_valid_asset": true, "estimated_users": 1000, "estimated_rating": 4.0}`}
	h := NewVerifyHandler(verification.NewOrchestrator(gen, logging.NewNopLogger()), logging.NewNopLogger())

	rec := doJSON(t, h.Verify, http.MethodPost, "/verify",
		VerifyRequest{AssetURL: "https://example.com/listing", Marketplace: "geocities"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[VerifyResponse](t, rec)
	// fallback base rate 0.05
	assert.InDelta(t, 50.0, body.EstimatedMRR, 0.001)
}

func TestVerifyHandler_MissingURL(t *testing.T) {
	gen := &stubGenerator{text: `{}`}
	h := NewVerifyHandler(verification.NewOrchestrator(gen, logging.NewNopLogger()), logging.NewNopLogger())

	rec := doJSON(t, h.Verify, http.MethodPost, "/verify", VerifyRequest{Marketplace: "chrome"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- /analyze ---

func TestAnalyzeHandler_NotConfigured(t *testing.T) {
	svc := hunterai.NewAnalysisService(nil, cache.NewMemoryCache(), logging.NewNopLogger())
	h := NewAnalyzeHandler(svc, logging.NewNopLogger())

	rec := doJSON(t, h.Analyze, http.MethodPost, "/analyze",
		asset.EnrichedAsset{Name: "Tab Sorter", URL: "https://example.com", Marketplace: asset.MarketplaceChrome})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "AI_001", body.Code)
}

func TestAnalyzeHandler_OK(t *testing.T) {
	gen := &stubGenerator{text: `{"hunterRadar": {"distress": 8, "monetizationGap": 7, "technicalRisk": 4, "marketPosition": 5, "flipPotential": 7}}`}
	svc := hunterai.NewAnalysisService(gen, cache.NewMemoryCache(), logging.NewNopLogger())
	h := NewAnalyzeHandler(svc, logging.NewNopLogger())

	rec := doJSON(t, h.Analyze, http.MethodPost, "/analyze", asset.EnrichedAsset{
		Name:         "Tab Sorter",
		URL:          "https://chromewebstore.google.com/detail/x/abcdefghijabcdefghijabcdefghijkl",
		Marketplace:  asset.MarketplaceChrome,
		Users:        50000,
		EstimatedMRR: 1000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[hunterai.IntelligenceReport](t, rec)
	assert.Equal(t, 8, body.HunterRadar.Distress)
	assert.NotEmpty(t, body.AssetID)
	assert.InDelta(t, 1000.0, body.MRRPotential.Mid, 0.001)
}

// --- /marketplaces ---

func TestMarketplaceHandler_List(t *testing.T) {
	rec := doJSON(t, NewMarketplaceHandler().List, http.MethodGet, "/marketplaces", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[MarketplacesResponse](t, rec)
	assert.Equal(t, 14, body.Total)
	assert.Len(t, body.Marketplaces, 14)
	assert.Contains(t, body.Marketplaces, asset.MarketplaceChrome)
	assert.Contains(t, body.Marketplaces, asset.MarketplaceVSCode)
}

// --- /health ---

func TestHealthHandler_ReportsAvailability(t *testing.T) {
	h := NewHealthHandler(true, false, cache.NewMemoryCache(), nil)
	rec := doJSON(t, h.Health, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.True(t, body.SearchAvailable)
	assert.False(t, body.AIAvailable)
	assert.True(t, body.CacheHealthy)
}
