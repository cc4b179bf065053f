package serp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, cache.NewMemoryCache(), logging.NewNopLogger())
	require.NoError(t, err)
	return client
}

func organicPayload(results ...map[string]string) map[string]any {
	organic := make([]map[string]string, 0, len(results))
	organic = append(organic, results...)
	return map[string]any{"organic_results": organic}
}

func TestSearch_FiltersToListingURLs(t *testing.T) {
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(organicPayload(
			map[string]string{
				"title":   "Tab Sorter - Chrome Web Store",
				"link":    "https://chromewebstore.google.com/detail/tab-sorter/abcdefghijabcdefghijabcdefghijkl",
				"snippet": "50,000 users. Last updated 2019.",
			},
			map[string]string{
				"title":   "Best extensions roundup",
				"link":    "https://blog.example.com/best-extensions",
				"snippet": "A blog post, not a listing.",
			},
		))
	})

	results := client.Search(context.Background(), "tab manager", asset.MarketplaceChrome, 20)
	require.Len(t, results, 1)
	assert.Equal(t, "Tab Sorter - Chrome Web Store", results[0].Title)
	assert.Equal(t, asset.MarketplaceChrome, results[0].Marketplace)
}

func TestSearch_SendsScopedQuery(t *testing.T) {
	var gotQuery, gotNum, gotEngine string
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotNum = r.URL.Query().Get("num")
		gotEngine = r.URL.Query().Get("engine")
		json.NewEncoder(w).Encode(organicPayload())
	})

	client.Search(context.Background(), "tab manager", asset.MarketplaceChrome, 10)
	assert.Equal(t, "site:chromewebstore.google.com tab manager extension OR addon", gotQuery)
	assert.Equal(t, "10", gotNum)
	assert.Equal(t, "google", gotEngine)
}

func TestSearch_CachesWithinTTL(t *testing.T) {
	calls := 0
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(organicPayload(map[string]string{
			"title":   "Sales Tracker - Shopify App Store",
			"link":    "https://apps.shopify.com/sales-tracker",
			"snippet": "120 reviews. 4.1 out of 5.",
		}))
	})

	first := client.Search(context.Background(), "inventory", asset.MarketplaceShopify, 20)
	second := client.Search(context.Background(), "inventory", asset.MarketplaceShopify, 20)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestSearch_DistinctQueriesAreNotShared(t *testing.T) {
	calls := 0
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(organicPayload())
	})

	client.Search(context.Background(), "inventory", asset.MarketplaceShopify, 20)
	client.Search(context.Background(), "inventory", asset.MarketplaceChrome, 20)
	client.Search(context.Background(), "crm", asset.MarketplaceShopify, 20)
	assert.Equal(t, 3, calls)
}

func TestSearch_UpstreamFailureReturnsEmpty(t *testing.T) {
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	results := client.Search(context.Background(), "anything", asset.MarketplaceChrome, 20)
	assert.Empty(t, results)
}

func TestSearch_APIErrorFieldReturnsEmpty(t *testing.T) {
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "Your account has run out of searches."})
	})

	results := client.Search(context.Background(), "anything", asset.MarketplaceChrome, 20)
	assert.Empty(t, results)
}

func TestSearch_FailuresAreNotCached(t *testing.T) {
	calls := 0
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(organicPayload(map[string]string{
			"title":   "Tab Sorter - Chrome Web Store",
			"link":    "https://chromewebstore.google.com/detail/tab-sorter/abcdefghijabcdefghijabcdefghijkl",
			"snippet": "50,000 users",
		}))
	})

	assert.Empty(t, client.Search(context.Background(), "q", asset.MarketplaceChrome, 20))
	assert.Len(t, client.Search(context.Background(), "q", asset.MarketplaceChrome, 20), 1)
	assert.Equal(t, 2, calls)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		marketplace asset.Marketplace
		want        string
	}{
		{"chrome hint", "tab manager", asset.MarketplaceChrome, "site:chromewebstore.google.com tab manager extension OR addon"},
		{"shopify hint", "inventory", asset.MarketplaceShopify, "site:apps.shopify.com inventory app"},
		{"no hint", "notes", asset.MarketplaceNotion, "site:notion.so/integrations notes"},
		{"empty query", "", asset.MarketplaceShopify, "site:apps.shopify.com app"},
		{"whitespace query", "   ", asset.MarketplaceVSCode, "site:marketplace.visualstudio.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.query, tt.marketplace))
		})
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, cache.NewMemoryCache(), logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSearchNotConfigured, errors.GetCode(err))
}

func TestSearch_RecordsCacheAccess(t *testing.T) {
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(organicPayload(map[string]string{
			"title":   "Tab Sorter - Chrome Web Store",
			"link":    "https://chromewebstore.google.com/detail/tab-sorter/abcdefghijabcdefghijabcdefghijkl",
			"snippet": "50,000 users.",
		}))
	})

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "hunter"}, logging.NewNopLogger())
	require.NoError(t, err)
	client.SetMetrics(prometheus.NewAppMetrics(collector))

	client.Search(context.Background(), "tab manager", asset.MarketplaceChrome, 20)
	client.Search(context.Background(), "tab manager", asset.MarketplaceChrome, 20)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `hunter_cache_misses_total{cache="search"} 1`)
	assert.Contains(t, body, `hunter_cache_hits_total{cache="search"} 1`)
}

func TestSearch_NilMetricsIsSafe(t *testing.T) {
	client := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(organicPayload())
	})

	require.NotPanics(t, func() {
		client.Search(context.Background(), "q", asset.MarketplaceChrome, 20)
	})
}
