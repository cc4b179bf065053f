// Package serp wraps the SerpAPI web-search service used to discover
// marketplace listings.  Searches are scoped to a marketplace site, filtered
// against the marketplace URL pattern, and cached so repeated sweeps inside
// the TTL window never hit the upstream service.
package serp

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

const (
	defaultBaseURL    = "https://serpapi.com/search.json"
	defaultMaxResults = 20
	defaultTimeout    = 30 * time.Second

	searchCacheTTL       = 6 * time.Hour
	searchCacheKeyPrefix = "search:serp:"
)

// Searcher finds marketplace listings for a query.  A failed upstream call
// yields an empty slice, never an error: one dead marketplace must not sink
// a multi-marketplace sweep.
type Searcher interface {
	Search(ctx context.Context, query string, marketplace asset.Marketplace, maxResults int) []asset.RawSearchResult
}

// Config carries SerpAPI connection settings.
type Config struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Engine  string        `mapstructure:"engine"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether an API key is present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Client is the SerpAPI-backed Searcher.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      cache.Cache
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
}

// NewClient builds a Client with endpoint defaults filled in.  Returns an
// error when no API key is configured.
func NewClient(cfg Config, c cache.Cache, logger logging.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, errors.New(errors.ErrCodeSearchNotConfigured, "search API key is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      c,
		logger:     logger.Named("serp"),
	}, nil
}

// SetMetrics attaches cache instrumentation.  m may be nil.
func (c *Client) SetMetrics(m *prometheus.AppMetrics) {
	c.metrics = m
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
}

// Search runs one site-scoped query against SerpAPI and returns the listings
// whose URLs match the marketplace pattern.  Results are cached per
// (query, marketplace) pair.
func (c *Client) Search(ctx context.Context, query string, marketplace asset.Marketplace, maxResults int) []asset.RawSearchResult {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	key := searchCacheKey(query, marketplace)
	var cached []asset.RawSearchResult
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		c.metrics.RecordCacheAccess("search", true)
		c.logger.Debug("search cache hit",
			logging.String("marketplace", marketplace.String()),
			logging.String("query", query),
		)
		return cached
	}
	c.metrics.RecordCacheAccess("search", false)

	results, err := c.fetch(ctx, query, marketplace, maxResults)
	if err != nil {
		c.logger.Warn("marketplace search failed",
			logging.String("marketplace", marketplace.String()),
			logging.String("query", query),
			logging.Err(err),
		)
		return nil
	}

	if err := c.cache.Set(ctx, key, results, searchCacheTTL); err != nil {
		c.logger.Warn("search cache write failed", logging.Err(err))
	}

	c.logger.Info("marketplace search completed",
		logging.String("marketplace", marketplace.String()),
		logging.Int("results", len(results)),
	)
	return results
}

func (c *Client) fetch(ctx context.Context, query string, marketplace asset.Marketplace, maxResults int) ([]asset.RawSearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchUnavailable, "build search request")
	}

	params := url.Values{}
	params.Set("q", BuildQuery(query, marketplace))
	params.Set("api_key", c.cfg.APIKey)
	params.Set("engine", c.cfg.Engine)
	params.Set("num", strconv.Itoa(maxResults))
	req.URL.RawQuery = params.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchUnavailable, "call search endpoint")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchUnavailable, "read search response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeSearchUnavailable, "search endpoint returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchParseError, "decode search response")
	}
	if parsed.Error != "" {
		return nil, errors.Newf(errors.ErrCodeSearchUnavailable, "search endpoint error: %s", parsed.Error)
	}

	results := make([]asset.RawSearchResult, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		if !marketplace.IsListingURL(r.Link) {
			continue
		}
		title := r.Title
		if title == "" {
			title = "Unknown"
		}
		results = append(results, asset.RawSearchResult{
			Title:       title,
			URL:         r.Link,
			Snippet:     r.Snippet,
			Marketplace: marketplace,
		})
	}
	return results, nil
}

// BuildQuery scopes the free-text query to the marketplace site and appends
// the marketplace's disambiguation hint.
func BuildQuery(query string, marketplace asset.Marketplace) string {
	var sb strings.Builder
	sb.WriteString("site:")
	sb.WriteString(marketplace.SearchSite())
	if q := strings.TrimSpace(query); q != "" {
		sb.WriteString(" ")
		sb.WriteString(q)
	}
	if hint := marketplace.QueryHint(); hint != "" {
		sb.WriteString(" ")
		sb.WriteString(hint)
	}
	return sb.String()
}

func searchCacheKey(query string, marketplace asset.Marketplace) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s", query, marketplace)))
	return searchCacheKeyPrefix + hex.EncodeToString(sum[:])
}
