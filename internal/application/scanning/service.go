package scanning

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/valuation"
	"github.com/turtacn/AssetHunter-Intelligence/internal/application/verification"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/search/serp"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

const defaultVerifyWorkers = 4

// ScanRequest describes one marketplace sweep.
type ScanRequest struct {
	Query                    string
	Marketplaces             []asset.Marketplace
	MinUsers                 int
	MaxResultsPerMarketplace int
}

// ScanResult is the sweep outcome.
type ScanResult struct {
	Assets              []asset.EnrichedAsset
	TotalFound          int
	MarketplacesScanned int
	ScanDurationMS      int64
}

// ScanService drives the full pipeline: search fan-out, per-listing
// enrichment (verified when the collaborator is configured, extraction-based
// otherwise), and the min-users filter.
type ScanService struct {
	searcher serp.Searcher
	verifier *verification.Orchestrator
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
	workers  int
	now      func() time.Time
}

// NewScanService wires the pipeline.  searcher may be nil when the search
// collaborator is unconfigured; Scan then fails with SearchNotConfigured.
// metrics may be nil.
func NewScanService(searcher serp.Searcher, verifier *verification.Orchestrator, metrics *prometheus.AppMetrics, logger logging.Logger) *ScanService {
	return &ScanService{
		searcher: searcher,
		verifier: verifier,
		logger:   logger.Named("scan"),
		metrics:  metrics,
		workers:  defaultVerifyWorkers,
		now:      time.Now,
	}
}

// SetWorkers overrides the enrichment pool size.  Values below 1 are ignored.
func (s *ScanService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// SearchConfigured reports whether the search collaborator is wired in.
func (s *ScanService) SearchConfigured() bool {
	return s.searcher != nil
}

// Scan sweeps the requested marketplaces for the query.  Marketplace search
// runs sequentially (each call is cached for repeat sweeps); enrichment runs
// in a bounded worker pool because each verification is a network round trip.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	if s.searcher == nil {
		return nil, errors.New(errors.ErrCodeSearchNotConfigured, "search collaborator is not configured")
	}

	started := s.now()
	marketplaces := req.Marketplaces
	if len(marketplaces) == 0 {
		marketplaces = asset.AllMarketplaces()
	}

	var raws []asset.RawSearchResult
	for _, mp := range marketplaces {
		searchStart := s.now()
		results := s.searcher.Search(ctx, req.Query, mp, req.MaxResultsPerMarketplace)
		s.metrics.RecordSearch(mp.String(), len(results), s.now().Sub(searchStart))
		raws = append(raws, results...)
	}

	enriched := s.enrichAll(ctx, raws)

	assets := make([]asset.EnrichedAsset, 0, len(enriched))
	for _, a := range enriched {
		if a.Users >= req.MinUsers {
			assets = append(assets, a)
		}
	}

	duration := s.now().Sub(started)
	s.metrics.RecordScan("success", duration, len(assets), len(marketplaces))
	s.logger.Info("scan completed",
		logging.String("query", req.Query),
		logging.Int("marketplaces", len(marketplaces)),
		logging.Int("raw_results", len(raws)),
		logging.Int("assets", len(assets)),
		logging.Duration("elapsed", duration),
	)

	return &ScanResult{
		Assets:              assets,
		TotalFound:          len(assets),
		MarketplacesScanned: len(marketplaces),
		ScanDurationMS:      duration.Milliseconds(),
	}, nil
}

// enrichAll fans the listings over a bounded worker pool, preserving input
// order in the output.
func (s *ScanService) enrichAll(ctx context.Context, raws []asset.RawSearchResult) []asset.EnrichedAsset {
	if len(raws) == 0 {
		return nil
	}

	out := make([]asset.EnrichedAsset, len(raws))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(raws) {
		workers = len(raws)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = s.enrichOne(ctx, raws[i])
			}
		}()
	}
	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

func (s *ScanService) enrichOne(ctx context.Context, raw asset.RawSearchResult) asset.EnrichedAsset {
	if s.verifier != nil && s.verifier.Configured() {
		verifyStart := s.now()
		outcome := s.verifier.Verify(ctx, raw)
		s.metrics.RecordLLMCall("verify", !outcome.Fallback, s.now().Sub(verifyStart))
		return s.verifier.Enrich(raw, outcome)
	}
	return s.enrichLocal(raw)
}

// enrichLocal builds the asset from snippet extraction alone.  Verified stays
// false: nothing vouched for the listing beyond its own search snippet.
func (s *ScanService) enrichLocal(raw asset.RawSearchResult) asset.EnrichedAsset {
	candidate := Extract(raw)
	signals := Detect(raw.Snippet)
	score := asset.Score(signals)
	mrr := valuation.EstimateMRR(raw.Marketplace, candidate.Users, candidate.Rating)

	return asset.EnrichedAsset{
		ID:                 asset.AssetID(raw.URL),
		Name:               candidate.Name,
		Description:        raw.Snippet,
		URL:                raw.URL,
		Marketplace:        raw.Marketplace,
		Users:              candidate.Users,
		Rating:             candidate.Rating,
		ReviewsCount:       candidate.ReviewsCount,
		PricePerMonth:      candidate.PricePerMonth,
		DistressSignals:    signals,
		DistressScore:      score,
		EstimatedMRR:       mrr,
		EstimatedValuation: valuation.Valuation(mrr, score),
		Verified:           false,
		ScrapedAt:          s.now().UTC(),
	}
}
