package asset

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// assetIDLength is the number of hex characters kept from the URL hash.
const assetIDLength = 12

// RawSearchResult is one record returned by the search collaborator.
// Transient; never persisted.
type RawSearchResult struct {
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Snippet     string      `json:"snippet"`
	Marketplace Marketplace `json:"marketplace"`
}

// CandidateAsset is a normalized, not-yet-scored listing extracted from a
// RawSearchResult.  Derived purely from the raw record; absent fields default
// to zero values.
type CandidateAsset struct {
	ExternalID    string      `json:"external_id,omitempty"`
	Name          string      `json:"name"`
	URL           string      `json:"url"`
	Description   string      `json:"description"`
	Users         int         `json:"users"`
	Rating        float64     `json:"rating,omitempty"`
	ReviewsCount  int         `json:"reviews_count"`
	PricePerMonth float64     `json:"price_per_month,omitempty"`
	Marketplace   Marketplace `json:"marketplace"`
}

// EnrichedAsset is the final output entity: a candidate asset plus computed
// distress score, revenue estimate, and valuation.  Constructed once per scan
// result, immutable thereafter, never persisted across process restarts.
type EnrichedAsset struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	URL                string           `json:"url"`
	Marketplace        Marketplace      `json:"marketplace"`
	Users              int              `json:"users"`
	Rating             float64          `json:"rating,omitempty"`
	ReviewsCount       int              `json:"reviews_count"`
	PricePerMonth      float64          `json:"price_per_month,omitempty"`
	DistressSignals    []DistressSignal `json:"distress_signals"`
	DistressScore      int              `json:"distress_score"`
	EstimatedMRR       float64          `json:"estimated_mrr"`
	EstimatedValuation float64          `json:"estimated_valuation"`
	Verified           bool             `json:"verified"`
	VerificationNotes  string           `json:"verification_notes,omitempty"`
	ScrapedAt          time.Time        `json:"scraped_at"`
}

// AssetID derives the stable asset identity from the listing URL: the first
// assetIDLength hex characters of md5(url).  Deterministic in the URL only,
// so repeated scans of the same listing never create duplicate identities.
func AssetID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:assetIDLength]
}
