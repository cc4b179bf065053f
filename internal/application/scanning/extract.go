// Package scanning turns raw search records into normalized candidate assets:
// per-marketplace text extractors, the distress-phrase detector, and the scan
// orchestration service.
package scanning

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

// shopifyInstallsPerReview scales a public review count to an install
// estimate when the listing does not expose installs directly.
const shopifyInstallsPerReview = 10

var (
	chromeIDRe    = regexp.MustCompile(`/detail/[^/]+/([a-z]{32})`)
	shopifySlugRe = regexp.MustCompile(`apps\.shopify\.com/([a-z0-9-]+)`)
	wordpressRe   = regexp.MustCompile(`wordpress\.org/plugins/([a-z0-9-]+)`)

	usersRe    = regexp.MustCompile(`(?i)([\d,]+)\s*\+?\s*users?`)
	reviewsRe  = regexp.MustCompile(`(?i)([\d,]+)\s*\+?\s*reviews?`)
	installsRe = regexp.MustCompile(`(?i)([\d,]+)\s*\+?\s*(?:active installations|active installs|installs?|downloads?)`)
	ratingRe   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:out of 5|/?\s*5\s*(?:stars?|rating)?|stars?)`)
	priceRe    = regexp.MustCompile(`(?i)\$(\d+(?:\.\d{2})?)\s*/?\s*month`)
)

// titleSuffixes are store-appended decorations stripped from listing names.
var titleSuffixes = []string{
	" - Chrome Web Store",
	" – Chrome Web Store",
	" - Shopify App Store",
	" – Get this Extension for 🦊 Firefox",
	" - Visual Studio Marketplace",
	" - Apps on Google Play",
	" on the App Store",
}

// parseCount normalizes a numeric token with thousands separators to an int.
// Malformed tokens yield 0.
func parseCount(token string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(token, ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseRating normalizes a rating token to a float in [0, 5].  Out-of-range
// or malformed tokens yield 0 (treated downstream as "no rating").
func parseRating(token string) float64 {
	r, err := strconv.ParseFloat(token, 64)
	if err != nil || r < 0 || r > 5 {
		return 0
	}
	return r
}

func cleanTitle(title string) string {
	for _, suffix := range titleSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}

// Extract turns one raw search record into a normalized candidate asset.
// It never fails: absent fields default to zero values and an unrecoverable
// user count is replaced with the marketplace's documented default, so
// malformed input can never abort the pipeline.
func Extract(raw asset.RawSearchResult) asset.CandidateAsset {
	switch raw.Marketplace {
	case asset.MarketplaceChrome:
		return extractChrome(raw)
	case asset.MarketplaceShopify:
		return extractShopify(raw)
	default:
		return extractGeneric(raw)
	}
}

// extractChrome recovers the 32-character extension id from the listing URL
// and a user count plus rating from the snippet.
func extractChrome(raw asset.RawSearchResult) asset.CandidateAsset {
	c := asset.CandidateAsset{
		Name:        cleanTitle(raw.Title),
		URL:         raw.URL,
		Description: raw.Snippet,
		Marketplace: raw.Marketplace,
	}
	if m := chromeIDRe.FindStringSubmatch(raw.URL); m != nil {
		c.ExternalID = m[1]
	}
	if m := usersRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.Users = parseCount(m[1])
	} else {
		c.Users = raw.Marketplace.DefaultUsers()
	}
	if m := ratingRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.Rating = parseRating(m[1])
	}
	return c
}

// extractShopify recovers the app slug, review count, rating, and monthly
// price.  Shopify does not publish install counts, so installs are estimated
// from reviews; listings with no reviews fall back to the marketplace default.
func extractShopify(raw asset.RawSearchResult) asset.CandidateAsset {
	c := asset.CandidateAsset{
		Name:        cleanTitle(raw.Title),
		URL:         raw.URL,
		Description: raw.Snippet,
		Marketplace: raw.Marketplace,
	}
	if m := shopifySlugRe.FindStringSubmatch(raw.URL); m != nil {
		c.ExternalID = m[1]
	}
	if m := reviewsRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.ReviewsCount = parseCount(m[1])
	}
	if c.ReviewsCount > 0 {
		c.Users = c.ReviewsCount * shopifyInstallsPerReview
	} else {
		c.Users = raw.Marketplace.DefaultUsers()
	}
	if m := ratingRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.Rating = parseRating(m[1])
	}
	if m := priceRe.FindStringSubmatch(raw.Snippet); m != nil {
		if p, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.PricePerMonth = p
		}
	}
	return c
}

// extractGeneric covers marketplaces without a dedicated extractor.  It tries
// the full count vocabulary (users, installs, downloads, active
// installations) plus reviews, rating, and price.
func extractGeneric(raw asset.RawSearchResult) asset.CandidateAsset {
	c := asset.CandidateAsset{
		Name:        cleanTitle(raw.Title),
		URL:         raw.URL,
		Description: raw.Snippet,
		Marketplace: raw.Marketplace,
	}
	if m := wordpressRe.FindStringSubmatch(raw.URL); m != nil {
		c.ExternalID = m[1]
	}
	if m := usersRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.Users = parseCount(m[1])
	} else if m := installsRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.Users = parseCount(m[1])
	} else {
		c.Users = raw.Marketplace.DefaultUsers()
	}
	if m := reviewsRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.ReviewsCount = parseCount(m[1])
	}
	if m := ratingRe.FindStringSubmatch(raw.Snippet); m != nil {
		c.Rating = parseRating(m[1])
	}
	if m := priceRe.FindStringSubmatch(raw.Snippet); m != nil {
		if p, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.PricePerMonth = p
		}
	}
	return c
}
