// Package asset defines the core domain model for marketplace distress
// intelligence: the closed Marketplace and DistressSignal enumerations with
// their colocated lookup tables, and the asset entities that flow through the
// scan pipeline.
package asset

import (
	"regexp"
	"sort"
	"strings"
)

// Marketplace is a closed enumeration of supported listing sources.
type Marketplace string

const (
	MarketplaceChrome     Marketplace = "chrome"
	MarketplaceFirefox    Marketplace = "firefox"
	MarketplaceShopify    Marketplace = "shopify"
	MarketplaceWordPress  Marketplace = "wordpress"
	MarketplaceSlack      Marketplace = "slack"
	MarketplaceZapier     Marketplace = "zapier"
	MarketplaceNotion     Marketplace = "notion"
	MarketplaceFigma      Marketplace = "figma"
	MarketplaceAtlassian  Marketplace = "atlassian"
	MarketplaceSalesforce Marketplace = "salesforce"
	MarketplaceHubSpot    Marketplace = "hubspot"
	MarketplaceIOS        Marketplace = "ios"
	MarketplaceAndroid    Marketplace = "android"
	MarketplaceVSCode     Marketplace = "vscode"
)

// defaultBaseRate is the revenue conversion rate applied when a marketplace
// is missing from the table.  Never fails the estimate.
const defaultBaseRate = 0.05

// MarketplaceInfo holds the static per-marketplace constants: the search-site
// scope token, the listing-page URL shape, the base revenue conversion rate
// (estimated monthly revenue per user), the conservative user-count default
// substituted when extraction cannot recover a count, and an optional query
// hint appended to searches to bias results toward listing pages.
type MarketplaceInfo struct {
	Site         string
	URLPattern   *regexp.Regexp
	BaseRate     float64
	DefaultUsers int
	QueryHint    string
}

// marketplaceTable is the authoritative lookup table, colocated with the enum.
// Base rates are heuristic business tuning; tests pin these literals.
var marketplaceTable = map[Marketplace]MarketplaceInfo{
	MarketplaceChrome: {
		Site:       "chromewebstore.google.com",
		URLPattern: regexp.MustCompile(`chromewebstore\.google\.com/detail/`),
		BaseRate:   0.02,
		QueryHint:  "extension OR addon",
	},
	MarketplaceFirefox: {
		Site:       "addons.mozilla.org",
		URLPattern: regexp.MustCompile(`addons\.mozilla\.org/.*/addon/`),
		BaseRate:   0.015,
	},
	MarketplaceShopify: {
		Site:         "apps.shopify.com",
		URLPattern:   regexp.MustCompile(`apps\.shopify\.com/[a-z0-9-]+$`),
		BaseRate:     0.50,
		DefaultUsers: 1000,
		QueryHint:    "app",
	},
	MarketplaceWordPress: {
		Site:       "wordpress.org/plugins",
		URLPattern: regexp.MustCompile(`wordpress\.org/plugins/[a-z0-9-]+`),
		BaseRate:   0.03,
	},
	MarketplaceSlack: {
		Site:       "slack.com/apps",
		URLPattern: regexp.MustCompile(`slack\.com/apps/[A-Z0-9]+`),
		BaseRate:   0.25,
	},
	MarketplaceZapier: {
		Site:       "zapier.com/apps",
		URLPattern: regexp.MustCompile(`zapier\.com/apps/[a-z0-9-]+`),
		BaseRate:   0.20,
	},
	MarketplaceNotion: {
		Site:       "notion.so/integrations",
		URLPattern: regexp.MustCompile(`notion\.so/integrations/`),
		BaseRate:   0.15,
	},
	MarketplaceFigma: {
		Site:       "figma.com/community",
		URLPattern: regexp.MustCompile(`figma\.com/community/`),
		BaseRate:   0.10,
	},
	MarketplaceAtlassian: {
		Site:       "marketplace.atlassian.com",
		URLPattern: regexp.MustCompile(`marketplace\.atlassian\.com/apps/`),
		BaseRate:   0.40,
	},
	MarketplaceSalesforce: {
		Site:       "appexchange.salesforce.com",
		URLPattern: regexp.MustCompile(`appexchange\.salesforce\.com/`),
		BaseRate:   0.60,
	},
	MarketplaceHubSpot: {
		Site:       "ecosystem.hubspot.com/marketplace",
		URLPattern: regexp.MustCompile(`ecosystem\.hubspot\.com/marketplace/`),
		BaseRate:   0.35,
	},
	MarketplaceIOS: {
		Site:       "apps.apple.com",
		URLPattern: regexp.MustCompile(`apps\.apple\.com/.*/app/`),
		BaseRate:   0.08,
	},
	MarketplaceAndroid: {
		Site:       "play.google.com/store/apps",
		URLPattern: regexp.MustCompile(`play\.google\.com/store/apps/details`),
		BaseRate:   0.05,
	},
	MarketplaceVSCode: {
		Site:       "marketplace.visualstudio.com",
		URLPattern: regexp.MustCompile(`marketplace\.visualstudio\.com/items`),
		BaseRate:   0.01,
	},
}

// shopifyNonListingPaths are URL fragments that mark category, blog, and
// partner pages on apps.shopify.com which would otherwise match the listing
// pattern's host.
var shopifyNonListingPaths = []string{
	"/collections/",
	"/categories/",
	"/blog",
	"/partners",
}

// AllMarketplaces returns the closed set of supported marketplaces in a
// stable, sorted order.
func AllMarketplaces() []Marketplace {
	out := make([]Marketplace, 0, len(marketplaceTable))
	for m := range marketplaceTable {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseMarketplace resolves a wire token to a Marketplace.  Unknown tokens
// return ok=false; callers drop them silently rather than failing a request.
func ParseMarketplace(token string) (Marketplace, bool) {
	m := Marketplace(strings.ToLower(strings.TrimSpace(token)))
	_, ok := marketplaceTable[m]
	return m, ok
}

// IsValid reports whether m is a member of the closed enumeration.
func (m Marketplace) IsValid() bool {
	_, ok := marketplaceTable[m]
	return ok
}

// String returns the wire token.
func (m Marketplace) String() string { return string(m) }

// Info returns the static constants for m.  The zero MarketplaceInfo is
// returned for unknown marketplaces; BaseRate handles the fallback rate.
func (m Marketplace) Info() MarketplaceInfo {
	return marketplaceTable[m]
}

// BaseRate returns the revenue conversion rate for m, falling back to
// defaultBaseRate for unknown marketplaces rather than failing.
func (m Marketplace) BaseRate() float64 {
	if info, ok := marketplaceTable[m]; ok {
		return info.BaseRate
	}
	return defaultBaseRate
}

// SearchSite returns the site scope token used to restrict web searches to
// this marketplace's listing domain.
func (m Marketplace) SearchSite() string {
	return marketplaceTable[m].Site
}

// DefaultUsers returns the conservative user-count default substituted when
// extraction cannot recover a count from the snippet.
func (m Marketplace) DefaultUsers() int {
	return marketplaceTable[m].DefaultUsers
}

// QueryHint returns the extra search terms appended to disambiguate this
// marketplace's listings, or "" when none are needed.
func (m Marketplace) QueryHint() string {
	return marketplaceTable[m].QueryHint
}

// IsListingURL reports whether url points at a real listing page for m, as
// opposed to a category, blog, or partner page.  Unknown marketplaces never
// match.
func (m Marketplace) IsListingURL(url string) bool {
	info, ok := marketplaceTable[m]
	if !ok || url == "" {
		return false
	}
	if !info.URLPattern.MatchString(url) {
		return false
	}
	if m == MarketplaceShopify {
		for _, p := range shopifyNonListingPaths {
			if strings.Contains(url, p) {
				return false
			}
		}
	}
	return true
}
