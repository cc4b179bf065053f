// Package valuation converts extracted signals into money: an estimated
// monthly recurring revenue per marketplace, and an acquisition valuation via
// a distress-sensitive revenue multiple.
package valuation

import (
	"math"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

// neutralRating is the rating treated as the revenue-neutral baseline.  A
// missing or zero rating is not evidence of a bad rating, so it maps to a
// multiplier of exactly 1.0 rather than zeroing the estimate.
const neutralRating = 4.0

// Valuation multiples per distress band.  Healthier assets command a higher
// revenue multiple; the bands are a step function over the distress score.
const (
	multipleHealthy  = 42 // score 0–3
	multipleWatch    = 36 // score 4–5
	multipleDistress = 30 // score 6–7
	multipleCritical = 24 // score 8–10
)

// round2 rounds to two decimal places, the precision of every monetary value
// emitted by the service.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EstimateMRR converts (marketplace, user count, rating) into an estimated
// monthly recurring revenue:
//
//	mrr = users × base_rate[marketplace] × (rating / 4.0 if rating > 0 else 1.0)
//
// Unknown marketplaces fall back to the default base rate rather than
// failing.  The result is linear in users and always ≥ 0.
func EstimateMRR(m asset.Marketplace, users int, rating float64) float64 {
	if users < 0 {
		users = 0
	}
	multiplier := 1.0
	if rating > 0 {
		multiplier = rating / neutralRating
	}
	return round2(float64(users) * m.BaseRate() * multiplier)
}

// Multiple returns the revenue multiple for a distress score.  Strictly
// decreasing across the four score bands.
func Multiple(distressScore int) int {
	switch {
	case distressScore >= 8:
		return multipleCritical
	case distressScore >= 6:
		return multipleDistress
	case distressScore >= 4:
		return multipleWatch
	default:
		return multipleHealthy
	}
}

// Valuation converts (MRR, distress score) into an acquisition valuation by
// applying the distress-band multiple.  Higher distress means a lower
// multiple means a lower valuation for fixed MRR.
func Valuation(mrr float64, distressScore int) float64 {
	if mrr < 0 {
		mrr = 0
	}
	return round2(mrr * float64(Multiple(distressScore)))
}
