package asset

import "strings"

// DistressSignal is a closed enumeration of decay indicators observed on a
// listing: textual evidence that the asset is neglected or at acquisition risk.
type DistressSignal string

const (
	SignalNoUpdates          DistressSignal = "no_updates"
	SignalBrokenSupport      DistressSignal = "broken_support"
	SignalDeprecatedPlatform DistressSignal = "deprecated_platform_version"
	SignalDecliningReviews   DistressSignal = "declining_reviews"
	SignalOwnerInactive      DistressSignal = "owner_inactive"
)

// MaxDistressScore caps the summed signal weights.
const MaxDistressScore = 10

// unknownSignalWeight is the forward-compatible weight applied to signal
// values outside the closed enumeration (e.g., a newer verifier emitting
// tokens this build does not know).  Never an error.
const unknownSignalWeight = 1

// signalWeights is the fixed severity table, colocated with the enum.
// Ordinal relationships are load-bearing: deprecated platform outweighs
// staleness, which outweighs support and review decay.
var signalWeights = map[DistressSignal]int{
	SignalNoUpdates:          3,
	SignalBrokenSupport:      2,
	SignalDeprecatedPlatform: 4,
	SignalDecliningReviews:   2,
	SignalOwnerInactive:      3,
}

// signalAliases maps legacy wire tokens to their canonical signal.
// "manifest_v2" predates the platform-neutral naming.
var signalAliases = map[string]DistressSignal{
	"manifest_v2": SignalDeprecatedPlatform,
}

// AllSignals returns the closed set of distress signals.
func AllSignals() []DistressSignal {
	return []DistressSignal{
		SignalNoUpdates,
		SignalBrokenSupport,
		SignalDeprecatedPlatform,
		SignalDecliningReviews,
		SignalOwnerInactive,
	}
}

// ParseSignal resolves a wire token to a DistressSignal, accepting legacy
// aliases.  Unknown tokens return ok=false; callers drop them silently.
func ParseSignal(token string) (DistressSignal, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := signalAliases[t]; ok {
		return canonical, true
	}
	s := DistressSignal(t)
	_, ok := signalWeights[s]
	return s, ok
}

// IsValid reports whether s is a member of the closed enumeration.
func (s DistressSignal) IsValid() bool {
	_, ok := signalWeights[s]
	return ok
}

// String returns the wire token.
func (s DistressSignal) String() string { return string(s) }

// Weight returns the fixed severity weight for s.  Signals outside the closed
// enumeration contribute unknownSignalWeight.
func (s DistressSignal) Weight() int {
	if w, ok := signalWeights[s]; ok {
		return w
	}
	return unknownSignalWeight
}

// Score maps a set of present signals to a bounded severity score.  It is
// the sum of per-signal weights clamped to MaxDistressScore, which makes it
// monotonic non-decreasing in the number of present signals and always within
// [0, MaxDistressScore].
func Score(signals []DistressSignal) int {
	total := 0
	for _, s := range signals {
		total += s.Weight()
	}
	if total > MaxDistressScore {
		return MaxDistressScore
	}
	return total
}
