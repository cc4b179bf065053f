package scanning

import (
	"sort"
	"strings"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

// signalVocabulary maps each distress signal to the lower-case phrases whose
// presence in a snippet marks the signal.  Matching is substring-based and
// case-insensitive; signals fire independently, with no mutual exclusion.
var signalVocabulary = map[asset.DistressSignal][]string{
	asset.SignalNoUpdates: {
		"hasn't been updated",
		"has not been updated",
		"not updated since",
		"no recent updates",
		"last updated in 201",
		"outdated",
	},
	asset.SignalBrokenSupport: {
		"no response from the developer",
		"support is unresponsive",
		"developer does not respond",
		"support email bounces",
		"unanswered reviews",
	},
	asset.SignalDeprecatedPlatform: {
		"manifest v2",
		"mv2",
		"deprecated",
		"will stop working",
		"update required",
	},
	asset.SignalDecliningReviews: {
		"used to work",
		"stopped working",
		"doesn't work anymore",
		"worse with every update",
		"rating has dropped",
	},
	asset.SignalOwnerInactive: {
		"abandoned",
		"no longer maintained",
		"unmaintained",
		"developer inactive",
		"looking for a new owner",
	},
}

// Detect inspects snippet text for known decay indicators and returns the set
// of distress signals present, in stable sorted order.  Empty input returns
// an empty set; detection never fails.
func Detect(snippet string) []asset.DistressSignal {
	if snippet == "" {
		return nil
	}
	lower := strings.ToLower(snippet)

	var found []asset.DistressSignal
	for signal, phrases := range signalVocabulary {
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				found = append(found, signal)
				break
			}
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found
}
