package scanning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

func TestDetectEmptyInput(t *testing.T) {
	assert.Empty(t, Detect(""))
}

func TestDetectSingleSignals(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		signal  asset.DistressSignal
	}{
		{"deprecated platform", "This extension uses Manifest V2 and will stop working soon.", asset.SignalDeprecatedPlatform},
		{"no updates", "The plugin hasn't been updated since 2019.", asset.SignalNoUpdates},
		{"broken support", "There is no response from the developer for months.", asset.SignalBrokenSupport},
		{"declining reviews", "It used to work great but now crashes.", asset.SignalDecliningReviews},
		{"owner inactive", "Sadly this project is no longer maintained.", asset.SignalOwnerInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.snippet)
			assert.Contains(t, got, tt.signal)
		})
	}
}

func TestDetectCaseInsensitive(t *testing.T) {
	upper := Detect("ABANDONED BY THE DEVELOPER")
	assert.Contains(t, upper, asset.SignalOwnerInactive)
}

func TestDetectMultipleSignalsFromOneSnippet(t *testing.T) {
	snippet := "Deprecated Manifest V2 extension, hasn't been updated since 2020, looks abandoned."
	got := Detect(snippet)

	assert.Contains(t, got, asset.SignalDeprecatedPlatform)
	assert.Contains(t, got, asset.SignalNoUpdates)
	assert.Contains(t, got, asset.SignalOwnerInactive)
}

func TestDetectStableOrder(t *testing.T) {
	snippet := "abandoned, deprecated, hasn't been updated"
	first := Detect(snippet)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Detect(snippet))
	}
}

func TestDetectCleanSnippet(t *testing.T) {
	assert.Empty(t, Detect("A well maintained, frequently updated extension loved by users."))
}
