package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetIDDeterministic(t *testing.T) {
	url := "https://apps.shopify.com/order-printer"
	first := AssetID(url)
	second := AssetID(url)
	assert.Equal(t, first, second, "same url must derive the same id across calls")
	assert.Len(t, first, assetIDLength)
}

func TestAssetIDDistinct(t *testing.T) {
	a := AssetID("https://apps.shopify.com/order-printer")
	b := AssetID("https://apps.shopify.com/order-printer-pro")
	assert.NotEqual(t, a, b)
}

func TestAssetIDEmptyURL(t *testing.T) {
	// Degenerate input still yields a stable, well-formed id.
	assert.Len(t, AssetID(""), assetIDLength)
	assert.Equal(t, AssetID(""), AssetID(""))
}
