package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlausibleColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"simple color", "Blue", true},
		{"modified color", "Midnight Blue", true},
		{"heather variant", "Heather Grey", true},
		{"product name with color word", "Classic Backpack", false},
		{"marketing tier", "Premium", false},
		{"garment word", "Blue Shirt", false},
		{"unusual but not blacklisted", "Trailblazer", true},
		{"overlong value", "A very long descriptive string about blue things that keeps going", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPlausibleColor(tt.value))
		})
	}
}

func TestDetectColor(t *testing.T) {
	assert.Equal(t, "Navy", detectColor("Trail Tee - Navy - Medium"))
	assert.Equal(t, "", detectColor("Trail Tee - Medium"))
	assert.Equal(t, "", detectColor("Classic Backpack"))
}

func TestDetectSize(t *testing.T) {
	assert.Equal(t, "XL", detectSize("Trail Tee XL"))
	assert.Equal(t, "Medium", detectSize("Trail Tee, Medium"))
	assert.Equal(t, "32 oz", detectSize("Water Bottle 32 oz"))
	assert.Equal(t, "", detectSize("Trail Tee"))
}

func TestNormalizeAttrName(t *testing.T) {
	assert.Equal(t, "color", normalizeAttrName("Colour"))
	assert.Equal(t, "color", normalizeAttrName("COLORS"))
	assert.Equal(t, "size", normalizeAttrName("Size:"))
	assert.Equal(t, "style", normalizeAttrName(" Style "))
}
