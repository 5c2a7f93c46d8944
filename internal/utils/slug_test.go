package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The Forest Hiker", "the-forest-hiker"},
		{"  The   Sea Explorer!! ", "the-sea-explorer"},
		{"Le Cañón Trek", "le-canon-trek"},
		{"Zürich Über Alles", "zurich-uber-alles"},
		{"5-Day Wine Tasting", "5-day-wine-tasting"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
