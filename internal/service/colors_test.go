package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCategoryColors(t *testing.T) {
	colors := randomCategoryColors(12)
	require.Len(t, colors, 12)

	seen := make(map[string]bool)
	for _, color := range colors {
		assert.Regexp(t, `^#[0-9A-F]{6}$`, color)
		seen[color] = true
	}
	// Hues are spread over the wheel, so collisions would be a bug.
	assert.Len(t, seen, 12)
}

func TestRandomCategoryColorsEmpty(t *testing.T) {
	assert.Empty(t, randomCategoryColors(0))
}
