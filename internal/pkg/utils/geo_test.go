package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	assert.InDelta(t, 0, CalculateHaversineDistance(13.332962, 103.974389, 13.332962, 103.974389), 1e-6)

	// One degree of latitude is roughly 111.2 km.
	assert.InDelta(t, 111195, CalculateHaversineDistance(0, 0, 1, 0), 50)

	// Symmetric.
	a := CalculateHaversineDistance(13.33, 103.97, 13.34, 103.98)
	b := CalculateHaversineDistance(13.34, 103.98, 13.33, 103.97)
	assert.InDelta(t, a, b, 1e-9)
}

func TestWithinRadius(t *testing.T) {
	ok, d := WithinRadius(13.332962, 103.974389, 13.3350, 103.9750, 700)
	assert.True(t, ok)
	assert.Less(t, d, 700.0)

	ok, d = WithinRadius(13.332962, 103.974389, 13.36, 103.974389, 700)
	assert.False(t, ok)
	assert.Greater(t, d, 700.0)
}
