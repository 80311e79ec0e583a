package astro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expacal/internal/astro"
)

func TestClassifyMoonPhase_BoundariesAreHalfOpen(t *testing.T) {
	// Exact boundary belongs to the bucket whose lower bound it is.
	assert.Equal(t, "Full Moon", astro.ClassifyMoonPhase(22.1))
	assert.Equal(t, "Waxing Gibbous", astro.ClassifyMoonPhase(22.0999))

	assert.Equal(t, "New Moon", astro.ClassifyMoonPhase(0))
	assert.Equal(t, "Waxing Crescent", astro.ClassifyMoonPhase(1))
	assert.Equal(t, "Waning Crescent", astro.ClassifyMoonPhase(43.2))
	assert.Equal(t, "Waning Crescent", astro.ClassifyMoonPhase(99.999))
}

func TestClassifyMoonPhase_TotalOverRange(t *testing.T) {
	for v := 0.0; v < 100; v += 0.05 {
		assert.NotEmpty(t, astro.ClassifyMoonPhase(v), "value %v must classify", v)
	}
}

func TestClassifyMoonPhase_WrapsOutOfRangeValues(t *testing.T) {
	assert.Equal(t, astro.ClassifyMoonPhase(25), astro.ClassifyMoonPhase(125))
	assert.Equal(t, astro.ClassifyMoonPhase(75), astro.ClassifyMoonPhase(-25))
}

func TestPhaseBuckets_MonotonicAndGapFree(t *testing.T) {
	buckets := astro.PhaseBuckets

	assert.Equal(t, 0.0, buckets[0].Lo)
	assert.Equal(t, 100.0, buckets[len(buckets)-1].Hi)

	for i := 1; i < len(buckets); i++ {
		assert.Equal(t, buckets[i-1].Hi, buckets[i].Lo,
			"bucket %d must start where bucket %d ends", i, i-1)
	}
}
