package astro

import "math"

// PhaseBucket maps a half-open interval [Lo, Hi) of the continuous phase
// index onto a named moon phase.
type PhaseBucket struct {
	Lo   float64
	Hi   float64
	Name string
}

// PhaseBuckets is the canonical 8-bucket classification table over
// [0, 100). The boundaries are tuned to the phase index produced by this
// package's ephemeris (full moon lands near 25); they are constants to
// adjust, not hard law, but must stay half-open, monotonic and gap-free.
var PhaseBuckets = []PhaseBucket{
	{0, 1, "New Moon"},
	{1, 7.4, "Waxing Crescent"},
	{7.4, 14.8, "First Quarter"},
	{14.8, 22.1, "Waxing Gibbous"},
	{22.1, 29.5, "Full Moon"},
	{29.5, 36.9, "Waning Gibbous"},
	{36.9, 43.2, "Last Quarter"},
	{43.2, 100, "Waning Crescent"},
}

// ClassifyMoonPhase maps a continuous phase index onto one of the eight
// canonical phase names. Intervals are half-open with the lower bound
// inclusive, so an exact boundary value belongs to the higher bucket.
// Values outside [0, 100) are wrapped into range first.
func ClassifyMoonPhase(index float64) string {
	v := math.Mod(index, 100)
	if v < 0 {
		v += 100
	}
	for _, b := range PhaseBuckets {
		if v >= b.Lo && v < b.Hi {
			return b.Name
		}
	}
	// Unreachable while the table covers [0,100).
	return PhaseBuckets[len(PhaseBuckets)-1].Name
}
