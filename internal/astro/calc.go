// Package astro computes the per-day astronomical context of a schedule:
// solar reference times fetched from a remote source, derived golden and
// blue hour windows, and lunar rise/set and phase from a built-in
// ephemeris.
package astro

import (
	"context"
	"time"

	"expacal/internal/model"
)

// Fixed offsets for the derived photography windows. These are
// derivations from the fetched solar times, never fetched themselves.
const (
	goldenHourLength = time.Hour
	blueHourLength   = 30 * time.Minute
)

// Calculator produces a model.DayAstronomy for one configured site.
// It is deterministic apart from the remote solar-time fetch: identical
// inputs and an identical remote answer yield an identical result.
type Calculator struct {
	client *Client
	lat    float64
	lng    float64
	loc    *time.Location
}

// NewCalculator creates a Calculator for an observer at (lat, lng)
// rendering times in loc.
func NewCalculator(client *Client, lat, lng float64, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{client: client, lat: lat, lng: lng, loc: loc}
}

// Compute fetches solar times for the calendar date of `date` and
// assembles the full DayAstronomy in the calculator's timezone. A failed
// or malformed fetch surfaces as *AstronomicalDataError; no value is
// substituted and no retry is attempted here (retry policy belongs to
// the caller).
func (c *Calculator) Compute(ctx context.Context, date time.Time) (model.DayAstronomy, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.loc)

	st, err := c.client.Fetch(ctx, c.lat, c.lng, day)
	if err != nil {
		return model.DayAstronomy{}, err
	}

	a := model.DayAstronomy{
		Date:      day,
		Sunrise:   st.Sunrise.In(c.loc),
		Sunset:    st.Sunset.In(c.loc),
		SolarNoon: st.SolarNoon.In(c.loc),
		DayLength: st.DayLength,

		CivilTwilightBegin:        st.CivilTwilightBegin.In(c.loc),
		CivilTwilightEnd:          st.CivilTwilightEnd.In(c.loc),
		NauticalTwilightBegin:     st.NauticalTwilightBegin.In(c.loc),
		NauticalTwilightEnd:       st.NauticalTwilightEnd.In(c.loc),
		AstronomicalTwilightBegin: st.AstronomicalTwilightBegin.In(c.loc),
		AstronomicalTwilightEnd:   st.AstronomicalTwilightEnd.In(c.loc),
	}

	a.GoldenHourMorning = model.Window{Start: a.Sunrise, End: a.Sunrise.Add(goldenHourLength)}
	a.GoldenHourEvening = model.Window{Start: a.Sunset.Add(-goldenHourLength), End: a.Sunset}
	a.BlueHourMorning = model.Window{Start: a.CivilTwilightBegin.Add(-blueHourLength), End: a.CivilTwilightBegin}
	a.BlueHourEvening = model.Window{Start: a.CivilTwilightEnd, End: a.CivilTwilightEnd.Add(blueHourLength)}

	mt := MoonRiseSet(DMSFromDegrees(c.lat), DMSFromDegrees(c.lng), day)
	a.Moonrise = mt.Rise
	a.Moonset = mt.Set

	// Phase is evaluated at local noon, the middle of the printed day.
	ms := MoonPhaseAt(day.Add(12 * time.Hour))
	a.MoonPhaseIndex = ms.PhaseIndex
	a.MoonIllumination = ms.Illumination
	a.MoonColongitude = ms.Colongitude
	a.MoonPhase = ClassifyMoonPhase(ms.PhaseIndex)

	return a, nil
}

// Location returns the timezone schedule times are rendered in.
func (c *Calculator) Location() *time.Location {
	return c.loc
}
