package schedule

import (
	"expacal/internal/model"
)

// BuildDay composes one day bucket with the day's and the following
// day's astronomy into a DaySchedule.
//
// When today's moonrise or moonset does not occur (nil), tomorrow's
// value is substituted: those events are conventionally reported for the
// observing night that starts this evening. The moon-phase name is
// localized the same way the weekday is. Entries keep the aggregator's
// order; the returned record shares no slices with its inputs.
func BuildDay(dateKey string, bucket model.DayBucket, today, tomorrow model.DayAstronomy, weekday string, loc Localizer) model.DaySchedule {
	astronomy := today
	if astronomy.Moonrise == nil {
		astronomy.Moonrise = tomorrow.Moonrise
	}
	if astronomy.Moonset == nil {
		astronomy.Moonset = tomorrow.Moonset
	}
	astronomy.MoonPhase = loc.MoonPhase(astronomy.MoonPhase)

	next := tomorrow
	next.MoonPhase = loc.MoonPhase(next.MoonPhase)

	entries := make([]model.TimedEntry, len(bucket.Entries))
	copy(entries, bucket.Entries)

	var roster []string
	if len(bucket.DutyRoster) > 0 {
		roster = make([]string, len(bucket.DutyRoster))
		copy(roster, bucket.DutyRoster)
	}

	return model.DaySchedule{
		DateKey:    dateKey,
		Weekday:    loc.Weekday(weekday),
		Entries:    entries,
		DutyRoster: roster,
		Astronomy:  astronomy,
		Tomorrow:   next,
	}
}
