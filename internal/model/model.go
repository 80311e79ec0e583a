package model

import (
	"fmt"
	"sort"
	"time"
)

// DayKeyLayout is the textual date-key format used across the whole
// pipeline ("15.07. 2024"). It is both a map key and parsed back for
// weekday extraction, so the exact spelling (including the space after
// the month dot) must not change.
const DayKeyLayout = "02.01. 2006"

// EventStamp is one boundary of a calendar event as delivered by a
// provider: either a timed instant (RFC 3339) or a date-only value for
// all-day events. Exactly one of the two fields is expected to be set.
type EventStamp struct {
	DateTime string // e.g. "2024-07-15T21:00:00Z"
	Date     string // e.g. "2024-07-15" (all-day)
}

// IsZero reports whether neither a timed nor a date-only value is present.
func (s EventStamp) IsZero() bool {
	return s.DateTime == "" && s.Date == ""
}

// CalendarEvent is a single raw event from a calendar source, before any
// grouping or summary parsing.
type CalendarEvent struct {
	ID          string
	Summary     string
	Location    string
	Description string
	Start       EventStamp
	End         EventStamp
}

// TimedEntry is one line of a day's timeline. Time and End are local
// "HH:MM" strings; End == Time marks an instant event with no range shown.
type TimedEntry struct {
	Time        string `json:"time"`
	End         string `json:"end"`
	Summary     string `json:"summary"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// DayBucket holds everything attributed to a single calendar date:
// the ordered timeline plus the duty roster lifted out of specially
// prefixed entries. Entries keep the source order; buckets are built once
// per aggregation run and not mutated afterwards.
type DayBucket struct {
	Entries    []TimedEntry `json:"entries"`
	DutyRoster []string     `json:"duty_roster,omitempty"`
}

// Window is a named astronomical time range (golden hour, blue hour).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAstronomy carries every solar and lunar quantity computed for one
// (location, date) pair. Moonrise/Moonset are nil when the moon does not
// rise or set within the calendar day; callers substitute the following
// day's value in that case.
type DayAstronomy struct {
	Date time.Time `json:"date"` // local midnight of the day this describes

	Sunrise   time.Time     `json:"sunrise"`
	Sunset    time.Time     `json:"sunset"`
	SolarNoon time.Time     `json:"solar_noon"`
	DayLength time.Duration `json:"day_length"`

	CivilTwilightBegin        time.Time `json:"civil_twilight_begin"`
	CivilTwilightEnd          time.Time `json:"civil_twilight_end"`
	NauticalTwilightBegin     time.Time `json:"nautical_twilight_begin"`
	NauticalTwilightEnd       time.Time `json:"nautical_twilight_end"`
	AstronomicalTwilightBegin time.Time `json:"astronomical_twilight_begin"`
	AstronomicalTwilightEnd   time.Time `json:"astronomical_twilight_end"`

	GoldenHourMorning Window `json:"golden_hour_morning"`
	GoldenHourEvening Window `json:"golden_hour_evening"`
	BlueHourMorning   Window `json:"blue_hour_morning"`
	BlueHourEvening   Window `json:"blue_hour_evening"`

	Moonrise *time.Time `json:"moonrise,omitempty"`
	Moonset  *time.Time `json:"moonset,omitempty"`

	MoonPhase        string  `json:"moon_phase"`        // one of the eight canonical bucket names
	MoonPhaseIndex   float64 `json:"moon_phase_index"`  // continuous classification metric on [0,100)
	MoonIllumination float64 `json:"moon_illumination"` // illuminated fraction in percent
	MoonColongitude  float64 `json:"moon_colongitude"`  // degrees
}

// DaySchedule is the rendering-agnostic per-day document handed to the
// renderer. Astronomy already has the moonrise/moonset fallback applied;
// Tomorrow keeps the following day's raw values for night-spanning output
// (e.g. tomorrow's sunrise for an observing night that starts this evening).
type DaySchedule struct {
	DateKey    string       `json:"date_key"`
	Weekday    string       `json:"weekday"`
	Entries    []TimedEntry `json:"entries"`
	DutyRoster []string     `json:"duty_roster,omitempty"`
	Astronomy  DayAstronomy `json:"astronomy"`
	Tomorrow   DayAstronomy `json:"tomorrow"`
}

// FormatDayKey renders t's calendar date as a day key.
func FormatDayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a day key back into a date (midnight in loc).
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key %q: %w", key, err)
	}
	return t, nil
}

// SortedDayKeys returns the bucket map's keys in chronological order.
// Keys that fail to parse sort last, in lexical order, so a defective key
// is still visible in output rather than silently dropped.
func SortedDayKeys(buckets map[string]DayBucket, loc *time.Location) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, errI := ParseDayKey(keys[i], loc)
		tj, errJ := ParseDayKey(keys[j], loc)
		switch {
		case errI == nil && errJ == nil:
			return ti.Before(tj)
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
