// Package schedule turns a flat calendar event list and per-day
// astronomical data into the per-day documents handed to the renderer.
package schedule

import (
	"strings"
	"time"

	applog "expacal/internal/log"
	"expacal/internal/model"
)

// Aggregator groups raw calendar events into per-day buckets, applying
// the summary parsing rules (duty markers, suppressed auto events).
// Aggregation is a pure fold over the input: the same event list always
// produces the same buckets in the same intra-bucket order.
type Aggregator struct {
	loc        *time.Location
	dutyPrefix string
	suppressed map[string]bool
}

// NewAggregator creates an Aggregator rendering times in loc.
// dutyPrefix marks duty-roster summaries ("<prefix>: A, B"); suppressed
// lists auto-generated titles to drop (matched after stripping an
// optional leading "#" comment marker).
func NewAggregator(loc *time.Location, dutyPrefix string, suppressed []string) *Aggregator {
	s := make(map[string]bool, len(suppressed))
	for _, t := range suppressed {
		s[t] = true
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc, dutyPrefix: dutyPrefix, suppressed: s}
}

// Aggregate folds events into a fresh mapping from day key to bucket.
// Events are attributed to the local date they start on; there is no
// splitting across midnight. Events without a summary are logged and
// skipped. A malformed start or end timestamp aborts the run with a
// *MalformedEventError naming the event, and no partial map is returned.
func (a *Aggregator) Aggregate(events []model.CalendarEvent) (map[string]model.DayBucket, error) {
	buckets := make(map[string]model.DayBucket)

	for _, ev := range events {
		if ev.Summary == "" {
			applog.Info("event without summary skipped", "id", ev.ID, "start", stampString(ev.Start))
			continue
		}

		start, err := a.resolveStamp(ev.Start)
		if err != nil {
			return nil, &MalformedEventError{EventID: ev.ID, Summary: ev.Summary, Field: "start", Err: err}
		}

		end := start
		if !ev.End.IsZero() {
			end, err = a.resolveStamp(ev.End)
			if err != nil {
				return nil, &MalformedEventError{EventID: ev.ID, Summary: ev.Summary, Field: "end", Err: err}
			}
		}

		if a.isSuppressed(ev.Summary) {
			applog.Debug("suppressed auto event dropped", "summary", ev.Summary)
			continue
		}

		key := model.FormatDayKey(start)
		bucket := buckets[key]

		if names, ok := a.parseDutyMarker(ev.Summary); ok {
			bucket.DutyRoster = append(bucket.DutyRoster, names...)
			buckets[key] = bucket
			continue
		}

		bucket.Entries = append(bucket.Entries, model.TimedEntry{
			Time:        start.Format("15:04"),
			End:         end.Format("15:04"),
			Summary:     ev.Summary,
			Location:    ev.Location,
			Description: ev.Description,
		})
		buckets[key] = bucket
	}

	return buckets, nil
}

// resolveStamp turns an event boundary into a local instant: a timed
// value is preferred, a date-only value falls back to local midnight.
func (a *Aggregator) resolveStamp(s model.EventStamp) (time.Time, error) {
	if s.DateTime != "" {
		t, err := time.Parse(time.RFC3339, s.DateTime)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(a.loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s.Date, a.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// isSuppressed matches a summary against the suppressed titles, with an
// optional "#" or "# " comment marker in front.
func (a *Aggregator) isSuppressed(summary string) bool {
	title := summary
	if strings.HasPrefix(title, "#") {
		title = strings.TrimSpace(title[1:])
	}
	return a.suppressed[title]
}

// parseDutyMarker recognizes "<prefix>: A, B, C" summaries and returns
// the names in their original order.
func (a *Aggregator) parseDutyMarker(summary string) ([]string, bool) {
	if a.dutyPrefix == "" {
		return nil, false
	}
	rest, ok := strings.CutPrefix(summary, a.dutyPrefix+":")
	if !ok {
		return nil, false
	}
	var names []string
	for _, part := range strings.Split(rest, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names, true
}

func stampString(s model.EventStamp) string {
	if s.DateTime != "" {
		return s.DateTime
	}
	return s.Date
}
