package schedule

import (
	"context"
	"fmt"
	"time"

	"expacal/internal/astro"
	"expacal/internal/calendar"
	applog "expacal/internal/log"
	"expacal/internal/model"
)

// Planner runs the full pipeline: fetch events, aggregate into day
// buckets, compute per-day astronomy, and build one DaySchedule per day
// that has events. The pipeline is synchronous; only the per-date
// astronomical fetches inside astro.FetchRange run concurrently.
type Planner struct {
	source    calendar.Source
	calc      *astro.Calculator
	agg       *Aggregator
	localizer Localizer
}

// NewPlanner wires a Planner from its collaborators.
func NewPlanner(source calendar.Source, calc *astro.Calculator, agg *Aggregator, localizer Localizer) *Planner {
	return &Planner{source: source, calc: calc, agg: agg, localizer: localizer}
}

// Run produces the ordered day schedules for events in [start, end].
// It either fully succeeds or returns the first specific failure (which
// event, which date, which external call); no partial result is handed
// to the renderer.
func (p *Planner) Run(ctx context.Context, start, end time.Time) ([]model.DaySchedule, error) {
	events, err := p.source.Events(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("calendar source %s: %w", p.source.Name(), err)
	}
	applog.Info("events fetched", "source", p.source.Name(), "count", len(events))

	buckets, err := p.agg.Aggregate(events)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		applog.Info("no events in range", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
		return nil, nil
	}

	loc := p.calc.Location()
	keys := model.SortedDayKeys(buckets, loc)

	dates := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		d, perr := model.ParseDayKey(key, loc)
		if perr != nil {
			return nil, perr
		}
		dates = append(dates, d)
	}

	astronomy, err := astro.FetchRange(ctx, p.calc, astro.DatesWithLookahead(dates))
	if err != nil {
		return nil, err
	}
	applog.Info("astronomy computed", "days", len(astronomy))

	schedules := make([]model.DaySchedule, 0, len(keys))
	for i, key := range keys {
		date := dates[i]
		today := astronomy[key]
		tomorrow := astronomy[model.FormatDayKey(date.AddDate(0, 0, 1))]
		weekday := date.Weekday().String()

		schedules = append(schedules, BuildDay(key, buckets[key], today, tomorrow, weekday, p.localizer))
	}

	return schedules, nil
}
