package astro

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"expacal/internal/model"
)

// FetchRange computes DayAstronomy for every date in dates concurrently,
// one fetch per date. Each goroutine writes only its own slot, so a
// result can never be attributed to a neighboring date; the first hard
// failure cancels the remaining in-flight fetches and is returned.
func FetchRange(ctx context.Context, calc *Calculator, dates []time.Time) (map[string]model.DayAstronomy, error) {
	results := make([]model.DayAstronomy, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range dates {
		i, d := i, d
		g.Go(func() error {
			a, err := calc.Compute(ctx, d)
			if err != nil {
				return err
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]model.DayAstronomy, len(results))
	for _, a := range results {
		out[model.FormatDayKey(a.Date)] = a
	}
	return out, nil
}

// DatesWithLookahead expands a set of schedule dates with each date's
// following day, deduplicated and in order. The extra days feed the
// "tomorrow" side of the schedule builder.
func DatesWithLookahead(dates []time.Time) []time.Time {
	seen := make(map[string]bool, len(dates)*2)
	out := make([]time.Time, 0, len(dates)*2)
	for _, d := range dates {
		for _, t := range []time.Time{d, d.AddDate(0, 0, 1)} {
			key := model.FormatDayKey(t)
			if !seen[key] {
				seen[key] = true
				out = append(out, t)
			}
		}
	}
	return out
}
