// Package calendar provides the event sources consumed by the schedule
// pipeline: Google Calendar and ICS feeds. A source delivers a flat,
// chronologically ordered event list for a time range; grouping and
// summary parsing happen downstream.
package calendar

import (
	"context"
	"time"

	"expacal/internal/model"
)

// Source is a single calendar feed. Events returns the raw events whose
// range intersects [start, end], in the provider's chronological order.
type Source interface {
	Name() string
	Events(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error)
}
