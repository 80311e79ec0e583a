package schedule_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expacal/internal/astro"
	"expacal/internal/calendar"
	"expacal/internal/model"
	"expacal/internal/schedule"
)

// stubSource is a hand-written test double for calendar.Source.
type stubSource struct {
	events []model.CalendarEvent
	err    error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Events(_ context.Context, _, _ time.Time) ([]model.CalendarEvent, error) {
	return s.events, s.err
}

var _ calendar.Source = (*stubSource)(nil)

const pipelineSolarFixture = `{
  "results": {
    "sunrise": "2024-07-15T03:05:10+00:00",
    "sunset": "2024-07-15T19:01:25+00:00",
    "solar_noon": "2024-07-15T11:03:17+00:00",
    "day_length": 57375,
    "civil_twilight_begin": "2024-07-15T02:25:49+00:00",
    "civil_twilight_end": "2024-07-15T19:40:46+00:00",
    "nautical_twilight_begin": "2024-07-15T01:28:02+00:00",
    "nautical_twilight_end": "2024-07-15T20:38:33+00:00",
    "astronomical_twilight_begin": "2024-07-15T00:06:15+00:00",
    "astronomical_twilight_end": "2024-07-15T22:00:20+00:00"
  },
  "status": "OK"
}`

func newTestPlanner(t *testing.T, src calendar.Source) *schedule.Planner {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pipelineSolarFixture))
	}))
	t.Cleanup(srv.Close)

	calc := astro.NewCalculator(astro.NewClient(srv.URL), 50.5072, 16.0122, prague)
	agg := schedule.NewAggregator(prague, "@service", []string{"Sunrise", "Sunset"})

	return schedule.NewPlanner(src, calc, agg, schedule.NewLocalizer(schedule.LocaleCzech))
}

func TestPlannerRun_EndToEnd(t *testing.T) {
	src := &stubSource{events: []model.CalendarEvent{
		timedEvent("ev1", "Observing", "2024-07-15T21:00:00Z", "2024-07-15T23:00:00Z"),
		timedEvent("ev2", "@service: TeamA,TeamB", "2024-07-15T00:00:00Z", "2024-07-15T00:00:00Z"),
		timedEvent("ev3", "Breakfast", "2024-07-16T06:00:00Z", "2024-07-16T06:30:00Z"),
	}}

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, prague)
	end := time.Date(2024, 8, 31, 0, 0, 0, 0, prague)

	schedules, err := newTestPlanner(t, src).Run(context.Background(), start, end)
	require.NoError(t, err)

	// One schedule per day with events, in chronological order.
	require.Len(t, schedules, 2)
	assert.Equal(t, "15.07. 2024", schedules[0].DateKey)
	assert.Equal(t, "16.07. 2024", schedules[1].DateKey)

	day := schedules[0]
	assert.Equal(t, "Pondělí", day.Weekday)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, "Observing", day.Entries[0].Summary)
	assert.Equal(t, []string{"TeamA", "TeamB"}, day.DutyRoster)

	// Astronomy is attached for the day and its follower.
	assert.False(t, day.Astronomy.Sunrise.IsZero())
	assert.False(t, day.Tomorrow.Sunrise.IsZero())
	assert.NotEmpty(t, day.Astronomy.MoonPhase)
}

func TestPlannerRun_EmptyCalendar(t *testing.T) {
	schedules, err := newTestPlanner(t, &stubSource{}).Run(context.Background(),
		time.Date(2024, 7, 1, 0, 0, 0, 0, prague),
		time.Date(2024, 7, 31, 0, 0, 0, 0, prague))

	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestPlannerRun_SourceFailurePropagates(t *testing.T) {
	src := &stubSource{err: errors.New("token expired")}

	_, err := newTestPlanner(t, src).Run(context.Background(),
		time.Date(2024, 7, 1, 0, 0, 0, 0, prague),
		time.Date(2024, 7, 31, 0, 0, 0, 0, prague))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stub")
	assert.Contains(t, err.Error(), "token expired")
}

func TestPlannerRun_MalformedEventAbortsBeforeAnyFetch(t *testing.T) {
	src := &stubSource{events: []model.CalendarEvent{
		timedEvent("ev1", "Broken", "not-a-time", "2024-07-15T12:00:00Z"),
	}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("astronomical source must not be called for an aborted run")
	}))
	defer srv.Close()

	calc := astro.NewCalculator(astro.NewClient(srv.URL), 50.5072, 16.0122, prague)
	agg := schedule.NewAggregator(prague, "@service", nil)
	planner := schedule.NewPlanner(src, calc, agg, schedule.NewLocalizer(""))

	_, err := planner.Run(context.Background(),
		time.Date(2024, 7, 1, 0, 0, 0, 0, prague),
		time.Date(2024, 7, 31, 0, 0, 0, 0, prague))

	var malformed *schedule.MalformedEventError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "ev1", malformed.EventID)
}
