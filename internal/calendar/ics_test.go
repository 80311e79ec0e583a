package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// icsFixture has a timed event, an all-day event and an event outside
// the queried range, deliberately out of chronological order.
var icsFixture = strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:late@test
SUMMARY:Observing
LOCATION:Main field
DTSTART:20240715T210000Z
DTEND:20240715T230000Z
END:VEVENT
BEGIN:VEVENT
UID:allday@test
SUMMARY:Arrival day
DTSTART;VALUE=DATE:20240714
DTEND;VALUE=DATE:20240715
END:VEVENT
BEGIN:VEVENT
UID:outside@test
SUMMARY:Autumn meeting
DTSTART:20241001T100000Z
DTEND:20241001T110000Z
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n")

func TestICSSource_Events(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(icsFixture))
	}))
	defer srv.Close()

	src := NewICSSource("expedition", srv.URL)

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 8, 31, 23, 59, 59, 0, time.UTC)

	events, err := src.Events(context.Background(), start, end)
	require.NoError(t, err)

	// Out-of-range event dropped, remaining sorted by start.
	require.Len(t, events, 2)

	assert.Equal(t, "Arrival day", events[0].Summary)
	assert.Equal(t, "2024-07-14", events[0].Start.Date)
	assert.Empty(t, events[0].Start.DateTime)

	assert.Equal(t, "Observing", events[1].Summary)
	assert.Equal(t, "Main field", events[1].Location)
	assert.Equal(t, "2024-07-15T21:00:00Z", events[1].Start.DateTime)
	assert.Equal(t, "2024-07-15T23:00:00Z", events[1].End.DateTime)
}

func TestICSSource_EmptyBody(t *testing.T) {
	src := NewICSSource("empty", "http://unused.invalid")

	_, err := src.parse(nil, time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
}

func TestICSSource_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	src := NewICSSource("expedition", srv.URL)

	_, err := src.Events(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
}

func TestICSSource_Name(t *testing.T) {
	assert.Equal(t, "ics:expedition", NewICSSource("expedition", "http://example.com/cal.ics").Name())
}
