package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expacal/internal/model"
)

func TestDayKey_FormatExact(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	// The space after the month dot is part of the boundary format.
	key := model.FormatDayKey(time.Date(2024, 7, 15, 23, 59, 0, 0, prague))
	assert.Equal(t, "15.07. 2024", key)
}

func TestDayKey_RoundTrip(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	parsed, err := model.ParseDayKey("15.07. 2024", prague)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, prague), parsed)
	assert.Equal(t, time.Monday, parsed.Weekday())
}

func TestParseDayKey_Malformed(t *testing.T) {
	_, err := model.ParseDayKey("2024-07-15", time.UTC)
	assert.Error(t, err)
}

func TestSortedDayKeys_Chronological(t *testing.T) {
	buckets := map[string]model.DayBucket{
		"02.08. 2024": {},
		"15.07. 2024": {},
		"31.12. 2023": {},
		"01.08. 2024": {},
	}

	keys := model.SortedDayKeys(buckets, time.UTC)

	assert.Equal(t, []string{"31.12. 2023", "15.07. 2024", "01.08. 2024", "02.08. 2024"}, keys)
}

func TestEventStamp_IsZero(t *testing.T) {
	assert.True(t, model.EventStamp{}.IsZero())
	assert.False(t, model.EventStamp{Date: "2024-07-15"}.IsZero())
	assert.False(t, model.EventStamp{DateTime: "2024-07-15T10:00:00Z"}.IsZero())
}
