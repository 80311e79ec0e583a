package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expacal/internal/schedule"
)

func TestLocalizer_WeekdayCzech(t *testing.T) {
	l := schedule.NewLocalizer(schedule.LocaleCzech)

	assert.Equal(t, "Pondělí", l.Weekday("Monday"))
	assert.Equal(t, "Neděle", l.Weekday("Sunday"))
	assert.Equal(t, "Funday", l.Weekday("Funday"), "unknown names pass through")
}

func TestLocalizer_MoonPhaseCzech(t *testing.T) {
	l := schedule.NewLocalizer(schedule.LocaleCzech)

	assert.Equal(t, "Úplněk", l.MoonPhase("Full Moon"))
	assert.Equal(t, "Nov", l.MoonPhase("New Moon"))
	assert.Equal(t, "Blue Moon", l.MoonPhase("Blue Moon"), "unknown names pass through")
}

func TestLocalizer_OtherLocaleIsIdentity(t *testing.T) {
	l := schedule.NewLocalizer("")

	assert.Equal(t, "Monday", l.Weekday("Monday"))
	assert.Equal(t, "Full Moon", l.MoonPhase("Full Moon"))
}
