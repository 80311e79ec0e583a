package schedule

// LocaleCzech enables the English -> Czech display-name mapping.
const LocaleCzech = "cs"

var weekdayCzech = map[string]string{
	"Monday":    "Pondělí",
	"Tuesday":   "Úterý",
	"Wednesday": "Středa",
	"Thursday":  "Čtvrtek",
	"Friday":    "Pátek",
	"Saturday":  "Sobota",
	"Sunday":    "Neděle",
}

var moonPhaseCzech = map[string]string{
	"New Moon":        "Nov",
	"Waxing Crescent": "Dorůstající srpek",
	"First Quarter":   "První čtvrť",
	"Waxing Gibbous":  "Dorůstající měsíc",
	"Full Moon":       "Úplněk",
	"Waning Gibbous":  "Couvající měsíc",
	"Last Quarter":    "Poslední čtvrť",
	"Waning Crescent": "Couvající srpek",
}

// Localizer translates weekday and moon-phase display names. Lookups
// never fail: an unrecognized name (or a locale without a table) passes
// through unchanged, since a readable English label beats an error on a
// printed schedule.
type Localizer struct {
	locale string
}

// NewLocalizer returns a Localizer for the given locale. Only
// LocaleCzech has a translation table; every other locale is identity.
func NewLocalizer(locale string) Localizer {
	return Localizer{locale: locale}
}

// Weekday localizes an English weekday name.
func (l Localizer) Weekday(name string) string {
	if l.locale != LocaleCzech {
		return name
	}
	if out, ok := weekdayCzech[name]; ok {
		return out
	}
	return name
}

// MoonPhase localizes a canonical moon-phase bucket name.
func (l Localizer) MoonPhase(name string) string {
	if l.locale != LocaleCzech {
		return name
	}
	if out, ok := moonPhaseCzech[name]; ok {
		return out
	}
	return name
}
