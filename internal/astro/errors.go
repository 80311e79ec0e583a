package astro

import (
	"fmt"
	"time"
)

// AstronomicalDataError reports a failed fetch or parse of external
// astronomical data for one calendar date. The failure is fatal for that
// date's computation; callers may retry the whole call, but the package
// never substitutes default values.
type AstronomicalDataError struct {
	Date time.Time
	Op   string // "fetch", "decode", "status", ...
	Err  error
}

func (e *AstronomicalDataError) Error() string {
	return fmt.Sprintf("astronomical data for %s: %s: %v", e.Date.Format("2006-01-02"), e.Op, e.Err)
}

func (e *AstronomicalDataError) Unwrap() error {
	return e.Err
}
