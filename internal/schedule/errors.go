package schedule

import "fmt"

// MalformedEventError reports a calendar event whose start or end
// timestamp could not be parsed. It aborts the whole aggregation run:
// a partially built schedule is worse than a named failure.
type MalformedEventError struct {
	EventID string
	Summary string
	Field   string // "start" or "end"
	Err     error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event %q (id %s): bad %s timestamp: %v",
		e.Summary, e.EventID, e.Field, e.Err)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}
