package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	applog "expacal/internal/log"
	"expacal/internal/model"
)

// ICSSource reads events from a single ICS subscription URL.
//
// VEVENTs are taken exactly as published: an RRULE-bearing event counts
// once at its DTSTART, matching the policy that recurrence expansion
// beyond what the provider delivers is out of scope.
type ICSSource struct {
	id     string
	url    string
	client *http.Client
}

// NewICSSource creates an ICSSource for the given feed.
func NewICSSource(id, feedURL string) *ICSSource {
	return &ICSSource{
		id:  id,
		url: feedURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name identifies the source in logs and errors.
func (s *ICSSource) Name() string {
	return "ics:" + s.id
}

// Events fetches and parses the feed, returning events whose span
// intersects [start, end] sorted by start time (ICS feeds carry no
// ordering guarantee of their own).
func (s *ICSSource) Events(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics fetch: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ics read: %w", err)
	}

	return s.parse(body, start, end)
}

type icsEvent struct {
	event model.CalendarEvent
	start time.Time
}

func (s *ICSSource) parse(body []byte, start, end time.Time) ([]model.CalendarEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics parse: %w", err)
	}

	var collected []icsEvent

	for _, ve := range cal.Events() {
		ev, evStart, perr := s.parseVEvent(ve)
		if perr != nil {
			// A single broken VEVENT should not sink the whole feed.
			applog.Error("ics vevent skipped", perr, "id", s.id)
			continue
		}
		if evStart.After(end) || evStart.Before(start) {
			continue
		}
		collected = append(collected, icsEvent{event: ev, start: evStart})
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].start.Before(collected[j].start)
	})

	out := make([]model.CalendarEvent, 0, len(collected))
	for _, c := range collected {
		out = append(out, c.event)
	}
	return out, nil
}

func (s *ICSSource) parseVEvent(ve *ical.VEvent) (model.CalendarEvent, time.Time, error) {
	var ev model.CalendarEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.ID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, time.Time{}, fmt.Errorf("event %s: DTSTART: %w", ev.ID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		// Events without DTEND are instants.
		end = start
	}

	allDay := false
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if params := p.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				allDay = true
			}
		}
		if !strings.Contains(p.Value, "T") {
			allDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		applog.Debug("ics event has RRULE, using base occurrence only", "uid", ev.ID, "rrule", p.Value)
	}

	if allDay {
		ev.Start = model.EventStamp{Date: start.Format("2006-01-02")}
		ev.End = model.EventStamp{Date: end.Format("2006-01-02")}
	} else {
		ev.Start = model.EventStamp{DateTime: start.Format(time.RFC3339)}
		ev.End = model.EventStamp{DateTime: end.Format(time.RFC3339)}
	}

	return ev, start, nil
}
