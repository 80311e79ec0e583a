package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"expacal/internal/model"
)

const (
	calendarReadOnlyScope = "https://www.googleapis.com/auth/calendar.readonly"
	googleAPIBase         = "https://www.googleapis.com"
)

// GoogleSource reads events from one Google Calendar via the REST v3
// API. It requests single (already expanded) events ordered by start
// time, so no recurrence handling is needed downstream.
type GoogleSource struct {
	calendarID string
	apiBase    string
	httpClient *http.Client
}

// GoogleOptions configures a GoogleSource. TokenFile must contain an
// oauth2 token JSON obtained from a prior consent flow.
type GoogleOptions struct {
	CalendarID   string
	ClientID     string
	ClientSecret string
	TokenFile    string

	// APIBase overrides the Google API endpoint; used by tests.
	APIBase string
}

// NewGoogleSource builds a GoogleSource with an auto-refreshing OAuth
// HTTP client.
func NewGoogleSource(ctx context.Context, opts GoogleOptions) (*GoogleSource, error) {
	if opts.CalendarID == "" {
		return nil, fmt.Errorf("google: calendar ID is empty")
	}

	data, err := os.ReadFile(opts.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("google: read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("google: parse token file: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Scopes:       []string{calendarReadOnlyScope},
		Endpoint:     google.Endpoint,
	}

	base := opts.APIBase
	if base == "" {
		base = googleAPIBase
	}

	return &GoogleSource{
		calendarID: opts.CalendarID,
		apiBase:    base,
		httpClient: conf.Client(ctx, &token),
	}, nil
}

// Name identifies the source in logs and errors.
func (s *GoogleSource) Name() string {
	return "google:" + s.calendarID
}

// googleEventList mirrors the events.list response subset we consume.
type googleEventList struct {
	Items []struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Location    string `json:"location"`
		Start       struct {
			DateTime string `json:"dateTime"`
			Date     string `json:"date"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
			Date     string `json:"date"`
		} `json:"end"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// Events lists the calendar's events in [start, end]. Cancelled events
// are skipped; the raw start/end strings are passed through untouched so
// the aggregator owns all timestamp parsing.
func (s *GoogleSource) Events(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("timeMin", start.UTC().Format(time.RFC3339))
		q.Set("timeMax", end.UTC().Format(time.RFC3339))
		q.Set("singleEvents", "true")
		q.Set("orderBy", "startTime")
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		reqURL := fmt.Sprintf("%s/calendar/v3/calendars/%s/events?%s",
			s.apiBase, url.PathEscape(s.calendarID), q.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("events request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("events request failed: %s", resp.Status)
		}

		var page googleEventList
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("parse events: %w", err)
		}
		resp.Body.Close()

		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			out = append(out, model.CalendarEvent{
				ID:          item.ID,
				Summary:     item.Summary,
				Location:    item.Location,
				Description: item.Description,
				Start:       model.EventStamp{DateTime: item.Start.DateTime, Date: item.Start.Date},
				End:         model.EventStamp{DateTime: item.End.DateTime, Date: item.End.Date},
			})
		}

		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}
