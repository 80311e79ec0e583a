package astro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public sunrise-sunset.org API endpoint.
const DefaultBaseURL = "https://api.sunrise-sunset.org"

// SolarTimes are the raw solar reference instants for one (location,
// date), as returned by the remote API. All instants are UTC; timezone
// conversion happens in the Calculator.
type SolarTimes struct {
	Sunrise   time.Time
	Sunset    time.Time
	SolarNoon time.Time
	DayLength time.Duration

	CivilTwilightBegin        time.Time
	CivilTwilightEnd          time.Time
	NauticalTwilightBegin     time.Time
	NauticalTwilightEnd       time.Time
	AstronomicalTwilightBegin time.Time
	AstronomicalTwilightEnd   time.Time
}

// Client fetches solar times from the sunrise-sunset.org JSON API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a Client against baseURL (DefaultBaseURL if empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
	}
}

// solarResponse mirrors the wire shape with formatted=0: ISO 8601 UTC
// instants and day_length in seconds.
type solarResponse struct {
	Results struct {
		Sunrise                   string `json:"sunrise"`
		Sunset                    string `json:"sunset"`
		SolarNoon                 string `json:"solar_noon"`
		DayLength                 int64  `json:"day_length"`
		CivilTwilightBegin        string `json:"civil_twilight_begin"`
		CivilTwilightEnd          string `json:"civil_twilight_end"`
		NauticalTwilightBegin     string `json:"nautical_twilight_begin"`
		NauticalTwilightEnd       string `json:"nautical_twilight_end"`
		AstronomicalTwilightBegin string `json:"astronomical_twilight_begin"`
		AstronomicalTwilightEnd   string `json:"astronomical_twilight_end"`
	} `json:"results"`
	Status string `json:"status"`
}

// Fetch retrieves solar times for (lat, lng) on the given calendar date.
// Any network, status or decode failure is returned as a
// *AstronomicalDataError for that date.
func (c *Client) Fetch(ctx context.Context, lat, lng float64, date time.Time) (SolarTimes, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lng", fmt.Sprintf("%g", lng))
	q.Set("date", date.Format("2006-01-02"))
	q.Set("formatted", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json?"+q.Encode(), nil)
	if err != nil {
		return SolarTimes{}, &AstronomicalDataError{Date: date, Op: "request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SolarTimes{}, &AstronomicalDataError{Date: date, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SolarTimes{}, &AstronomicalDataError{
			Date: date,
			Op:   "fetch",
			Err:  fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var body solarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return SolarTimes{}, &AstronomicalDataError{Date: date, Op: "decode", Err: err}
	}
	if body.Status != "OK" {
		return SolarTimes{}, &AstronomicalDataError{
			Date: date,
			Op:   "status",
			Err:  fmt.Errorf("api status %q", body.Status),
		}
	}

	var st SolarTimes
	st.DayLength = time.Duration(body.Results.DayLength) * time.Second

	for _, f := range []struct {
		raw  string
		dst  *time.Time
		name string
	}{
		{body.Results.Sunrise, &st.Sunrise, "sunrise"},
		{body.Results.Sunset, &st.Sunset, "sunset"},
		{body.Results.SolarNoon, &st.SolarNoon, "solar_noon"},
		{body.Results.CivilTwilightBegin, &st.CivilTwilightBegin, "civil_twilight_begin"},
		{body.Results.CivilTwilightEnd, &st.CivilTwilightEnd, "civil_twilight_end"},
		{body.Results.NauticalTwilightBegin, &st.NauticalTwilightBegin, "nautical_twilight_begin"},
		{body.Results.NauticalTwilightEnd, &st.NauticalTwilightEnd, "nautical_twilight_end"},
		{body.Results.AstronomicalTwilightBegin, &st.AstronomicalTwilightBegin, "astronomical_twilight_begin"},
		{body.Results.AstronomicalTwilightEnd, &st.AstronomicalTwilightEnd, "astronomical_twilight_end"},
	} {
		t, perr := time.Parse(time.RFC3339, f.raw)
		if perr != nil {
			return SolarTimes{}, &AstronomicalDataError{
				Date: date,
				Op:   "decode",
				Err:  fmt.Errorf("field %s: %w", f.name, perr),
			}
		}
		*f.dst = t.UTC()
	}

	return st, nil
}
