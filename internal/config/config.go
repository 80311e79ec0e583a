package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// GoogleConfig holds the Google Calendar source settings. The token file
// is produced by a one-time OAuth consent flow outside this tool.
type GoogleConfig struct {
	CalendarID   string `yaml:"calendar_id" json:"calendar_id"`
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
	TokenFile    string `yaml:"token_file" json:"token_file"`
}

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	URL  string `yaml:"url" json:"url"`
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone all schedule times are rendered in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Locale selects display-name localization; "cs" translates weekday
	// and moon-phase names, anything else passes them through.
	Locale string `yaml:"locale" json:"locale"`

	// Latitude / Longitude of the observing site in decimal degrees.
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`

	// RangeStart / RangeEnd bound the schedule as "YYYY-MM-DD" local
	// dates, inclusive. Empty values default to July 1 .. August 31 of
	// the current year.
	RangeStart string `yaml:"range_start" json:"range_start"`
	RangeEnd   string `yaml:"range_end" json:"range_end"`

	// DutyPrefix is the summary token that marks a duty-roster entry
	// ("<prefix>: Name, Name, ...").
	DutyPrefix string `yaml:"duty_prefix" json:"duty_prefix"`

	// SuppressedTitles are auto-generated event summaries dropped during
	// aggregation because the astronomical data already covers them.
	SuppressedTitles []string `yaml:"suppressed_titles" json:"suppressed_titles"`

	// Google, if calendar_id is set, enables the Google Calendar source.
	Google GoogleConfig `yaml:"google" json:"google"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// OutputDir receives one schedule document per day.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// RefreshCron is the cron expression used by watch mode
	// (e.g. "*/30 * * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// LogLevel is "debug", "info" or "error".
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration. The site
// defaults point at the expedition observatory in Úpice.
func DefaultConfig() *Config {
	year := time.Now().Year()
	return &Config{
		Timezone:   "Europe/Prague",
		Locale:     "cs",
		Latitude:   50.5072,
		Longitude:  16.0122,
		RangeStart: fmt.Sprintf("%04d-07-01", year),
		RangeEnd:   fmt.Sprintf("%04d-08-31", year),
		DutyPrefix: "@service",
		SuppressedTitles: []string{
			"Sunrise", "Sunset", "Moonrise", "Moonset",
			"Východ Slunce", "Západ Slunce", "Východ Měsíce", "Západ Měsíce",
		},
		ICS:         []ICSConfig{},
		OutputDir:   "./out",
		RefreshCron: "*/30 * * * *",
		LogLevel:    "info",
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.RangeStart == "" {
		c.RangeStart = def.RangeStart
	}
	if c.RangeEnd == "" {
		c.RangeEnd = def.RangeEnd
	}
	if c.DutyPrefix == "" {
		c.DutyPrefix = def.DutyPrefix
	}
	if c.SuppressedTitles == nil {
		c.SuppressedTitles = def.SuppressedTitles
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate checks the values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if _, err := c.Range(); err != nil {
		return err
	}
	if c.Google.CalendarID == "" && len(c.ICS) == 0 {
		return errors.New("no calendar source configured (google.calendar_id or ics)")
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DateRange is an inclusive pair of local calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Range returns the configured inclusive date range as local midnights.
func (c *Config) Range() (DateRange, error) {
	var r DateRange
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return r, err
	}
	r.Start, err = time.ParseInLocation("2006-01-02", c.RangeStart, loc)
	if err != nil {
		return r, fmt.Errorf("range_start: %w", err)
	}
	r.End, err = time.ParseInLocation("2006-01-02", c.RangeEnd, loc)
	if err != nil {
		return r, fmt.Errorf("range_end: %w", err)
	}
	if r.End.Before(r.Start) {
		return r, fmt.Errorf("range_end %s is before range_start %s", c.RangeEnd, c.RangeStart)
	}
	return r, nil
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (parent
// directory created as needed) and returned, so a first run leaves an
// editable file behind.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions; the parent directory is created with 0700.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".expacal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
