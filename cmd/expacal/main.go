package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"expacal/internal/astro"
	"expacal/internal/calendar"
	"expacal/internal/config"
	applog "expacal/internal/log"
	"expacal/internal/model"
	"expacal/internal/schedule"
)

type flagConfig struct {
	configPath string
	watch      bool
	dump       bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		applog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applog.SetLevel(conf.LogLevel)

	if err := conf.Validate(); err != nil {
		applog.Error("invalid config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	applog.Info("expacal starting",
		"timezone", conf.Timezone,
		"locale", conf.Locale,
		"range_start", conf.RangeStart,
		"range_end", conf.RangeEnd,
		"output_dir", conf.OutputDir,
		"watch", flags.watch,
	)

	// Root context cancelled on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		applog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	planner, err := buildPlanner(ctx, conf)
	if err != nil {
		applog.Error("failed to build pipeline", err)
		os.Exit(1)
	}

	run := func() error {
		r, err := conf.Range()
		if err != nil {
			return err
		}
		// End of range is inclusive: extend to end-of-day.
		schedules, err := planner.Run(ctx, r.Start, r.End.AddDate(0, 0, 1).Add(-1))
		if err != nil {
			return err
		}
		if flags.dump {
			return dumpSchedules(schedules)
		}
		return writeSchedules(conf.OutputDir, schedules)
	}

	if err := run(); err != nil {
		applog.Error("run failed", err)
		os.Exit(1)
	}

	if !flags.watch {
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := run(); err != nil {
			applog.Error("scheduled run failed", err)
		}
	}); err != nil {
		applog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	applog.Info("watch mode active", "refresh", conf.RefreshCron)

	<-ctx.Done()
	<-c.Stop().Done()
	applog.Info("expacal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "expacal.yaml", "Path to config file")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and regenerate on the configured cron schedule")
	flag.BoolVar(&cfg.dump, "dump", false, "Print schedules as JSON to stdout instead of writing files")

	flag.Parse()

	return cfg
}

// buildPlanner wires the configured calendar source, the astronomical
// calculator and the aggregation rules into a Planner. When both a
// Google calendar and ICS feeds are configured, Google wins: schedules
// come from exactly one calendar, never a merge.
func buildPlanner(ctx context.Context, conf *config.Config) (*schedule.Planner, error) {
	loc := conf.Location()

	var source calendar.Source
	if conf.Google.CalendarID != "" {
		g, err := calendar.NewGoogleSource(ctx, calendar.GoogleOptions{
			CalendarID:   conf.Google.CalendarID,
			ClientID:     conf.Google.ClientID,
			ClientSecret: conf.Google.ClientSecret,
			TokenFile:    conf.Google.TokenFile,
		})
		if err != nil {
			return nil, err
		}
		source = g
	} else {
		feed := conf.ICS[0]
		if len(conf.ICS) > 1 {
			applog.Info("multiple ics feeds configured, using the first", "id", feed.ID)
		}
		source = calendar.NewICSSource(feed.ID, feed.URL)
	}

	calc := astro.NewCalculator(astro.NewClient(""), conf.Latitude, conf.Longitude, loc)
	agg := schedule.NewAggregator(loc, conf.DutyPrefix, conf.SuppressedTitles)
	localizer := schedule.NewLocalizer(conf.Locale)

	return schedule.NewPlanner(source, calc, agg, localizer), nil
}

// writeSchedules stores one JSON document per day for the external
// renderer, named after the original generator's scheme
// (program_YYYY_DD_MM.json).
func writeSchedules(dir string, schedules []model.DaySchedule) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, s := range schedules {
		date, err := model.ParseDayKey(s.DateKey, time.UTC)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("program_%04d_%02d_%02d.json", date.Year(), date.Day(), int(date.Month()))

		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		applog.Info("schedule written", "path", path, "entries", len(s.Entries))
	}
	return nil
}

func dumpSchedules(schedules []model.DaySchedule) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(schedules)
}
