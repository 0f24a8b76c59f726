package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studyloop/studyloop/internal/config"
	"github.com/studyloop/studyloop/internal/database"
	"github.com/studyloop/studyloop/internal/engine"
	"github.com/studyloop/studyloop/internal/plan"
	"github.com/studyloop/studyloop/internal/planner"
	"github.com/studyloop/studyloop/internal/record"
)

// app bundles the wired dependencies a command needs.
type app struct {
	cfg     *config.Config
	db      *sqlx.DB
	engine  *engine.Engine
	plans   plan.Repository
	catalog planner.Catalog
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	records := record.NewDBRepository(db)
	plans := plan.NewDBRepository(db)
	catalog := planner.NewDBCatalog(db)

	tuning := planner.DefaultTuning()
	if cfg.Planner.DailyLoadCeiling > 0 {
		tuning.DailyLoadCeiling = cfg.Planner.DailyLoadCeiling
	}
	if cfg.Planner.LoadNormalizationHours > 0 {
		tuning.LoadNormalizationHours = cfg.Planner.LoadNormalizationHours
	}

	eng := engine.New(records, plans, catalog, slog.Default(), engine.Config{
		WindowDays:   cfg.Engine.WindowDays,
		QueryTimeout: time.Duration(cfg.Engine.QueryTimeoutSeconds) * time.Second,
		Tuning:       tuning,
	})

	return &app{
		cfg:     cfg,
		db:      db,
		engine:  eng,
		plans:   plans,
		catalog: catalog,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// parseWeekdays converts names like "monday,wednesday" into weekdays.
func parseWeekdays(names []string) ([]time.Weekday, error) {
	byName := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}

	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday: %s", name)
		}
		days = append(days, day)
	}
	return days, nil
}
