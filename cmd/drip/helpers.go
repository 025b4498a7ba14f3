package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/LeDat98/Drip/internal/config"
	"github.com/LeDat98/Drip/internal/database"
	"github.com/LeDat98/Drip/internal/flashcard"
	"github.com/LeDat98/Drip/internal/review"
	"github.com/LeDat98/Drip/internal/scheduler"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openRepository opens the card store and runs migrations. The returned
// close function must be called when the command is done.
func openRepository(cfg *config.Config) (*flashcard.DBRepository, func() error, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return flashcard.NewDBRepository(db, scheduler.PriorityScore), db.Close, nil
}

func orchestratorConfig(cfg *config.Config) review.Config {
	timeouts := review.DefaultStageTimeouts()
	for stage, seconds := range cfg.Review.StageTimeoutSeconds {
		// Range checked by the configuration validator.
		if err := timeouts.Set(stage, time.Duration(seconds)*time.Second); err != nil {
			slog.Warn("Skipping stage timeout override", "stage", stage, "error", err)
		}
	}

	return review.Config{
		BatchLimit:      cfg.Review.BatchLimit,
		ContextualFetch: cfg.Review.ContextualFetch,
		StageTimeouts:   timeouts,
		DelayTiers: scheduler.DelayTiers{
			FewDueThreshold: cfg.Watch.FewDueThreshold,
			FewDueMinutes:   cfg.Watch.FewDueMinutes,
			ManyDueMinutes:  cfg.Watch.ManyDueMinutes,
			MinIdleMinutes:  cfg.Watch.MinIdleMinutes,
			MaxIdleMinutes:  cfg.Watch.MaxIdleMinutes,
		},
	}
}
