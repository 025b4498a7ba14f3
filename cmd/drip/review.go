package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeDat98/Drip/internal/bootstrap"
	"github.com/LeDat98/Drip/internal/cli"
	"github.com/LeDat98/Drip/internal/config"
	"github.com/LeDat98/Drip/internal/flashcard"
	"github.com/LeDat98/Drip/internal/review"
)

// confirmTimeout bounds how long the pre-session prompt waits before
// treating silence as a decline.
const confirmTimeout = 30 * time.Second

// fallbackCheckInterval is used when a scheduling pass fails and no
// delay could be computed.
const fallbackCheckInterval = 30 * time.Minute

func newReviewCommand() *cobra.Command {
	var force bool

	command := &cobra.Command{
		Use:   "review",
		Short: "Run one review session over due cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, closeStore, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			presenter := cli.NewReviewPresenter(os.Stdin, os.Stdout, cfg.Review.DistractorCount, cfg.UI.Sound)
			orchestrator := review.NewOrchestrator(repo, presenter, orchestratorConfig(cfg))

			var result *review.Result
			if force {
				result, err = orchestrator.ForceSession(cmd.Context())
			} else {
				result, err = orchestrator.RunSession(cmd.Context())
			}
			if err != nil {
				return err
			}

			printResult(result)
			return nil
		},
	}
	command.Flags().BoolVar(&force, "force", false, "Review the highest priority cards even when none are due")

	return command
}

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep watching the store and start sessions as cards become due",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, closeStore, err := openRepository(cfg)
			if err != nil {
				return err
			}

			app := bootstrap.New()
			app.AddShutdownHook(func(ctx context.Context) error {
				return closeStore()
			})

			presenter := cli.NewReviewPresenter(os.Stdin, os.Stdout, cfg.Review.DistractorCount, cfg.UI.Sound)
			orchestrator := review.NewOrchestrator(repo, presenter, orchestratorConfig(cfg))

			return app.Run(cmd.Context(), func(ctx context.Context) error {
				return watchLoop(ctx, cfg, repo, presenter, orchestrator)
			})
		},
	}
}

// watchLoop alternates scheduling passes with the delay each pass
// reports. It only stops when the context is cancelled.
func watchLoop(
	ctx context.Context,
	cfg *config.Config,
	repo flashcard.Repository,
	presenter *cli.ReviewPresenter,
	orchestrator *review.Orchestrator,
) error {
	retryBackoff := time.Duration(cfg.Watch.RetryBackoffSeconds) * time.Second

	for {
		if orchestrator.InProgress() {
			if err := sleepCtx(ctx, retryBackoff); err != nil {
				return nil
			}
			continue
		}

		result, err := runWatchPass(ctx, cfg, repo, presenter, orchestrator)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, review.ErrSessionInProgress) {
				if err := sleepCtx(ctx, retryBackoff); err != nil {
					return nil
				}
				continue
			}
			slog.Warn("scheduling pass failed", "error", err)
			if err := sleepCtx(ctx, fallbackCheckInterval); err != nil {
				return nil
			}
			continue
		}

		if result.HadDueCards {
			printResult(result)
		}
		slog.Debug("next scheduling check", "minutes", result.NextCheckMinutes)
		if err := sleepCtx(ctx, time.Duration(result.NextCheckMinutes)*time.Minute); err != nil {
			return nil
		}
	}
}

// runWatchPass checks for due cards and either runs a session, or
// records a postponement when the pre-session prompt is declined.
func runWatchPass(
	ctx context.Context,
	cfg *config.Config,
	repo flashcard.Repository,
	presenter *cli.ReviewPresenter,
	orchestrator *review.Orchestrator,
) (*review.Result, error) {
	dueCount, err := repo.CountDue(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("repo.CountDue() > %w", err)
	}

	if dueCount > 0 && cfg.UI.AutoPopup {
		accepted, err := presenter.ConfirmSession(ctx, dueCount, confirmTimeout)
		if err != nil {
			return nil, fmt.Errorf("presenter.ConfirmSession() > %w", err)
		}
		if !accepted {
			return orchestrator.PostponeSession(ctx)
		}
	}
	return orchestrator.RunSession(ctx)
}

func printResult(result *review.Result) {
	if !result.HadDueCards {
		fmt.Printf("No cards due. Next check in %d minutes.\n", result.NextCheckMinutes)
		return
	}
	fmt.Printf("Reviewed %d cards: %d correct, %d wrong, %d timed out, %d cancelled.\n",
		result.Reviewed, result.Correct, result.Wrong, result.Timeouts, result.Cancelled)
	fmt.Printf("Next check in %d minutes.\n", result.NextCheckMinutes)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
