package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"

	"github.com/LeDat98/Drip/internal/flashcard"
	"github.com/LeDat98/Drip/internal/scheduler"
)

// Config controls one orchestrator instance. All values are explicit;
// nothing is read from process-wide state.
type Config struct {
	// BatchLimit bounds how many due cards one session reviews.
	BatchLimit int
	// ContextualFetch is how many distractor candidates are gathered
	// per multiple-choice card before pooling.
	ContextualFetch int
	// StageTimeouts is handed through to the presenter.
	StageTimeouts StageTimeouts
	// DelayTiers computes the wait until the next scheduling check.
	DelayTiers scheduler.DelayTiers
}

// DefaultConfig returns the reference orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		BatchLimit:      5,
		ContextualFetch: 5,
		StageTimeouts:   DefaultStageTimeouts(),
		DelayTiers:      scheduler.DefaultDelayTiers(),
	}
}

// Result summarizes one scheduling pass.
type Result struct {
	HadDueCards      bool
	NextCheckMinutes int
	Reviewed         int
	Correct          int
	Wrong            int
	Timeouts         int
	Cancelled        int
}

// Orchestrator drives review passes over due cards. It is safe for a
// periodic scheduler to call concurrently: only one session runs at a
// time, and a second attempt fails with ErrSessionInProgress so the
// caller can retry after a short backoff.
type Orchestrator struct {
	repo      flashcard.Repository
	presenter Presenter
	cfg       Config
	inFlight  atomic.Bool
	nowFn     func() time.Time
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(repo flashcard.Repository, presenter Presenter, cfg Config) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		presenter: presenter,
		cfg:       cfg,
		nowFn:     time.Now,
	}
}

// InProgress reports whether a session is currently running.
func (o *Orchestrator) InProgress() bool {
	return o.inFlight.Load()
}

// RunSession performs one review pass: query due cards, prepare
// distractor pools, present the batch, apply every outcome, and compute
// the delay until the next scheduling check. With nothing due it
// returns immediately without ever invoking the presenter.
func (o *Orchestrator) RunSession(ctx context.Context) (*Result, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSessionInProgress
	}
	defer o.inFlight.Store(false)

	now := o.nowFn()
	cards, err := o.repo.FindDue(ctx, o.cfg.BatchLimit, now)
	if err != nil {
		return nil, fmt.Errorf("repo.FindDue() > %w", err)
	}
	if len(cards) == 0 {
		slog.Debug("no cards due for review")
		minutes, err := o.nextCheckMinutes(ctx, o.nowFn())
		if err != nil {
			return nil, err
		}
		return &Result{HadDueCards: false, NextCheckMinutes: minutes}, nil
	}

	termPool, definitionPool := o.prepareDistractorPools(ctx, cards)

	outcomes, err := o.presenter.PresentBatch(ctx, cards, o.cfg.StageTimeouts, termPool, definitionPool)
	if err != nil {
		return nil, fmt.Errorf("presenter.PresentBatch() > %w", err)
	}

	result := o.applyOutcomes(ctx, cards, outcomes)

	minutes, err := o.nextCheckMinutes(ctx, o.nowFn())
	if err != nil {
		return nil, err
	}
	result.NextCheckMinutes = minutes
	return result, nil
}

// PostponeSession records a declined or ignored pre-session prompt:
// every pending due card receives a Cancelled outcome through the
// normal pipeline, without the presenter ever being invoked.
func (o *Orchestrator) PostponeSession(ctx context.Context) (*Result, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSessionInProgress
	}
	defer o.inFlight.Store(false)

	now := o.nowFn()
	cards, err := o.repo.FindDue(ctx, o.cfg.BatchLimit, now)
	if err != nil {
		return nil, fmt.Errorf("repo.FindDue() > %w", err)
	}

	outcomes := make(map[int64]flashcard.Outcome, len(cards))
	for _, card := range cards {
		outcomes[card.ID] = flashcard.OutcomeCancelled
	}
	result := o.applyOutcomes(ctx, cards, outcomes)

	minutes, err := o.nextCheckMinutes(ctx, o.nowFn())
	if err != nil {
		return nil, err
	}
	result.NextCheckMinutes = minutes
	return result, nil
}

// ForceSession reviews the highest-priority cards regardless of
// due-ness, for a manually started pass.
func (o *Orchestrator) ForceSession(ctx context.Context) (*Result, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSessionInProgress
	}
	defer o.inFlight.Store(false)

	cards, err := o.repo.FindTopPriority(ctx, o.cfg.BatchLimit, o.nowFn())
	if err != nil {
		return nil, fmt.Errorf("repo.FindTopPriority() > %w", err)
	}
	if len(cards) == 0 {
		return &Result{HadDueCards: false, NextCheckMinutes: o.cfg.DelayTiers.MinIdleMinutes}, nil
	}

	termPool, definitionPool := o.prepareDistractorPools(ctx, cards)

	outcomes, err := o.presenter.PresentBatch(ctx, cards, o.cfg.StageTimeouts, termPool, definitionPool)
	if err != nil {
		return nil, fmt.Errorf("presenter.PresentBatch() > %w", err)
	}

	result := o.applyOutcomes(ctx, cards, outcomes)

	minutes, err := o.nextCheckMinutes(ctx, o.nowFn())
	if err != nil {
		return nil, err
	}
	result.NextCheckMinutes = minutes
	return result, nil
}

// prepareDistractorPools gathers contextual terms for choose-the-term
// cards and contextual definitions for choose-the-definition cards,
// deduplicated across the batch. Distractor failures degrade to smaller
// pools instead of aborting the session.
func (o *Orchestrator) prepareDistractorPools(ctx context.Context, cards []flashcard.Flashcard) ([]string, []string) {
	var termPool, definitionPool []string
	seenTerms := make(map[string]struct{})
	seenDefinitions := make(map[string]struct{})

	for _, card := range cards {
		switch card.Stage {
		case 3:
			terms, err := o.repo.ContextualTerms(ctx, card.ID, o.cfg.ContextualFetch)
			if err != nil {
				slog.Warn("failed to prepare contextual terms", "card_id", card.ID, "error", err)
				continue
			}
			for _, term := range terms {
				if _, ok := seenTerms[term]; ok {
					continue
				}
				seenTerms[term] = struct{}{}
				termPool = append(termPool, term)
			}
		case 2:
			definitions, err := o.repo.ContextualDefinitions(ctx, card.ID, o.cfg.ContextualFetch)
			if err != nil {
				slog.Warn("failed to prepare contextual definitions", "card_id", card.ID, "error", err)
				continue
			}
			for _, definition := range definitions {
				if _, ok := seenDefinitions[definition]; ok {
					continue
				}
				seenDefinitions[definition] = struct{}{}
				definitionPool = append(definitionPool, definition)
			}
		}
	}
	return termPool, definitionPool
}

// applyOutcomes feeds every (card, outcome) pair through the state
// machine and persists the result. Cards the presenter never reached
// are recorded as timed out. A failure on one card never blocks the
// remainder; storage errors are retried once and then skipped.
func (o *Orchestrator) applyOutcomes(ctx context.Context, cards []flashcard.Flashcard, outcomes map[int64]flashcard.Outcome) *Result {
	result := &Result{HadDueCards: true}

	for _, card := range cards {
		outcome, ok := outcomes[card.ID]
		if !ok || !outcome.IsValid() {
			outcome = flashcard.OutcomeTimeout
		}

		updated := scheduler.Apply(card, outcome, o.nowFn())
		err := retry.Do(
			func() error {
				return o.repo.ApplyReview(ctx, updated)
			},
			retry.Attempts(2),
			retry.Delay(100*time.Millisecond),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return !errors.Is(err, flashcard.ErrNotFound)
			}),
		)
		if err != nil {
			slog.Warn("failed to persist review outcome, skipping card",
				"card_id", card.ID, "outcome", outcome.String(), "error", err)
			continue
		}

		result.Reviewed++
		switch outcome {
		case flashcard.OutcomeCorrect:
			result.Correct++
		case flashcard.OutcomeIncorrect:
			result.Wrong++
		case flashcard.OutcomeTimeout:
			result.Timeouts++
		case flashcard.OutcomeCancelled:
			result.Cancelled++
		}
	}
	return result
}

// nextCheckMinutes recomputes the due count after the pass and picks
// the delay until the next scheduling check.
func (o *Orchestrator) nextCheckMinutes(ctx context.Context, now time.Time) (int, error) {
	dueCount, err := o.repo.CountDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("repo.CountDue() > %w", err)
	}

	var earliest *time.Time
	if dueCount == 0 {
		earliest, err = o.repo.EarliestUpcoming(ctx, now)
		if err != nil {
			return 0, fmt.Errorf("repo.EarliestUpcoming() > %w", err)
		}
	}
	return o.cfg.DelayTiers.NextCheckMinutes(dueCount, earliest, now), nil
}
