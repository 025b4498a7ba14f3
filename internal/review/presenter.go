// Package review orchestrates review sessions: selecting due cards,
// preparing distractor pools, collecting outcomes from a presenter and
// applying them to the store.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/LeDat98/Drip/internal/flashcard"
)

// Presenter displays a batch of cards to the learner and collects one
// outcome per card. The call blocks until the learner has worked
// through the batch or abandoned it; cards missing from the returned
// map are treated as timed out by the orchestrator.
type Presenter interface {
	PresentBatch(
		ctx context.Context,
		cards []flashcard.Flashcard,
		timeouts StageTimeouts,
		termPool []string,
		definitionPool []string,
	) (map[int64]flashcard.Outcome, error)
}

//go:generate mockgen -source=presenter.go -destination=../mocks/review/mock_presenter.go -package=mock_review Presenter

// StageTimeouts maps each stage to how long the learner gets to answer.
type StageTimeouts map[int]time.Duration

// DefaultStageTimeouts returns the default per-stage answer timeouts.
// The typing stages get extra time.
func DefaultStageTimeouts() StageTimeouts {
	return StageTimeouts{
		1: 20 * time.Second,
		2: 30 * time.Second,
		3: 20 * time.Second,
		4: 30 * time.Second,
	}
}

// For returns the timeout for a stage, falling back to a conservative
// default for stages it has no entry for.
func (t StageTimeouts) For(stage int) time.Duration {
	if timeout, ok := t[stage]; ok {
		return timeout
	}
	return 10 * time.Second
}

// Set updates the timeout for one stage. Invalid stages or timeouts are
// rejected and the previous configuration is retained.
func (t StageTimeouts) Set(stage int, timeout time.Duration) error {
	if stage < flashcard.MinStage || stage > flashcard.MaxStage {
		return fmt.Errorf("stage %d: %w", stage, ErrInvalidStage)
	}
	if timeout < time.Second || timeout > 10*time.Minute {
		return fmt.Errorf("timeout %s: %w", timeout, ErrInvalidTimeout)
	}
	t[stage] = timeout
	return nil
}
