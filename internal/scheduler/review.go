package scheduler

import (
	"database/sql"
	"time"

	"github.com/LeDat98/Drip/internal/flashcard"
)

// Apply returns the card's state after recording the given outcome at
// the given time. The input card is not modified.
//
// Correct advances the stage by one (capped at the last stage) and
// schedules the next review by the interval policy. Incorrect keeps the
// stage and halves the interval. Timeout and Cancelled represent a
// learner who never engaged with the prompt: they bump the review
// counter and the last-reviewed time but leave the due time exactly as
// it was, so the card simply reappears on the next scheduling pass.
func Apply(card flashcard.Flashcard, outcome flashcard.Outcome, now time.Time) flashcard.Flashcard {
	updated := card
	updated.ReviewCount++
	updated.LastReviewedAt = sql.NullTime{Time: now, Valid: true}

	switch outcome {
	case flashcard.OutcomeCorrect:
		interval := NextIntervalHours(card.Stage, outcome)
		if card.Stage < flashcard.MaxStage {
			updated.Stage = card.Stage + 1
		}
		updated.LastCorrect = sql.NullBool{Bool: true, Valid: true}
		updated.CorrectCount++
		updated.IntervalHours = interval
		updated.NextDueAt = sql.NullTime{Time: now.Add(hoursToDuration(interval)), Valid: true}
	case flashcard.OutcomeIncorrect:
		interval := NextIntervalHours(card.Stage, outcome)
		updated.LastCorrect = sql.NullBool{Bool: false, Valid: true}
		updated.WrongCount++
		updated.IntervalHours = interval
		updated.NextDueAt = sql.NullTime{Time: now.Add(hoursToDuration(interval)), Valid: true}
	case flashcard.OutcomeTimeout, flashcard.OutcomeCancelled:
		// Due time, stage, last answer and interval stay untouched.
	}

	updated.PriorityScore = PriorityScore(updated, now)
	return updated
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
