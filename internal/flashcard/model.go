// Package flashcard provides the flashcard domain model and its repository.
package flashcard

import (
	"database/sql"
	"fmt"
	"time"
)

// Stage bounds for the four-level mastery ladder.
const (
	MinStage = 1
	MaxStage = 4
)

// FirstReviewDelay is how long after creation a new card becomes due.
const FirstReviewDelay = 30 * time.Minute

// NewCardPriority seeds freshly created cards near the front of the queue.
const NewCardPriority = 100

// Flashcard represents one vocabulary entry with its scheduling state.
type Flashcard struct {
	ID             int64        `db:"id"`
	Term           string       `db:"term"`
	Definition     string       `db:"definition"`
	Example        string       `db:"example"`
	Tag            string       `db:"tag"`
	Stage          int          `db:"stage"`
	LastCorrect    sql.NullBool `db:"last_correct"`
	CreatedAt      time.Time    `db:"created_at"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
	NextDueAt      sql.NullTime `db:"next_due_at"`
	ReviewCount    int          `db:"review_count"`
	CorrectCount   int          `db:"correct_count"`
	WrongCount     int          `db:"wrong_count"`
	PriorityScore  float64      `db:"priority_score"`
	IntervalHours  float64      `db:"interval_hours"`
}

// NewCard builds a stage-one card scheduled for its first review half an
// hour after creation.
func NewCard(term, definition, example, tag string, now time.Time) Flashcard {
	return Flashcard{
		Term:          term,
		Definition:    definition,
		Example:       example,
		Tag:           tag,
		Stage:         MinStage,
		CreatedAt:     now,
		NextDueAt:     sql.NullTime{Time: now.Add(FirstReviewDelay), Valid: true},
		PriorityScore: NewCardPriority,
		IntervalHours: FirstReviewDelay.Hours(),
	}
}

// IsDue reports whether the card's next review time has passed.
// A card without a scheduled review time is never due.
func (c Flashcard) IsDue(now time.Time) bool {
	return c.NextDueAt.Valid && !c.NextDueAt.Time.After(now)
}

// Outcome is the result of presenting one card for review.
type Outcome int

const (
	OutcomeCorrect Outcome = iota + 1
	OutcomeIncorrect
	OutcomeTimeout
	OutcomeCancelled
)

// String returns the name of the outcome. For invalid values it returns "Outcome(n)".
func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// IsValid reports whether o is one of the four defined outcomes.
func (o Outcome) IsValid() bool {
	return o >= OutcomeCorrect && o <= OutcomeCancelled
}

// IsAnswer reports whether the outcome is a graded attempt.
// Timeout and Cancelled mean the learner never engaged with the prompt.
func (o Outcome) IsAnswer() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}
