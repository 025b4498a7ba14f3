package flashcard

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCard(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	card := NewCard("ephemeral", "lasting for a very short time", "an ephemeral joy", "adjectives", now)

	assert.Equal(t, "ephemeral", card.Term)
	assert.Equal(t, "lasting for a very short time", card.Definition)
	assert.Equal(t, "an ephemeral joy", card.Example)
	assert.Equal(t, "adjectives", card.Tag)
	assert.Equal(t, MinStage, card.Stage)
	assert.Equal(t, now, card.CreatedAt)
	assert.Equal(t, sql.NullTime{Time: now.Add(30 * time.Minute), Valid: true}, card.NextDueAt)
	assert.Equal(t, float64(NewCardPriority), card.PriorityScore)
	assert.Equal(t, 0.5, card.IntervalHours)
	assert.Zero(t, card.ReviewCount)
	assert.False(t, card.LastCorrect.Valid)
}

func TestFlashcard_IsDue(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		card Flashcard
		want bool
	}{
		{
			name: "past due time",
			card: Flashcard{NextDueAt: sql.NullTime{Time: now.Add(-time.Minute), Valid: true}},
			want: true,
		},
		{
			name: "due exactly now",
			card: Flashcard{NextDueAt: sql.NullTime{Time: now, Valid: true}},
			want: true,
		},
		{
			name: "due in the future",
			card: Flashcard{NextDueAt: sql.NullTime{Time: now.Add(time.Minute), Valid: true}},
			want: false,
		},
		{
			name: "no scheduled review",
			card: Flashcard{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.IsDue(now))
		})
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "correct", OutcomeCorrect.String())
	assert.Equal(t, "cancelled", OutcomeCancelled.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())

	assert.True(t, OutcomeTimeout.IsValid())
	assert.False(t, Outcome(0).IsValid())

	assert.True(t, OutcomeIncorrect.IsAnswer())
	assert.False(t, OutcomeTimeout.IsAnswer())
	assert.False(t, OutcomeCancelled.IsAnswer())
}
