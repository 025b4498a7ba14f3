package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LeDat98/Drip/internal/flashcard"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		outcomes map[int64]flashcard.Outcome
		expected SessionSummary
	}{
		{
			name:     "empty session",
			outcomes: map[int64]flashcard.Outcome{},
			expected: SessionSummary{},
		},
		{
			name: "mixed outcomes",
			outcomes: map[int64]flashcard.Outcome{
				1: flashcard.OutcomeCorrect,
				2: flashcard.OutcomeCorrect,
				3: flashcard.OutcomeIncorrect,
				4: flashcard.OutcomeTimeout,
				5: flashcard.OutcomeCancelled,
			},
			expected: SessionSummary{
				TotalReviews:    5,
				CorrectAnswers:  2,
				WrongAnswers:    1,
				Timeouts:        1,
				Cancelled:       1,
				AccuracyPercent: 40,
			},
		},
		{
			name: "accuracy rounds to one decimal",
			outcomes: map[int64]flashcard.Outcome{
				1: flashcard.OutcomeCorrect,
				2: flashcard.OutcomeIncorrect,
				3: flashcard.OutcomeIncorrect,
			},
			expected: SessionSummary{
				TotalReviews:    3,
				CorrectAnswers:  1,
				WrongAnswers:    2,
				AccuracyPercent: 33.3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Summarize(tt.outcomes))
		})
	}
}

func TestFormatStoreStats(t *testing.T) {
	report := FormatStoreStats(flashcard.Stats{
		TotalCards:   6,
		TotalReviews: 20,
		TotalCorrect: 15,
		TotalWrong:   4,
		CardsByStage: map[int]int{2: 2, 1: 3, 4: 1},
	})

	assert.Contains(t, report, "Cards: 6")
	assert.Contains(t, report, "Reviews: 20 (correct: 15, wrong: 4)")
	// Stages are listed in ascending order.
	assert.Regexp(t, `(?s)stage 1: 3 cards.*stage 2: 2 cards.*stage 4: 1 cards`, report)
}
