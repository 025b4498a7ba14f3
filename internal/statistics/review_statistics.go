// Package statistics aggregates review outcomes into session summaries
// and whole-store reports.
package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/LeDat98/Drip/internal/flashcard"
)

// SessionSummary holds the outcome counts for one review session.
type SessionSummary struct {
	TotalReviews    int
	CorrectAnswers  int
	WrongAnswers    int
	Timeouts        int
	Cancelled       int
	AccuracyPercent float64
}

// Summarize aggregates a session's outcome map into a summary.
// Accuracy counts only graded attempts against the total, rounded to
// one decimal place.
func Summarize(outcomes map[int64]flashcard.Outcome) SessionSummary {
	var summary SessionSummary
	for _, outcome := range outcomes {
		summary.TotalReviews++
		switch outcome {
		case flashcard.OutcomeCorrect:
			summary.CorrectAnswers++
		case flashcard.OutcomeIncorrect:
			summary.WrongAnswers++
		case flashcard.OutcomeTimeout:
			summary.Timeouts++
		case flashcard.OutcomeCancelled:
			summary.Cancelled++
		}
	}
	if summary.TotalReviews > 0 {
		accuracy := float64(summary.CorrectAnswers) / float64(summary.TotalReviews) * 100
		summary.AccuracyPercent = math.Round(accuracy*10) / 10
	}
	return summary
}

// FormatStoreStats renders whole-store counters as a small report for
// the stats command.
func FormatStoreStats(stats flashcard.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cards: %d\n", stats.TotalCards)
	fmt.Fprintf(&b, "Reviews: %d (correct: %d, wrong: %d)\n",
		stats.TotalReviews, stats.TotalCorrect, stats.TotalWrong)

	stages := make([]int, 0, len(stats.CardsByStage))
	for stage := range stats.CardsByStage {
		stages = append(stages, stage)
	}
	sort.Ints(stages)
	for _, stage := range stages {
		fmt.Fprintf(&b, "  stage %d: %d cards\n", stage, stats.CardsByStage[stage])
	}
	return b.String()
}
