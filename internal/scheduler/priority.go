// Package scheduler implements the review scheduling rules: priority
// ranking of due cards, interval growth per stage, and the state
// transition applied after each review outcome.
package scheduler

import (
	"time"

	"github.com/LeDat98/Drip/internal/flashcard"
)

const (
	overdueBonusPerHour = 5.0
	maxOverdueBonus     = 50.0
	wrongAnswerBoost    = 30.0
	freshCardBonus      = 20.0
)

// stageBasePriority gives lower mastery stages a higher base score.
var stageBasePriority = map[int]float64{
	1: 100,
	2: 80,
	3: 60,
	4: 40,
}

// PriorityScore ranks a card for due-set ordering at the given time.
// The score combines the stage base, a capped linear bonus for how
// overdue the card is, a boost for cards missed on their last attempt,
// and a bonus for stage-1 cards to reinforce new vocabulary early.
func PriorityScore(card flashcard.Flashcard, now time.Time) float64 {
	score := stageBasePriority[card.Stage]

	if card.NextDueAt.Valid && !card.NextDueAt.Time.After(now) {
		overdueHours := now.Sub(card.NextDueAt.Time).Hours()
		bonus := overdueHours * overdueBonusPerHour
		if bonus > maxOverdueBonus {
			bonus = maxOverdueBonus
		}
		score += bonus
	}

	if card.LastCorrect.Valid && !card.LastCorrect.Bool {
		score += wrongAnswerBoost
	}

	if card.Stage == flashcard.MinStage {
		score += freshCardBonus
	}

	return score
}
