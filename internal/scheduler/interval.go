package scheduler

import "github.com/LeDat98/Drip/internal/flashcard"

// stageBaseIntervalHours is the review interval each stage starts from.
var stageBaseIntervalHours = map[int]float64{
	1: 0.5,
	2: 2,
	3: 24,
	4: 168,
}

const (
	earlyStageGrowth = 2.0
	lateStageGrowth  = 1.5
	lapseShrink      = 0.5
)

// NextIntervalHours computes the hours until a card's next review given
// the stage it was reviewed at and the outcome. Correct answers grow the
// base interval, faster at stages 1-2 where the base is still short.
// Wrong answers halve it. Timeout and Cancelled return the base interval
// unchanged; note that Apply discards this value for those two outcomes
// and leaves the due time untouched instead.
func NextIntervalHours(stage int, outcome flashcard.Outcome) float64 {
	base, ok := stageBaseIntervalHours[stage]
	if !ok {
		base = stageBaseIntervalHours[flashcard.MinStage]
	}

	switch outcome {
	case flashcard.OutcomeCorrect:
		if stage <= 2 {
			return base * earlyStageGrowth
		}
		return base * lateStageGrowth
	case flashcard.OutcomeIncorrect:
		return base * lapseShrink
	default:
		return base
	}
}
