package scheduler

import "time"

// DelayTiers controls how long the periodic scheduler waits before the
// next due-set check. Fewer due cards mean a longer wait to avoid
// re-polling immediately; a backlog shortens it.
type DelayTiers struct {
	FewDueThreshold int
	FewDueMinutes   int
	ManyDueMinutes  int
	MinIdleMinutes  int
	MaxIdleMinutes  int
}

// DefaultDelayTiers returns the reference tier values.
func DefaultDelayTiers() DelayTiers {
	return DelayTiers{
		FewDueThreshold: 5,
		FewDueMinutes:   5,
		ManyDueMinutes:  3,
		MinIdleMinutes:  5,
		MaxIdleMinutes:  60,
	}
}

// NextCheckMinutes computes the minutes until the next scheduling pass.
// With no due cards it waits until the earliest upcoming card, clamped
// between the idle bounds; with nothing scheduled at all it falls back
// to the minimum idle wait.
func (t DelayTiers) NextCheckMinutes(dueCount int, earliestUpcoming *time.Time, now time.Time) int {
	if dueCount > 0 {
		if dueCount <= t.FewDueThreshold {
			return t.FewDueMinutes
		}
		return t.ManyDueMinutes
	}

	if earliestUpcoming == nil {
		return t.MinIdleMinutes
	}

	minutes := int(earliestUpcoming.Sub(now).Minutes())
	if minutes < t.MinIdleMinutes {
		return t.MinIdleMinutes
	}
	if minutes > t.MaxIdleMinutes {
		return t.MaxIdleMinutes
	}
	return minutes
}
