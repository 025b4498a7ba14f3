package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayTiers_NextCheckMinutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tiers := DefaultDelayTiers()

	upcoming := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	tests := []struct {
		name     string
		dueCount int
		upcoming *time.Time
		expected int
	}{
		{name: "few due cards", dueCount: 3, expected: 5},
		{name: "threshold counts as few", dueCount: 5, expected: 5},
		{name: "backlog shortens the wait", dueCount: 6, expected: 3},
		{name: "idle waits until the next card", dueCount: 0, upcoming: upcoming(25 * time.Minute), expected: 25},
		{name: "idle wait clamps to the minimum", dueCount: 0, upcoming: upcoming(90 * time.Second), expected: 5},
		{name: "idle wait clamps to the maximum", dueCount: 0, upcoming: upcoming(26 * time.Hour), expected: 60},
		{name: "empty store falls back to the minimum", dueCount: 0, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tiers.NextCheckMinutes(tt.dueCount, tt.upcoming, now))
		})
	}
}
