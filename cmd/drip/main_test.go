package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "drip", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "review")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "stats")
}

func TestNewAddCommand(t *testing.T) {
	cmd := newAddCommand()

	assert.Equal(t, "add <term> <definition>", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	exampleFlag := cmd.Flags().Lookup("example")
	assert.NotNil(t, exampleFlag)
	tagFlag := cmd.Flags().Lookup("tag")
	assert.NotNil(t, tagFlag)
}

func TestNewReviewCommand(t *testing.T) {
	cmd := newReviewCommand()

	assert.Equal(t, "review", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "false", forceFlag.DefValue)
}
