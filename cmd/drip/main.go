package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func setupLogger(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})),
	)
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "drip",
		Short: "Spaced repetition vocabulary trainer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
		SilenceUsage: true,
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to the configuration file")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCommand.AddCommand(newAddCommand())
	rootCommand.AddCommand(newListCommand())
	rootCommand.AddCommand(newReviewCommand())
	rootCommand.AddCommand(newWatchCommand())
	rootCommand.AddCommand(newStatsCommand())

	return rootCommand
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
