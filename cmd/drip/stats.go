package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeDat98/Drip/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show review statistics for the whole store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, closeStore, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			stats, err := repo.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("repo.Stats() > %w", err)
			}

			fmt.Print(statistics.FormatStoreStats(*stats))
			return nil
		},
	}
}
