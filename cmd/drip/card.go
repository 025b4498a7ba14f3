package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/LeDat98/Drip/internal/flashcard"
)

type SortFlag string

// Set implements pflag.Value.
func (s *SortFlag) Set(v string) error {
	switch v {
	case string(SortByID):
		*s = SortByID
	case string(SortByDue):
		*s = SortByDue
	case string(SortByPriority):
		*s = SortByPriority
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", v, SortByID, SortByDue, SortByPriority)
	}
	return nil
}

// String implements pflag.Value.
func (s *SortFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *SortFlag) Type() string {
	return "SortFlag"
}

var (
	_ pflag.Value = (*SortFlag)(nil)
)

const (
	SortByID       SortFlag = "id"
	SortByDue      SortFlag = "due"
	SortByPriority SortFlag = "priority"
)

func sortCards(cards []flashcard.Flashcard, order SortFlag) {
	switch order {
	case SortByDue:
		sort.SliceStable(cards, func(i, j int) bool {
			// Unscheduled cards sink to the bottom.
			if cards[i].NextDueAt.Valid != cards[j].NextDueAt.Valid {
				return cards[i].NextDueAt.Valid
			}
			return cards[i].NextDueAt.Time.Before(cards[j].NextDueAt.Time)
		})
	case SortByPriority:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].PriorityScore > cards[j].PriorityScore
		})
	}
}

func newAddCommand() *cobra.Command {
	var example string
	var tag string

	command := &cobra.Command{
		Use:   "add <term> <definition>",
		Short: "Add a new flashcard to the store",
		Args:  cobra.ExactArgs(2),
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

			id, err := repo.Create(cmd.Context(), args[0], args[1], example, tag, time.Now())
			if err != nil {
				return fmt.Errorf("repo.Create() > %w", err)
			}

			fmt.Printf("Created card %d: %s\n", id, args[0])
			return nil
		},
	}
	command.Flags().StringVar(&example, "example", "", "Example sentence for the card")
	command.Flags().StringVar(&tag, "tag", "", "Tag for grouping cards")

	return command
}

func newListCommand() *cobra.Command {
	sortFlag := SortByID

	command := &cobra.Command{
		Use:   "list",
		Short: "List every card with its scheduling state",
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

			cards, err := repo.FindAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("repo.FindAll() > %w", err)
			}
			if len(cards) == 0 {
				fmt.Println("No cards yet. Add one with: drip add <term> <definition>")
				return nil
			}

			sortCards(cards, sortFlag)

			now := time.Now()
			bold := color.New(color.Bold)
			for _, card := range cards {
				due := "unscheduled"
				if card.NextDueAt.Valid {
					due = card.NextDueAt.Time.Format("2006-01-02 15:04")
				}
				line := fmt.Sprintf("%4d  stage %d  due %-16s  %s", card.ID, card.Stage, due, card.Term)
				if card.IsDue(now) {
					_, _ = bold.Println(line)
					continue
				}
				fmt.Println(line)
			}
			fmt.Printf("\n%d cards total\n", len(cards))
			return nil
		},
	}
	command.Flags().Var(&sortFlag, "sort", "Sort order for the output. Options: id, due, priority")

	return command
}
