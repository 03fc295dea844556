package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return fmt.Errorf("failed to get limit flag: %w", err)
		}

		j, err := journal.Open(journal.DefaultOptions(cfg.JournalPath))
		if err != nil {
			return err
		}
		defer j.Close()

		entries, err := j.List(context.Background(), limit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No operations recorded")
			return nil
		}

		fmt.Printf("%-5s %-20s %-7s %-7s %-6s %s\n", "ID", "Finished", "Command", "Mode", "Status", "Input -> Output")
		fmt.Println(strings.Repeat("-", 80))
		for _, e := range entries {
			fmt.Printf("%-5d %-20s %-7s %-7s %-6s %s -> %s\n",
				e.ID, e.FinishedAt.Local().Format("2006-01-02 15:04:05"), e.Command, e.Mode, e.Status, e.Input, e.Output)
			if e.Error != "" {
				fmt.Printf("      error: %s\n", e.Error)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "number of operations to show (0 for all)")
}
