package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ichiwatch/config"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded signal events",
	Long: `Print every (signal, day) pair recorded in the configured ledger,
oldest first.

Example:
  ichiwatch history -f ichiwatch.yaml`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyConfigPath string

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	historyCmd.MarkFlagRequired("config")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(historyConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	led, err := openLedger(cfg, false)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer led.Close()

	events, err := led.Events()
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Type < events[j].Type
	})

	if len(events) == 0 {
		fmt.Println("No signals recorded.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  %s\n", e.Date, e.Type)
	}
	return nil
}
