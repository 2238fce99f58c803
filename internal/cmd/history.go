package cmd

import (
	"fmt"

	"simplerename/internal/config"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded rename batches",
	Long: `Show every rename batch in the persistent history, newest last. The
marker column indicates where the undo cursor sits: batches above it are
applied and undoable, batches below it have been undone and can be redone.`,
	RunE: runHistoryCommand,
}

func runHistoryCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cfg)

	hist, err := loadHistory(cfg)
	if err != nil {
		return err
	}
	if len(hist.Batches) == 0 {
		fmt.Println("No rename history.")
		return nil
	}

	for i, b := range hist.Batches {
		marker := " "
		if i < hist.Cursor {
			marker = "*"
		}
		fmt.Printf("%s %s  %-14s  %3d file(s)  %s\n",
			marker, b.ID, formatAge(b.Timestamp), len(b.Pairs), b.WorkingDir)
	}
	fmt.Printf("\n%d batch(es), %d applied\n", len(hist.Batches), len(hist.Applied()))
	return nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
