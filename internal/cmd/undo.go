package cmd

import (
	"fmt"

	"simplerename/internal/config"
	"simplerename/internal/executor"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent rename batch",
	Long: `Reverse the most recently applied rename batch: every renamed file is
moved back to its original name and any file that was overwritten is
restored from its backup copy.

Undo is best effort. Files that were moved or deleted outside the
application are reported as failures, but the batch still counts as undone
and becomes available to redo.`,
	RunE: runUndoCommand,
}

func runUndoCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cfg)

	hist, err := loadHistory(cfg)
	if err != nil {
		return err
	}

	batch, ok := hist.Undo()
	if !ok {
		fmt.Println("Nothing to undo.")
		return nil
	}

	failures := executor.Revert(batch)
	if err := hist.Save(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	fmt.Printf("Undid batch %s (%s): %d reversed, %d failed\n",
		batch.ID, formatAge(batch.Timestamp), len(batch.Pairs)-len(failures), len(failures))
	printFailures(failures)
	return nil
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
