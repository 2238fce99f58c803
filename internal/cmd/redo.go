package cmd

import (
	"fmt"

	"simplerename/internal/config"
	"simplerename/internal/executor"

	"github.com/spf13/cobra"
)

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Reapply the most recently undone rename batch",
	Long: `Replay the rename batch that was last undone. Destinations occupied
again since the undo are backed up before being replaced, mirroring the
original commit's overwrite policy.`,
	RunE: runRedoCommand,
}

func runRedoCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cfg)

	hist, err := loadHistory(cfg)
	if err != nil {
		return err
	}

	batch, ok := hist.Redo()
	if !ok {
		fmt.Println("Nothing to redo.")
		return nil
	}

	failures := executor.Reapply(batch)
	if err := hist.Save(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	fmt.Printf("Redid batch %s (%s): %d reapplied, %d failed\n",
		batch.ID, formatAge(batch.Timestamp), len(batch.Pairs)-len(failures), len(failures))
	printFailures(failures)
	return nil
}

func init() {
	rootCmd.AddCommand(redoCmd)
}
