package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"simplerename/internal/config"
	"simplerename/internal/engine"
	"simplerename/internal/executor"
	"simplerename/internal/history"
	"simplerename/internal/scan"
	"simplerename/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runRename executes the main preview/rename flow.
func runRename(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cfg)

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory: %w", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	rules, err := buildRules()
	if err != nil {
		return err
	}
	if len(rules) == 0 && !applyNow {
		// Interactive mode without rules still shows the directory; the
		// user can exclude rows and watch for conflicts, but warn anyway.
		fmt.Fprintln(os.Stderr, "Warning: no rules given, nothing will change (see --help)")
	}

	entries, err := scan.Directory(dir, scan.Options{
		Ignore:  cfg.IgnorePatterns,
		Include: include,
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no files found in %s", dir)
	}

	if err := engine.Preview(entries, rules, engine.Options{
		Overwrite:         overwrite || cfg.Overwrite,
		PreserveExtension: cfg.PreserveExtension,
	}); err != nil {
		return err
	}

	hist, err := loadHistory(cfg)
	if err != nil {
		return err
	}

	if applyNow {
		return applyInstant(entries, cfg, hist)
	}

	model := tui.NewPreviewModel(dir, entries, rules, cfg, hist, tui.Options{
		Overwrite: overwrite || cfg.Overwrite,
		Include:   include,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// applyInstant commits the preview without the interactive interface and
// prints a per-file report.
func applyInstant(entries []*engine.FileEntry, cfg *config.Config, hist *history.History) error {
	conflicts := engine.Conflicts(entries)
	batch, failures := executor.Commit(entries, executor.Options{
		Overwrite:     overwrite || cfg.Overwrite,
		CreateBackups: cfg.CreateBackup,
	})

	if !batch.Empty() {
		hist.Record(batch)
		if err := hist.Save(); err != nil {
			return fmt.Errorf("renames applied but history not saved: %w", err)
		}
	}

	fmt.Printf("Renamed %d file(s)\n", len(batch.Pairs))
	for _, c := range conflicts {
		fmt.Printf("  conflict: %s (%s)\n", c.Name, c.Reason)
	}
	printFailures(failures)
	if len(failures) > 0 {
		return fmt.Errorf("%d file(s) failed to rename", len(failures))
	}
	return nil
}
