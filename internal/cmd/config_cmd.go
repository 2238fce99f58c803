package cmd

import (
	"fmt"
	"strings"

	"simplerename/internal/config"
	"simplerename/internal/history"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration and file locations",
	RunE:  runConfigCommand,
}

func runConfigCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	presetsPath, err := config.PresetsPath()
	if err != nil {
		return err
	}
	histPath, err := history.DefaultPath()
	if err != nil {
		return err
	}
	backupRoot, err := history.BackupRoot()
	if err != nil {
		return err
	}

	fmt.Printf("preserve_extension: %t\n", cfg.PreserveExtension)
	fmt.Printf("create_backup:      %t\n", cfg.CreateBackup)
	fmt.Printf("overwrite:          %t\n", cfg.Overwrite)
	fmt.Printf("retention_days:     %d\n", cfg.RetentionDays)
	fmt.Printf("ignore_patterns:    %s\n", strings.Join(cfg.IgnorePatterns, ", "))
	fmt.Printf("log_level:          %s\n", cfg.LogLevel)
	fmt.Println()
	fmt.Printf("config:   %s\n", cfgPath)
	fmt.Printf("presets:  %s\n", presetsPath)
	fmt.Printf("history:  %s\n", histPath)
	fmt.Printf("backups:  %s\n", backupRoot)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
