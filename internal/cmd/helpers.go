package cmd

import (
	"fmt"
	"strings"
	"time"

	"simplerename/internal/config"
	"simplerename/internal/executor"
	"simplerename/internal/history"
	"simplerename/internal/rule"

	"github.com/sirupsen/logrus"
)

// buildRules assembles the rule pipeline from the preset (when named) and
// the command line flags. Flag rules apply after preset rules, in a fixed
// order: find/replace, case, prefix, suffix, numbering, date stamp,
// extension policy.
func buildRules() ([]rule.Rule, error) {
	var rules []rule.Rule

	if presetName != "" {
		presets, err := config.LoadPresets()
		if err != nil {
			return nil, err
		}
		preset, ok := presets.Get(presetName)
		if !ok {
			return nil, fmt.Errorf("preset %q not found", presetName)
		}
		rules = append(rules, preset.Rules...)
	}

	if findText != "" {
		rules = append(rules, rule.FindReplace(findText, replaceText, useRegex))
	}
	if caseMode != "" {
		rules = append(rules, rule.Case(rule.CaseMode(caseMode)))
	}
	if prefixText != "" {
		rules = append(rules, rule.Prefix(prefixText))
	}
	if suffixText != "" {
		rules = append(rules, rule.Suffix(suffixText))
	}
	if numberFiles {
		rules = append(rules, rule.Numbering(numberStart, numberStep, numberWidth, rule.Position(numberPosition)))
	}
	if dateFormat != "" {
		rules = append(rules, rule.DateStamp(dateFormat, rule.Position(datePosition)))
	}
	if extPolicy != "" {
		switch extPolicy {
		case "lower":
			rules = append(rules, rule.Extension(rule.ExtLower, ""))
		case "upper":
			rules = append(rules, rule.Extension(rule.ExtUpper, ""))
		default:
			rules = append(rules, rule.Extension(rule.ExtReplace, strings.TrimPrefix(extPolicy, ".")))
		}
	}

	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, r.Describe(), err)
		}
	}
	return rules, nil
}

// loadHistory opens the persistent batch log and prunes entries past the
// configured retention.
func loadHistory(cfg *config.Config) (*history.History, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return nil, err
	}
	hist, err := history.Load(path)
	if err != nil {
		return nil, err
	}
	hist.Prune(cfg.RetentionDays)
	return hist, nil
}

// initLogging configures the diagnostic logger from config.
func initLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)
}

// printFailures writes the per-entry failure report to stdout.
func printFailures(failures []executor.Failure) {
	for _, f := range failures {
		fmt.Printf("  failed: %s\n", f.String())
	}
}

// ageBuckets maps an age ceiling to the unit it is reported in. Ages beyond
// the last bucket print as an absolute date instead.
var ageBuckets = []struct {
	limit time.Duration
	unit  time.Duration
	label string
}{
	{2 * time.Minute, 0, "moments ago"},
	{time.Hour, time.Minute, "m"},
	{48 * time.Hour, time.Hour, "h"},
	{14 * 24 * time.Hour, 24 * time.Hour, "d"},
}

// formatAge renders a timestamp as a short age for batch listings.
func formatAge(t time.Time) string {
	age := time.Since(t)
	for _, b := range ageBuckets {
		if age >= b.limit {
			continue
		}
		if b.unit == 0 {
			return b.label
		}
		return fmt.Sprintf("%d%s ago", int(age/b.unit), b.label)
	}
	return t.Format("2006-01-02")
}
