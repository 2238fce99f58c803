// Package scan loads a directory into rename preview entries and watches it
// for external changes.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"simplerename/internal/engine"

	"github.com/gobwas/glob"
)

// Options controls which directory entries become preview rows.
type Options struct {
	// Ignore holds glob patterns matched against base names (.DS_Store,
	// Thumbs.db, *.tmp, ...).
	Ignore []string
	// Include, when non-empty, keeps only names matching this glob.
	Include string
	// IncludeHidden keeps dotfiles, which are skipped by default.
	IncludeHidden bool
}

// Directory reads dir and returns one entry per regular file, sorted by
// name. The resulting order is the display order used for numbering rules,
// so it must be deterministic. Subdirectories are not descended into: the
// preview is a flat view of one directory.
func Directory(dir string, opts Options) ([]*engine.FileEntry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	ignores := make([]glob.Glob, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		ignores = append(ignores, g)
	}

	var include glob.Glob
	if opts.Include != "" {
		include, err = glob.Compile(opts.Include)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", opts.Include, err)
		}
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]*engine.FileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() {
			continue
		}
		if !opts.IncludeHidden && name[0] == '.' {
			continue
		}
		if matchesAny(ignores, name) {
			continue
		}
		if include != nil && !include.Match(name) {
			continue
		}
		entries = append(entries, engine.NewEntry(filepath.Join(abs, name)))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
