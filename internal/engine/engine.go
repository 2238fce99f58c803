// Package engine computes rename previews: it applies an ordered rule set
// to a list of file entries and populates each entry's proposed name and
// status. Preview performs no file system writes; the only probe it needs
// (does a target path already exist?) is injectable for tests.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"simplerename/internal/rule"

	gocache "github.com/patrickmn/go-cache"
)

// Status is the lifecycle stage of an entry within one preview/commit round.
type Status int

const (
	StatusUnmodified Status = iota // proposed name equals the original
	StatusPending                  // valid proposal awaiting commit
	StatusRenamed                  // rename performed
	StatusFailed                   // rename attempted and failed
	StatusConflict                 // invalid or colliding proposal, excluded from commit
)

func (s Status) String() string {
	switch s {
	case StatusUnmodified:
		return "unmodified"
	case StatusPending:
		return "pending"
	case StatusRenamed:
		return "renamed"
	case StatusFailed:
		return "failed"
	case StatusConflict:
		return "conflict"
	}
	return "unknown"
}

// FileEntry is one row of the preview. Identity is Path for the duration of
// one batch; a successful rename updates Path to the new location.
type FileEntry struct {
	Path      string // absolute path
	Name      string // current base name
	Extension string // extension including the leading dot, may be empty
	Proposed  string // proposed full name, populated by Preview
	Status    Status
	Reason    string // conflict or failure detail
}

// NewEntry builds an entry from an absolute file path.
func NewEntry(path string) *FileEntry {
	name := filepath.Base(path)
	return &FileEntry{
		Path:      path,
		Name:      name,
		Extension: filepath.Ext(name),
	}
}

// ProposedPath returns the destination path of the entry's proposal.
func (e *FileEntry) ProposedPath() string {
	return filepath.Join(filepath.Dir(e.Path), e.Proposed)
}

// Stem returns the entry name without its extension.
func (e *FileEntry) Stem() string {
	return strings.TrimSuffix(e.Name, e.Extension)
}

// ValidationError reports a rule that cannot be applied (typically a regex
// that fails to compile). It aborts the whole preview before any name is
// proposed.
type ValidationError struct {
	RuleIndex int
	Rule      rule.Rule
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %d (%s): %v", e.RuleIndex+1, e.Rule.Describe(), e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Options tunes a preview round.
type Options struct {
	// Overwrite permits proposals that collide with existing files outside
	// the batch. The executor still backs the destination up before writing.
	Overwrite bool
	// PreserveExtension applies rules to the name stem only; when false the
	// full name, extension included, flows through the pipeline.
	PreserveExtension bool
	// Now is the timestamp used by date stamp rules. Zero means time.Now().
	Now time.Time
	// TargetExists probes the file system for collision checks. Nil uses
	// os.Lstat.
	TargetExists func(path string) bool
}

const invalidNameChars = `<>:"/\|?*`

// maxNameLength mirrors the usual file system limit of 255 bytes per name.
const maxNameLength = 255

// Compiled regex patterns are cached across previews; the TUI re-runs the
// preview on every rule edit and batches routinely share patterns.
var regexCache = gocache.New(10*time.Minute, 30*time.Minute)

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Get(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache.SetDefault(pattern, re)
	return re, nil
}

// DefaultOptions returns the options used when the caller has no config.
func DefaultOptions() Options {
	return Options{PreserveExtension: true}
}

// Preview applies rules to entries in order, populating Proposed, Status
// and Reason in place. It returns a *ValidationError when a rule itself is
// invalid; per-entry problems are reported through StatusConflict instead.
//
// Deterministic given a fixed entry order and Options.Now: numbering and
// date stamps derive from the entry index and the shared timestamp.
func Preview(entries []*FileEntry, rules []rule.Rule, opts Options) error {
	regexes := make([]*regexp.Regexp, len(rules))
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return &ValidationError{RuleIndex: i, Rule: r, Err: err}
		}
		if r.Kind == rule.KindFindReplace && r.IsRegex {
			re, err := compilePattern(r.Find)
			if err != nil {
				return &ValidationError{RuleIndex: i, Rule: r, Err: err}
			}
			regexes[i] = re
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	exists := opts.TargetExists
	if exists == nil {
		exists = func(path string) bool {
			_, err := os.Lstat(path)
			return err == nil
		}
	}

	for i, e := range entries {
		e.Proposed = propose(e, rules, regexes, rule.Context{
			Index: i,
			Count: len(entries),
			Now:   now,
		}, opts.PreserveExtension)
		e.Status = StatusPending
		e.Reason = ""

		if reason := validateName(e.Proposed); reason != "" {
			e.mark(StatusConflict, reason)
			continue
		}
		if e.Proposed == e.Name {
			e.Status = StatusUnmodified
		}
	}

	// Duplicate proposals conflict pairwise: every entry proposing a taken
	// name is flagged, including the first one to propose it.
	byName := make(map[string][]*FileEntry, len(entries))
	for _, e := range entries {
		if e.Status != StatusPending {
			continue
		}
		byName[e.Proposed] = append(byName[e.Proposed], e)
	}
	for name, group := range byName {
		if len(group) > 1 {
			for _, e := range group {
				e.mark(StatusConflict, fmt.Sprintf("duplicate proposed name %q", name))
			}
		}
	}

	// Paths vacated by entries that are actually moving are legitimate
	// targets; this lets chains and swaps within one batch preview cleanly
	// while a rename onto an unchanged batch member still conflicts.
	vacated := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Status == StatusPending {
			vacated[e.Path] = true
		}
	}
	for _, e := range entries {
		if e.Status != StatusPending {
			continue
		}
		target := e.ProposedPath()
		if !opts.Overwrite && !vacated[target] && exists(target) {
			e.mark(StatusConflict, fmt.Sprintf("destination %q already exists", e.Proposed))
		}
	}

	return nil
}

// propose runs the rule pipeline for a single entry.
func propose(e *FileEntry, rules []rule.Rule, regexes []*regexp.Regexp, ctx rule.Context, preserveExt bool) string {
	stem := e.Name
	ext := ""
	if preserveExt {
		stem = e.Stem()
		ext = e.Extension
	}
	for i, r := range rules {
		if r.TargetsExtension() {
			ext = r.ApplyExt(ext)
			continue
		}
		ctx.Regex = regexes[i]
		stem = r.ApplyStem(stem, ctx)
	}
	return stem + ext
}

// validateName returns a human readable reason when the proposed name is
// not a legal file name, or "" when it is.
func validateName(name string) string {
	if name == "" {
		return "proposed name is empty"
	}
	if name == "." || name == ".." {
		return fmt.Sprintf("proposed name %q is reserved", name)
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return fmt.Sprintf("proposed name %q contains invalid characters", name)
	}
	if strings.ContainsRune(name, filepath.Separator) {
		return fmt.Sprintf("proposed name %q contains a path separator", name)
	}
	for _, c := range name {
		if c < 32 || c == 127 {
			return "proposed name contains control characters"
		}
	}
	if len(name) > maxNameLength {
		return fmt.Sprintf("proposed name exceeds %d characters", maxNameLength)
	}
	return ""
}

func (e *FileEntry) mark(s Status, reason string) {
	e.Status = s
	e.Reason = reason
}

// Pending returns the subset of entries eligible for commit.
func Pending(entries []*FileEntry) []*FileEntry {
	out := make([]*FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == StatusPending {
			out = append(out, e)
		}
	}
	return out
}

// Conflicts returns the entries excluded from commit for user correction.
func Conflicts(entries []*FileEntry) []*FileEntry {
	out := []*FileEntry{}
	for _, e := range entries {
		if e.Status == StatusConflict {
			out = append(out, e)
		}
	}
	return out
}
