// Package history records committed rename batches and drives undo/redo.
// History is an append-only sequence of immutable batches with a movable
// cursor: batches left of the cursor are applied, batches right of it are
// available to redo. Recording a new batch truncates everything right of
// the cursor. The log is persisted as JSON so undo and redo work across
// process invocations.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Pair is one committed rename mapping.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Batch is the unit of undo/redo: the renames actually performed by one
// commit, plus backup copies of any destinations that were overwritten.
// A batch is immutable once recorded.
type Batch struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	WorkingDir string    `json:"working_dir"`
	Pairs      []Pair    `json:"pairs"`
	// Backups maps a destination path to the backup copy made before that
	// destination was overwritten.
	Backups map[string]string `json:"backups,omitempty"`
}

// NewBatch creates an empty batch stamped with a unique id.
func NewBatch(workingDir string) *Batch {
	now := time.Now()
	return &Batch{
		ID:         fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000),
		Timestamp:  now,
		WorkingDir: workingDir,
	}
}

// Empty reports whether the batch committed nothing.
func (b *Batch) Empty() bool { return len(b.Pairs) == 0 }

// History is the persistent batch log. Batches[:Cursor] are applied;
// Batches[Cursor:] are available to redo.
type History struct {
	Batches []*Batch `json:"batches"`
	Cursor  int      `json:"cursor"`

	path string
}

// DefaultPath returns the history file location under the application
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".simplerename", "history.json"), nil
}

// BackupRoot returns the directory holding per-batch backup copies.
func BackupRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".simplerename", "backups"), nil
}

// Load reads the history file at path, returning an empty history when the
// file does not exist yet.
func Load(path string) (*History, error) {
	h := &History{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if h.Cursor < 0 {
		h.Cursor = 0
	}
	if h.Cursor > len(h.Batches) {
		h.Cursor = len(h.Batches)
	}
	return h, nil
}

// Save writes the history back to its file, creating the directory when
// needed.
func (h *History) Save() error {
	if h.path == "" {
		return fmt.Errorf("history has no backing file")
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Record appends batch at the cursor, discarding any batches that were
// available to redo, and advances the cursor past the new batch. Backup
// directories of discarded batches are removed since those batches are no
// longer reachable.
func (h *History) Record(b *Batch) {
	for _, stale := range h.Batches[h.Cursor:] {
		removeBatchBackups(stale)
	}
	h.Batches = append(h.Batches[:h.Cursor], b)
	h.Cursor = len(h.Batches)
}

// Undo returns the batch immediately left of the cursor and moves the
// cursor left. The physical reversal is the executor's job and is best
// effort: the cursor moves regardless of per-entry failures, mirroring the
// partial-failure policy of commit. Returns (nil, false) at the left end.
func (h *History) Undo() (*Batch, bool) {
	if h.Cursor == 0 {
		return nil, false
	}
	h.Cursor--
	return h.Batches[h.Cursor], true
}

// Redo returns the batch immediately right of the cursor and moves the
// cursor right. Returns (nil, false) at the right end.
func (h *History) Redo() (*Batch, bool) {
	if h.Cursor >= len(h.Batches) {
		return nil, false
	}
	b := h.Batches[h.Cursor]
	h.Cursor++
	return b, true
}

// CanUndo reports whether a batch is available left of the cursor.
func (h *History) CanUndo() bool { return h.Cursor > 0 }

// CanRedo reports whether a batch is available right of the cursor.
func (h *History) CanRedo() bool { return h.Cursor < len(h.Batches) }

// Applied returns the batches currently applied, newest last.
func (h *History) Applied() []*Batch { return h.Batches[:h.Cursor] }

// Prune drops applied batches older than retentionDays together with their
// backup directories. Batches right of the cursor are kept so redo stays
// possible. The cursor is shifted to account for removed batches.
func (h *History) Prune(retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	kept := make([]*Batch, 0, len(h.Batches))
	removed := 0
	for i, b := range h.Batches {
		if i < h.Cursor && b.Timestamp.Before(cutoff) {
			removeBatchBackups(b)
			removed++
			continue
		}
		kept = append(kept, b)
	}
	h.Batches = kept
	h.Cursor -= removed
	if h.Cursor < 0 {
		h.Cursor = 0
	}
}

// removeBatchBackups deletes every backup copy a batch made, then its
// (now empty) backup directory when one can be derived.
func removeBatchBackups(b *Batch) {
	for _, backup := range b.Backups {
		if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Warnf("failed to remove stale backup %s", backup)
			continue
		}
		// Backup files for one batch share a directory; removing it fails
		// harmlessly until the last file is gone.
		os.Remove(filepath.Dir(backup))
	}
}
