// Package executor performs the file system side of a rename batch: the
// renames themselves, backup copies of overwritten destinations, and the
// inverse/forward replay used by undo and redo.
//
// A batch is a best-effort sequence, not an atomic unit: a per-entry
// failure is recorded and the remaining entries still run. The one hard
// ordering invariant is backup-then-write — a destination is never
// overwritten before its backup copy exists.
package executor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"simplerename/internal/engine"
	"simplerename/internal/history"

	"github.com/sirupsen/logrus"
)

// Failure reports one entry that could not be processed.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", filepath.Base(f.Path), f.Err)
}

// Options tunes a commit.
type Options struct {
	// Overwrite allows replacing existing destinations. Every overwrite is
	// preceded by a backup copy; when backups are disabled, overwrites are
	// refused rather than performed silently.
	Overwrite bool
	// CreateBackups enables backup-on-overwrite copies under BackupRoot.
	CreateBackups bool
	// BackupRoot is the directory that receives per-batch backup
	// subdirectories. Empty means history.BackupRoot().
	BackupRoot string
}

// Commit walks entries in order and renames every Pending one, skipping
// Conflict and Unmodified entries. Failures are per-entry: the entry is
// marked Failed with a reason and processing continues. The returned batch
// records only the renames that succeeded; a zero-success batch together
// with a full failure list is a valid outcome.
func Commit(entries []*engine.FileEntry, opts Options) (*history.Batch, []Failure) {
	c := Begin(entries, opts)
	for !c.Done() {
		c.Step()
	}
	return c.Finish()
}

// Progress is the state of a stepwise commit. The TUI drives one Step per
// Bubble Tea cycle so the interface stays responsive and can render
// progress between operations.
type Progress struct {
	batch    *history.Batch
	pending  []*engine.FileEntry
	failures []Failure
	opts     Options
	next     int
}

// Begin prepares a stepwise commit over the Pending subset of entries.
func Begin(entries []*engine.FileEntry, opts Options) *Progress {
	wd, _ := os.Getwd()
	return &Progress{
		batch:   history.NewBatch(wd),
		pending: engine.Pending(entries),
		opts:    opts,
	}
}

// Total returns the number of operations the commit will attempt.
func (c *Progress) Total() int { return len(c.pending) }

// Completed returns the number of operations attempted so far.
func (c *Progress) Completed() int { return c.next }

// Done reports whether every pending entry has been processed.
func (c *Progress) Done() bool { return c.next >= len(c.pending) }

// Step processes the next pending entry. It is a no-op once Done.
func (c *Progress) Step() {
	if c.Done() {
		return
	}
	e := c.pending[c.next]
	c.next++
	if err := c.renameEntry(e); err != nil {
		e.Status = engine.StatusFailed
		e.Reason = err.Error()
		c.failures = append(c.failures, Failure{Path: e.Path, Err: err})
		logrus.WithError(err).Debugf("rename failed: %s", e.Name)
		return
	}
	e.Status = engine.StatusRenamed
}

// Finish returns the committed batch and the per-entry failure report.
func (c *Progress) Finish() (*history.Batch, []Failure) {
	return c.batch, c.failures
}

// renameEntry performs one rename, backing up the destination first when it
// would be overwritten. On success the entry's path and name are updated to
// the new location.
func (c *Progress) renameEntry(e *engine.FileEntry) error {
	oldPath := e.Path
	newPath := e.ProposedPath()
	if oldPath == newPath {
		return nil
	}

	if _, err := os.Lstat(newPath); err == nil {
		if !c.opts.Overwrite {
			return fmt.Errorf("destination already exists")
		}
		if !c.opts.CreateBackups {
			return fmt.Errorf("refusing to overwrite without backup")
		}
		backup, err := c.backupDestination(newPath)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		c.batch.Backups = ensureBackups(c.batch.Backups)
		c.batch.Backups[newPath] = backup
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		// The destination is untouched; drop the unused backup copy.
		if backup, ok := c.batch.Backups[newPath]; ok {
			os.Remove(backup)
			delete(c.batch.Backups, newPath)
		}
		return err
	}

	logrus.Debugf("renamed %s -> %s", oldPath, newPath)
	c.batch.Pairs = append(c.batch.Pairs, history.Pair{From: oldPath, To: newPath})
	e.Path = newPath
	e.Name = e.Proposed
	e.Extension = filepath.Ext(e.Proposed)
	return nil
}

// backupDestination copies the file about to be overwritten into the
// batch's backup directory. Copy rather than rename: the backup root may
// live on a different volume.
func (c *Progress) backupDestination(path string) (string, error) {
	root := c.opts.BackupRoot
	if root == "" {
		r, err := history.BackupRoot()
		if err != nil {
			return "", err
		}
		root = r
	}
	dir := filepath.Join(root, c.batch.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	backup := filepath.Join(dir, fmt.Sprintf("%03d_%s", len(c.batch.Backups), filepath.Base(path)))
	if err := copyFile(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

// Revert undoes a committed batch: each pair is renamed back in reverse
// order, and any backup that was taken for a vacated destination is
// restored there. Best effort: per-entry failures are reported and the
// remaining pairs still run.
func Revert(b *history.Batch) []Failure {
	var failures []Failure
	for i := len(b.Pairs) - 1; i >= 0; i-- {
		p := b.Pairs[i]
		if err := revertPair(b, p); err != nil {
			failures = append(failures, Failure{Path: p.To, Err: err})
			logrus.WithError(err).Debugf("undo failed: %s", p.To)
		}
	}
	return failures
}

func revertPair(b *history.Batch, p history.Pair) error {
	if _, err := os.Lstat(p.To); err != nil {
		return fmt.Errorf("cannot undo rename: %s no longer exists", p.To)
	}
	if _, err := os.Lstat(p.From); err == nil {
		return fmt.Errorf("cannot undo rename: original path %s already exists", p.From)
	}
	if err := os.Rename(p.To, p.From); err != nil {
		return fmt.Errorf("failed to rename %s back to %s: %w", p.To, p.From, err)
	}
	if backup, ok := b.Backups[p.To]; ok {
		if err := copyFile(backup, p.To); err != nil {
			return fmt.Errorf("failed to restore backup of %s: %w", p.To, err)
		}
	}
	return nil
}

// Reapply replays a batch forward for redo, using the same collision policy
// as commit: an occupied destination is backed up to its recorded backup
// path before being replaced.
func Reapply(b *history.Batch) []Failure {
	var failures []Failure
	for _, p := range b.Pairs {
		if err := reapplyPair(b, p); err != nil {
			failures = append(failures, Failure{Path: p.From, Err: err})
			logrus.WithError(err).Debugf("redo failed: %s", p.From)
		}
	}
	return failures
}

func reapplyPair(b *history.Batch, p history.Pair) error {
	if _, err := os.Lstat(p.From); err != nil {
		return fmt.Errorf("cannot redo rename: %s no longer exists", p.From)
	}
	if _, err := os.Lstat(p.To); err == nil {
		backup, ok := b.Backups[p.To]
		if !ok {
			return fmt.Errorf("cannot redo rename: destination %s already exists", p.To)
		}
		// Refresh the backup before overwriting again.
		if err := copyFile(p.To, backup); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
	}
	if err := os.Rename(p.From, p.To); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", p.From, p.To, err)
	}
	return nil
}

func ensureBackups(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
