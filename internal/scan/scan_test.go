package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
}

func entryNames(t *testing.T, dir string, opts Options) []string {
	t.Helper()
	entries, err := Directory(dir, opts)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestDirectorySortedByName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "zebra.txt", "apple.txt", "mango.txt")
	assert.Equal(t, []string{"apple.txt", "mango.txt", "zebra.txt"}, entryNames(t, dir, Options{}))
}

func TestDirectorySkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	assert.Equal(t, []string{"file.txt"}, entryNames(t, dir, Options{}))
}

func TestDirectorySkipsHiddenByDefault(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "visible.txt", ".hidden")
	assert.Equal(t, []string{"visible.txt"}, entryNames(t, dir, Options{}))
	assert.Equal(t, []string{".hidden", "visible.txt"}, entryNames(t, dir, Options{IncludeHidden: true}))
}

func TestDirectoryIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep.txt", "Thumbs.db", "scratch.tmp")
	got := entryNames(t, dir, Options{Ignore: []string{"Thumbs.db", "*.tmp"}})
	assert.Equal(t, []string{"keep.txt"}, got)
}

func TestDirectoryIncludeGlob(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg", "b.png", "c.jpg")
	got := entryNames(t, dir, Options{Include: "*.jpg"})
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, got)
}

func TestDirectoryInvalidPatterns(t *testing.T) {
	dir := t.TempDir()
	_, err := Directory(dir, Options{Ignore: []string{"[unclosed"}})
	assert.Error(t, err)
	_, err = Directory(dir, Options{Include: "[unclosed"})
	assert.Error(t, err)
}

func TestDirectoryMissing(t *testing.T) {
	_, err := Directory(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestWatcherSignalsOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(dir)
	require.NoError(t, err)
	defer w.Close()

	touch(t, dir, "new.txt")
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after file creation")
	}
}

func TestWatcherSignalsOnRemove(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "doomed.txt")
	w, err := Watch(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.Remove(filepath.Join(dir, "doomed.txt")))
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after file removal")
	}
}
