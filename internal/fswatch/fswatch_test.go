package fswatch_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/fswatch"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.aux")
	require.NoError(t, os.WriteFile(target, []byte("initial"), 0o644))

	var mu sync.Mutex
	var loaded []string
	w, err := fswatch.New(dir, fswatch.DefaultPatterns, func(path string) {
		mu.Lock()
		loaded = append(loaded, path)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(target, []byte("updated"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(loaded) > 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherIgnoresUnmatchedPattern(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("initial"), 0o644))

	var mu sync.Mutex
	var loaded []string
	w, err := fswatch.New(dir, []string{"*.aux"}, func(path string) {
		mu.Lock()
		loaded = append(loaded, path)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(target, []byte("updated"), 0o644))

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, loaded)
}

func TestIsBackupArtifact(t *testing.T) {
	assert.True(t, fswatch.IsBackupArtifact("foo.bak"))
	assert.True(t, fswatch.IsBackupArtifact("foo.tmp"))
	assert.False(t, fswatch.IsBackupArtifact("foo.aux"))
}
