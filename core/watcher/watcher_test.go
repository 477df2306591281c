package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, root string, excludes []string, debounce time.Duration) *FileWatcherImpl {
	t.Helper()
	fw, err := NewFileWatcher(root, excludes, debounce)
	require.NoError(t, err)
	fw.FileWatcher.AddOnStartFunc(func() error { return nil })
	fw.FileWatcher.AddOnChangeFunc(func() error { return nil })
	fw.FileWatcher.AddOnCloseFunc(func() error { return nil })
	return fw
}

func TestNewFileWatcherDefaultsDebounce(t *testing.T) {
	fw, err := NewFileWatcher(t.TempDir(), nil, 0)
	require.NoError(t, err)
	defer fw.FileWatcher.Watcher.Close()

	assert.Equal(t, 500*time.Millisecond, fw.Debounce)
}

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, []string{"node_modules", ".git"}, time.Millisecond)
	defer fw.FileWatcher.Watcher.Close()

	testCases := []struct {
		name string
		path string
		want bool
	}{
		{name: "root-level excluded dir", path: filepath.Join(root, "node_modules"), want: true},
		{name: "file under excluded dir", path: filepath.Join(root, "node_modules", "dep.js"), want: true},
		{name: "nested excluded dir", path: filepath.Join(root, "sub", "node_modules"), want: true},
		{name: "file under nested excluded dir", path: filepath.Join(root, "sub", "node_modules", "dep.js"), want: true},
		{name: "dot dir", path: filepath.Join(root, ".git", "HEAD"), want: true},
		{name: "regular file", path: filepath.Join(root, "src", "app.js"), want: false},
		{name: "name sharing a prefix", path: filepath.Join(root, "node_modules_backup", "x.js"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fw.shouldExcludePath(tc.path))
		})
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, nil, 20*time.Millisecond)
	defer fw.FileWatcher.Watcher.Close()

	fired := make(chan struct{}, 8)
	fw.FileWatcher.AddOnChangeFunc(func() error {
		fired <- struct{}{}
		return nil
	})

	fw.debounceChange()
	fw.debounceChange()
	fw.debounceChange()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced change never fired")
	}

	select {
	case <-fired:
		t.Fatal("burst fired more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchDeliversChanges(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, nil, 10*time.Millisecond)

	started := make(chan struct{})
	fw.FileWatcher.AddOnStartFunc(func() error {
		close(started)
		return nil
	})
	changed := make(chan struct{}, 8)
	fw.FileWatcher.AddOnChangeFunc(func() error {
		changed <- struct{}{}
		return nil
	})
	closed := make(chan struct{})
	fw.FileWatcher.AddOnCloseFunc(func() error {
		close(closed)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("watch never started")
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("x\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("file change never reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch never returned")
	}

	select {
	case <-closed:
	default:
		t.Fatal("OnClose never ran")
	}
}

func TestWatchMissingRoot(t *testing.T) {
	fw := newTestWatcher(t, filepath.Join(t.TempDir(), "missing"), nil, time.Millisecond)
	defer fw.FileWatcher.Watcher.Close()

	assert.Error(t, fw.Watch(context.Background()))
}
