package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpString(t *testing.T) {
	testCases := []struct {
		op       Op
		expected string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Op(9), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.op.String())
		})
	}
}

func TestWatchFile(t *testing.T) {
	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	dir := t.TempDir()
	require.NoError(t, w.WatchFile(filepath.Join(dir, "page.yml")))
	assert.Contains(t, w.fs.WatchList(), dir)

	assert.Error(t, w.WatchFile("  "))
	assert.Error(t, w.WatchFile("/non/existent/dir/page.yml"))
}

func TestStartTwice(t *testing.T) {
	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx))
}

func TestWatcherDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "page.yml")
	require.NoError(t, os.WriteFile(doc, []byte("tag: p\n"), 0o644))

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.WatchFile(doc))
	w.AddFilter(DocumentFilter)

	batches := make(chan []ChangeEvent, 10)
	w.AddHandler(func(ctx context.Context, events []ChangeEvent) error {
		batches <- events
		return errors.New("handler errors are logged, not fatal")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// Writes to other files in the directory are filtered out.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yml"), []byte("tag: a\n"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(doc, []byte("tag: div\n"), 0o644))
	}

	select {
	case events := <-batches:
		require.Len(t, events, 1)
		assert.Equal(t, doc, events[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change batch delivered")
	}

	// The watcher keeps going after a failing handler.
	require.NoError(t, os.WriteFile(doc, []byte("tag: span\n"), 0o644))
	select {
	case <-batches:
	case <-time.After(2 * time.Second):
		t.Fatal("no second batch delivered")
	}
}

func TestBatch(t *testing.T) {
	var b batch
	b.add(ChangeEvent{Path: "a.yml", Op: OpCreate})
	b.add(ChangeEvent{Path: "b.yml", Op: OpWrite})
	b.add(ChangeEvent{Path: "a.yml", Op: OpWrite})

	events := b.drain()
	require.Len(t, events, 2)
	assert.Equal(t, "a.yml", events[0].Path)
	assert.Equal(t, OpWrite, events[0].Op, "last event for a path wins")
	assert.Equal(t, "b.yml", events[1].Path)

	assert.Empty(t, b.drain(), "drain empties the batch")
}

func TestDocumentFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"page.yml", true},
		{"page.YAML", true},
		{"dir/page.json", true},
		{"index.html", true},
		{"old.htm", true},
		{"main.go", false},
		{"README", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, DocumentFilter(tc.path))
		})
	}
}

func TestNoHiddenFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"page.yml", true},
		{"dir/page.yml", true},
		{".page.yml", false},
		{"dir/.page.yml.swp", false},
		{"page.yml~", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoHiddenFilter(tc.path))
		})
	}
}
