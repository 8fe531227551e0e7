package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	songs := filepath.Join(root, "songs")
	require.NoError(t, os.Mkdir(songs, 0o755))
	list := filepath.Join(root, "songlist.txt")

	w, err := New(Options{Dirs: []string{songs}, Files: []string{list}}, nil, hclog.NewNullLogger())
	require.NoError(t, err)
	defer w.fs.Close()

	tests := []struct {
		path string
		want bool
	}{
		{path: filepath.Join(songs, "a.tex"), want: true},
		{path: filepath.Join(songs, ".a.tex.swp"), want: false},
		{path: filepath.Join(songs, "a.tex~"), want: false},
		{path: list, want: true},
		{path: filepath.Join(root, "notes.txt"), want: false},
		{path: filepath.Join(songs, "sub", "a.tex"), want: false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, w.Relevant(tt.path))
		})
	}
}

func TestNew_NothingToWatch(t *testing.T) {
	_, err := New(Options{Dirs: []string{filepath.Join(t.TempDir(), "missing")}}, nil, nil)
	assert.Error(t, err)
}

func TestRun_RebuildsAfterChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	songs := filepath.Join(root, "songs")
	require.NoError(t, os.Mkdir(songs, 0o755))

	builds := make(chan struct{}, 8)
	var running, overlapped atomic.Int32
	rebuild := func(ctx context.Context) error {
		if running.Add(1) > 1 {
			overlapped.Add(1)
		}
		defer running.Add(-1)
		builds <- struct{}{}
		return errors.New("failures are logged, not fatal")
	}

	w, err := New(Options{Dirs: []string{songs}, Debounce: 20 * time.Millisecond, Initial: true}, rebuild, hclog.NewNullLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("initial build did not run")
	}

	// A burst of writes triggers a rebuild.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(songs, "a.tex"), []byte{byte('a' + i)}, 0o644))
	}
	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a rebuild")
	}

	// Run must still be alive after a failed rebuild.
	require.NoError(t, os.WriteFile(filepath.Join(songs, "b.tex"), []byte("b"), 0o644))
	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("second change did not trigger a rebuild")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Zero(t, overlapped.Load())
}
