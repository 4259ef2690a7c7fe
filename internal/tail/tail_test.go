package tail

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayExistingLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

	var got []string
	tailer := New(Options{
		FilePath: path,
		Replay:   true,
		Follow:   false,
		OutputFunc: func(line string) error {
			got = append(got, line)
			return nil
		},
	})

	require.NoError(t, tailer.Run(context.Background()))
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestFollowAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	lines := make(chan string, 10)
	tailer := New(Options{
		FilePath: path,
		Replay:   false,
		Follow:   true,
		OutputFunc: func(line string) error {
			lines <- line
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- tailer.Run(ctx) }()

	// Give the watcher a moment to attach before appending.
	time.Sleep(200 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("fresh\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case line := <-lines:
		assert.Equal(t, "fresh", line)
	case <-ctx.Done():
		t.Fatal("timed out waiting for appended line")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunMissingFile(t *testing.T) {
	tailer := New(Options{FilePath: filepath.Join(t.TempDir(), "nope.log")})
	assert.Error(t, tailer.Run(context.Background()))
}
