// Package tail follows a growing text file and hands each new line to a
// callback. The mask command uses it to redact transcripts as they are
// appended.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
)

// maxLineSize bounds a single line; transcripts can embed long pasted text.
const maxLineSize = 1024 * 1024

// Options configures the tailer behavior.
type Options struct {
	FilePath   string                  // Path to the file to follow
	Replay     bool                    // Whether to emit the existing content first
	Follow     bool                    // Whether to follow the file for new content
	OutputFunc func(line string) error // Called for each line read
}

// Tailer follows a file and streams its lines.
type Tailer struct {
	opts    Options
	file    *os.File
	offset  int64
	watcher *fsnotify.Watcher
}

// New creates a new Tailer with the given options.
func New(opts Options) *Tailer {
	return &Tailer{opts: opts}
}

// Run starts the tailing process. It blocks until the context is cancelled,
// the file goes away, or an error occurs.
func (t *Tailer) Run(ctx context.Context) error {
	f, err := os.Open(t.opts.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	t.file = f
	defer t.close()

	if t.opts.Replay {
		if err := t.readNewContent(); err != nil {
			return err
		}
	} else {
		if t.offset, err = t.file.Seek(0, io.SeekEnd); err != nil {
			return err
		}
	}

	if !t.opts.Follow {
		return nil
	}

	if err := t.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	return t.watch(ctx)
}

// setupWatcher initializes the fsnotify watcher.
func (t *Tailer) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	t.watcher = watcher
	return watcher.Add(t.opts.FilePath)
}

// watch monitors the file for changes and emits new lines as they arrive.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write:
				if err := t.readNewContent(); err != nil {
					return err
				}
			case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
				return fmt.Errorf("file was removed or renamed")
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// readNewContent reads from the last known offset to the current end of file,
// emitting complete lines.
func (t *Tailer) readNewContent() error {
	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(t.file)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		if err := t.opts.OutputFunc(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	var err error
	t.offset, err = t.file.Seek(0, io.SeekCurrent)
	return err
}

// close closes all resources.
func (t *Tailer) close() {
	if t.file != nil {
		t.file.Close()
	}
	if t.watcher != nil {
		t.watcher.Close()
	}
}
