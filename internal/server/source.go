package server

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
)

// Source supplies the payload the server is currently showing.
type Source interface {
	// Payload returns the raw payload bytes.
	Payload(ctx context.Context) ([]byte, error)
}

// Watcher is a Source that can report changes. Watch blocks until ctx is
// done, calling onChange after each change.
type Watcher interface {
	Source
	Watch(ctx context.Context, onChange func()) error
}

// StaticSource serves fixed bytes, e.g. a payload read from stdin or a URL.
type StaticSource []byte

// Payload implements Source.
func (s StaticSource) Payload(context.Context) ([]byte, error) {
	return s, nil
}

// =============================================================================
// FileSource
// =============================================================================

// debounce collapses the burst of events editors emit for one save.
const debounce = 100 * time.Millisecond

// FileSource serves a payload file. The file is re-read on every request,
// so edits show up without a restart; Watch adds push notifications.
type FileSource struct {
	path   string
	logger *log.Logger

	mu   sync.RWMutex
	last []byte
}

// NewFileSource checks that path exists and returns a source for it.
func NewFileSource(path string, logger *log.Logger) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
		}
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FileSource{path: abs, logger: logger}, nil
}

// Path returns the absolute path of the payload file.
func (f *FileSource) Path() string {
	return f.path
}

// Payload implements Source. While a save is in progress the file may be
// briefly missing, empty or half written; the last contents that normalized
// are served instead. Without such history the raw bytes are returned so the
// caller reports the decode error.
func (f *FileSource) Payload(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err == nil && len(data) > 0 && validate(data) == nil {
		f.mu.Lock()
		f.last = data
		f.mu.Unlock()
		return data, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.last != nil {
		return f.last, nil
	}
	switch {
	case os.IsNotExist(err):
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", f.path)
	case err != nil:
		return nil, err
	case len(data) == 0:
		return nil, errors.New(errors.ErrCodeInvalidPayload, "%s is empty", f.path)
	}
	return data, nil
}

// Watch implements Watcher. It watches the parent directory rather than the
// file, because editors often replace files by rename.
func (f *FileSource) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return err
	}
	f.logger.Debug("watching for changes", "file", f.path)

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := f.check(); err != nil {
					f.logger.Warn("changed payload is invalid, keeping the last good graph", "file", f.path, "err", err)
					return
				}
				f.logger.Info("payload changed, reloading viewers", "file", filepath.Base(f.path))
				onChange()
			})
			timerMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("watcher error", "err", err)
		}
	}
}

// check re-reads the file and reports whether it still normalizes.
func (f *FileSource) check() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	return validate(data)
}

func validate(data []byte) error {
	p, err := graph.Decode(data)
	if err != nil {
		return err
	}
	_, err = graph.Normalize(p)
	return err
}
