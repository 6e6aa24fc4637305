// Package watch reports external edits to the todo file.
package watch

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// DefaultDelay is the quiet period after the last filesystem event before a
// change is reported.
const DefaultDelay = 150 * time.Millisecond

// Change is a debounced modification of the watched file.
type Change struct {
	Path    string
	Content string
	Removed bool
	At      time.Time
}

// Config holds configuration for a Watcher.
type Config struct {
	Fs     afero.Fs // used to read the file after a change; defaults to the OS
	Path   string
	Delay  time.Duration
	Logger *log.Logger
}

// Watcher monitors one file by watching its parent directory, so atomic
// rename-over writes are seen. Changes whose content matches the last known
// content are dropped; call Expect after writing the file yourself.
type Watcher struct {
	fs        afero.Fs
	path      string
	logger    *log.Logger
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	changes   chan Change

	mu   sync.Mutex
	hash string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a watcher for cfg.Path. Call Start to begin delivering changes.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch path is required")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("resolve %s: %w", cfg.Path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:      cfg.Fs,
		path:    abs,
		logger:  cfg.Logger,
		watcher: fw,
		changes: make(chan Change, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	w.debouncer = NewDebouncer(cfg.Delay, w.flush)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Changes delivers debounced changes.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Done is closed once the watcher has been closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.ctx.Done()
}

// Start records the current content as known and begins watching.
func (w *Watcher) Start() error {
	if data, err := afero.ReadFile(w.fs, w.path); err == nil {
		w.setHash(string(data))
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Debug("Watching todo file", "path", w.path)

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Expect marks content as already known, so the filesystem events produced
// by writing it are not reported.
func (w *Watcher) Expect(content string) {
	w.setHash(content)
}

// Close stops watching. Pending changes are discarded.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		w.debouncer.Stop()
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error", "err", err)

		case <-w.ctx.Done():
			return
		}
	}
}

// flush reads the file and reports it when its content changed.
func (w *Watcher) flush() {
	change := Change{Path: w.path, At: time.Now()}

	data, err := afero.ReadFile(w.fs, w.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		change.Removed = true
	case err != nil:
		w.logger.Warn("Failed to read watched file", "path", w.path, "err", err)
		return
	default:
		change.Content = string(data)
	}

	if !w.swapHash(change.Content) {
		return
	}
	w.logger.Debug("Todo file changed on disk", "path", w.path, "removed", change.Removed)

	select {
	case <-w.ctx.Done():
	case w.changes <- change:
	}
}

func (w *Watcher) setHash(content string) {
	w.mu.Lock()
	w.hash = hashOf(content)
	w.mu.Unlock()
}

// swapHash stores the hash of content and reports whether it differed.
func (w *Watcher) swapHash(content string) bool {
	h := hashOf(content)
	w.mu.Lock()
	defer w.mu.Unlock()
	if h == w.hash {
		return false
	}
	w.hash = h
	return true
}

func hashOf(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}
