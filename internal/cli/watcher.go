package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before regenerating.
const DefaultDebounce = 100 * time.Millisecond

// Watcher regenerates a package whenever one of its source files changes
type Watcher struct {
	generator *Generator
	watcher   *fsnotify.Watcher
	debounce  time.Duration

	mu      sync.Mutex
	watched map[string]bool

	// OnRun, when set, is called after every regeneration
	OnRun func(GenerationSummary, error)
}

// NewWatcher creates a watcher driving generator
func NewWatcher(generator *Generator) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapFileSystemError("watch", ".", err)
	}
	return &Watcher{
		generator: generator,
		watcher:   fsw,
		debounce:  DefaultDebounce,
		watched:   make(map[string]bool),
	}, nil
}

// SetDebounce changes the settle delay
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch blocks until ctx is done, regenerating affected packages as their
// source files change.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addRoots(); err != nil {
		return err
	}

	debouncer := NewDebouncer(w.debounce, func(events []fsnotify.Event) {
		w.processEvents(ctx, events)
	})
	defer debouncer.Stop()

	diagnostics := w.generator.diagnostics
	diagnostics.Info("Watching %s for changes", pluralizeClient.Pluralize("directory", w.watchedCount(), true))

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			debouncer.Add(evt)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			diagnostics.Error("Watcher error: %v", err)
		}
	}
}

// addRoots watches every directory named by the configured patterns. For
// "dir/..." patterns the whole tree is watched so new packages are seen.
func (w *Watcher) addRoots() error {
	for _, pattern := range w.generator.config.Directories {
		root, recursive := splitPattern(pattern)
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return errors.WrapFileSystemError("resolve", root, err)
		}

		if !recursive {
			if err := w.addDir(absRoot, absRoot); err != nil {
				return err
			}
			continue
		}
		if err := w.addTree(absRoot, absRoot); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addTree(root, dir string) error {
	filter := utils.DefaultDirectoryFilter()
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return nil
		}
		if path != dir && !filter(path, entry) {
			return filepath.SkipDir
		}
		if path != root && w.generator.scanner.excluded(root, path) {
			return filepath.SkipDir
		}
		return w.addDir(root, path)
	})
}

func (w *Watcher) addDir(root, dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.WrapFileSystemError("watch", dir, err)
	}
	w.watched[dir] = true
	w.generator.scanner.setRoot(dir, root)
	return nil
}

func (w *Watcher) watchedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func (w *Watcher) processEvents(ctx context.Context, events []fsnotify.Event) {
	if ctx.Err() != nil {
		return
	}

	diagnostics := w.generator.diagnostics
	affected := make(map[string]bool)
	var changed []string

	for _, evt := range events {
		info, err := os.Stat(evt.Name)
		if err == nil && info.IsDir() {
			if evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename) {
				root := w.generator.scanner.rootOf(filepath.Dir(evt.Name))
				if err := w.addTree(root, evt.Name); err != nil {
					diagnostics.Warn("Cannot watch %s: %v", evt.Name, err)
				}
				affected[evt.Name] = true
			}
			continue
		}
		if isSourceEvent(evt) {
			affected[filepath.Dir(evt.Name)] = true
			changed = append(changed, evt.Name)
			if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
				w.removeOrphan(evt.Name)
			}
		}
	}

	if len(affected) == 0 {
		return
	}

	dirs := make([]string, 0, len(affected))
	for dir := range affected {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, file := range changed {
		w.generator.fileReader.InvalidateFile(file)
	}
	diagnostics.Verbose("Change detected in %s", strings.Join(dirs, ", "))

	summary, err := w.generator.RunPackages(ctx, dirs)
	if err == nil {
		diagnostics.Success("%s", summary.String())
	}
	if w.OnRun != nil {
		w.OnRun(summary, err)
	}
}

// removeOrphan deletes the generated file of a source file that went away
func (w *Watcher) removeOrphan(source string) {
	if _, err := os.Stat(source); err == nil {
		return
	}
	if _, err := w.generator.removeGenerated(source); err != nil {
		w.generator.diagnostics.Warn("Cannot remove orphan of %s: %v", source, err)
	}
}

// isSourceEvent reports whether evt touches a candidate source file. Writes
// to generated files are ignored so regeneration does not trigger itself.
func isSourceEvent(evt fsnotify.Event) bool {
	name := filepath.Base(evt.Name)
	if !strings.HasSuffix(name, ".go") ||
		strings.HasSuffix(name, "_test.go") ||
		strings.HasSuffix(name, parser.GeneratedSuffix) {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) ||
		evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename)
}

// Debouncer batches rapid file events and ensures callbacks don't overlap
type Debouncer struct {
	duration time.Duration
	callback func([]fsnotify.Event)

	mu       sync.Mutex
	timer    *time.Timer
	events   []fsnotify.Event
	pending  []fsnotify.Event
	stopped  bool
	inFlight bool
}

// NewDebouncer creates a debouncer calling cb once events stop arriving for d
func NewDebouncer(d time.Duration, cb func([]fsnotify.Event)) *Debouncer {
	return &Debouncer{duration: d, callback: cb}
}

// Add queues evt and restarts the settle timer
func (d *Debouncer) Add(evt fsnotify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.events = append(d.events, evt)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush runs the callback, or queues the batch if a callback is running
func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.events) == 0 {
		d.mu.Unlock()
		return
	}

	events := d.events
	d.events = nil

	if d.inFlight {
		d.pending = append(d.pending, events...)
		d.mu.Unlock()
		return
	}
	d.inFlight = true
	d.mu.Unlock()

	d.callback(events)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight = false
	if len(d.pending) > 0 && !d.stopped {
		d.events = d.pending
		d.pending = nil
		d.timer = time.AfterFunc(d.duration, d.flush)
	}
}

// Stop cancels any pending callback and drops future events
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.events = nil
	d.pending = nil
}
