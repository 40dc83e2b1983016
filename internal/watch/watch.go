// Package watch reports changes to the inputs of a context compile so the
// caller can recompile. Writes to the packages directory are never reported,
// which keeps a compile from retriggering itself.
package watch

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/knowledge"
)

// DefaultDebounce is the quiet period after the last change before a
// recompile is signalled.
const DefaultDebounce = 300 * time.Millisecond

// Watcher coalesces input changes into recompile triggers. Each value sent
// on Changes is the first path that changed since the previous trigger.
type Watcher struct {
	Paths    config.Paths
	Debounce time.Duration
	Changes  <-chan string

	changes chan string
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the project at paths.
func New(paths config.Paths) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan string, 1)
	return &Watcher{
		Paths:    paths,
		Debounce: DefaultDebounce,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Dirs returns the directories to watch that currently exist. The project
// root is always included.
func (w *Watcher) Dirs() []string {
	dirs := []string{w.Paths.Root, w.Paths.ContextDir, w.Paths.ExecMemoryDir}
	for _, cat := range knowledge.Categories {
		dirs = append(dirs, filepath.Join(w.Paths.ContextDir, cat))
	}
	var out []string
	for _, d := range dirs {
		if d == w.Paths.Root || isDir(d) {
			out = append(out, d)
		}
	}
	return out
}

// Start adds the watch directories and begins the event loop.
func (w *Watcher) Start() error {
	for _, d := range w.Dirs() {
		if err := w.watcher.Add(d); err != nil {
			return err
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	var (
		first string
		last  time.Time
	)
	flush := func() {
		if first == "" {
			return
		}
		select {
		case w.changes <- first:
		default:
			// A trigger is already queued; it covers this change too.
		}
		first = ""
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				flush()
				return
			}
			if event.Has(fsnotify.Create) && (event.Name == w.Paths.ContextDir || w.isCategoryDir(event.Name)) {
				_ = w.watcher.Add(event.Name)
			}
			if event.Has(fsnotify.Chmod) || !w.Relevant(event.Name) {
				continue
			}
			if first == "" {
				first = event.Name
			}
			last = time.Now()

		case <-ticker.C:
			if first != "" && time.Since(last) >= debounce {
				flush()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// Relevant reports whether a change to path can alter compiled packages.
func (w *Watcher) Relevant(path string) bool {
	dir, base := filepath.Dir(path), filepath.Base(path)
	switch dir {
	case w.Paths.Root:
		return base == config.FeaturesFile || base == config.ForgeTOMLFile
	case w.Paths.ExecMemoryDir:
		return strings.HasSuffix(base, ".json")
	case w.Paths.ContextDir:
		return w.isCategoryDir(path)
	}
	if filepath.Dir(dir) == w.Paths.ContextDir && w.isCategoryDir(dir) {
		return strings.HasSuffix(base, ".md") && base != knowledge.IndexFile
	}
	return false
}

func (w *Watcher) isCategoryDir(path string) bool {
	return filepath.Dir(path) == w.Paths.ContextDir &&
		slices.Contains(knowledge.Categories, filepath.Base(path))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
