package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the settings file when it changes on disk and hands the
// new settings to a callback. Editors often replace files instead of
// writing in place, so the parent directory is watched rather than the
// file itself.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	onChange  func(Settings)
	done      chan struct{}
}

// Watch starts watching path and invokes onChange after each reload.
func Watch(path string, onChange func(Settings)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		path:      path,
		fsWatcher: fsWatcher,
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	// successive write events for one save are collapsed into one reload
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(100 * time.Millisecond)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Println("settings watcher error:", err)
		case <-pending:
			pending = nil
			settings, err := Load(w.path)
			if err != nil {
				log.Println("settings reload failed:", err)
				continue
			}
			w.onChange(settings)
		}
	}
}
