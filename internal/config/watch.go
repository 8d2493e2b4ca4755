package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a file must be quiet before its change is reported.
const Debounce = 100 * time.Millisecond

// Watcher reports changes to configuration and script files under a set of
// directories. Events carries the changed path.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches each directory and its subdirectories.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if _, err := addTree(w, dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the run loop
// exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run reports a file once it has been quiet for Debounce, so a truncate
// followed by a write reloads the finished file.
func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	var pending []string
	timer := time.NewTimer(Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			names := []string{event.Name}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Files may land before the directory is watched.
					files, err := addTree(w.watcher, event.Name)
					if err != nil && !w.report(err) {
						return
					}
					names = files
				}
			}
			changed := false
			for _, name := range names {
				if !IsConfigFile(name) && !IsScriptFile(name) {
					continue
				}
				if !slices.Contains(pending, name) {
					pending = append(pending, name)
				}
				changed = true
			}
			if changed {
				timer.Reset(Debounce)
			}
		case <-timer.C:
			for _, name := range pending {
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			pending = pending[:0]
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.report(err) {
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// report forwards err on Errors. Returns false once the watcher is closed.
func (w *Watcher) report(err error) bool {
	select {
	case w.Errors <- err:
		return true
	case <-w.closeCh:
		return false
	}
}

// addTree watches root and every directory below it, returning the files
// found.
func addTree(w *fsnotify.Watcher, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
