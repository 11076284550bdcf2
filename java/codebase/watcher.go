package codebase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeFunc is called after the watcher re-analyzed or dropped a file. info
// is nil for removed files.
type ChangeFunc func(path string, info *FileInfo)

// FileWatcher polls the codebase root for added, modified and removed
// source files.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	skipHidden   bool
	onChange     ChangeFunc

	// mu serializes scans; it guards modTimes.
	mu       sync.Mutex
	modTimes map[string]time.Time
}

func NewFileWatcher(c *Codebase, interval time.Duration, onChange ChangeFunc) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: interval,
		skipHidden:   true,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
}

// SkipHidden controls whether directories starting with a dot are walked.
func (w *FileWatcher) SkipHidden(skip bool) {
	w.skipHidden = skip
}

func (w *FileWatcher) Start() {
	go w.run()
}

// Stop ends polling and waits for a running scan to finish.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Infof("watching %s every %s", w.codebase.RootDir(), w.pollInterval)
	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan runs one polling pass and returns the number of files that changed.
// It is safe to call while the watcher is running.
func (w *FileWatcher) Scan() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	currentFiles := make(map[string]bool)
	changed := 0
	ctx := context.Background()

	filepath.Walk(w.codebase.RootDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.skipHidden && path != w.codebase.RootDir() && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.codebase.Config().HasExtension(path) {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			fi := w.codebase.ScanFile(ctx, path)
			changed++
			w.notify(path, fi)
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changed++
			log.Infof("removed %s", path)
			w.notify(path, nil)
		}
	}
	return changed
}

func (w *FileWatcher) notify(path string, info *FileInfo) {
	if info != nil {
		switch {
		case info.Err != nil:
			log.Errorf("%s: %s", path, info.Err)
		case info.Result.Clean():
			log.Infof("%s: clean", path)
		default:
			log.Warningf("%s: %d error(s)", path, info.Result.ErrorCount())
		}
	}
	if w.onChange != nil {
		w.onChange(path, info)
	}
}
