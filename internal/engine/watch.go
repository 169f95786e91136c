package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep/internal/types"
)

// StartWatching rescans files under dirs whenever they change, passing
// each file's findings to report.
func (e *Engine) StartWatching(dirs []string, report func(path string, findings []types.Finding)) error {
	if e.watching.Load() {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	e.watcher = watcher
	e.watchDirs = dirs

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return e.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			e.watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watching.Store(true)
	go e.watchLoop(report)
	return nil
}

// StopWatching stops the watch loop and releases the watcher. The watch
// goroutine also drains out through the closed event channel.
func (e *Engine) StopWatching() error {
	if !e.watching.CompareAndSwap(true, false) {
		return nil
	}
	return e.watcher.Close()
}

func (e *Engine) watchLoop(report func(string, []types.Finding)) {
	for e.watching.Load() {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event, report)
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			if e.logger != nil {
				e.logger.Error("watch error", zap.Error(err))
			}
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event, report func(string, []types.Finding)) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !Scannable(event.Name) {
		return
	}
	// editors fire several writes in a row; let them settle
	time.Sleep(100 * time.Millisecond)

	findings, err := e.RunFile(event.Name)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("rescanning changed file failed", zap.String("file", event.Name), zap.Error(err))
		}
		return
	}
	report(event.Name, findings)
}
