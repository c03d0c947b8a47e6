package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"lox/interpreter-go/pkg/driver"
)

// watchDebounce coalesces the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// watchFile runs the script, then re-runs it with a fresh runner every time
// it changes, until ctx is cancelled. The containing directory is watched
// so editors that save by rename are still noticed.
func watchFile(ctx context.Context, path string, newRunner func() *driver.Runner, stderr io.Writer) int {
	abs, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintf(stderr, "resolve %s: %v\n", path, err)
		return exitNoInput
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(stderr, "watch: %v\n", err)
		return exitIOErr
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		fmt.Fprintf(stderr, "watch %s: %v\n", filepath.Dir(abs), err)
		return exitIOErr
	}

	last := runFile(abs, newRunner(), stderr)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return last
		case ev, ok := <-watcher.Events:
			if !ok {
				return last
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return last
			}
			fmt.Fprintf(stderr, "watch: %v\n", err)
		case <-timer.C:
			fmt.Fprintf(stderr, "-- %s changed, re-running\n", path)
			last = runFile(abs, newRunner(), stderr)
		}
	}
}
