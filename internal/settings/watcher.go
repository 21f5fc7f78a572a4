package settings

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads settings whenever the file at path is written from outside
// the process and delivers the result on the returned channel. Editors and
// sync tools tend to emit bursts of write events, so reloads are coalesced
// over a short quiet period. The watcher stops when ctx is cancelled.
func Watch(ctx context.Context, path string) (<-chan Settings, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: the file itself may not exist yet, and atomic
	// saves replace it rather than writing in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan Settings, 1)
	go func() {
		defer watcher.Close()
		defer close(out)

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(100 * time.Millisecond)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("settings: watch error: %v", err)
			case <-pending:
				pending = nil
				s, err := LoadFrom(path)
				if err != nil {
					log.Printf("settings: reload failed: %v", err)
					continue
				}
				select {
				case out <- s:
				default:
					// Drop if the consumer is behind; the next event
					// carries the latest state anyway.
				}
			}
		}
	}()

	return out, nil
}
