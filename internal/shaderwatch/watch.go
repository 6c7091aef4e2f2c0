// Package shaderwatch reports edits to GLSL sources so programs can be
// rebuilt without restarting the viewer.
package shaderwatch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"orrery/internal/logging"
)

// Watcher forwards changed shader file names, without directory, on a
// buffered channel. It never touches GL state; the render thread drains it.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// Watch starts watching dir. The returned watcher stops when ctx is
// cancelled or Close is called.
func Watch(ctx context.Context, dir string, log logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("shader watcher %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan string, 32),
		done:    make(chan struct{}),
	}
	go w.loop(ctx, log)
	return w, nil
}

func (w *Watcher) loop(ctx context.Context, log logging.Logger) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if !IsShader(name) {
				continue
			}
			select {
			case w.changes <- name:
			default:
				// Full: the pending entries already force a reload.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn(ctx, "shader watcher error", logging.Err(err))
		}
	}
}

// IsShader reports whether name is a vertex or fragment source.
func IsShader(name string) bool {
	switch filepath.Ext(name) {
	case ".vert", ".frag":
		return true
	}
	return false
}

// Drain returns the distinct names changed since the last call without
// blocking.
func (w *Watcher) Drain() []string {
	var names []string
	seen := map[string]bool{}
	for {
		select {
		case name := <-w.changes:
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		default:
			return names
		}
	}
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
