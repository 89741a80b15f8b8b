// Package watch re-renders scenes when their source files change.
package watch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// RenderFunc is invoked, after debouncing, with the path of a changed file.
type RenderFunc func(ctx context.Context, path string)

// Watcher monitors a scenes directory and triggers re-renders on change.
type Watcher struct {
	dir      string
	debounce time.Duration
	render   RenderFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New builds a watcher over dir. Rapid successive events for the same file
// (editors write in bursts) coalesce into one render after the debounce
// window.
func New(dir string, debounce time.Duration, render RenderFunc) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		render:   render,
		timers:   make(map[string]*time.Timer),
	}
}

// Run blocks watching the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	log.Info().Str("dir", w.dir).Msg("watching for scene changes")

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("scene file changed")
			w.schedule(ctx, event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

// schedule arms (or re-arms) the debounce timer for one path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.render(ctx, path)
	})
}

// drain stops all pending timers.
func (w *Watcher) drain() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".py") {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)
}
