// Package watch reloads a frame folder when its contents change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JPM1118/animback/internal/frames"
)

// DefaultDebounce is used when a negative debounce is requested.
const DefaultDebounce = 250 * time.Millisecond

// Change is the result of rescanning the folder after a burst of events.
type Change struct {
	Event  []fsnotify.Event
	Frames frames.Set
	Err    error
}

// Watcher sends a Change each time the frame files in a folder settle
// after being modified.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	changes  chan<- Change
	quit     chan struct{}
	done     chan struct{}
	log      *slog.Logger
}

// New starts watching dir. Changes are sent on changes until ctx is
// cancelled or Close is called. Bursts of events closer together than
// debounce result in a single rescan.
func New(ctx context.Context, dir string, changes chan<- Change, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = watcher.Add(abs)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	w := &Watcher{
		dir:      abs,
		debounce: debounce,
		watcher:  watcher,
		changes:  changes,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      log.With(slog.String("component", "watch")),
	}
	go w.process(ctx)
	return w, nil
}

// Dir returns the absolute path being watched.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	close(w.quit)
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) process(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending []fsnotify.Event
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.quit:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.LogAttrs(ctx, slog.LevelDebug, "event", slog.String("name", ev.Name), slog.String("op", ev.Op.String()))
			if len(pending) == 0 {
				timer.Reset(w.debounce)
			}
			pending = append(pending, ev)
		case <-timer.C:
			set, err := frames.Scan(w.dir)
			if err != nil {
				w.log.LogAttrs(ctx, slog.LevelWarn, "rescan", slog.Any("error", err))
			} else {
				w.log.LogAttrs(ctx, slog.LevelInfo, "rescan", slog.Int("frames", len(set)))
			}
			if !w.send(ctx, Change{Event: pending, Frames: set, Err: err}) {
				return
			}
			pending = nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.send(ctx, Change{Err: err}) {
				return
			}
		}
	}
}

// relevant reports whether ev can alter the frame set.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Name == w.dir {
		return ev.Has(fsnotify.Remove | fsnotify.Rename)
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	_, ok := frames.ParseName(filepath.Base(ev.Name))
	return ok
}

func (w *Watcher) send(ctx context.Context, c Change) bool {
	select {
	case w.changes <- c:
		return true
	case <-w.quit:
		return false
	case <-ctx.Done():
		return false
	}
}
