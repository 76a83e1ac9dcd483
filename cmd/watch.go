package cmd

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JPM1118/animback/internal/frames"
	"github.com/JPM1118/animback/internal/watch"
)

// loader receives rescanned frame sets.
type loader interface {
	Load(frames.Set) error
}

// folderWatch keeps a single watch.Watcher on the most recently loaded
// folder and loads every successful rescan into the player. Failed
// rescans are logged and the previous frames are kept.
type folderWatch struct {
	ctx      context.Context
	target   loader
	debounce time.Duration
	root     *slog.Logger
	log      *slog.Logger
	changes  chan watch.Change
	done     chan struct{}

	mu      sync.Mutex
	watcher *watch.Watcher
}

func newFolderWatch(ctx context.Context, target loader, debounce time.Duration, log *slog.Logger) *folderWatch {
	fw := &folderWatch{
		ctx:      ctx,
		target:   target,
		debounce: debounce,
		root:     log,
		log:      log.With(slog.String("component", "animback.folder_watch")),
		changes:  make(chan watch.Change),
		done:     make(chan struct{}),
	}
	go fw.run()
	return fw
}

// Watch replaces the watched folder with dir.
func (fw *folderWatch) Watch(dir string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.watcher != nil {
		if fw.watcher.Dir() == dir {
			return
		}
		fw.watcher.Close()
		fw.watcher = nil
	}
	w, err := watch.New(fw.ctx, dir, fw.changes, fw.debounce, fw.root)
	if err != nil {
		fw.log.LogAttrs(fw.ctx, slog.LevelWarn, "watch folder", slog.String("path", dir), slog.Any("error", err))
		return
	}
	fw.watcher = w
}

func (fw *folderWatch) run() {
	for {
		select {
		case <-fw.ctx.Done():
			return
		case <-fw.done:
			return
		case c := <-fw.changes:
			if c.Err != nil {
				fw.log.LogAttrs(fw.ctx, slog.LevelWarn, "keeping frames", slog.Any("error", c.Err))
				continue
			}
			if err := fw.target.Load(c.Frames); err != nil {
				fw.log.LogAttrs(fw.ctx, slog.LevelWarn, "reload frames", slog.Any("error", err))
			}
		}
	}
}

// Close stops watching.
func (fw *folderWatch) Close() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.watcher != nil {
		fw.watcher.Close()
		fw.watcher = nil
	}
	select {
	case <-fw.done:
	default:
		close(fw.done)
	}
}
