// Package player cycles the desktop background through a frame set.
//
// A Player owns the loaded frames, the playback cursor and a repeating
// timer. All operations and timer ticks are serialized by a single mutex,
// and every outcome is published as a Status to subscribers.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/JPM1118/animback/internal/desktop"
	"github.com/JPM1118/animback/internal/frames"
)

var (
	// ErrEmptyFrameSet is returned by Load for a set with no frames.
	ErrEmptyFrameSet = errors.New("empty frame set")
	// ErrUnsupportedRate is returned for a frame rate outside [MinFPS, MaxFPS].
	ErrUnsupportedRate = fmt.Errorf("unsupported frame rate (want %d to %d fps)", MinFPS, MaxFPS)
	// ErrNoFramesLoaded is returned when playback starts before any Load.
	ErrNoFramesLoaded = errors.New("no animation frames loaded")
)

// Supported frame rates, in frames per second.
const (
	MinFPS     = 1
	MaxFPS     = 30
	DefaultFPS = 10
)

// updateBuffer is the per-subscriber status channel capacity.
const updateBuffer = 16

// Config holds player options.
type Config struct {
	// FPS is the initial frame rate. Zero means DefaultFPS.
	FPS int
	// Scheduler arms the frame timer. Nil means TickerScheduler.
	Scheduler Scheduler
	Log       *slog.Logger
}

// Player drives the frame advance and commit cycle.
type Player struct {
	binding desktop.Binding
	sched   Scheduler
	log     *slog.Logger

	mu      sync.Mutex
	frames  frames.Set
	cursor  int
	playing bool
	looping bool // playback is driven by Loop, not the timer
	fps     int
	cancel  func()
	gen     uint64 // identifies the live timer or Loop
	last    Status
	subs    map[chan Status]struct{}
}

// New returns an idle Player committing frames through b.
func New(b desktop.Binding, cfg Config) (*Player, error) {
	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}
	if !ValidRate(cfg.FPS) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRate, cfg.FPS)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TickerScheduler{}
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	return &Player{
		binding: b,
		sched:   cfg.Scheduler,
		log:     cfg.Log.With(slog.String("component", "player")),
		fps:     cfg.FPS,
		last:    Status{Kind: KindIdle},
		subs:    make(map[chan Status]struct{}),
	}, nil
}

// ValidRate reports whether fps is a supported frame rate.
func ValidRate(fps int) bool {
	return MinFPS <= fps && fps <= MaxFPS
}

// Load replaces the held frame set and resets the cursor. Playback is
// not stopped; a running timer continues against the new set.
func (p *Player) Load(set frames.Set) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(set) == 0 {
		p.report(Status{Kind: KindError, Err: ErrEmptyFrameSet})
		return ErrEmptyFrameSet
	}
	p.frames = slices.Clone(set)
	p.cursor = 0
	p.log.LogAttrs(context.Background(), slog.LevelInfo, "load", slog.Int("frames", len(set)))
	p.report(Status{Kind: KindLoaded, Total: len(set)})
	return nil
}

// SetFrameRate changes the frame rate. Rates outside [MinFPS, MaxFPS]
// are rejected. When playing, the timer is swapped so the new interval
// applies from the next tick; the cursor is kept. A running Loop picks
// up the new interval after its current sleep.
func (p *Player) SetFrameRate(fps int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !ValidRate(fps) {
		err := fmt.Errorf("%w: %d", ErrUnsupportedRate, fps)
		p.report(Status{Kind: KindError, Err: err})
		return err
	}
	p.fps = fps
	if p.playing && !p.looping {
		p.disarm()
		p.arm()
	}
	p.report(Status{Kind: KindRate, Current: fps, Total: len(p.frames)})
	return nil
}

// Start begins playback from the first frame. The first frame is
// committed before Start returns. Starting while playing does nothing.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.frames) == 0 {
		p.report(Status{Kind: KindError, Err: ErrNoFramesLoaded})
		return ErrNoFramesLoaded
	}
	if p.playing {
		return nil
	}
	p.playing = true
	p.cursor = 0
	p.arm()
	p.log.LogAttrs(context.Background(), slog.LevelInfo, "start", slog.Int("fps", p.fps))
	p.report(Status{Kind: KindPlaying, Total: len(p.frames)})
	p.advance()
	return nil
}

// Stop cancels playback. The cursor is kept. Stopping while idle does
// nothing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return
	}
	p.playing = false
	p.looping = false
	p.disarm()
	p.log.LogAttrs(context.Background(), slog.LevelInfo, "stop", slog.Int("cursor", p.cursor))
	p.report(Status{Kind: KindStopped, Total: len(p.frames)})
}

// Step commits the frame under the cursor and advances it. It is the
// synchronous form of a timer tick.
func (p *Player) Step() (Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advance()
}

// Loop plays the loaded frames synchronously, restarting at the first
// frame and sleeping the current frame interval between steps. each, if
// not nil, is called with every resulting Status. A running timer is
// replaced; while Loop runs the player reports itself playing and Start
// does nothing. Loop returns ctx.Err() when ctx is done and nil when
// Stop ends playback.
func (p *Player) Loop(ctx context.Context, each func(Status)) error {
	p.mu.Lock()
	if len(p.frames) == 0 {
		p.report(Status{Kind: KindError, Err: ErrNoFramesLoaded})
		p.mu.Unlock()
		return ErrNoFramesLoaded
	}
	p.disarm()
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.cancel = cancel
	gen := p.gen
	p.playing = true
	p.looping = true
	p.cursor = 0
	p.log.LogAttrs(ctx, slog.LevelInfo, "loop", slog.Int("fps", p.fps))
	st := p.report(Status{Kind: KindPlaying, Total: len(p.frames)})
	p.mu.Unlock()
	if each != nil {
		each(st)
	}
	defer p.endLoop(gen)

	for loopCtx.Err() == nil {
		st, ok, err := p.loopStep(gen)
		if !ok {
			break
		}
		if each != nil {
			each(st)
			if err != nil && st.Kind != KindError {
				each(Status{Kind: KindError, Err: err, Time: st.Time})
			}
		}
		if loopCtx.Err() != nil {
			break
		}

		t := time.NewTimer(p.Interval())
		select {
		case <-loopCtx.Done():
			t.Stop()
		case <-t.C:
		}
	}
	return ctx.Err()
}

// loopStep advances one frame unless the Loop identified by gen has
// been stopped.
func (p *Player) loopStep(gen uint64) (Status, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.looping || gen != p.gen {
		return p.last, false, nil
	}
	st, err := p.advance()
	return st, true, err
}

// endLoop returns the player to idle after its Loop exits, unless Stop
// already did.
func (p *Player) endLoop(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.looping || gen != p.gen {
		return
	}
	p.playing = false
	p.looping = false
	p.disarm()
	p.report(Status{Kind: KindStopped, Total: len(p.frames)})
}

// Clear removes the desktop background. It does not affect playback.
func (p *Player) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.binding.CommitBackground(""); err != nil {
		err = wrapBinding(err, desktop.ErrCommitFailed)
		p.log.LogAttrs(context.Background(), slog.LevelWarn, "clear", slog.Any("error", err))
		p.report(Status{Kind: KindError, Err: err})
		return err
	}
	p.report(Status{Kind: KindCleared, Total: len(p.frames)})
	return p.refresh()
}

// Refresh asks the desktop shell to redraw the current background.
func (p *Player) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.refresh(); err != nil {
		return err
	}
	p.report(Status{Kind: KindRefreshed, Total: len(p.frames)})
	return nil
}

// Close stops playback and closes all subscriber channels.
func (p *Player) Close() {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		delete(p.subs, ch)
		close(ch)
	}
}

// Subscribe returns a channel receiving every subsequent Status and a
// func that ends the subscription and closes the channel. Slow readers
// lose the oldest statuses.
func (p *Player) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, updateBuffer)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if _, ok := p.subs[ch]; ok {
				delete(p.subs, ch)
				close(ch)
			}
		})
	}
}

// Status returns the most recent Status.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Snapshot returns a copy of the playback state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Playing:  p.playing,
		Cursor:   p.cursor,
		Frames:   len(p.frames),
		FPS:      p.fps,
		Interval: p.interval(),
	}
}

// Interval returns the current frame interval.
func (p *Player) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval()
}

func (p *Player) interval() time.Duration {
	return time.Second / time.Duration(p.fps)
}

// arm starts a new timer generation. p.mu must be held.
func (p *Player) arm() {
	p.gen++
	gen := p.gen
	p.cancel = p.sched.Every(p.interval(), func() { p.tick(gen) })
}

// disarm cancels the live timer or Loop. Ticks already in flight see a
// stale generation and return without effect. p.mu must be held.
func (p *Player) disarm() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || gen != p.gen {
		return
	}
	p.advance()
}

// advance commits the frame under the cursor and moves the cursor on.
// A failed commit leaves the cursor in place so the next call retries
// the same frame. p.mu must be held.
func (p *Player) advance() (Status, error) {
	n := len(p.frames)
	if n == 0 {
		return p.last, nil
	}
	ctx := context.Background()
	f := p.frames[p.cursor]

	if err := p.binding.CommitBackground(f.Path); err != nil {
		err = wrapBinding(err, desktop.ErrCommitFailed)
		p.log.LogAttrs(ctx, slog.LevelWarn, "commit", slog.String("path", f.Path), slog.Any("error", err))
		return p.report(Status{Kind: KindError, Current: p.cursor + 1, Total: n, Err: err}), err
	}
	refreshErr := p.refresh()

	st := p.report(Status{Kind: KindFrame, Current: p.cursor + 1, Total: n})
	p.log.LogAttrs(ctx, slog.LevelDebug, "frame", slog.Int("frame", p.cursor+1), slog.Int("of", n), slog.String("path", f.Path))
	p.cursor = (p.cursor + 1) % n
	return st, refreshErr
}

// refresh notifies the shell, reporting failure. p.mu must be held.
func (p *Player) refresh() error {
	err := p.binding.NotifyShellRefresh()
	if err == nil {
		return nil
	}
	err = wrapBinding(err, desktop.ErrRefreshFailed)
	p.log.LogAttrs(context.Background(), slog.LevelWarn, "refresh", slog.Any("error", err))
	p.report(Status{Kind: KindError, Err: err})
	return err
}

// report records st as the latest status and fans it out to subscribers
// without blocking. p.mu must be held.
func (p *Player) report(st Status) Status {
	if st.Time.IsZero() {
		st.Time = time.Now()
	}
	p.last = st
	for ch := range p.subs {
		select {
		case ch <- st:
		default:
			// Drop oldest and resend.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
	return st
}

func wrapBinding(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
