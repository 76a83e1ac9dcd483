package remote

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JPM1118/animback/internal/frames"
	"github.com/JPM1118/animback/internal/player"
)

type fakeTarget struct {
	calls  []string
	loaded frames.Set
	fps    int
	err    error
}

func (f *fakeTarget) Load(s frames.Set) error {
	f.calls = append(f.calls, "load")
	f.loaded = s
	return f.err
}

func (f *fakeTarget) SetFrameRate(fps int) error {
	f.calls = append(f.calls, "fps")
	f.fps = fps
	return f.err
}

func (f *fakeTarget) Start() error {
	f.calls = append(f.calls, "start")
	return f.err
}

func (f *fakeTarget) Stop() {
	f.calls = append(f.calls, "stop")
}

func (f *fakeTarget) Clear() error {
	f.calls = append(f.calls, "clear")
	return f.err
}

func (f *fakeTarget) Refresh() error {
	f.calls = append(f.calls, "refresh")
	return f.err
}

func TestHandle(t *testing.T) {
	tests := []struct {
		cmd   string
		calls []string
	}{
		{"start", []string{"start"}},
		{"  STOP \n", []string{"stop"}},
		{"fps 24", []string{"fps"}},
		{"clear", []string{"clear"}},
		{"refresh", []string{"refresh"}},
	}
	for _, tt := range tests {
		f := &fakeTarget{}
		if err := Handle(f, tt.cmd); err != nil {
			t.Errorf("Handle(%q): %v", tt.cmd, err)
		}
		if diff := cmp.Diff(tt.calls, f.calls); diff != "" {
			t.Errorf("Handle(%q) calls (-want +got):\n%s", tt.cmd, diff)
		}
	}
}

func TestHandleFPS(t *testing.T) {
	f := &fakeTarget{}
	if err := Handle(f, "fps 12"); err != nil {
		t.Fatal(err)
	}
	if f.fps != 12 {
		t.Errorf("fps = %d, want 12", f.fps)
	}
	if err := Handle(f, "fps fast"); err == nil {
		t.Error("expected error for non-numeric fps")
	}
}

func TestHandleLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my frames")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"2.png", "1.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f := &fakeTarget{}
	if err := Handle(f, "load "+dir); err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "1.png"), filepath.Join(dir, "2.png")}
	if diff := cmp.Diff(want, f.loaded.Paths()); diff != "" {
		t.Errorf("loaded paths (-want +got):\n%s", diff)
	}

	f = &fakeTarget{}
	err := Handle(f, "load "+filepath.Join(dir, "missing"))
	if !errors.Is(err, frames.ErrInvalidPath) {
		t.Errorf("load missing: error = %v, want ErrInvalidPath", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("failed scan should not reach target, calls = %v", f.calls)
	}
}

func TestHandleErrors(t *testing.T) {
	f := &fakeTarget{err: player.ErrNoFramesLoaded}
	if err := Handle(f, "start"); !errors.Is(err, player.ErrNoFramesLoaded) {
		t.Errorf("start error = %v, want ErrNoFramesLoaded", err)
	}
	if err := Handle(&fakeTarget{}, "rewind"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("rewind error = %v, want ErrUnknownCommand", err)
	}
	if err := Handle(&fakeTarget{}, ""); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("empty error = %v, want ErrUnknownCommand", err)
	}
}

func TestTopics(t *testing.T) {
	r := New(Config{Broker: "tcp://localhost:1883", Topic: "desk/wallpaper/"}, &fakeTarget{}, nil)
	if got := r.CommandTopic(); got != "desk/wallpaper/cmd" {
		t.Errorf("CommandTopic() = %q", got)
	}
	if got := r.StatusTopic(); got != "desk/wallpaper/status" {
		t.Errorf("StatusTopic() = %q", got)
	}
}

func TestPayload(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	got := newPayload(player.Status{
		Kind:    player.KindError,
		Current: 2,
		Total:   3,
		Err:     errors.New("locked"),
		Time:    now,
	})
	want := payload{
		Kind:    "error",
		Text:    "Frame 2/3: locked",
		Current: 2,
		Total:   3,
		Error:   "locked",
		Time:    now,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}
