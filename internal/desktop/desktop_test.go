package desktop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type call struct {
	name string
	args []string
}

// recorder is a runner that records invocations.
type recorder struct {
	calls []call
	err   error
}

func (r *recorder) run(_ context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	return "", r.err
}

func TestDetect(t *testing.T) {
	tests := []struct {
		goos    string
		desktop string
		want    string
	}{
		{"darwin", "", "macos"},
		{"linux", "KDE", "kde"},
		{"linux", "ubuntu:GNOME", "gnome"},
		{"linux", "Unity", "gnome"},
		{"linux", "sway", "command"},
		{"linux", "", "command"},
		{"freebsd", "KDE", "kde"},
	}

	for _, tt := range tests {
		got := Detect(tt.goos, tt.desktop)
		if got != tt.want {
			t.Errorf("Detect(%q, %q) = %q, want %q", tt.goos, tt.desktop, got, tt.want)
		}
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open("xfce-nope", Options{})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(unknown) error = %v, want ErrUnknownBackend", err)
	}
}

func TestOpen_CommandNeedsSet(t *testing.T) {
	_, err := Open("command", Options{})
	if err == nil {
		t.Fatal("command backend without set argv should fail")
	}
}

func TestNames(t *testing.T) {
	want := []string{"command", "gnome", "kde", "macos"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("unexpected backends (-want +got):\n%s", diff)
	}
}

func TestCommand_RunsTemplates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	dir := t.TempDir()
	log := filepath.Join(dir, "log")
	script := `printf '%s %s\n' "$0" "$1" >> ` + log

	b, err := Open("command", Options{
		Set:     []string{"sh", "-c", script, "set", "{path}"},
		Clear:   []string{"sh", "-c", script, "clear", "-"},
		Refresh: []string{"sh", "-c", script, "refresh", "-"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := b.CommitBackground("/frames/1.png"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := b.NotifyShellRefresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := b.CommitBackground(""); err != nil {
		t.Fatalf("clear: %v", err)
	}

	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatal(err)
	}
	want := "set /frames/1.png\nrefresh -\nclear -\n"
	if string(data) != want {
		t.Errorf("log = %q, want %q", data, want)
	}
}

func TestCommand_FailureCarriesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	b, err := NewCommand(Options{
		Set:     []string{"sh", "-c", "echo attribute store locked >&2; exit 3"},
		Refresh: []string{"sh", "-c", "exit 1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = b.CommitBackground("/x/1.png")
	if !errors.Is(err, ErrCommitFailed) {
		t.Fatalf("error = %v, want ErrCommitFailed", err)
	}
	if !strings.Contains(err.Error(), "attribute store locked") {
		t.Errorf("error %q should carry stderr", err)
	}

	if err := b.NotifyShellRefresh(); !errors.Is(err, ErrRefreshFailed) {
		t.Errorf("refresh error = %v, want ErrRefreshFailed", err)
	}
}

func TestCommand_ClearWithoutTemplate(t *testing.T) {
	c := &Command{set: []string{"true"}}
	if err := c.CommitBackground(""); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("clear error = %v, want ErrCommitFailed", err)
	}
	if err := c.NotifyShellRefresh(); err != nil {
		t.Errorf("refresh without template should be a no-op, got %v", err)
	}
}

func TestExpand(t *testing.T) {
	got := expand([]string{"feh", "--bg-scale", "{path}", "{uri}"}, "/a b/1.png")
	want := []string{"feh", "--bg-scale", "/a b/1.png", "file:///a%20b/1.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected argv (-want +got):\n%s", diff)
	}
}

func TestGnome_Commit(t *testing.T) {
	rec := &recorder{}
	g := &Gnome{options: "scaled", dark: true, run: rec.run}

	if err := g.CommitBackground("/frames/2.png"); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"gsettings", []string{"set", gnomeSchema, "picture-options", "scaled"}},
		{"gsettings", []string{"set", gnomeSchema, "picture-uri", "file:///frames/2.png"}},
		{"gsettings", []string{"set", gnomeSchema, "picture-uri-dark", "file:///frames/2.png"}},
	}
	if diff := cmp.Diff(want, rec.calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestGnome_Clear(t *testing.T) {
	rec := &recorder{}
	g := &Gnome{options: "scaled", run: rec.run}

	if err := g.CommitBackground(""); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"gsettings", []string{"set", gnomeSchema, "picture-options", "none"}},
		{"gsettings", []string{"set", gnomeSchema, "picture-uri", ""}},
	}
	if diff := cmp.Diff(want, rec.calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestGnome_CommitFailure(t *testing.T) {
	rec := &recorder{err: errors.New("gsettings: no such schema")}
	g := &Gnome{options: "scaled", run: rec.run}

	err := g.CommitBackground("/frames/2.png")
	if !errors.Is(err, ErrCommitFailed) {
		t.Errorf("error = %v, want ErrCommitFailed", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("should stop at the first failing key, made %d calls", len(rec.calls))
	}
}

func TestMacOS(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"plain", "/Users/me/frames/1.png"},
		{"quotes and backslash", `/Users/me/"odd"\frames/1.png`},
		{"non-ascii", "/Users/me/frames/caf\u00e9/\a1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			m := &MacOS{run: rec.run}

			if err := m.CommitBackground(tt.path); err != nil {
				t.Fatal(err)
			}
			if len(rec.calls) != 1 || rec.calls[0].name != "osascript" {
				t.Fatalf("unexpected calls: %v", rec.calls)
			}
			args := rec.calls[0].args
			if got := args[len(args)-1]; got != tt.path {
				t.Errorf("path argument = %q, want %q", got, tt.path)
			}
			for _, a := range args[:len(args)-1] {
				if strings.Contains(a, tt.path) {
					t.Errorf("script %q should not embed the path", a)
				}
			}
		})
	}

	rec := &recorder{}
	m := &MacOS{run: rec.run}
	if err := m.CommitBackground(""); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("clear error = %v, want ErrCommitFailed", err)
	}
}

type busCall struct {
	dest, path, method string
	args               []any
}

type fakeBus struct {
	calls []busCall
	err   error
}

func (b *fakeBus) Call(_ context.Context, dest, path, method string, args ...any) error {
	b.calls = append(b.calls, busCall{dest, path, method, args})
	return b.err
}

func TestKDE(t *testing.T) {
	bus := &fakeBus{}
	k := &KDE{bus: bus}

	if err := k.CommitBackground("/frames/3.png"); err != nil {
		t.Fatal(err)
	}
	if err := k.NotifyShellRefresh(); err != nil {
		t.Fatal(err)
	}

	if len(bus.calls) != 2 {
		t.Fatalf("made %d bus calls, want 2", len(bus.calls))
	}
	c := bus.calls[0]
	if c.dest != plasmaDest || c.path != plasmaPath || c.method != "org.kde.PlasmaShell.evaluateScript" {
		t.Errorf("unexpected commit call %+v", c)
	}
	script, _ := c.args[0].(string)
	if !strings.Contains(script, `"file:///frames/3.png"`) {
		t.Errorf("script should set the image URI:\n%s", script)
	}
	if bus.calls[1].method != "org.kde.PlasmaShell.refreshCurrentShell" {
		t.Errorf("refresh method = %q", bus.calls[1].method)
	}
	if err := k.Close(); err != nil {
		t.Errorf("close without connection: %v", err)
	}
}

func TestKDE_Failures(t *testing.T) {
	k := &KDE{bus: &fakeBus{err: errors.New("org.freedesktop.DBus.Error.ServiceUnknown")}}

	if err := k.CommitBackground("/frames/3.png"); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("commit error = %v, want ErrCommitFailed", err)
	}
	if err := k.NotifyShellRefresh(); !errors.Is(err, ErrRefreshFailed) {
		t.Errorf("refresh error = %v, want ErrRefreshFailed", err)
	}
}

func TestPlasmaScript_Clear(t *testing.T) {
	if !strings.Contains(plasmaScript(""), `writeConfig("Image", "")`) {
		t.Error("clearing should write an empty image")
	}
}
