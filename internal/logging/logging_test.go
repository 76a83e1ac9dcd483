package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "info+2", want: slog.LevelInfo + 2},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewAddsGoID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo).With(slog.String("component", "test"))

	log.Debug("hidden")
	log.Info("shown", slog.Int("frame", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"goid", "component", "frame"} {
		if _, ok := rec[key]; !ok {
			t.Errorf("record missing %q: %v", key, rec)
		}
	}
	if rec["msg"] != "shown" {
		t.Errorf("msg = %v, want shown", rec["msg"])
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "animback.log")
	log, closeFn, err := Open(path, "debug")
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("written")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`"msg":"written"`)) {
		t.Errorf("log file = %s", b)
	}
}

func TestOpenDiscard(t *testing.T) {
	log, closeFn, err := Open("", "info")
	if err != nil {
		t.Fatal(err)
	}
	log.Info("nowhere")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenBadLevel(t *testing.T) {
	if _, _, err := Open("", "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
