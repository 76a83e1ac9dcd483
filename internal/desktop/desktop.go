// Package desktop commits background images to the running desktop
// environment.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

var (
	ErrCommitFailed   = errors.New("commit background failed")
	ErrRefreshFailed  = errors.New("refresh shell failed")
	ErrUnknownBackend = errors.New("unknown desktop backend")
)

// CommandTimeout bounds each call into the desktop environment.
const CommandTimeout = 5 * time.Second

// Binding is the desktop capability used by the player.
type Binding interface {
	// CommitBackground durably sets imagePath as the scaled background
	// of every workspace. An empty path clears the background.
	CommitBackground(imagePath string) error

	// NotifyShellRefresh asks the desktop shell to redraw the committed
	// background. It is best-effort.
	NotifyShellRefresh() error
}

// Options configures the backends.
type Options struct {
	// Set, Clear and Refresh are argv templates for the command
	// backend. {path} and {uri} are replaced with the image path and
	// its file URI.
	Set     []string
	Clear   []string
	Refresh []string

	// PictureOptions is the GNOME picture-options value used for frames.
	PictureOptions string
	// Dark also sets the GNOME dark-style background.
	Dark bool

	Log *slog.Logger
}

// Factory constructs a Binding from options.
type Factory func(Options) (Binding, error)

var backends = map[string]Factory{}

// Register makes a backend available by name.
func Register(name string, f Factory) {
	backends[name] = f
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open returns the named backend. An empty name or "auto" selects a
// backend for the current session with Detect.
func Open(name string, opts Options) (Binding, error) {
	if name == "" || name == "auto" {
		name = Detect(runtime.GOOS, os.Getenv("XDG_CURRENT_DESKTOP"))
	}
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return f(opts)
}

// Detect picks a backend name from the operating system and the
// XDG_CURRENT_DESKTOP value.
func Detect(goos, currentDesktop string) string {
	if goos == "darwin" {
		return "macos"
	}
	for _, d := range strings.Split(strings.ToUpper(currentDesktop), ":") {
		switch d {
		case "KDE":
			return "kde"
		case "GNOME", "UNITY", "BUDGIE", "POP":
			return "gnome"
		}
	}
	return "command"
}

func (o Options) logger(component string) *slog.Logger {
	log := o.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return log.With(slog.String("component", component))
}

func commitError(err error) error {
	return fmt.Errorf("%w: %w", ErrCommitFailed, err)
}

func refreshError(err error) error {
	return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
}
