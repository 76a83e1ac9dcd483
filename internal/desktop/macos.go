package desktop

import (
	"context"
	"errors"
	"slices"
)

// setPictureScript reads the image path from its first argument.
var setPictureScript = []string{
	"-e", "on run argv",
	"-e", `tell application "System Events" to tell every desktop to set picture to (item 1 of argv)`,
	"-e", "end run",
}

func init() {
	Register("macos", func(opts Options) (Binding, error) {
		return NewMacOS(opts), nil
	})
}

// MacOS sets the picture of every desktop through System Events.
type MacOS struct {
	run runner
}

var _ Binding = (*MacOS)(nil)

// NewMacOS returns a macOS backend.
func NewMacOS(opts Options) *MacOS {
	return &MacOS{run: newExecRunner(opts.logger("desktop.macos"))}
}

func (m *MacOS) CommitBackground(imagePath string) error {
	if imagePath == "" {
		return commitError(errors.New("clearing the background is not supported on macOS"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	args := append(slices.Clone(setPictureScript), imagePath)
	if _, err := m.run(ctx, "osascript", args...); err != nil {
		return commitError(err)
	}
	return nil
}

func (m *MacOS) NotifyShellRefresh() error { return nil }
