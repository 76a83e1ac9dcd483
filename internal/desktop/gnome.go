package desktop

import (
	"context"
)

func init() {
	Register("gnome", func(opts Options) (Binding, error) {
		return NewGnome(opts), nil
	})
}

const gnomeSchema = "org.gnome.desktop.background"

// Gnome sets the background through gsettings. The shell watches the
// settings store and redraws on its own.
type Gnome struct {
	options string
	dark    bool
	run     runner
}

var _ Binding = (*Gnome)(nil)

// NewGnome returns a GNOME backend.
func NewGnome(opts Options) *Gnome {
	options := opts.PictureOptions
	if options == "" {
		options = "scaled"
	}
	return &Gnome{
		options: options,
		dark:    opts.Dark,
		run:     newExecRunner(opts.logger("desktop.gnome")),
	}
}

func (g *Gnome) CommitBackground(imagePath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	options, uri := g.options, ""
	if imagePath == "" {
		options = "none"
	} else {
		uri = fileURI(imagePath)
	}

	keys := [][2]string{
		{"picture-options", options},
		{"picture-uri", uri},
	}
	if g.dark {
		keys = append(keys, [2]string{"picture-uri-dark", uri})
	}
	for _, kv := range keys {
		if _, err := g.run(ctx, "gsettings", "set", gnomeSchema, kv[0], kv[1]); err != nil {
			return commitError(err)
		}
	}
	return nil
}

func (g *Gnome) NotifyShellRefresh() error { return nil }
