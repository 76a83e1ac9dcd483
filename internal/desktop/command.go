package desktop

import (
	"context"
	"errors"
	"strings"
)

func init() {
	Register("command", func(opts Options) (Binding, error) {
		return NewCommand(opts)
	})
}

// Command is a Binding driven by user supplied argv templates, for
// window managers set up with tools such as feh, swaybg or xwallpaper.
type Command struct {
	set     []string
	clear   []string
	refresh []string
	run     runner
}

var _ Binding = (*Command)(nil)

// NewCommand returns a Command backend. opts.Set must not be empty.
func NewCommand(opts Options) (*Command, error) {
	if len(opts.Set) == 0 {
		return nil, errors.New("command backend needs a set command (command.set in config)")
	}
	return &Command{
		set:     opts.Set,
		clear:   opts.Clear,
		refresh: opts.Refresh,
		run:     newExecRunner(opts.logger("desktop.command")),
	}, nil
}

func (c *Command) CommitBackground(imagePath string) error {
	argv := c.set
	if imagePath == "" {
		argv = c.clear
		if len(argv) == 0 {
			return commitError(errors.New("no clear command configured"))
		}
	}
	if err := c.exec(argv, imagePath); err != nil {
		return commitError(err)
	}
	return nil
}

func (c *Command) NotifyShellRefresh() error {
	if len(c.refresh) == 0 {
		return nil
	}
	if err := c.exec(c.refresh, ""); err != nil {
		return refreshError(err)
	}
	return nil
}

func (c *Command) exec(argv []string, imagePath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	args := expand(argv, imagePath)
	_, err := c.run(ctx, args[0], args[1:]...)
	return err
}

// expand substitutes {path} and {uri} in each element of argv.
func expand(argv []string, imagePath string) []string {
	uri := ""
	if imagePath != "" {
		uri = fileURI(imagePath)
	}
	r := strings.NewReplacer("{path}", imagePath, "{uri}", uri)
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = r.Replace(a)
	}
	return out
}
