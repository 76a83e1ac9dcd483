package desktop

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
)

// runner runs an external program and returns its standard output.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func newExecRunner(log *slog.Logger) runner {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		log.LogAttrs(ctx, slog.LevelDebug, "run", slog.String("name", name), slog.Any("args", args))

		cmd := exec.CommandContext(ctx, name, args...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			errMsg := strings.TrimSpace(stderr.String())
			if errMsg == "" {
				errMsg = err.Error()
			}
			return "", fmt.Errorf("%s: %s", name, errMsg)
		}
		return stdout.String(), nil
	}
}

// fileURI returns the file:// URI for an absolute path.
func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}
