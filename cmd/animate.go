package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JPM1118/animback/internal/frames"
	"github.com/JPM1118/animback/internal/instance"
	"github.com/JPM1118/animback/internal/player"
)

var animateCmd = &cobra.Command{
	Use:   "animate <path> [fps]",
	Short: "Play a folder of frames without the dashboard",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnimate(cmd, args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(animateCmd)
}

// parseFPS returns the frame rate given on the command line, or def
// when none was given.
func parseFPS(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	fps, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: fps must be a number, got %q", errUsage, args[0])
	}
	if !player.ValidRate(fps) {
		return 0, fmt.Errorf("%w: %d", player.ErrUnsupportedRate, fps)
	}
	return fps, nil
}

// runAnimate plays the frames in path until interrupted or until
// --count frames have been shown. Invalid arguments are errors; a
// folder that cannot be played is reported and is not.
func runAnimate(cmd *cobra.Command, path string, args []string) error {
	if path == "" {
		return fmt.Errorf("%w: --animate requires a path", errUsage)
	}
	if frameCount < 0 {
		return fmt.Errorf("%w: --count must not be negative", errUsage)
	}

	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	fps, err := parseFPS(args, a.cfg.Playback.FPS)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	set, err := frames.Scan(path)
	if err != nil {
		fmt.Fprintln(out, err)
		return nil
	}

	lock, err := instance.Acquire(instance.Dir())
	if err != nil {
		return err
	}
	defer lock.Release()

	p, err := a.newPlayer(fps)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := p.Load(set); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer a.startRemote(ctx, p)()
	if a.cfg.Watch.Enabled {
		fw := newFolderWatch(ctx, p, a.cfg.Watch.Debounce.Duration, a.root)
		defer fw.Close()
		fw.Watch(filepath.Dir(set[0].Path))
	}

	a.log.LogAttrs(ctx, slog.LevelInfo, "animate", slog.String("path", path), slog.Int("fps", fps), slog.Int("frames", len(set)))
	shown := 0
	err = p.Loop(ctx, func(st player.Status) {
		switch st.Kind {
		case player.KindPlaying, player.KindFrame, player.KindError:
			fmt.Fprintln(out, st)
		}
		if st.Kind == player.KindFrame {
			shown++
			if frameCount > 0 && shown >= frameCount {
				cancel()
			}
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
