package cmd

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JPM1118/animback/internal/instance"
	"github.com/JPM1118/animback/internal/notify"
	"github.com/JPM1118/animback/internal/player"
	"github.com/JPM1118/animback/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [path]",
	Short: "Launch the interactive dashboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			dashboardFolder = args[0]
		}
		return runDashboard(cmd)
	},
}

// dashboardFolder overrides playback.folder from the config.
var dashboardFolder string

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	lock, err := instance.Acquire(instance.Dir())
	if err != nil {
		return err
	}
	defer lock.Release()

	p, err := a.newPlayer(a.cfg.Playback.FPS)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer a.startRemote(ctx, p)()

	opts := tui.Options{
		Folder:  a.cfg.Playback.Folder,
		Backend: a.cfg.Backend,
		History: a.cfg.Notifications.History,
	}
	if dashboardFolder != "" {
		opts.Folder = dashboardFolder
	}
	if a.cfg.Notifications.TerminalBell {
		opts.Bell = notify.NewBell(a.cfg.Notifications.BellDebounce.Duration, player.KindError)
	}
	if a.cfg.Watch.Enabled {
		fw := newFolderWatch(ctx, p, a.cfg.Watch.Debounce.Duration, a.root)
		defer fw.Close()
		opts.OnLoad = fw.Watch
	}

	updates, unsubscribe := p.Subscribe()
	defer unsubscribe()
	model := tui.NewDashboard(p, updates, opts)

	a.log.LogAttrs(ctx, slog.LevelInfo, "dashboard", slog.String("backend", a.cfg.Backend))
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
