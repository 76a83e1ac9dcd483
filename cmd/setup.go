package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JPM1118/animback/internal/config"
	"github.com/JPM1118/animback/internal/desktop"
	"github.com/JPM1118/animback/internal/logging"
	"github.com/JPM1118/animback/internal/player"
	"github.com/JPM1118/animback/internal/remote"
)

// app is the state shared by every command.
type app struct {
	cfg      config.Config
	root     *slog.Logger // handed to subsystems, which add their own component
	log      *slog.Logger
	binding  desktop.Binding
	closeLog func() error
}

// setup loads the configuration, applies flag overrides and opens the
// logger and desktop backend. Headless commands log to stderr unless a
// log file is configured; the dashboard always logs to a file.
func setup(cmd *cobra.Command, headless bool) (*app, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("log") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("watch") {
		cfg.Watch.Enabled = watchFlag
	}

	a := &app{cfg: cfg}
	file := cfg.Log.File
	if file == "" && !headless {
		file = filepath.Join(config.StateDir(), "animback.log")
	}
	if file == "" {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		a.root = logging.New(os.Stderr, level)
		a.closeLog = func() error { return nil }
	} else {
		a.root, a.closeLog, err = logging.Open(file, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
	}
	a.log = a.root.With(slog.String("component", "animback.main"))

	a.binding, err = desktop.Open(cfg.Backend, desktop.Options{
		Set:            cfg.Command.Set,
		Clear:          cfg.Command.Clear,
		Refresh:        cfg.Command.Refresh,
		PictureOptions: cfg.Gnome.PictureOptions,
		Dark:           cfg.Gnome.Dark,
		Log:            a.root,
	})
	if err != nil {
		a.closeLog()
		return nil, err
	}
	return a, nil
}

// newPlayer returns a player at fps committing through the app binding.
func (a *app) newPlayer(fps int) (*player.Player, error) {
	return player.New(a.binding, player.Config{FPS: fps, Log: a.root})
}

// startRemote connects the MQTT remote when a broker is configured. The
// returned func disconnects it. Connection failures are logged and
// leave the remote disabled.
func (a *app) startRemote(ctx context.Context, p *player.Player) func() {
	if a.cfg.MQTT.Broker == "" {
		return func() {}
	}
	r := remote.New(remote.Config{
		Broker:   a.cfg.MQTT.Broker,
		Topic:    a.cfg.MQTT.Topic,
		Username: a.cfg.MQTT.Username,
		Password: a.cfg.MQTT.Password,
	}, p, a.root)
	if err := r.Connect(); err != nil {
		a.log.LogAttrs(ctx, slog.LevelWarn, "remote disabled", slog.String("broker", a.cfg.MQTT.Broker), slog.Any("error", err))
		return func() {}
	}
	updates, cancel := p.Subscribe()
	go r.Run(ctx, updates)
	return func() {
		cancel()
		r.Close()
	}
}

func (a *app) close() {
	if c, ok := a.binding.(io.Closer); ok {
		c.Close()
	}
	a.closeLog()
}
