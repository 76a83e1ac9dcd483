package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends lists the accepted values of the backend setting.
var Backends = []string{"auto", "gnome", "kde", "macos", "command"}

// Config holds all configuration for animback.
type Config struct {
	Backend       string             `yaml:"backend"`
	Playback      PlaybackConfig     `yaml:"playback"`
	Watch         WatchConfig        `yaml:"watch"`
	Command       CommandConfig      `yaml:"command"`
	Gnome         GnomeConfig        `yaml:"gnome"`
	Notifications NotificationConfig `yaml:"notifications"`
	MQTT          MQTTConfig         `yaml:"mqtt"`
	Log           LogConfig          `yaml:"log"`
}

// PlaybackConfig holds the initial playback settings.
type PlaybackConfig struct {
	FPS    int    `yaml:"fps"`
	Folder string `yaml:"folder"`
}

// WatchConfig controls reloading frames when the folder changes.
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Debounce Duration `yaml:"debounce"`
}

// CommandConfig holds argv templates for the command backend.
type CommandConfig struct {
	Set     []string `yaml:"set"`
	Clear   []string `yaml:"clear"`
	Refresh []string `yaml:"refresh"`
}

// GnomeConfig holds settings for the gnome backend.
type GnomeConfig struct {
	PictureOptions string `yaml:"picture_options"`
	Dark           bool   `yaml:"dark"`
}

// NotificationConfig controls how the user is notified of failures.
type NotificationConfig struct {
	TerminalBell bool     `yaml:"terminal_bell"`
	BellDebounce Duration `yaml:"bell_debounce"`
	History      int      `yaml:"history"`
}

// MQTTConfig enables remote control when Broker is set.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Backend: "auto",
		Playback: PlaybackConfig{
			FPS: 10,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration{250 * time.Millisecond},
		},
		Gnome: GnomeConfig{
			PictureOptions: "scaled",
			Dark:           true,
		},
		Notifications: NotificationConfig{
			TerminalBell: true,
			BellDebounce: Duration{30 * time.Second},
			History:      20,
		},
		MQTT: MQTTConfig{
			Topic: "animback",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file and merges with defaults.
// A missing file is not an error; defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("backend must be one of %v, got %q", Backends, c.Backend)
	}
	if c.Backend == "command" && len(c.Command.Set) == 0 {
		return fmt.Errorf("backend command needs command.set")
	}

	fps := c.Playback.FPS
	if fps < 1 || fps > 30 {
		return fmt.Errorf("playback.fps must be between 1 and 30, got %d", fps)
	}

	db := c.Watch.Debounce.Duration
	if db < 0 || db > 10*time.Second {
		return fmt.Errorf("watch.debounce must be between 0s and 10s, got %s", db)
	}

	if c.Notifications.History < 1 {
		return fmt.Errorf("notifications.history must be positive, got %d", c.Notifications.History)
	}

	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt.topic must be set when mqtt.broker is set")
	}

	return nil
}

// Path returns the default config file location.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "animback", "config.yml")
}

// StateDir returns the directory for logs and other state.
func StateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return os.TempDir()
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "animback")
}
