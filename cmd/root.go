package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	animatePath string
	clearFlag   bool

	configPath string
	backend    string
	logLevel   string
	frameCount int
	watchFlag  bool
)

var errUsage = errors.New("usage")

var rootCmd = &cobra.Command{
	Use:   "animback",
	Short: "Animated desktop wallpaper",
	Long: `animback cycles the desktop background through a folder of numbered
image frames (1.png, 2.png, 3.png, ...) at a chosen frame rate.

Run without arguments to launch the dashboard.`,
	Example: `  animback --animate ~/frames 12
  animback --clear
  animback frames ~/frames`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case clearFlag:
			if cmd.Flags().Changed("animate") {
				return fmt.Errorf("%w: --clear and --animate are exclusive", errUsage)
			}
			return runClear(cmd)
		case cmd.Flags().Changed("animate"):
			return runAnimate(cmd, animatePath, args)
		case len(args) > 0:
			return fmt.Errorf("%w: unexpected argument %q (did you mean --animate %[2]s?)", errUsage, args[0])
		}
		return runDashboard(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVar(&animatePath, "animate", "", "play the frames in `path` without the dashboard; an optional fps argument follows")
	rootCmd.Flags().BoolVar(&clearFlag, "clear", false, "clear the desktop background")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/animback/config.yml)")
	pf.StringVar(&backend, "backend", "", "desktop backend: auto, gnome, kde, macos or command")
	pf.StringVar(&logLevel, "log", "", "log level: debug, info, warn or error")
	pf.IntVar(&frameCount, "count", 0, "stop headless playback after n frames (0 plays forever)")
	pf.BoolVar(&watchFlag, "watch", false, "reload frames when the folder changes")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
