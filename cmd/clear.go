package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the desktop background",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClear(cmd)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the desktop shell to redraw the background",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		p, err := a.newPlayer(0)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := p.Refresh(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.Status())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(refreshCmd)
}

// runClear removes the background and refreshes the shell. A failure is
// reported but does not change the exit status.
func runClear(cmd *cobra.Command) error {
	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.newPlayer(0)
	if err != nil {
		return err
	}
	defer p.Close()

	out := cmd.OutOrStdout()
	if err := p.Clear(); err != nil {
		fmt.Fprintf(out, "Clearing failed? %v\n", err)
		return nil
	}
	fmt.Fprintln(out, "cleared")
	return nil
}
