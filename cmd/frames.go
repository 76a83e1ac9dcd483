package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JPM1118/animback/internal/frames"
)

var framesCmd = &cobra.Command{
	Use:   "frames <path>",
	Short: "List the frames that would be played from a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := frames.Scan(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tKEY\tFILE")
		fmt.Fprintln(w, "─\t───\t────")
		for i, f := range set {
			fmt.Fprintf(w, "%d\t%d\t%s\n", i+1, f.Key, filepath.Base(f.Path))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d frames in %s\n", len(set), filepath.Dir(set[0].Path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(framesCmd)
}
