package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/piemenu/pkg/debug"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "piemenu",
		Short: "piemenu - radial context menus for node-link diagrams",
		Long: `piemenu renders and previews radial context menus attached to a
node-link diagram described by a YAML scene file.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				debug.EnableLogging()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log menu internals")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newHTMLCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newPlayCommand())
	return rootCmd
}
