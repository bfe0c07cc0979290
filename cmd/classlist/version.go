package main

import (
	"fmt"

	"github.com/reglet-dev/classlist/internal/version"
	"github.com/spf13/cobra"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of classlist",
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		if verbose {
			fmt.Fprintf(out, "classlist version %s\n", info.Full()) //nolint:errcheck // Best-effort terminal output
			return
		}
		suffix := ""
		if !info.IsRelease() {
			suffix = " (development build)"
		}
		fmt.Fprintf(out, "classlist version %s%s\n", info.String(), suffix) //nolint:errcheck // Best-effort terminal output
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
