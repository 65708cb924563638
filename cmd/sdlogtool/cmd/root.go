// Package cmd implements the sdlogtool command-line interface: a thin
// shell over the sdlog writer and stream packages for writing a demo
// session to disk and inspecting the FMT announcements in an existing file.
package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

// RootCommand builds the sdlogtool command tree.
func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "sdlogtool",
		Short:   "Write and inspect ArduPilot-style self-describing log files",
		Example: "sdlogtool write ./flight.sdlog",
	}

	root.PersistentFlags().BoolVar(&verbose, "debug", false, "enable debug logging")

	root.AddCommand(writeCommand())
	root.AddCommand(dumpCommand())

	return root
}
