// Package main is the entry point for the olevel CLI.
//
// olevel can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach
// plus record commands that work directly on the configured storage.
//
// Usage:
//
//	olevel serve -c olevel.yaml      # Start the dashboard
//	olevel validate -c olevel.yaml   # Validate configuration
//	olevel list                      # Print the student table
//	olevel promote A1                # Promote one student
//	olevel version                   # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "olevel",
		Short: "O-Level student records manager",
		Long: `olevel keeps the records of O-Level secondary school students.

It stores each student's details and per-form scores across nine subjects,
and serves a web dashboard with live updates over Server-Sent Events.

Quick start:
  1. Create a config file (olevel.yaml)
  2. Run: olevel serve -c olevel.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  title: Mwenge Secondary
  port: 8080
  storage:
    driver: sqlite
    path: ./school.db`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	root.AddCommand(
		newServeCmd(),
		newValidateCmd(),
		newVersionCmd(),
		newListCmd(),
		newShowCmd(),
		newRegisterCmd(),
		newScoresCmd(),
		newPromoteCmd(),
		newDeleteCmd(),
		newClearCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newVersionCmd prints version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of this olevel binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "olevel %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
