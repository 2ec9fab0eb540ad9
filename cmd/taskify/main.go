package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskify",
	Short: "taskify - a small todo tracker with an HTML and JSON interface",
	Long: `taskify keeps a flat list of todos (title, description, progress)
in SQLite or PostgreSQL and serves them as HTML pages and a JSON API.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taskify %s (commit %s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("taskify version %s\nCommit: %s\n", Version, Commit))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
