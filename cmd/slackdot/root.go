package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slackdot",
	Short: "slackdot is a Slack bot runtime driven by dot-commands",
	Long: `slackdot connects a Slack app over Socket Mode or the HTTP Events API
and dispatches chat messages starting with "." (dot-commands) to plugins.
Plugins post messages, open modals and answer interactive components.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
