package cmd

import (
	"fmt"
	"log"
	"os"

	"vibesync/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vibesync_server",
	Short: "VibeSync is a synchronized group listening service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting VibeSync server...")
		// server.Start handles its own port and logging for startup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
