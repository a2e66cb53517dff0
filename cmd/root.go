package cmd

import (
	"fmt"
	"log"
	"os"

	"TuneMart/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tunemart",
	Short: "TuneMart is a music marketplace service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting TuneMart server...")
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
