package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zenoti-availability",
		Short: "Therapist availability service for Zenoti centers",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(computeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
