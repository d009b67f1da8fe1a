package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "reservation-system",
		Short:         "Salon reservation service",
		Long:          "HTTP API for salon reservations: availability, booking, cancellation, admin management and reminders.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to TOML config file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newRemindCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
