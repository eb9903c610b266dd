package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook/core/cmd/api/commands"
)

// @title Daybook API
// @version 1.0
// @description Single-user personal calendar: events, reminders and upcoming queries over local storage

// @host localhost:8080
// @BasePath /api/v1

func main() {
	rootCmd := &cobra.Command{
		Use:   "daybook",
		Short: "Daybook calendar server",
		Long:  `Daybook is a single-user personal calendar: events on dates with optional times and reminders, persisted to local storage and served over a local HTTP API.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewEventCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
