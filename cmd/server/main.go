package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"taskboard/cmd/server/commands"
)

// @title        Task Board API
// @version      1.0
// @description  Kanban task board: tasks, manual column order and the archive.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	serve := commands.NewServeCommand()
	rootCmd := &cobra.Command{
		Use:   "taskboard-server",
		Short: "Task board API server",
		RunE:  serve.RunE,
	}
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(commands.NewPurgeArchivedCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
