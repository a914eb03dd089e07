package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the task board API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")
			return runServer(port)
		},
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides SERVER_PORT)")
	return cmd
}

// NewPurgeArchivedCommand creates the purge-archived command
func NewPurgeArchivedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-archived",
		Short: "Permanently delete every archived task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return purgeArchived(cmd)
		},
	}
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, appLogger, nil
}

func runServer(port int) error {
	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	if port > 0 {
		cfg.Server.Port = port
	}

	s, err := server.Init(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("server initialization failed: %w", err)
	}
	defer s.Close()

	return s.Run()
}

func purgeArchived(cmd *cobra.Command) error {
	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	s, err := server.Init(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("server initialization failed: %w", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	count, err := s.Tasks.PurgeArchived(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d archived tasks\n", count)
	return nil
}
