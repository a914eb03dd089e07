package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/scheduler"
	"taskboard/internal/ui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Kanban board in the terminal",
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().String("api", "", "Board API base URL (overrides BOARD_API_URL)")
	cmd.Flags().Bool("once", false, "Print the board as plain text and exit")
	cmd.Flags().String("log-file", "", "Log file (overrides BOARD_LOG_FILE)")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.Client.BaseURL = api
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.Client.LogFile = file
	}

	// The terminal belongs to the UI, so logs always go to a file.
	appLogger, err := logger.New(config.LoggerConfig{
		Level:    cfg.Logger.Level,
		Format:   "json",
		Output:   "file",
		Filename: cfg.Client.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	gw := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
	state := board.NewState(cfg.Board.ArchiveWindow, board.DetectLocale())
	sort := board.ParseSortMode(cfg.Client.DefaultSort)
	for _, status := range model.Statuses {
		state = state.WithSort(status, sort)
	}

	if once, _ := cmd.Flags().GetBool("once"); once {
		return printSnapshot(cmd.Context(), cmd.OutOrStdout(), gw, state)
	}

	p := tea.NewProgram(ui.NewModel(gw, state, appLogger), tea.WithAltScreen(), tea.WithMouseCellMotion())

	sched := scheduler.New(time.Local)
	if _, err := sched.ScheduleInterval(cfg.Client.RefreshInterval, func() { p.Send(ui.TickMsg{}) }); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	if _, err := sched.ScheduleInterval(cfg.Client.RefetchInterval, func() { p.Send(ui.RefetchMsg{}) }); err != nil {
		return fmt.Errorf("failed to schedule refetch: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	appLogger.Infow("Board started", "api", cfg.Client.BaseURL)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board exited: %w", err)
	}
	return nil
}

func printSnapshot(ctx context.Context, out io.Writer, gw *client.Client, state board.State) error {
	tasks, err := gw.ListActive(ctx)
	if err != nil {
		return err
	}
	archived, err := gw.ListArchived(ctx)
	if err != nil {
		return err
	}
	state = state.WithTasks(tasks).WithArchived(archived)
	_, err = fmt.Fprint(out, ui.Snapshot(board.Project(state, time.Now())))
	return err
}
