package main

import (
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Gallery/internal/app"
	"github.com/GoArmGo/Gallery/internal/di"
	"github.com/spf13/cobra"
)

func newRootCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Paginated photo gallery backed by the Picsum listing API",
		Long: `Gallery loads pages of photo metadata (30 per page) from the Picsum listing API
and exposes the page state (loading, error, ready) to presentation layers:
an HTTP API for the browser front-end, a terminal browser and an event watcher.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd(bootstrapLogger))
	cmd.AddCommand(newBrowseCmd(bootstrapLogger))
	cmd.AddCommand(newWatchCmd(bootstrapLogger))

	return cmd
}

func buildApp(cmd *cobra.Command, bootstrapLogger *slog.Logger, mode app.Mode) (*app.App, error) {
	bootstrapLogger.Info("starting application", "mode", mode)

	application, err := di.BuildApp(cmd.Context(), mode)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		return nil, err
	}
	return application, nil
}

func newServeCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gallery HTTP API",
		Example: `  # Start on SERVER_PORT (default 8080)
  gallery serve

  # Newest request wins (default) or legacy last-response-wins
  STALE_RESPONSES=apply gallery serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp(cmd, bootstrapLogger, app.ModeServe)
			if err != nil {
				return err
			}
			if err := application.Serve(cmd.Context()); err != nil {
				application.LoggerIns().Error("application run failed", "error", err)
				return err
			}
			application.LoggerIns().Info("application stopped gracefully")
			return nil
		},
	}
}

func newBrowseCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Print one gallery page in the terminal",
		Example: `  gallery browse
  gallery browse --page 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page <= 0 {
				return fmt.Errorf("--page must be a positive integer, got %d", page)
			}
			application, err := buildApp(cmd, bootstrapLogger, app.ModeBrowse)
			if err != nil {
				return err
			}
			return application.Browse(cmd.Context(), page, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number to load")
	return cmd
}

func newWatchCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print page state events published by a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp(cmd, bootstrapLogger, app.ModeWatch)
			if err != nil {
				return err
			}
			return application.Watch(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
