package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/pkg/logger"
)

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "scoreboard",
		Short:         "Live ranking overlay for streaming software",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				return os.Setenv("SCOREBOARD_CONFIG", configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConfig(cmd.Context(), serve)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides SCOREBOARD_CONFIG)")
	cmd.AddCommand(serveCmd(), renderCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Refresh the scoreboard on a timer and serve it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConfig(cmd.Context(), serve)
		},
	}
}

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Run a single refresh cycle and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConfig(cmd.Context(), renderOnce)
		},
	}
}

// withConfig loads configuration, applies logging settings and runs fn
// under a context cancelled by SIGINT or SIGTERM.
func withConfig(parent context.Context, fn func(context.Context, *config.Config) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if cfg.LogFormat != "text" {
		if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
			return err
		}
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel),
			logger.Error(err),
		)
		_ = logger.SetLevelString("info")
	}
	return fn(ctx, cfg)
}
