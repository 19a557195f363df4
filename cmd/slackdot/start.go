package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/keepmind9/slackdot/internal/core"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the slackdot bot",
		Long:  "Connect to Slack, install the enabled plugins and dispatch dot-commands until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := core.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := logger.InitLogger(config.Logging.LoggerConfig()); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			logger.WithFields(logrus.Fields{
				"config_file": configFile,
				"mode":        config.Slack.Mode,
				"bot_token":   logger.MaskSecret(config.Slack.BotToken),
				"log_level":   config.Logging.Level,
				"log_file":    config.Logging.File,
			}).Info("logger-initialized")

			engine, err := core.NewEngine(config)
			if err != nil {
				return fmt.Errorf("failed to create engine: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "slackdot starting in %s mode, press Ctrl+C to stop\n", config.Slack.Mode)
			if err := engine.Run(ctx); err != nil {
				return fmt.Errorf("engine error: %w", err)
			}

			logger.Info("slackdot-stopped")
			return nil
		},
	}
)

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
}
