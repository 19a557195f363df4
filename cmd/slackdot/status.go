package main

import (
	"context"
	"fmt"
	"time"

	"github.com/keepmind9/slackdot/internal/bot"
	"github.com/keepmind9/slackdot/internal/core"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
)

const statusTimeout = 10 * time.Second

var statusConfigFile string

// newSlackAPI builds the Web API client; tests replace it
var newSlackAPI = func(token string) bot.SlackAPI {
	return slack.New(token)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the bot identity behind the configured token",
	Long:  "Call auth.test with the configured bot token and print the identity the self-filter will use",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(statusConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
		defer cancel()

		s := bot.New(newSlackAPI(config.Slack.BotToken), nil, bot.WithAppID(config.Slack.AppID))
		if err := s.LoadIdentity(ctx); err != nil {
			return err
		}

		id := s.Identity()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "slackdot status:")
		fmt.Fprintf(out, "  - Token:   %s\n", logger.MaskSecret(config.Slack.BotToken))
		fmt.Fprintf(out, "  - Mode:    %s\n", config.Slack.Mode)
		fmt.Fprintf(out, "  - Bot ID:  %s\n", id.ID)
		fmt.Fprintf(out, "  - User:    %s (%s)\n", id.User, id.UserID)
		if s.AppID != "" {
			fmt.Fprintf(out, "  - App ID:  %s\n", s.AppID)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusConfigFile, "config", "c", "config.yaml", "Configuration file path")
}
