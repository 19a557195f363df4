package plugins

import (
	"context"

	"github.com/keepmind9/slackdot/internal/bot"
	"github.com/slack-go/slack"
)

// Ping answers .ping with pong, in the thread when there is one
func Ping(s *bot.Slack) (bot.PluginInfo, error) {
	s.DotCommand("ping", func(ctx context.Context, ev *bot.Event) error {
		options := []slack.MsgOption{slack.MsgOptionText("pong", false)}
		if ev.ThreadTS != "" {
			options = append(options, slack.MsgOptionTS(ev.ThreadTS))
		}
		_, err := s.PostMessage(ctx, ev.Channel, options...)
		return err
	})
	return bot.PluginInfo{
		Name:        "ping",
		Description: "Replies pong to .ping",
		Version:     "1.0.0",
	}, nil
}
