package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/keepmind9/slackdot/internal/bot"
	"github.com/slack-go/slack"
)

const maxEchoTimes = 5

func newEchoParser(name string) bot.ArgParser {
	p := bot.NewFlagParser(name)
	p.IntP("times", "n", 1, "repeat the text n times (1-5)")
	p.BoolP("upper", "u", false, "shout")
	return p
}

// Echo repeats the words after .echo back to the channel
func Echo(s *bot.Slack) (bot.PluginInfo, error) {
	s.RegisterDotCommand(bot.CommandSpec{
		Command: "echo",
		Parser:  newEchoParser,
	}, func(ctx context.Context, ev *bot.Event) error {
		args := ev.Args.(*bot.FlagParser)

		text := strings.Join(args.Args(), " ")
		if text == "" {
			return fmt.Errorf("nothing to echo")
		}
		times, err := args.GetInt("times")
		if err != nil {
			return err
		}
		if times < 1 || times > maxEchoTimes {
			return fmt.Errorf("--times must be between 1 and %d (got %d)", maxEchoTimes, times)
		}
		if upper, _ := args.GetBool("upper"); upper {
			text = strings.ToUpper(text)
		}

		lines := make([]string, times)
		for i := range lines {
			lines[i] = text
		}
		_, err = s.PostMessage(ctx, ev.Channel, slack.MsgOptionText(strings.Join(lines, "\n"), false))
		return err
	})

	return bot.PluginInfo{
		Name:        "echo",
		Description: "Repeats text: .echo [-n times] [-u] words...",
		Version:     "1.0.0",
	}, nil
}
