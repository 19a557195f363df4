// Package bot wraps the Slack Web API for chat bots.
//
// A Slack value owns everything one bot needs at runtime: the bot identity
// used to ignore its own messages, the dot-command table, the option
// registry behind external selects, the interaction router and the modal
// manager. Nothing is global, so tests build as many instances as they like.
//
// # Dot-commands
//
// A dot-command is a chat message starting with "." followed by the command
// name:
//
//	s.DotCommand("ping", func(ctx context.Context, ev *bot.Event) error {
//	    _, err := s.PostMessage(ctx, ev.Channel, slack.MsgOptionText("pong", false))
//	    return err
//	})
//
// Matching is a plain prefix test against the trimmed message text, run for
// every registration in registration order. ".pingpong" fires ".ping", and
// when ".a" and ".ab" are both registered the text ".ab" fires both.
//
// # Event sources
//
// Inbound traffic reaches a Slack value through an EventSource. The package
// ships a Socket Mode source; package core provides the HTTP one.
package bot

import (
	"context"
	"io"

	"github.com/keepmind9/slackdot/internal/modal"
	"github.com/slack-go/slack"
)

// SlackAPI abstracts the subset of slack.Client methods used by the bot.
// Tests substitute a mock implementation without a live Slack connection.
type SlackAPI interface {
	modal.Client

	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)

	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)

	GetFileContext(ctx context.Context, downloadURL string, writer io.Writer) error
}

// EventHandler consumes what an EventSource delivers
type EventHandler interface {
	// HandleMessage receives message events
	HandleMessage(ctx context.Context, ev *Event)

	// HandleInteraction receives interactive payloads. A non-nil result is
	// sent back to Slack as the body of the acknowledgement.
	HandleInteraction(ctx context.Context, cb slack.InteractionCallback) (any, error)
}

// EventSource delivers inbound Slack traffic to subscribed handlers
type EventSource interface {
	Subscribe(handler EventHandler)
}
