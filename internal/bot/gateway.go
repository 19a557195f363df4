package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// DeliveryError is returned when Slack accepted the request but answered
// ok=false. Code is Slack's error string, e.g. "channel_not_found".
type DeliveryError struct {
	Method string
	Code   string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Method, e.Code)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// classifyError turns a Slack-side error response into a *DeliveryError and
// wraps anything else (transport, decoding) as is
func classifyError(method string, err error) error {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return &DeliveryError{Method: method, Code: slackErr.Err, Err: err}
	}
	return fmt.Errorf("failed to call %s: %w", method, err)
}

// PostResult is what chat.postMessage returns
type PostResult struct {
	Channel   string
	Timestamp string
}

// UpdateResult is what chat.update returns
type UpdateResult struct {
	Channel   string
	Timestamp string
	Text      string
}

// PostMessage sends a message to a channel
func (s *Slack) PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (*PostResult, error) {
	channel, ts, err := s.client.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return nil, classifyError("chat.postMessage", err)
	}
	s.log.WithFields(logrus.Fields{
		"channel": channel,
		"ts":      ts,
	}).Debug("message-posted")
	return &PostResult{Channel: channel, Timestamp: ts}, nil
}

// UpdateMessage edits a message in place
func (s *Slack) UpdateMessage(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (*UpdateResult, error) {
	channel, ts, text, err := s.client.UpdateMessageContext(ctx, channelID, timestamp, options...)
	if err != nil {
		return nil, classifyError("chat.update", err)
	}
	return &UpdateResult{Channel: channel, Timestamp: ts, Text: text}, nil
}

// ErrorPost is the input of PostError
type ErrorPost struct {
	Channel  string
	ThreadTS string
	Err      error
}

// PostError posts err as a message marked with :x:. A failure to post is
// logged and nil is returned; it is never reported to the caller.
func (s *Slack) PostError(ctx context.Context, post ErrorPost) *PostResult {
	text := "unknown error"
	if post.Err != nil {
		text = post.Err.Error()
	}

	options := []slack.MsgOption{
		slack.MsgOptionText(text, false),
		slack.MsgOptionIconEmoji(constants.ErrorIconEmoji),
	}
	if post.ThreadTS != "" {
		options = append(options, slack.MsgOptionTS(post.ThreadTS))
	}

	result, err := s.PostMessage(ctx, post.Channel, options...)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"channel": post.Channel,
			"error":   err,
		}).Error("failed-to-post-error")
		return nil
	}
	return result
}

// GetFile downloads a private file URL with the bot token as bearer
func (s *Slack) GetFile(ctx context.Context, url string) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.client.GetFileContext(ctx, url, &buf); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return buf.Bytes(), nil
}
