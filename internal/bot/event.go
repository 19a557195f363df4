package bot

import (
	"encoding/json"
	"fmt"
)

// Event is an inbound message event. Slack fills different fields depending
// on the subtype, so callers read the sender through SourceBotID and
// SourceUserID instead of the raw fields.
type Event struct {
	Type     string         `json:"type"`
	SubType  string         `json:"subtype,omitempty"`
	Channel  string         `json:"channel,omitempty"`
	Text     string         `json:"text,omitempty"`
	BotID    string         `json:"bot_id,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	User     string         `json:"user,omitempty"`
	TS       string         `json:"ts,omitempty"`
	ThreadTS string         `json:"thread_ts,omitempty"`
	Message  *NestedMessage `json:"message,omitempty"`

	// DeliveryID correlates log lines of one delivery
	DeliveryID string `json:"-"`
	// Args holds the parsed arguments when the matched dot-command has a parser
	Args ArgParser `json:"-"`
	// Raw is the undecoded event object
	Raw json.RawMessage `json:"-"`
}

// NestedMessage is the inner message carried by message_changed and similar subtypes
type NestedMessage struct {
	BotID string `json:"bot_id,omitempty"`
	User  string `json:"user,omitempty"`
	Text  string `json:"text,omitempty"`
}

// SourceBotID returns bot_id, falling back to message.bot_id
func (e *Event) SourceBotID() string {
	if e.BotID != "" {
		return e.BotID
	}
	if e.Message != nil {
		return e.Message.BotID
	}
	return ""
}

// SourceUserID returns user_id, then user, then message.user
func (e *Event) SourceUserID() string {
	if e.UserID != "" {
		return e.UserID
	}
	if e.User != "" {
		return e.User
	}
	if e.Message != nil {
		return e.Message.User
	}
	return ""
}

// ThreadOrTS returns the thread to reply in: the event's thread, or the event itself
func (e *Event) ThreadOrTS() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.TS
}

// callbackEnvelope is the event_callback wrapper around an inner event
type callbackEnvelope struct {
	EventID string          `json:"event_id"`
	Event   json.RawMessage `json:"event"`
}

// DecodeCallbackEvent extracts the inner event of an Events API callback payload
func DecodeCallbackEvent(payload []byte) (*Event, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event callback: %w", err)
	}
	if len(env.Event) == 0 {
		return nil, fmt.Errorf("event callback has no event")
	}
	ev, err := DecodeEvent(env.Event)
	if err != nil {
		return nil, err
	}
	ev.DeliveryID = env.EventID
	return ev, nil
}

// DecodeEvent decodes a bare event object
func DecodeEvent(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	ev.Raw = append(json.RawMessage(nil), raw...)
	return &ev, nil
}
