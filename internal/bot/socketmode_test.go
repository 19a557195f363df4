package bot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ack struct {
	envelopeID string
	payload    []any
}

// fakeSocketClient feeds a fixed channel of events and records acks
type fakeSocketClient struct {
	events chan socketmode.Event
	runErr error

	mu   sync.Mutex
	acks []ack
}

func newFakeSocketClient() *fakeSocketClient {
	return &fakeSocketClient{events: make(chan socketmode.Event, 10)}
}

// RunContext behaves like the real client: it blocks until ctx is done and
// reports ctx.Err(), unless runErr simulates a connection failure
func (f *fakeSocketClient) RunContext(ctx context.Context) error {
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeSocketClient) Events() chan socketmode.Event {
	return f.events
}

func (f *fakeSocketClient) Ack(req socketmode.Request, payload ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, ack{envelopeID: req.EnvelopeID, payload: payload})
}

func (f *fakeSocketClient) ackList() []ack {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ack(nil), f.acks...)
}

type recordingHandler struct {
	mu       sync.Mutex
	messages []*Event
	result   any
}

func (r *recordingHandler) HandleMessage(_ context.Context, ev *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, ev)
}

func (r *recordingHandler) HandleInteraction(context.Context, slack.InteractionCallback) (any, error) {
	return r.result, nil
}

func messageEvent(envelopeID, payload string) socketmode.Event {
	return socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: slackevents.EventsAPIEvent{
			Type:       slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{Type: "message"},
		},
		Request: &socketmode.Request{EnvelopeID: envelopeID, Payload: json.RawMessage(payload)},
	}
}

func TestSocketModeSource_DeliversMessages(t *testing.T) {
	client := newFakeSocketClient()
	src := NewSocketModeSource(client)
	h := &recordingHandler{}
	src.Subscribe(h)

	src.handleEvent(context.Background(), messageEvent("env-1", `{"event_id":"Ev1","event":{"type":"message","text":".ping","user":"U1"}}`))

	require.Len(t, h.messages, 1)
	assert.Equal(t, ".ping", h.messages[0].Text)
	assert.Equal(t, "Ev1", h.messages[0].DeliveryID)
	assert.Equal(t, []ack{{envelopeID: "env-1"}}, client.ackList())
}

func TestSocketModeSource_AssignsDeliveryID(t *testing.T) {
	src := NewSocketModeSource(newFakeSocketClient())
	h := &recordingHandler{}
	src.Subscribe(h)

	src.handleEvent(context.Background(), messageEvent("env-1", `{"event":{"type":"message","text":"hi"}}`))

	require.Len(t, h.messages, 1)
	assert.NotEmpty(t, h.messages[0].DeliveryID)
}

func TestSocketModeSource_IgnoresOtherInnerEvents(t *testing.T) {
	client := newFakeSocketClient()
	src := NewSocketModeSource(client)
	h := &recordingHandler{}
	src.Subscribe(h)

	evt := messageEvent("env-2", `{"event":{"type":"reaction_added"}}`)
	evt.Data = slackevents.EventsAPIEvent{
		Type:       slackevents.CallbackEvent,
		InnerEvent: slackevents.EventsAPIInnerEvent{Type: "reaction_added"},
	}
	src.handleEvent(context.Background(), evt)

	assert.Empty(t, h.messages)
	assert.Len(t, client.ackList(), 1, "every envelope is acknowledged")
}

func TestSocketModeSource_InteractionResultTravelsInAck(t *testing.T) {
	client := newFakeSocketClient()
	src := NewSocketModeSource(client)
	payload := &OptionsResponse{Options: []*slack.OptionBlockObject{}}
	src.Subscribe(&recordingHandler{result: payload})

	src.handleEvent(context.Background(), socketmode.Event{
		Type:    socketmode.EventTypeInteractive,
		Data:    slack.InteractionCallback{Type: slack.InteractionTypeBlockSuggestion},
		Request: &socketmode.Request{EnvelopeID: "env-3"},
	})

	acks := client.ackList()
	require.Len(t, acks, 1)
	assert.Equal(t, "env-3", acks[0].envelopeID)
	require.Len(t, acks[0].payload, 1)
	assert.Same(t, payload, acks[0].payload[0])
}

func TestSocketModeSource_RunStopsOnCancel(t *testing.T) {
	client := newFakeSocketClient()
	src := NewSocketModeSource(client)
	h := &recordingHandler{}
	src.Subscribe(h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	client.events <- messageEvent("env-1", `{"event":{"type":"message","text":"hi"}}`)
	assert.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.messages) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSocketModeSource_RunReturnsConnectionError(t *testing.T) {
	client := newFakeSocketClient()
	client.runErr = errors.New("invalid_auth")
	src := NewSocketModeSource(client)

	select {
	case err := <-runAsync(context.Background(), src):
		assert.ErrorContains(t, err, "invalid_auth")
	case <-time.After(time.Second):
		t.Fatal("Run did not return after connection error")
	}
}

func TestSocketModeSource_RunReportsUnexpectedCancel(t *testing.T) {
	client := newFakeSocketClient()
	client.runErr = context.Canceled
	src := NewSocketModeSource(client)

	select {
	case err := <-runAsync(context.Background(), src):
		assert.ErrorIs(t, err, context.Canceled, "a cancel the caller did not ask for is an error")
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func runAsync(ctx context.Context, src *SocketModeSource) <-chan error {
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()
	return done
}
