package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"golang.org/x/sync/errgroup"
)

// SocketClient is the subset of *socketmode.Client the source needs.
// Events is a method so tests can supply their own channel.
type SocketClient interface {
	RunContext(ctx context.Context) error
	Events() chan socketmode.Event
	Ack(req socketmode.Request, payload ...any)
}

type socketClientWrapper struct {
	client *socketmode.Client
}

// WrapSocketClient adapts a *socketmode.Client to SocketClient
func WrapSocketClient(client *socketmode.Client) SocketClient {
	return &socketClientWrapper{client: client}
}

func (w *socketClientWrapper) RunContext(ctx context.Context) error {
	return w.client.RunContext(ctx)
}

func (w *socketClientWrapper) Events() chan socketmode.Event {
	return w.client.Events
}

func (w *socketClientWrapper) Ack(req socketmode.Request, payload ...any) {
	w.client.Ack(req, payload...)
}

// SocketModeSource delivers events received over a Socket Mode connection
type SocketModeSource struct {
	client SocketClient
	log    *logrus.Entry

	mu       sync.RWMutex
	handlers []EventHandler
}

// NewSocketModeSource creates a source over client
func NewSocketModeSource(client SocketClient) *SocketModeSource {
	return &SocketModeSource{
		client: client,
		log:    logger.Component("socketmode"),
	}
}

// Subscribe implements EventSource
func (s *SocketModeSource) Subscribe(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Run connects and pumps events until ctx is cancelled
func (s *SocketModeSource) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events := s.client.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case evt, ok := <-events:
				if !ok {
					return nil
				}
				s.handleEvent(ctx, evt)
			}
		}
	})

	g.Go(func() error {
		err := s.client.RunContext(ctx)
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}

func (s *SocketModeSource) subscribers() []EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EventHandler, len(s.handlers))
	copy(out, s.handlers)
	return out
}

func (s *SocketModeSource) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		s.log.Info("socket-mode-connecting")

	case socketmode.EventTypeConnected:
		s.log.Info("socket-mode-connected")

	case socketmode.EventTypeConnectionError:
		s.log.WithField("data", evt.Data).Warn("socket-mode-connection-error")

	case socketmode.EventTypeEventsAPI:
		if evt.Request == nil {
			return
		}
		s.client.Ack(*evt.Request)

		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || apiEvent.Type != slackevents.CallbackEvent || apiEvent.InnerEvent.Type != constants.MessageEventType {
			return
		}
		ev, err := DecodeCallbackEvent(evt.Request.Payload)
		if err != nil {
			s.log.WithError(err).Error("failed-to-decode-event")
			return
		}
		if ev.DeliveryID == "" {
			ev.DeliveryID = uuid.NewString()
		}
		for _, h := range s.subscribers() {
			h.HandleMessage(ctx, ev)
		}

	case socketmode.EventTypeInteractive:
		if evt.Request == nil {
			return
		}
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			s.client.Ack(*evt.Request)
			return
		}
		// Interaction results travel in the ack, so handlers run first
		var response any
		for _, h := range s.subscribers() {
			result, err := h.HandleInteraction(ctx, cb)
			if err != nil {
				s.log.WithError(err).Error("failed-to-handle-interaction")
				continue
			}
			if result != nil && response == nil {
				response = result
			}
		}
		if response != nil {
			s.client.Ack(*evt.Request, response)
		} else {
			s.client.Ack(*evt.Request)
		}

	default:
		if evt.Request != nil && evt.Request.EnvelopeID != "" {
			s.client.Ack(*evt.Request)
		}
	}
}
