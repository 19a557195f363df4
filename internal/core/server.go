package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/keepmind9/slackdot/internal/bot"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Server receives Events API deliveries and interactive payloads over HTTP.
// It implements bot.EventSource.
type Server struct {
	config        HTTPServerConfig
	signingSecret string
	router        chi.Router
	httpServer    *http.Server
	log           *logrus.Entry

	mu       sync.RWMutex
	handlers []bot.EventHandler

	// inflight tracks message handlers still running after the ack
	inflight sync.WaitGroup
}

// NewServer creates the HTTP source. Every request must carry a valid
// Slack signature for signingSecret.
func NewServer(config HTTPServerConfig, signingSecret string) *Server {
	s := &Server{
		config:        config,
		signingSecret: signingSecret,
		log:           logger.Component("http"),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(constants.DefaultRequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	slackRoutes := func(r chi.Router) {
		r.Use(s.verifySignature)
		r.Post("/events", s.handleEvents)
		r.Post("/interactions", s.handleInteractions)
		r.Post("/options", s.handleInteractions)
	}
	if s.config.PathPrefix == "" {
		r.Group(slackRoutes)
	} else {
		r.Route(s.config.PathPrefix, slackRoutes)
	}
	return r
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Subscribe implements bot.EventSource
func (s *Server) Subscribe(handler bot.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Server) subscribers() []bot.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]bot.EventHandler, len(s.handlers))
	copy(out, s.handlers)
	return out
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", addr).Info("http-server-listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.WithError(err).Error("failed-to-gracefully-stop-http-server")
		s.httpServer.Close()
	}
	s.inflight.Wait()
	s.log.Info("http-server-stopped")
	return nil
}

// verifySignature rejects requests whose X-Slack-Signature does not match
// the body. The body is restored for the next handler.
func (s *Server) verifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes))
		if err != nil {
			s.log.WithError(err).Warn("failed-to-read-request-body")
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		r.Body.Close()

		verifier, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
		if err != nil {
			s.log.WithError(err).Warn("missing-slack-signature-headers")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}
		if _, err := verifier.Write(body); err != nil {
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}
		if err := verifier.Ensure(); err != nil {
			s.log.WithError(err).Warn("invalid-slack-signature")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	apiEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.log.WithError(err).Warn("failed-to-parse-events-api-payload")
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return
	}

	switch apiEvent.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "Invalid challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, challenge.Challenge)

	case slackevents.CallbackEvent:
		w.WriteHeader(http.StatusOK)

		if retry := r.Header.Get("X-Slack-Retry-Num"); retry != "" {
			s.log.WithField("retry", retry).Debug("skipping-redelivered-event")
			return
		}
		if apiEvent.InnerEvent.Type != constants.MessageEventType {
			return
		}

		ev, err := bot.DecodeCallbackEvent(body)
		if err != nil {
			s.log.WithError(err).Error("failed-to-decode-event")
			return
		}
		if ev.DeliveryID == "" {
			ev.DeliveryID = uuid.NewString()
		}

		// Slack wants the ack within three seconds, so handlers run after it
		ctx := context.WithoutCancel(r.Context())
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			for _, h := range s.subscribers() {
				h.HandleMessage(ctx, ev)
			}
		}()

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// handleInteractions serves both the interactivity and the options load
// URL; Slack posts the callback as a form field named payload
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	payload := r.PostFormValue("payload")
	if payload == "" {
		http.Error(w, "Missing payload", http.StatusBadRequest)
		return
	}

	var cb slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &cb); err != nil {
		s.log.WithError(err).Warn("failed-to-decode-interaction")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	var response any
	for _, h := range s.subscribers() {
		result, err := h.HandleInteraction(r.Context(), cb)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"type":  cb.Type,
				"error": err,
			}).Error("failed-to-handle-interaction")
			continue
		}
		if result != nil && response == nil {
			response = result
		}
	}

	if response == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithError(err).Error("failed-to-encode-interaction-response")
	}
}

// wait blocks until dispatched message handlers finish
func (s *Server) wait() {
	s.inflight.Wait()
}
