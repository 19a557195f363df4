package bot

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/keepmind9/slackdot/internal/modal"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// Identity is the bot's own identity as reported by auth.test
type Identity struct {
	ID     string // bot id (B...)
	User   string // bot user name
	UserID string // bot user id (U...)
}

// Slack is the bot runtime around one Slack Web API client
type Slack struct {
	// AppID is read once from SLACK_APP_ID unless WithAppID overrides it
	AppID string

	client SlackAPI
	modals *modal.Manager
	log    *logrus.Entry

	identityMu sync.RWMutex
	identity   Identity

	commandsMu sync.RWMutex
	commands   []*dotCommand

	optionsMu sync.RWMutex
	options   map[string][]*slack.OptionBlockObject

	interactionsMu sync.RWMutex
	actions        map[string]ActionHandler
	submissions    map[string]ViewSubmissionHandler
	suggestions    map[string]OptionsHandler

	pluginsMu sync.Mutex
	plugins   []PluginInfo
}

// Option configures a Slack instance
type Option func(*Slack)

// WithLogger replaces the component logger
func WithLogger(log *logrus.Entry) Option {
	return func(s *Slack) {
		s.log = log
	}
}

// WithAppID overrides SLACK_APP_ID
func WithAppID(appID string) Option {
	return func(s *Slack) {
		s.AppID = appID
	}
}

// WithIdentity presets the bot identity, skipping the need for LoadIdentity
func WithIdentity(id Identity) Option {
	return func(s *Slack) {
		s.identity = id
	}
}

// New creates a Slack runtime. When events is non-nil the instance
// subscribes to it; a nil source leaves the instance send-only.
func New(client SlackAPI, events EventSource, opts ...Option) *Slack {
	s := &Slack{
		AppID:       os.Getenv("SLACK_APP_ID"),
		client:      client,
		options:     make(map[string][]*slack.OptionBlockObject),
		actions:     make(map[string]ActionHandler),
		submissions: make(map[string]ViewSubmissionHandler),
		suggestions: make(map[string]OptionsHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Component("slack")
	}
	s.modals = modal.NewManager(client, s.log.WithField("component", "modal"))

	if events != nil {
		events.Subscribe(s)
	}
	return s
}

// Client returns the underlying Web API client
func (s *Slack) Client() SlackAPI {
	return s.client
}

// Modals returns the modal manager bound to this client
func (s *Slack) Modals() *modal.Manager {
	return s.modals
}

// LoadIdentity resolves the bot identity through auth.test. Until it
// succeeds the self-filter matches nothing.
func (s *Slack) LoadIdentity(ctx context.Context) error {
	resp, err := s.client.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to call auth.test: %w", err)
	}

	id := Identity{
		ID:     resp.BotID,
		User:   resp.User,
		UserID: resp.UserID,
	}
	s.identityMu.Lock()
	s.identity = id
	s.identityMu.Unlock()

	s.log.WithFields(logrus.Fields{
		"bot_id":  id.ID,
		"user":    id.User,
		"user_id": id.UserID,
		"team":    resp.Team,
	}).Info("bot-identity-loaded")
	return nil
}

// Identity returns the bot identity loaded so far
func (s *Slack) Identity() Identity {
	s.identityMu.RLock()
	defer s.identityMu.RUnlock()
	return s.identity
}

// IsFromBot reports whether ev was sent by this bot. Empty ids never match,
// so an unloaded identity filters nothing.
func (s *Slack) IsFromBot(ev *Event) bool {
	id := s.Identity()
	botID := ev.SourceBotID()
	userID := ev.SourceUserID()
	return (botID != "" && botID == id.ID) || (userID != "" && userID == id.UserID)
}

// HandleMessage implements EventHandler. Bot-originated events are dropped
// before any dot-command is matched.
func (s *Slack) HandleMessage(ctx context.Context, ev *Event) {
	if s.IsFromBot(ev) {
		s.log.WithFields(logrus.Fields{
			"channel":     ev.Channel,
			"delivery_id": ev.DeliveryID,
		}).Debug("ignoring-own-message")
		return
	}
	s.dispatch(ctx, ev)
}
