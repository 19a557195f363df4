package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/keepmind9/slackdot/internal/bot"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/keepmind9/slackdot/internal/plugins"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"golang.org/x/sync/errgroup"
)

// Source is an event source the engine can run
type Source interface {
	bot.EventSource
	Run(ctx context.Context) error
}

// Engine owns the Slack runtime and the event source feeding it
type Engine struct {
	config *Config
	slack  *bot.Slack
	source Source
	log    *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewEngine builds the Web API client and the event source selected by
// config.Slack.Mode, then installs the enabled plugins
func NewEngine(config *Config) (*Engine, error) {
	api := slack.New(config.Slack.BotToken,
		slack.OptionDebug(config.Slack.Debug),
		slack.OptionAppLevelToken(config.Slack.AppToken),
	)

	var source Source
	switch config.Slack.Mode {
	case ModeHTTP:
		source = NewServer(config.HTTPServer, config.Slack.SigningSecret)
	default:
		client := socketmode.New(api, socketmode.OptionDebug(config.Slack.Debug))
		source = bot.NewSocketModeSource(bot.WrapSocketClient(client))
	}

	return newEngine(config, api, source)
}

// newEngine wires an engine around an existing client and source
func newEngine(config *Config, client bot.SlackAPI, source Source) (*Engine, error) {
	log := logger.Component("engine")

	var opts []bot.Option
	if config.Slack.AppID != "" {
		opts = append(opts, bot.WithAppID(config.Slack.AppID))
	}
	s := bot.New(client, source, opts...)

	for _, name := range config.Plugins.Enabled {
		plugin, ok := plugins.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q (available: %v)", name, plugins.Names())
		}
		if err := s.Use(plugin); err != nil {
			return nil, err
		}
	}

	return &Engine{
		config: config,
		slack:  s,
		source: source,
		log:    log,
	}, nil
}

// Slack returns the runtime so callers can register extra commands before Run
func (e *Engine) Slack() *bot.Slack {
	return e.slack
}

// Run loads the bot identity and serves events until ctx is cancelled or
// Stop is called. The identity is loaded before the source starts, so the
// self-filter is active for the first delivery.
func (e *Engine) Run(ctx context.Context) error {
	e.log.WithFields(logrus.Fields{
		"mode":     e.config.Slack.Mode,
		"commands": e.slack.Commands(),
	}).Info("starting-slackdot-engine")

	if err := e.slack.LoadIdentity(ctx); err != nil {
		return fmt.Errorf("failed to load bot identity: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.source.Run(ctx)
	})

	err := g.Wait()
	e.log.Info("engine-stopped")
	return err
}

// Stop cancels a running engine
func (e *Engine) Stop() error {
	e.log.Info("stopping-slackdot-engine")

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
	return nil
}
