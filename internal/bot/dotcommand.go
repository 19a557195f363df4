package bot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ArgParser parses the words following a dot-command. The parsed values
// live in the parser itself; handlers read them back from Event.Args.
type ArgParser interface {
	Parse(args []string) error
}

// ParserFactory builds a fresh parser for one dispatch. name is the
// normalized command name, used as the program name in usage output.
type ParserFactory func(name string) ArgParser

// CommandSpec registers a dot-command with an optional argument parser
type CommandSpec struct {
	Command string
	Parser  ParserFactory
}

// CommandHandler handles one dot-command invocation. A returned error is
// logged and posted back to the channel.
type CommandHandler func(ctx context.Context, ev *Event) error

type dotCommand struct {
	name    string
	parser  ParserFactory
	handler CommandHandler
}

// NormalizeCommand prefixes name with "." unless it already has one
func NormalizeCommand(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, constants.DotCommandPrefix) {
		return name
	}
	return constants.DotCommandPrefix + name
}

// DotCommand registers handler under name. "foo" and ".foo" are the same command.
func (s *Slack) DotCommand(name string, handler CommandHandler) {
	s.RegisterDotCommand(CommandSpec{Command: name}, handler)
}

// RegisterDotCommand registers handler with the parser from spec.
// Registrations are permanent and matched in registration order.
func (s *Slack) RegisterDotCommand(spec CommandSpec, handler CommandHandler) {
	cmd := &dotCommand{
		name:    NormalizeCommand(spec.Command),
		parser:  spec.Parser,
		handler: handler,
	}

	s.commandsMu.Lock()
	s.commands = append(s.commands, cmd)
	s.commandsMu.Unlock()

	s.log.WithField("command", cmd.name).Debug("dot-command-registered")
}

// Commands returns the registered command names in registration order
func (s *Slack) Commands() []string {
	s.commandsMu.RLock()
	defer s.commandsMu.RUnlock()

	names := make([]string, 0, len(s.commands))
	for _, cmd := range s.commands {
		names = append(names, cmd.name)
	}
	return names
}

// dispatch fires every command whose name is a prefix of the trimmed text.
// The match is not token-bounded: ".pingpong" fires ".ping".
func (s *Slack) dispatch(ctx context.Context, ev *Event) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}

	s.commandsMu.RLock()
	matched := make([]*dotCommand, 0, 1)
	for _, cmd := range s.commands {
		if strings.HasPrefix(text, cmd.name) {
			matched = append(matched, cmd)
		}
	}
	s.commandsMu.RUnlock()

	for _, cmd := range matched {
		// Each firing gets its own copy so parsers don't overwrite each other's Args
		fired := *ev
		fired.Text = text
		s.run(ctx, cmd, text, &fired)
	}
}

func (s *Slack) run(ctx context.Context, cmd *dotCommand, text string, ev *Event) {
	log := s.log.WithFields(logrus.Fields{
		"command":     cmd.name,
		"channel":     ev.Channel,
		"delivery_id": ev.DeliveryID,
	})

	if cmd.parser != nil {
		parser := cmd.parser(cmd.name)
		if err := parseArgs(parser, strings.TrimPrefix(text, cmd.name)); err != nil {
			log.WithError(err).Warn("failed-to-parse-command-args")
			s.PostError(ctx, ErrorPost{
				Channel:  ev.Channel,
				ThreadTS: ev.ThreadTS,
				Err:      usageError(parser, err),
			})
			return
		}
		ev.Args = parser
	}

	log.Debug("dot-command-fired")
	if err := cmd.handler(ctx, ev); err != nil {
		log.WithError(err).Error("dot-command-failed")
		s.PostError(ctx, ErrorPost{
			Channel:  ev.Channel,
			ThreadTS: ev.ThreadTS,
			Err:      err,
		})
	}
}

// parseArgs splits rest into shell words and feeds them to parser
func parseArgs(parser ArgParser, rest string) error {
	words, err := shlex.Split(rest)
	if err != nil {
		return fmt.Errorf("failed to split arguments: %w", err)
	}
	return parser.Parse(words)
}

// usager is implemented by parsers that can print their flag usage
type usager interface {
	FlagUsages() string
}

func usageError(parser ArgParser, err error) error {
	u, ok := parser.(usager)
	if !ok {
		return err
	}
	usage := strings.TrimRight(u.FlagUsages(), "\n")
	if usage == "" {
		return err
	}
	return fmt.Errorf("%w\n```\n%s\n```", err, usage)
}

// FlagParser adapts a pflag.FlagSet. The flag set must use
// pflag.ContinueOnError so a bad flag is reported instead of exiting.
type FlagParser struct {
	*pflag.FlagSet
}

// NewFlagParser returns a FlagParser named after the command
func NewFlagParser(name string) *FlagParser {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return &FlagParser{FlagSet: fs}
}

// CobraParser adapts a cobra.Command: flags are parsed and positional
// arguments checked against the command's Args validator.
type CobraParser struct {
	Cmd *cobra.Command
}

// Parse implements ArgParser
func (p *CobraParser) Parse(args []string) error {
	if err := p.Cmd.ParseFlags(args); err != nil {
		return err
	}
	return p.Cmd.ValidateArgs(p.Cmd.Flags().Args())
}

// Positional returns the arguments left after flag parsing
func (p *CobraParser) Positional() []string {
	return p.Cmd.Flags().Args()
}

// FlagUsages implements usager
func (p *CobraParser) FlagUsages() string {
	return p.Cmd.Flags().FlagUsages()
}
