package core

import "github.com/keepmind9/slackdot/internal/logger"

// Event source modes
const (
	ModeSocket = "socket" // Socket Mode websocket, needs an app-level token
	ModeHTTP   = "http"   // Events API over HTTP, needs the signing secret
)

// Config represents the complete slackdot configuration structure
type Config struct {
	Slack      SlackConfig      `yaml:"slack"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Plugins    PluginsConfig    `yaml:"plugins"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SlackConfig holds the Slack app credentials
type SlackConfig struct {
	BotToken      string `yaml:"bot_token"`      // xoxb-...
	AppToken      string `yaml:"app_token"`      // xapp-..., socket mode only
	SigningSecret string `yaml:"signing_secret"` // http mode only
	AppID         string `yaml:"app_id"`         // overrides SLACK_APP_ID
	Mode          string `yaml:"mode"`           // socket or http (default: socket)
	Debug         bool   `yaml:"debug"`          // slack-go client debug output
}

// HTTPServerConfig represents the Events API endpoint configuration
type HTTPServerConfig struct {
	Port       int    `yaml:"port"`
	PathPrefix string `yaml:"path_prefix"` // default: /slack
}

// PluginsConfig lists the built-in plugins to install, in order
type PluginsConfig struct {
	Enabled []string `yaml:"enabled"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     *bool  `yaml:"compress"`      // Whether to compress old logs (default: true)
	EnableStdout *bool  `yaml:"enable_stdout"` // Also output to stdout (default: true)
}

// LoggerConfig converts the logging section for logger.New
func (c LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:        c.Level,
		File:         c.File,
		MaxSize:      c.MaxSize,
		MaxBackups:   c.MaxBackups,
		MaxAge:       c.MaxAge,
		Compress:     c.Compress == nil || *c.Compress,
		EnableStdout: c.EnableStdout == nil || *c.EnableStdout,
	}
}
