// Package core wires the Slack runtime into a runnable service.
//
// It handles:
//
//   - Configuration loading and validation (from YAML files)
//   - Building the Web API client and the configured event source
//   - The HTTP Events API endpoint
//   - Plugin installation and graceful shutdown
//
// # Example Configuration
//
//	slack:
//	  bot_token: "${SLACK_BOT_TOKEN}"
//	  app_token: "${SLACK_APP_TOKEN}"
//	  mode: socket
//	plugins:
//	  enabled: [ping, echo, counter]
//	logging:
//	  level: info
package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/keepmind9/slackdot/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel      = "info"
	DefaultLogMaxBackups = 5
)

// LoadConfig loads configuration from file and expands environment variables
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData, err := expandEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		missingVars = append(missingVars, key)
		return ""
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}

	return result, nil
}

// validateConfig fills defaults and rejects unusable configurations
func validateConfig(config *Config) error {
	if config.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}

	if config.Slack.Mode == "" {
		config.Slack.Mode = ModeSocket
	}
	switch config.Slack.Mode {
	case ModeSocket:
		if config.Slack.AppToken == "" {
			return fmt.Errorf("slack.app_token is required in socket mode")
		}
		if !strings.HasPrefix(config.Slack.AppToken, "xapp-") {
			return fmt.Errorf("slack.app_token must be an app-level token (xapp-...)")
		}
	case ModeHTTP:
		if config.Slack.SigningSecret == "" {
			return fmt.Errorf("slack.signing_secret is required in http mode")
		}
	default:
		return fmt.Errorf("slack.mode must be %q or %q (got %q)", ModeSocket, ModeHTTP, config.Slack.Mode)
	}

	if config.HTTPServer.Port == 0 {
		config.HTTPServer.Port = constants.DefaultHTTPPort
	}
	if config.HTTPServer.Port < 0 || config.HTTPServer.Port > 65535 {
		return fmt.Errorf("http_server.port out of range: %d", config.HTTPServer.Port)
	}
	if config.HTTPServer.PathPrefix == "" {
		config.HTTPServer.PathPrefix = constants.DefaultHTTPPathPrefix
	}
	if !strings.HasPrefix(config.HTTPServer.PathPrefix, "/") {
		config.HTTPServer.PathPrefix = "/" + config.HTTPServer.PathPrefix
	}
	config.HTTPServer.PathPrefix = strings.TrimSuffix(config.HTTPServer.PathPrefix, "/")

	seen := make(map[string]bool, len(config.Plugins.Enabled))
	for _, name := range config.Plugins.Enabled {
		if seen[name] {
			return fmt.Errorf("plugin %s is enabled twice", name)
		}
		seen[name] = true
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = constants.DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = constants.DefaultLogMaxAge
	}

	return nil
}
