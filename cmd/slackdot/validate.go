package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/keepmind9/slackdot/internal/core"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/keepmind9/slackdot/internal/plugins"
	"github.com/spf13/cobra"
)

var (
	validateConfigFile string
	validateShow       bool
	validateJSON       bool
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Config   string   `json:"config"`
	Mode     string   `json:"mode,omitempty"`
	BotToken string   `json:"bot_token,omitempty"` // masked
	Plugins  []string `json:"plugins,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate slackdot configuration file",
	Long: `Validate the slackdot configuration file without connecting to Slack.

This command checks:
  - YAML syntax and environment variables
  - Slack credentials required by the selected mode
  - Enabled plugin names

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := validateConfigFile
		if configFile == "" {
			configFile = findConfigFile()
		}
		if configFile == "" {
			return fmt.Errorf("no configuration file found; pass --config or create ./config.yaml")
		}

		result := validate(configFile)
		outputValidationResult(cmd.OutOrStdout(), result, validateJSON, validateShow)
		if !result.Valid {
			return fmt.Errorf("configuration %s is invalid", configFile)
		}
		return nil
	},
}

// findConfigFile returns the first default location that exists
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	for _, loc := range []string{
		"config.yaml",
		filepath.Join(home, ".config/slackdot/config.yaml"),
		"/etc/slackdot/config.yaml",
	} {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func validate(configFile string) ValidationResult {
	cfg, err := core.LoadConfig(configFile)
	if err != nil {
		return ValidationResult{Config: configFile, Errors: []string{err.Error()}}
	}

	result := ValidationResult{
		Valid:    true,
		Config:   configFile,
		Mode:     cfg.Slack.Mode,
		BotToken: logger.MaskSecret(cfg.Slack.BotToken),
		Plugins:  cfg.Plugins.Enabled,
	}
	for _, name := range cfg.Plugins.Enabled {
		if _, ok := plugins.Lookup(name); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("unknown plugin %q (available: %v)", name, plugins.Names()))
		}
	}
	result.Warnings = validateConfigDetails(cfg)
	return result
}

func validateConfigDetails(cfg *core.Config) []string {
	var warnings []string

	if len(cfg.Plugins.Enabled) == 0 {
		warnings = append(warnings, "No plugins are enabled - the bot will not answer any dot-command")
	}
	if cfg.Slack.Mode == core.ModeSocket && cfg.Slack.SigningSecret != "" {
		warnings = append(warnings, "signing_secret is ignored in socket mode")
	}
	if cfg.Slack.Mode == core.ModeHTTP && cfg.Slack.AppToken != "" {
		warnings = append(warnings, "app_token is ignored in http mode")
	}
	if cfg.Slack.Debug {
		warnings = append(warnings, "slack.debug logs every API call")
	}

	return warnings
}

func outputValidationResult(w io.Writer, result ValidationResult, jsonFormat, show bool) {
	if jsonFormat {
		output, err := json.Marshal(result)
		if err != nil {
			fmt.Fprintf(w, "{\"error\": \"failed to marshal json: %v\"}\n", err)
			return
		}
		fmt.Fprintln(w, string(output))
		return
	}

	if !result.Valid {
		fmt.Fprintln(w, "❌ Configuration validation failed:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", errMsg)
		}
		return
	}

	fmt.Fprintln(w, "✓ Configuration is valid")
	fmt.Fprintf(w, "  - Config: %s\n", result.Config)
	fmt.Fprintf(w, "  - Mode: %s\n", result.Mode)
	if show {
		fmt.Fprintf(w, "  - Bot token: %s\n", result.BotToken)
	}
	fmt.Fprintf(w, "  - Plugins: %d\n", len(result.Plugins))
	if show {
		for _, name := range result.Plugins {
			fmt.Fprintf(w, "      %s\n", name)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\n⚠️  Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "config", "c", "", "Configuration file path")
	validateCmd.Flags().BoolVar(&validateShow, "show", false, "List the enabled plugins")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
