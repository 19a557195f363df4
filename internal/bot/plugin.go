package bot

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PluginInfo describes an installed plugin
type PluginInfo struct {
	Name        string
	Description string
	Version     string
}

// Plugin installs commands and handlers on a Slack instance
type Plugin func(s *Slack) (PluginInfo, error)

// Use installs plugins in order and stops at the first failure
func (s *Slack) Use(plugins ...Plugin) error {
	for _, plugin := range plugins {
		info, err := plugin(s)
		if err != nil {
			return fmt.Errorf("failed to install plugin %s: %w", info.Name, err)
		}

		s.pluginsMu.Lock()
		s.plugins = append(s.plugins, info)
		s.pluginsMu.Unlock()

		s.log.WithFields(logrus.Fields{
			"plugin":  info.Name,
			"version": info.Version,
		}).Info("plugin-installed")
	}
	return nil
}

// Plugins lists installed plugins in installation order
func (s *Slack) Plugins() []PluginInfo {
	s.pluginsMu.Lock()
	defer s.pluginsMu.Unlock()

	out := make([]PluginInfo, len(s.plugins))
	copy(out, s.plugins)
	return out
}
