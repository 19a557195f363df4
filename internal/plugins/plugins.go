// Package plugins holds the built-in dot-command plugins.
package plugins

import (
	"github.com/keepmind9/slackdot/internal/bot"
)

type builtin struct {
	name   string
	plugin bot.Plugin
}

// builtins in the order they are listed by Names
var builtins = []builtin{
	{name: "ping", plugin: Ping},
	{name: "echo", plugin: Echo},
	{name: "counter", plugin: Counter},
}

// Lookup returns the built-in plugin called name
func Lookup(name string) (bot.Plugin, bool) {
	for _, b := range builtins {
		if b.name == name {
			return b.plugin, true
		}
	}
	return nil, false
}

// Names lists the built-in plugin names
func Names() []string {
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.name)
	}
	return names
}
