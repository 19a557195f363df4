package bot

import (
	"strings"

	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/slack-go/slack"
)

// StoreOptions replaces the option list served for id. The list is copied,
// so later changes by the caller do not leak into the registry.
func (s *Slack) StoreOptions(id string, options []*slack.OptionBlockObject) {
	stored := make([]*slack.OptionBlockObject, len(options))
	copy(stored, options)

	s.optionsMu.Lock()
	s.options[id] = stored
	s.optionsMu.Unlock()
}

// GetOptions returns the list stored for id; ok is false if none was stored
func (s *Slack) GetOptions(id string) ([]*slack.OptionBlockObject, bool) {
	s.optionsMu.RLock()
	defer s.optionsMu.RUnlock()

	options, ok := s.options[id]
	if !ok {
		return nil, false
	}
	out := make([]*slack.OptionBlockObject, len(options))
	copy(out, options)
	return out, true
}

// filterOptions keeps options whose label contains query, ignoring case.
// An empty query keeps everything. The result is capped at the number of
// options Slack accepts in one response.
func filterOptions(options []*slack.OptionBlockObject, query string) []*slack.OptionBlockObject {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*slack.OptionBlockObject, 0, len(options))
	for _, opt := range options {
		if len(out) == constants.MaxOptionsPerResponse {
			break
		}
		if query == "" || strings.Contains(strings.ToLower(optionLabel(opt)), query) {
			out = append(out, opt)
		}
	}
	return out
}

func optionLabel(opt *slack.OptionBlockObject) string {
	if opt == nil || opt.Text == nil {
		return ""
	}
	return opt.Text.Text
}
