package bot

import (
	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/slack-go/slack"
)

// stateValue looks up the submitted value of one element. An empty actionID
// means the default select id.
func stateValue(view *slack.View, blockID, actionID string) (slack.BlockAction, bool) {
	if view == nil || view.State == nil {
		return slack.BlockAction{}, false
	}
	if actionID == "" {
		actionID = constants.DefaultSelectActionID
	}
	block, ok := view.State.Values[blockID]
	if !ok {
		return slack.BlockAction{}, false
	}
	action, ok := block[actionID]
	return action, ok
}

// SelectedOption returns the value of a single select in a submitted view
func SelectedOption(view *slack.View, blockID, actionID string) (string, bool) {
	action, ok := stateValue(view, blockID, actionID)
	if !ok || action.SelectedOption.Value == "" {
		return "", false
	}
	return action.SelectedOption.Value, true
}

// SelectedOptions returns the values of a multi select in a submitted view
func SelectedOptions(view *slack.View, blockID, actionID string) []string {
	action, ok := stateValue(view, blockID, actionID)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(action.SelectedOptions))
	for _, opt := range action.SelectedOptions {
		values = append(values, opt.Value)
	}
	return values
}

// PlainTextValue returns what was typed into a plain-text input
func PlainTextValue(view *slack.View, blockID, actionID string) string {
	action, ok := stateValue(view, blockID, actionID)
	if !ok {
		return ""
	}
	return action.Value
}
