package bot

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func TestViewStateReaders(t *testing.T) {
	view := &slack.View{State: &slack.ViewState{Values: map[string]map[string]slack.BlockAction{
		"fruit": {
			"selection": {SelectedOption: slack.OptionBlockObject{Value: "apple"}},
		},
		"tags": {
			"tag_select": {SelectedOptions: []slack.OptionBlockObject{{Value: "a"}, {Value: "b"}}},
		},
		"note": {
			"note_input": {Value: "hello"},
		},
	}}}

	value, ok := SelectedOption(view, "fruit", "")
	assert.True(t, ok)
	assert.Equal(t, "apple", value)

	assert.Equal(t, []string{"a", "b"}, SelectedOptions(view, "tags", "tag_select"))
	assert.Equal(t, "hello", PlainTextValue(view, "note", "note_input"))

	_, ok = SelectedOption(view, "missing", "")
	assert.False(t, ok)
	assert.Nil(t, SelectedOptions(view, "tags", "other"))
	assert.Empty(t, PlainTextValue(nil, "note", "note_input"))
}
