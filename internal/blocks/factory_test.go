package blocks

import (
	"encoding/json"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_PlainAndMarkdown(t *testing.T) {
	plain := Section(SectionOptions{Text: "hello", BlockID: "intro"})
	assert.Equal(t, slack.MBTSection, plain.Type)
	assert.Equal(t, "intro", plain.BlockID)
	require.NotNil(t, plain.Text)
	assert.Equal(t, slack.PlainTextType, plain.Text.Type)
	assert.Equal(t, "hello", plain.Text.Text)

	md := Section(SectionOptions{Text: "*bold*", Markdown: true})
	require.NotNil(t, md.Text)
	assert.Equal(t, slack.MarkdownType, md.Text.Type)
}

func TestSection_WithoutTextOmitsField(t *testing.T) {
	section := Section(SectionOptions{Fields: []*slack.TextBlockObject{Markdown("a"), Markdown("b")}})
	assert.Nil(t, section.Text)
	assert.Len(t, section.Fields, 2)

	raw, err := json.Marshal(section)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"text":{`)
}

func TestSection_WithAccessory(t *testing.T) {
	btn := Button(ButtonOptions{Text: "Go", ActionID: "go"})
	section := Section(SectionOptions{Text: "pick", Accessory: slack.NewAccessory(btn)})
	require.NotNil(t, section.Accessory)
	assert.Same(t, btn, section.Accessory.ButtonElement)
}

func TestOption_FormatsValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := Option("Label", tt.value)
			assert.Equal(t, tt.want, opt.Value)
			assert.Equal(t, "Label", opt.Text.Text)
			assert.Equal(t, slack.PlainTextType, opt.Text.Type)
		})
	}
}

func TestInput(t *testing.T) {
	el := PlainTextInput(PlainTextInputOptions{ActionID: "notes", Multiline: true})
	input := Input(InputOptions{BlockID: "notes_block", Label: "Notes", Optional: true, Element: el})

	assert.Equal(t, slack.MBTInput, input.Type)
	assert.Equal(t, "notes_block", input.BlockID)
	assert.Equal(t, "Notes", input.Label.Text)
	assert.True(t, input.Optional)
	assert.Same(t, el, input.Element)
	assert.True(t, el.Multiline)
	assert.Equal(t, "notes", el.ActionID)
}

func TestExternalSelect_DefaultsActionID(t *testing.T) {
	el := ExternalSelect(ExternalSelectOptions{})
	sel, ok := el.(*slack.SelectBlockElement)
	require.True(t, ok)
	assert.Equal(t, "selection", sel.ActionID)
	assert.Equal(t, slack.OptTypeExternal, sel.Type)
	assert.Nil(t, sel.Placeholder)
	assert.Nil(t, sel.MinQueryLength)
}

func TestExternalSelect_Multi(t *testing.T) {
	minLen := 2
	el := ExternalSelect(ExternalSelectOptions{ActionID: "users", Placeholder: "Search", Multi: true, MinLength: &minLen})
	sel, ok := el.(*slack.MultiSelectBlockElement)
	require.True(t, ok)
	assert.Equal(t, slack.MultiOptTypeExternal, sel.Type)
	assert.Equal(t, "users", sel.ActionID)
	require.NotNil(t, sel.Placeholder)
	assert.Equal(t, "Search", sel.Placeholder.Text)
	require.NotNil(t, sel.MinQueryLength)
	assert.Equal(t, 2, *sel.MinQueryLength)
}

func TestStaticSelect_Single(t *testing.T) {
	opts := []*slack.OptionBlockObject{Option("A", 1), Option("B", 2)}
	el := StaticSelect(StaticSelectOptions{Options: opts, InitialOption: opts[1]})
	sel, ok := el.(*slack.SelectBlockElement)
	require.True(t, ok)
	assert.Equal(t, slack.OptTypeStatic, sel.Type)
	assert.Equal(t, "selection", sel.ActionID)
	assert.Equal(t, opts, sel.Options)
	assert.Same(t, opts[1], sel.InitialOption)
}

func TestStaticSelect_MultiWrapsInitialOption(t *testing.T) {
	opts := []*slack.OptionBlockObject{Option("A", 1)}
	el := StaticSelect(StaticSelectOptions{ActionID: "tags", Options: opts, InitialOption: opts[0], Multi: true})
	sel, ok := el.(*slack.MultiSelectBlockElement)
	require.True(t, ok)
	assert.Equal(t, slack.MultiOptTypeStatic, sel.Type)
	assert.Equal(t, "tags", sel.ActionID)
	assert.Equal(t, []*slack.OptionBlockObject{opts[0]}, sel.InitialOptions)

	el = StaticSelect(StaticSelectOptions{Options: opts, Multi: true})
	sel = el.(*slack.MultiSelectBlockElement)
	assert.Nil(t, sel.InitialOptions)
}

func TestButton(t *testing.T) {
	btn := Button(ButtonOptions{Text: "Delete", ActionID: "del", Value: "42", Style: slack.StyleDanger, URL: "https://example.com"})
	assert.Equal(t, slack.METButton, btn.Type)
	assert.Equal(t, "Delete", btn.Text.Text)
	assert.Equal(t, "del", btn.ActionID)
	assert.Equal(t, "42", btn.Value)
	assert.Equal(t, slack.StyleDanger, btn.Style)
	assert.Equal(t, "https://example.com", btn.URL)
}

func TestRadioButtons(t *testing.T) {
	opts := []*slack.OptionBlockObject{Option("Yes", "y"), Option("No", "n")}

	input := RadioButtons(RadioButtonsOptions{BlockID: "answer", Label: "Sure?", Options: opts})
	assert.Equal(t, slack.MBTInput, input.Type)
	assert.Equal(t, "answer", input.BlockID)
	radio, ok := input.Element.(*slack.RadioButtonsBlockElement)
	require.True(t, ok)
	assert.Equal(t, "radioButtons", radio.ActionID)
	assert.Equal(t, opts, radio.Options)

	input = RadioButtons(RadioButtonsOptions{BlockID: "answer", Label: "Sure?", Options: opts, ActionID: "confirm"})
	radio = input.Element.(*slack.RadioButtonsBlockElement)
	assert.Equal(t, "confirm", radio.ActionID)
}

func TestDividerHeaderActions(t *testing.T) {
	assert.Equal(t, slack.MBTDivider, Divider().Type)

	header := Header(HeaderOptions{Text: "Title", BlockID: "hdr"})
	assert.Equal(t, slack.MBTHeader, header.Type)
	assert.Equal(t, "hdr", header.BlockID)
	assert.Equal(t, "Title", header.Text.Text)

	btn := Button(ButtonOptions{Text: "One"})
	actions := Actions(ActionsOptions{BlockID: "row", Elements: []slack.BlockElement{btn}})
	assert.Equal(t, slack.MBTAction, actions.Type)
	assert.Equal(t, "row", actions.BlockID)
	require.NotNil(t, actions.Elements)
	assert.Len(t, actions.Elements.ElementSet, 1)
}
