// Package blocks builds Block Kit fragments from small option structs.
//
// Every builder is a total function: it never fails and never touches the
// network. Zero-valued optional fields are left out of the resulting JSON.
//
// Select menus built without an action id get "selection", which is also the
// default the view-state readers in package bot look up.
package blocks

import (
	"fmt"

	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/slack-go/slack"
)

// SectionOptions configures Section
type SectionOptions struct {
	Text      string
	BlockID   string
	Fields    []*slack.TextBlockObject
	Accessory *slack.Accessory
	Markdown  bool // render Text as mrkdwn instead of plain_text
}

// Section builds a section block
func Section(opts SectionOptions) *slack.SectionBlock {
	var text *slack.TextBlockObject
	if opts.Text != "" {
		if opts.Markdown {
			text = Markdown(opts.Text)
		} else {
			text = PlainText(opts.Text)
		}
	}
	return &slack.SectionBlock{
		Type:      slack.MBTSection,
		BlockID:   opts.BlockID,
		Text:      text,
		Fields:    opts.Fields,
		Accessory: opts.Accessory,
	}
}

// PlainText builds a plain_text object with emoji rendering on
func PlainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

// Markdown builds a mrkdwn text object
func Markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

// Option builds a select/radio option; value is formatted with fmt.Sprint
func Option(label string, value any) *slack.OptionBlockObject {
	return slack.NewOptionBlockObject(fmt.Sprint(value), PlainText(label), nil)
}

// InputOptions configures Input
type InputOptions struct {
	BlockID  string
	Label    string
	Optional bool
	Element  slack.BlockElement
}

// Input builds an input block around an interactive element
func Input(opts InputOptions) *slack.InputBlock {
	return &slack.InputBlock{
		Type:     slack.MBTInput,
		BlockID:  opts.BlockID,
		Label:    PlainText(opts.Label),
		Element:  opts.Element,
		Optional: opts.Optional,
	}
}

// ExternalSelectOptions configures ExternalSelect
type ExternalSelectOptions struct {
	Placeholder string
	ActionID    string
	Multi       bool
	MinLength   *int // min_query_length, omitted when nil
}

// ExternalSelect builds an external_select, or a multi_external_select when Multi is set
func ExternalSelect(opts ExternalSelectOptions) slack.BlockElement {
	actionID := selectActionID(opts.ActionID)
	placeholder := optionalPlainText(opts.Placeholder)

	if opts.Multi {
		return &slack.MultiSelectBlockElement{
			Type:           slack.MultiOptTypeExternal,
			ActionID:       actionID,
			Placeholder:    placeholder,
			MinQueryLength: opts.MinLength,
		}
	}
	return &slack.SelectBlockElement{
		Type:           slack.OptTypeExternal,
		ActionID:       actionID,
		Placeholder:    placeholder,
		MinQueryLength: opts.MinLength,
	}
}

// StaticSelectOptions configures StaticSelect
type StaticSelectOptions struct {
	ActionID      string
	Placeholder   string
	Options       []*slack.OptionBlockObject
	InitialOption *slack.OptionBlockObject
	Multi         bool
}

// StaticSelect builds a static_select, or a multi_static_select when Multi is
// set. For the multi form InitialOption becomes the single initial option.
func StaticSelect(opts StaticSelectOptions) slack.BlockElement {
	actionID := selectActionID(opts.ActionID)
	placeholder := optionalPlainText(opts.Placeholder)

	if opts.Multi {
		var initial []*slack.OptionBlockObject
		if opts.InitialOption != nil {
			initial = []*slack.OptionBlockObject{opts.InitialOption}
		}
		return &slack.MultiSelectBlockElement{
			Type:           slack.MultiOptTypeStatic,
			ActionID:       actionID,
			Options:        opts.Options,
			InitialOptions: initial,
			Placeholder:    placeholder,
		}
	}
	return &slack.SelectBlockElement{
		Type:          slack.OptTypeStatic,
		ActionID:      actionID,
		Options:       opts.Options,
		InitialOption: opts.InitialOption,
		Placeholder:   placeholder,
	}
}

// ButtonOptions configures Button
type ButtonOptions struct {
	Text     string
	ActionID string
	Value    string
	Style    slack.Style // slack.StylePrimary or slack.StyleDanger
	URL      string
}

// Button builds a button element
func Button(opts ButtonOptions) *slack.ButtonBlockElement {
	return &slack.ButtonBlockElement{
		Type:     slack.METButton,
		ActionID: opts.ActionID,
		Style:    opts.Style,
		Text:     PlainText(opts.Text),
		Value:    opts.Value,
		URL:      opts.URL,
	}
}

// RadioButtonsOptions configures RadioButtons
type RadioButtonsOptions struct {
	BlockID  string
	Label    string
	Options  []*slack.OptionBlockObject
	ActionID string
}

// RadioButtons builds an input block holding a radio button group
func RadioButtons(opts RadioButtonsOptions) *slack.InputBlock {
	actionID := opts.ActionID
	if actionID == "" {
		actionID = constants.DefaultRadioActionID
	}
	return &slack.InputBlock{
		Type:    slack.MBTInput,
		BlockID: opts.BlockID,
		Label:   PlainText(opts.Label),
		Element: slack.NewRadioButtonsBlockElement(actionID, opts.Options...),
	}
}

// Divider builds a divider block
func Divider() *slack.DividerBlock {
	return slack.NewDividerBlock()
}

// HeaderOptions configures Header
type HeaderOptions struct {
	Text    string
	BlockID string
}

// Header builds a header block
func Header(opts HeaderOptions) *slack.HeaderBlock {
	header := slack.NewHeaderBlock(PlainText(opts.Text))
	header.BlockID = opts.BlockID
	return header
}

// ActionsOptions configures Actions
type ActionsOptions struct {
	BlockID  string
	Elements []slack.BlockElement
}

// Actions builds an actions row
func Actions(opts ActionsOptions) *slack.ActionBlock {
	return slack.NewActionBlock(opts.BlockID, opts.Elements...)
}

// PlainTextInputOptions configures PlainTextInput
type PlainTextInputOptions struct {
	ActionID  string
	Multiline bool
}

// PlainTextInput builds a plain_text_input element
func PlainTextInput(opts PlainTextInputOptions) *slack.PlainTextInputBlockElement {
	input := slack.NewPlainTextInputBlockElement(nil, opts.ActionID)
	input.Multiline = opts.Multiline
	return input
}

func selectActionID(actionID string) string {
	if actionID == "" {
		return constants.DefaultSelectActionID
	}
	return actionID
}

func optionalPlainText(text string) *slack.TextBlockObject {
	if text == "" {
		return nil
	}
	return PlainText(text)
}
