package plugins

import (
	"context"
	"fmt"
	"strconv"

	"github.com/keepmind9/slackdot/internal/blocks"
	"github.com/keepmind9/slackdot/internal/bot"
	"github.com/keepmind9/slackdot/internal/modal"
	"github.com/slack-go/slack"
)

const (
	counterCallbackID = "counter"
	counterOpenID     = "counter_open"
	counterIncID      = "counter_increment"
	counterStepID     = "counter_step"
	counterStepBlock  = "counter_step_block"

	counterCountKey   = "count"
	counterChannelKey = "channel"
)

// Counter posts a button that opens a modal with a counter kept in the
// view's private_metadata. The step menu is an external select served from
// the option registry.
func Counter(s *bot.Slack) (bot.PluginInfo, error) {
	s.StoreOptions(counterStepID, []*slack.OptionBlockObject{
		blocks.Option("+1", 1),
		blocks.Option("+5", 5),
		blocks.Option("+10", 10),
	})

	s.DotCommand("counter", func(ctx context.Context, ev *bot.Event) error {
		_, err := s.PostMessage(ctx, ev.Channel, slack.MsgOptionBlocks(
			blocks.Section(blocks.SectionOptions{Text: "Press the button to start counting"}),
			blocks.Actions(blocks.ActionsOptions{Elements: []slack.BlockElement{
				blocks.Button(blocks.ButtonOptions{Text: "Open counter", ActionID: counterOpenID, Style: slack.StylePrimary}),
			}}),
		))
		return err
	})

	s.OnAction(counterOpenID, func(ctx context.Context, cb slack.InteractionCallback, _ *slack.BlockAction) error {
		m, err := counterModal(0, cb.Channel.ID)
		if err != nil {
			return err
		}
		if s.Modals().Open(ctx, modal.OpenRequest{TriggerID: cb.TriggerID, Modal: m}) == nil {
			return fmt.Errorf("failed to open counter modal")
		}
		return nil
	})

	s.OnAction(counterIncID, func(ctx context.Context, cb slack.InteractionCallback, _ *slack.BlockAction) error {
		view := cb.View
		step := counterStep(&view)
		resp := s.Modals().Update(ctx, &view, func(_ context.Context, v *slack.View, md modal.Metadata) error {
			count := metadataInt(md, counterCountKey) + step
			md[counterCountKey] = count
			v.Blocks = slack.Blocks{BlockSet: counterBlocks(count)}
			return nil
		})
		if resp == nil {
			return fmt.Errorf("failed to update counter modal")
		}
		return nil
	})

	s.OnViewSubmission(counterCallbackID, func(ctx context.Context, cb slack.InteractionCallback) (any, error) {
		md, err := modal.GetMetadata(&cb.View)
		if err != nil {
			return nil, err
		}
		channel, _ := md[counterChannelKey].(string)
		if channel == "" {
			return nil, nil
		}
		text := fmt.Sprintf("<@%s> counted to %d", cb.User.ID, metadataInt(md, counterCountKey))
		_, err = s.PostMessage(ctx, channel, slack.MsgOptionText(text, false))
		return nil, err
	})

	return bot.PluginInfo{
		Name:        "counter",
		Description: "Opens a modal with a counter button",
		Version:     "1.0.0",
	}, nil
}

func counterModal(count int, channel string) (modal.Modal, error) {
	metadata, err := modal.EncodeMetadata(modal.Metadata{
		counterCountKey:   count,
		counterChannelKey: channel,
	})
	if err != nil {
		return modal.Modal{}, err
	}
	return modal.Modal{
		Title:           "Counter",
		Submit:          "Done",
		Close:           "Cancel",
		CallbackID:      counterCallbackID,
		PrivateMetadata: metadata,
		Blocks:          counterBlocks(count),
	}, nil
}

func counterBlocks(count int) []slack.Block {
	return []slack.Block{
		blocks.Header(blocks.HeaderOptions{Text: fmt.Sprintf("Count: %d", count), BlockID: "counter_header"}),
		blocks.Input(blocks.InputOptions{
			BlockID:  counterStepBlock,
			Label:    "Step",
			Optional: true,
			Element: blocks.ExternalSelect(blocks.ExternalSelectOptions{
				ActionID:    counterStepID,
				Placeholder: "+1",
			}),
		}),
		blocks.Divider(),
		blocks.Actions(blocks.ActionsOptions{BlockID: "counter_actions", Elements: []slack.BlockElement{
			blocks.Button(blocks.ButtonOptions{Text: "Increment", ActionID: counterIncID}),
		}}),
	}
}

// counterStep reads the chosen step, 1 when none is selected
func counterStep(view *slack.View) int {
	value, ok := bot.SelectedOption(view, counterStepBlock, counterStepID)
	if !ok {
		return 1
	}
	step, err := strconv.Atoi(value)
	if err != nil || step < 1 {
		return 1
	}
	return step
}

// metadataInt reads a number written by EncodeMetadata; JSON numbers come back as float64
func metadataInt(md modal.Metadata, key string) int {
	switch v := md[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
