package bot

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// ActionHandler handles one block action from a message or view
type ActionHandler func(ctx context.Context, cb slack.InteractionCallback, action *slack.BlockAction) error

// ViewSubmissionHandler handles a view_submission. A non-nil result, such
// as a modal.ResponseAction, is returned to Slack as the response body.
type ViewSubmissionHandler func(ctx context.Context, cb slack.InteractionCallback) (any, error)

// OptionsHandler answers a block_suggestion for an external select
type OptionsHandler func(ctx context.Context, cb slack.InteractionCallback) ([]*slack.OptionBlockObject, error)

// OptionsResponse is the body Slack expects for a block_suggestion
type OptionsResponse struct {
	Options []*slack.OptionBlockObject `json:"options"`
}

// OnAction routes block actions with actionID to handler
func (s *Slack) OnAction(actionID string, handler ActionHandler) {
	s.interactionsMu.Lock()
	defer s.interactionsMu.Unlock()
	s.actions[actionID] = handler
}

// OnViewSubmission routes submissions of views with callbackID to handler
func (s *Slack) OnViewSubmission(callbackID string, handler ViewSubmissionHandler) {
	s.interactionsMu.Lock()
	defer s.interactionsMu.Unlock()
	s.submissions[callbackID] = handler
}

// OnOptions overrides the option registry for external selects with actionID
func (s *Slack) OnOptions(actionID string, handler OptionsHandler) {
	s.interactionsMu.Lock()
	defer s.interactionsMu.Unlock()
	s.suggestions[actionID] = handler
}

// HandleInteraction implements EventHandler
func (s *Slack) HandleInteraction(ctx context.Context, cb slack.InteractionCallback) (any, error) {
	log := s.log.WithFields(logrus.Fields{
		"type": cb.Type,
		"user": cb.User.ID,
	})

	switch cb.Type {
	case slack.InteractionTypeBlockActions:
		return nil, s.handleBlockActions(ctx, cb, log)
	case slack.InteractionTypeViewSubmission:
		return s.handleViewSubmission(ctx, cb, log)
	case slack.InteractionTypeBlockSuggestion:
		return s.handleBlockSuggestion(ctx, cb, log)
	default:
		log.Debug("unhandled-interaction-type")
		return nil, nil
	}
}

func (s *Slack) handleBlockActions(ctx context.Context, cb slack.InteractionCallback, log *logrus.Entry) error {
	for _, action := range cb.ActionCallback.BlockActions {
		if action == nil {
			continue
		}
		s.interactionsMu.RLock()
		handler, ok := s.actions[action.ActionID]
		s.interactionsMu.RUnlock()
		if !ok {
			log.WithField("action_id", action.ActionID).Debug("no-action-handler")
			continue
		}
		if err := handler(ctx, cb, action); err != nil {
			log.WithField("action_id", action.ActionID).WithError(err).Error("action-handler-failed")
			return fmt.Errorf("action %s: %w", action.ActionID, err)
		}
	}
	return nil
}

func (s *Slack) handleViewSubmission(ctx context.Context, cb slack.InteractionCallback, log *logrus.Entry) (any, error) {
	s.interactionsMu.RLock()
	handler, ok := s.submissions[cb.View.CallbackID]
	s.interactionsMu.RUnlock()
	if !ok {
		log.WithField("callback_id", cb.View.CallbackID).Debug("no-view-submission-handler")
		return nil, nil
	}

	result, err := handler(ctx, cb)
	if err != nil {
		log.WithField("callback_id", cb.View.CallbackID).WithError(err).Error("view-submission-handler-failed")
		return nil, fmt.Errorf("view submission %s: %w", cb.View.CallbackID, err)
	}
	return result, nil
}

// handleBlockSuggestion answers from a registered OptionsHandler, falling
// back to the option registry entry stored under the action id
func (s *Slack) handleBlockSuggestion(ctx context.Context, cb slack.InteractionCallback, log *logrus.Entry) (any, error) {
	log = log.WithField("action_id", cb.ActionID)

	s.interactionsMu.RLock()
	handler, ok := s.suggestions[cb.ActionID]
	s.interactionsMu.RUnlock()

	if ok {
		options, err := handler(ctx, cb)
		if err != nil {
			log.WithError(err).Error("options-handler-failed")
			return nil, fmt.Errorf("options %s: %w", cb.ActionID, err)
		}
		return &OptionsResponse{Options: filterOptions(options, "")}, nil
	}

	options, ok := s.GetOptions(cb.ActionID)
	if !ok {
		log.Debug("no-options-stored")
		return &OptionsResponse{Options: []*slack.OptionBlockObject{}}, nil
	}
	return &OptionsResponse{Options: filterOptions(options, cb.Value)}, nil
}
