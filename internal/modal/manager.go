// Package modal opens, pushes and updates Slack modals.
//
// A modal's private_metadata is the only state Slack keeps between the
// interactions of one view, so the manager treats it as a JSON object that
// callers read with GetMetadata and change with UpdateMetadata.
//
// Open, the API form of Push and Update are best effort: a failed call is
// logged and reported as a nil result, never as an error.
package modal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keepmind9/slackdot/internal/blocks"
	"github.com/keepmind9/slackdot/internal/logger"
	"github.com/keepmind9/slackdot/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// Client is the subset of *slack.Client the manager calls
type Client interface {
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	PushViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	UpdateViewContext(ctx context.Context, view slack.ModalViewRequest, externalID, hash, viewID string) (*slack.ViewResponse, error)
}

// Modal is a simplified view description. Title, Submit and Close are plain
// strings; an empty string leaves the field out of the view.
type Modal struct {
	Title           string
	Submit          string
	Close           string
	Blocks          []slack.Block
	PrivateMetadata string
	CallbackID      string
	ExternalID      string
	ClearOnClose    bool
	NotifyOnClose   bool
}

// Metadata is the decoded private_metadata of a view
type Metadata map[string]any

// MetadataDecodeError reports private_metadata that is not a JSON object
type MetadataDecodeError struct {
	Raw string
	Err error
}

func (e *MetadataDecodeError) Error() string {
	return fmt.Sprintf("failed to decode private_metadata: %v", e.Err)
}

func (e *MetadataDecodeError) Unwrap() error {
	return e.Err
}

// Manager opens, pushes and updates modals
type Manager struct {
	client Client
	log    *logrus.Entry
}

// NewManager creates a modal manager. A nil log uses the global logger.
func NewManager(client Client, log *logrus.Entry) *Manager {
	if log == nil {
		log = logger.Component("modal")
	}
	return &Manager{client: client, log: log}
}

// ToView lifts a Modal into the full view schema
func ToView(m Modal) slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:            slack.ViewType(constants.ModalViewType),
		Title:           optionalText(m.Title),
		Submit:          optionalText(m.Submit),
		Close:           optionalText(m.Close),
		Blocks:          slack.Blocks{BlockSet: m.Blocks},
		PrivateMetadata: m.PrivateMetadata,
		CallbackID:      m.CallbackID,
		ExternalID:      m.ExternalID,
		ClearOnClose:    m.ClearOnClose,
		NotifyOnClose:   m.NotifyOnClose,
	}
}

func optionalText(text string) *slack.TextBlockObject {
	if text == "" {
		return nil
	}
	return blocks.PlainText(text)
}

// GetMetadata decodes view.PrivateMetadata. An empty string yields an empty
// Metadata; anything that is not a JSON object fails with *MetadataDecodeError.
func GetMetadata(view *slack.View) (Metadata, error) {
	if view == nil || view.PrivateMetadata == "" {
		return Metadata{}, nil
	}
	var md Metadata
	if err := json.Unmarshal([]byte(view.PrivateMetadata), &md); err != nil {
		return nil, &MetadataDecodeError{Raw: view.PrivateMetadata, Err: err}
	}
	if md == nil {
		// "null" decodes to a nil map
		md = Metadata{}
	}
	return md, nil
}

// UpdateMetadata decodes the view's metadata, lets mutate change it in place
// and writes the result back onto view.PrivateMetadata. A mutate error leaves
// the view untouched.
func UpdateMetadata(ctx context.Context, view *slack.View, mutate func(ctx context.Context, md Metadata) error) error {
	md, err := GetMetadata(view)
	if err != nil {
		return err
	}
	if err := mutate(ctx, md); err != nil {
		return err
	}
	encoded, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to encode private_metadata: %w", err)
	}
	view.PrivateMetadata = string(encoded)
	return nil
}

// EncodeMetadata renders md for Modal.PrivateMetadata
func EncodeMetadata(md Metadata) (string, error) {
	if md == nil {
		md = Metadata{}
	}
	encoded, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("failed to encode private_metadata: %w", err)
	}
	return string(encoded), nil
}

// OpenRequest is the input of Open
type OpenRequest struct {
	TriggerID string
	Modal     Modal
}

// Open opens a new modal. It returns nil if Slack rejected the call.
func (m *Manager) Open(ctx context.Context, req OpenRequest) *slack.ViewResponse {
	resp, err := m.client.OpenViewContext(ctx, req.TriggerID, ToView(req.Modal))
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"callback_id": req.Modal.CallbackID,
			"error":       err,
		}).Error("failed-to-open-modal")
		return nil
	}
	m.log.WithField("callback_id", req.Modal.CallbackID).Debug("modal-opened")
	return resp
}

// PushMethod selects how a modal is pushed onto the view stack
type PushMethod string

const (
	// PushResponseAction answers the pending view_submission with a push payload
	PushResponseAction PushMethod = "responseAction"
	// PushAPI calls views.push
	PushAPI PushMethod = "api"
)

// PushRequest is either ResponseActionPush or APIPush
type PushRequest interface {
	Method() PushMethod
	modal() Modal
}

// ResponseActionPush builds a response_action payload; no API call is made
type ResponseActionPush struct {
	Modal Modal
}

// Method implements PushRequest
func (ResponseActionPush) Method() PushMethod { return PushResponseAction }

func (r ResponseActionPush) modal() Modal { return r.Modal }

// APIPush pushes through views.push with the trigger of the current interaction
type APIPush struct {
	TriggerID string
	Modal     Modal
}

// Method implements PushRequest
func (APIPush) Method() PushMethod { return PushAPI }

func (r APIPush) modal() Modal { return r.Modal }

// ResponseAction is the body returned to Slack's interaction request
type ResponseAction struct {
	ResponseAction string                  `json:"response_action"`
	View           *slack.ModalViewRequest `json:"view"`
}

// PushResult holds the outcome of Push; exactly one field is set
type PushResult struct {
	Payload *ResponseAction
	View    *slack.ViewResponse
}

// Push pushes a modal onto the stack. It returns nil if the API form failed.
func (m *Manager) Push(ctx context.Context, req PushRequest) *PushResult {
	view := ToView(req.modal())

	switch r := req.(type) {
	case ResponseActionPush:
		return &PushResult{Payload: &ResponseAction{
			ResponseAction: constants.ResponseActionPush,
			View:           &view,
		}}
	case APIPush:
		resp, err := m.client.PushViewContext(ctx, r.TriggerID, view)
		if err != nil {
			m.log.WithFields(logrus.Fields{
				"callback_id": r.Modal.CallbackID,
				"error":       err,
			}).Error("failed-to-push-modal")
			return nil
		}
		return &PushResult{View: resp}
	}
	return nil
}

// UpdateAction changes a live view and its decoded metadata in place
type UpdateAction func(ctx context.Context, view *slack.View, md Metadata) error

// Update runs action against view and its metadata, then sends the
// updatable fields to views.update. It returns nil if any step failed.
func (m *Manager) Update(ctx context.Context, view *slack.View, action UpdateAction) *slack.ViewResponse {
	fields := logrus.Fields{"view_id": view.ID, "callback_id": view.CallbackID}

	err := UpdateMetadata(ctx, view, func(ctx context.Context, md Metadata) error {
		return action(ctx, view, md)
	})
	if err != nil {
		m.log.WithFields(fields).WithError(err).Error("failed-to-update-modal")
		return nil
	}

	resp, err := m.client.UpdateViewContext(ctx, updatableView(view), "", "", view.ID)
	if err != nil {
		m.log.WithFields(fields).WithError(err).Error("failed-to-update-modal")
		return nil
	}
	m.log.WithFields(fields).Debug("modal-updated")
	return resp
}

// updatableView copies the fields views.update accepts
func updatableView(view *slack.View) slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:            view.Type,
		Blocks:          view.Blocks,
		CallbackID:      view.CallbackID,
		Close:           view.Close,
		Submit:          view.Submit,
		Title:           view.Title,
		ClearOnClose:    view.ClearOnClose,
		NotifyOnClose:   view.NotifyOnClose,
		PrivateMetadata: view.PrivateMetadata,
	}
}
