package bot

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/slack-go/slack"
)

// MockSlackAPI is a mock implementation of SlackAPI for testing
type MockSlackAPI struct {
	mu sync.Mutex

	auth    *slack.AuthTestResponse
	authErr error
	postErr error
	file    string
	fileErr error

	posts   []url.Values
	updates []url.Values
	opened  []slack.ModalViewRequest
	viewUps []slack.ModalViewRequest
}

// decodeOptions renders message options into the form values Slack would receive
func decodeOptions(channel string, options ...slack.MsgOption) url.Values {
	_, values, _ := slack.UnsafeApplyMsgOptions("xoxb-test", channel, "https://slack.com/api/", options...)
	return values
}

func (m *MockSlackAPI) AuthTestContext(context.Context) (*slack.AuthTestResponse, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.auth, nil
}

func (m *MockSlackAPI) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, decodeOptions(channelID, options...))
	if m.postErr != nil {
		return "", "", m.postErr
	}
	return channelID, "1700000000.000100", nil
}

func (m *MockSlackAPI) UpdateMessageContext(_ context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := decodeOptions(channelID, options...)
	m.updates = append(m.updates, values)
	if m.postErr != nil {
		return "", "", "", m.postErr
	}
	return channelID, timestamp, values.Get("text"), nil
}

func (m *MockSlackAPI) GetFileContext(_ context.Context, _ string, writer io.Writer) error {
	if m.fileErr != nil {
		return m.fileErr
	}
	_, err := io.WriteString(writer, m.file)
	return err
}

func (m *MockSlackAPI) OpenViewContext(_ context.Context, _ string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, view)
	return &slack.ViewResponse{View: slack.View{ID: "V-open"}}, nil
}

func (m *MockSlackAPI) PushViewContext(context.Context, string, slack.ModalViewRequest) (*slack.ViewResponse, error) {
	return &slack.ViewResponse{View: slack.View{ID: "V-push"}}, nil
}

func (m *MockSlackAPI) UpdateViewContext(_ context.Context, view slack.ModalViewRequest, _, _, viewID string) (*slack.ViewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewUps = append(m.viewUps, view)
	return &slack.ViewResponse{View: slack.View{ID: viewID}}, nil
}

func (m *MockSlackAPI) postCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

func (m *MockSlackAPI) lastPost() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.posts) == 0 {
		return nil
	}
	return m.posts[len(m.posts)-1]
}

var errChannelNotFound = slack.SlackErrorResponse{Err: "channel_not_found"}

var errNetwork = errors.New("dial tcp: connection refused")

// newTestSlack builds a Slack instance with a silent logger and a fixed identity
func newTestSlack(client *MockSlackAPI, opts ...Option) (*Slack, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	opts = append([]Option{
		WithLogger(logrus.NewEntry(log)),
		WithAppID("A-test"),
		WithIdentity(Identity{ID: "B-self", User: "slackdot", UserID: "U-self"}),
	}, opts...)
	return New(client, nil, opts...), hook
}
