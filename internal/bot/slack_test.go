package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSource struct {
	handlers []EventHandler
}

func (r *recordingSource) Subscribe(h EventHandler) {
	r.handlers = append(r.handlers, h)
}

func TestNew_SubscribesToSource(t *testing.T) {
	src := &recordingSource{}
	s := New(&MockSlackAPI{}, src, WithAppID("A1"))

	require.Len(t, src.handlers, 1)
	assert.Same(t, s, src.handlers[0])
	assert.Equal(t, "A1", s.AppID)
	assert.NotNil(t, s.Modals())
}

func TestNew_ReadsAppIDFromEnv(t *testing.T) {
	t.Setenv("SLACK_APP_ID", "A-env")
	s := New(&MockSlackAPI{}, nil)
	assert.Equal(t, "A-env", s.AppID)
}

func TestLoadIdentity(t *testing.T) {
	client := &MockSlackAPI{auth: &slack.AuthTestResponse{BotID: "B1", User: "bot", UserID: "U1", Team: "T"}}
	log, hook := test.NewNullLogger()
	s := New(client, nil, WithLogger(logrus.NewEntry(log)))

	assert.Equal(t, Identity{}, s.Identity())
	require.NoError(t, s.LoadIdentity(context.Background()))

	assert.Equal(t, Identity{ID: "B1", User: "bot", UserID: "U1"}, s.Identity())
	assert.Equal(t, "bot-identity-loaded", hook.LastEntry().Message)
}

func TestLoadIdentity_Error(t *testing.T) {
	s := New(&MockSlackAPI{authErr: errors.New("invalid_auth")}, nil)
	err := s.LoadIdentity(context.Background())
	assert.ErrorContains(t, err, "invalid_auth")
	assert.Equal(t, Identity{}, s.Identity())
}

func TestIsFromBot(t *testing.T) {
	s, _ := newTestSlack(&MockSlackAPI{})

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{name: "bot_id", ev: Event{BotID: "B-self"}, want: true},
		{name: "nested bot_id", ev: Event{Message: &NestedMessage{BotID: "B-self"}}, want: true},
		{name: "user_id", ev: Event{UserID: "U-self"}, want: true},
		{name: "user", ev: Event{User: "U-self"}, want: true},
		{name: "nested user", ev: Event{Message: &NestedMessage{User: "U-self"}}, want: true},
		{name: "other bot", ev: Event{BotID: "B-other"}, want: false},
		{name: "human", ev: Event{User: "U-human"}, want: false},
		{name: "no sender", ev: Event{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsFromBot(&tt.ev))
		})
	}
}

func TestIsFromBot_EmptyIdentityNeverMatches(t *testing.T) {
	s := New(&MockSlackAPI{}, nil)
	assert.False(t, s.IsFromBot(&Event{}))
	assert.False(t, s.IsFromBot(&Event{BotID: "B1", User: "U1"}))
}

func TestHandleMessage_DropsOwnMessages(t *testing.T) {
	s, _ := newTestSlack(&MockSlackAPI{})
	fired := 0
	s.DotCommand("ping", func(context.Context, *Event) error {
		fired++
		return nil
	})

	s.HandleMessage(context.Background(), &Event{Text: ".ping", BotID: "B-self"})
	s.HandleMessage(context.Background(), &Event{Text: ".ping", Message: &NestedMessage{User: "U-self"}})
	assert.Equal(t, 0, fired)

	s.HandleMessage(context.Background(), &Event{Text: ".ping", User: "U-human"})
	assert.Equal(t, 1, fired)
}
