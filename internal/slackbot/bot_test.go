package slackbot

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI implements SlackAPI for tests.
type mockSlackAPI struct {
	postedChannels []string
	postedOptions  [][]slack.MsgOption
}

func (m *mockSlackAPI) AuthTest() (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: "UBOT"}, nil
}

func (m *mockSlackAPI) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	m.postedChannels = append(m.postedChannels, channelID)
	m.postedOptions = append(m.postedOptions, options)
	return channelID, "1234.5678", nil
}

func (m *mockSlackAPI) PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error) {
	return "1234.5678", nil
}

func (m *mockSlackAPI) UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	return channelID, timestamp, "", nil
}

func (m *mockSlackAPI) OpenView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	return &slack.ViewResponse{}, nil
}

func (m *mockSlackAPI) PushView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	return &slack.ViewResponse{}, nil
}

func (m *mockSlackAPI) UpdateView(view slack.ModalViewRequest, externalID, hash, viewID string) (*slack.ViewResponse, error) {
	return &slack.ViewResponse{}, nil
}

func (m *mockSlackAPI) GetUserProfile(params *slack.GetUserProfileParameters) (*slack.UserProfile, error) {
	return &slack.UserProfile{Email: "user@example.com"}, nil
}

// recordingService records how it was invoked.
type recordingService struct {
	name    string
	text    string
	calls   int
	params  []string
	handler func(ack AckFunc)
}

func (s *recordingService) CommandName() string { return s.name }
func (s *recordingService) CommandText() string { return s.text }

func (s *recordingService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack AckFunc) error {
	s.calls++
	s.params = params
	if s.handler != nil {
		s.handler(ack)
	}
	return nil
}

func TestMatchServiceFirstMatchWins(t *testing.T) {
	bot := newBotForTest(&mockSlackAPI{})
	edit := &recordingService{name: "/umoh", text: "edit"}
	editCategory := &recordingService{name: "/umoh", text: "edit category"}
	bot.RegisterService(edit)
	bot.RegisterService(editCategory)

	svc, params := bot.matchService(slack.SlashCommand{Command: "/umoh", Text: "edit category gdc"})
	require.NotNil(t, svc)

	// Registration order decides between overlapping prefixes.
	assert.Same(t, edit, svc.(*recordingService))
	assert.Equal(t, []string{"category", "gdc"}, params)
}

func TestMatchServiceParams(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		text       string
		wantMatch  bool
		wantParams []string
	}{
		{"exact prefix", "edit", "edit gdc", true, []string{"gdc"}},
		{"prefix only", "edit", "edit", true, nil},
		{"extra whitespace", "edit", "edit   gdc   extra", true, []string{"gdc", "extra"}},
		{"empty prefix matches all", "", "anything at all", true, []string{"anything", "at", "all"}},
		{"prefix must be word-aligned", "edit", "editorial gdc", false, nil},
		{"no match", "host", "edit gdc", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := newBotForTest(&mockSlackAPI{})
			svc := &recordingService{name: "/umoh", text: tt.prefix}
			bot.RegisterService(svc)

			got, params := bot.matchService(slack.SlashCommand{Command: "/umoh", Text: tt.text})
			if !tt.wantMatch {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestMatchServiceWrongCommand(t *testing.T) {
	bot := newBotForTest(&mockSlackAPI{})
	bot.RegisterService(&recordingService{name: "/umoh", text: ""})

	svc, _ := bot.matchService(slack.SlashCommand{Command: "/dev_umoh", Text: "edit gdc"})
	assert.Nil(t, svc)
}

func TestHandleSlashCommandUnmatched(t *testing.T) {
	bot := newBotForTest(&mockSlackAPI{})
	bot.RegisterService(&recordingService{name: "/umoh", text: "edit"})

	var payloads []interface{}
	ack := func(payload ...interface{}) {
		payloads = append(payloads, payload...)
	}
	bot.handleSlashCommand(context.Background(), slack.SlashCommand{Command: "/umoh", Text: "frobnicate"}, ack)

	require.Len(t, payloads, 1)
	resp, ok := payloads[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ephemeral", resp["response_type"])
}

func TestAckOncePassesThrough(t *testing.T) {
	// A handler's ack payload must win over the dispatcher's fallback ack.
	bot := newBotForTest(&mockSlackAPI{})
	svc := &recordingService{
		name: "/umoh",
		text: "",
		handler: func(ack AckFunc) {
			ack(EphemeralResponse("handled"))
		},
	}
	bot.RegisterService(svc)

	var acks [][]interface{}
	var sawPayload bool
	ack := func(payload ...interface{}) {
		if sawPayload {
			return
		}
		if len(payload) > 0 {
			sawPayload = true
		}
		acks = append(acks, payload)
	}
	bot.handleSlashCommand(context.Background(), slack.SlashCommand{Command: "/umoh", Text: "x"}, ack)

	assert.Equal(t, 1, svc.calls)
	require.NotEmpty(t, acks)
	assert.Len(t, acks[0], 1)
}

func TestHandleInteractionViewSubmission(t *testing.T) {
	bot := newBotForTest(&mockSlackAPI{})
	var handled string
	bot.RegisterViewSubmission("space-edit", func(ctx context.Context, callback slack.InteractionCallback, ack AckFunc) error {
		handled = callback.View.ID
		return nil
	})

	callback := slack.InteractionCallback{Type: slack.InteractionTypeViewSubmission}
	callback.View.CallbackID = "space-edit"
	callback.View.ID = "V123"
	bot.handleInteraction(context.Background(), callback, func(payload ...interface{}) {})

	assert.Equal(t, "V123", handled)
}

func TestHandleInteractionActionPrefix(t *testing.T) {
	bot := newBotForTest(&mockSlackAPI{})
	var gotActionID string
	bot.RegisterAction("category-overflow-", func(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error {
		gotActionID = action.ActionID
		return nil
	})

	callback := slack.InteractionCallback{Type: slack.InteractionTypeBlockActions}
	callback.ActionCallback.BlockActions = []*slack.BlockAction{
		{ActionID: "category-overflow-abc123"},
		{ActionID: "unrelated-action"},
	}
	bot.handleInteraction(context.Background(), callback, func(payload ...interface{}) {})

	assert.Equal(t, "category-overflow-abc123", gotActionID)
}
