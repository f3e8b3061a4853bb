package slackbot

import (
	"github.com/slack-go/slack"
)

// SlackAPI abstracts the subset of slack.Client methods used by the bot and
// its services. This allows tests to substitute a mock implementation
// without a live Slack connection.
type SlackAPI interface {
	AuthTest() (response *slack.AuthTestResponse, err error)

	// Messaging
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error)
	UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)

	// Modals
	OpenView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	PushView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	UpdateView(view slack.ModalViewRequest, externalID, hash, viewID string) (*slack.ViewResponse, error)

	// Users
	GetUserProfile(params *slack.GetUserProfileParameters) (*slack.UserProfile, error)
}
