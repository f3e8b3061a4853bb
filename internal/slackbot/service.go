package slackbot

import (
	"context"

	"github.com/slack-go/slack"
)

// AckFunc acknowledges the in-flight Socket Mode request. An optional
// payload becomes the response body: for slash commands an ephemeral
// message map, for view submissions a response_action payload.
type AckFunc func(payload ...interface{})

// SlashCommandService handles one slash-command workflow. A command is
// routed to the first registered service whose name matches the command
// and whose text prefix matches the leading text of the invocation.
type SlashCommandService interface {
	// CommandName is the full slash command, e.g. "/umoh".
	CommandName() string
	// CommandText is the sub-command prefix matched against the command
	// text, e.g. "edit". Empty matches any text.
	CommandText() string
	// HandleCommand runs the workflow. params holds the whitespace-split
	// text after the matched prefix.
	HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack AckFunc) error
}

// ViewSubmissionHandler handles a modal submit for one callback ID. Use
// ack with a payload to push errors, update the view or keep it open.
type ViewSubmissionHandler func(ctx context.Context, callback slack.InteractionCallback, ack AckFunc) error

// ViewClosedHandler handles a modal close for one callback ID.
type ViewClosedHandler func(ctx context.Context, callback slack.InteractionCallback) error

// ActionHandler handles a block action whose action ID starts with the
// registered prefix.
type ActionHandler func(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error

// EphemeralResponse is an ack payload replying to a slash command with an
// ephemeral message visible only to the caller.
func EphemeralResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"response_type": "ephemeral",
		"text":          text,
	}
}
