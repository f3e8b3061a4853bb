package service

import (
	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/slackbot"
)

// threadBlockLimit is Slack's per-message block cap.
const threadBlockLimit = 50

// postBlocksInThread posts a summary message to the channel and the given
// blocks as thread replies, split into chunks under Slack's block limit.
func postBlocksInThread(api slackbot.SlackAPI, channel, messageText string, messageBlocks, threadBlocks []slack.Block) error {
	opts := []slack.MsgOption{
		slack.MsgOptionText(messageText, false),
	}
	if len(messageBlocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(messageBlocks...))
	}
	_, ts, err := api.PostMessage(channel, opts...)
	if err != nil {
		return err
	}

	for start := 0; start < len(threadBlocks); start += threadBlockLimit {
		end := start + threadBlockLimit
		if end > len(threadBlocks) {
			end = len(threadBlocks)
		}
		_, _, err := api.PostMessage(channel,
			slack.MsgOptionTS(ts),
			slack.MsgOptionBlocks(threadBlocks[start:end]...))
		if err != nil {
			return err
		}
	}
	return nil
}
