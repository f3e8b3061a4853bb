package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
)

// DailyReportService triggers the backend's daily report email for a
// space. It answers both the umbrella "daily report" subcommand and the
// standalone daily_report command.
type DailyReportService struct {
	cfg   *config.Config
	api   ReportClient
	slack slackbot.SlackAPI

	commandName string
	commandText string
	now         func() time.Time
}

// NewDailyReportService wires the daily report trigger.
func NewDailyReportService(cfg *config.Config, api ReportClient, slackAPI slackbot.SlackAPI) *DailyReportService {
	return &DailyReportService{
		cfg:         cfg,
		api:         api,
		slack:       slackAPI,
		commandName: cfg.Command("umoh"),
		commandText: "daily report",
		now:         time.Now,
	}
}

func (s *DailyReportService) CommandName() string { return s.commandName }
func (s *DailyReportService) CommandText() string { return s.commandText }

// Register binds the service under both command spellings.
func (s *DailyReportService) Register(bot *slackbot.Bot) {
	bot.RegisterService(s)

	standalone := *s
	standalone.commandName = s.cfg.Command("daily_report")
	standalone.commandText = ""
	bot.RegisterService(&standalone)
}

// HandleCommand fires the report and confirms in the channel.
func (s *DailyReportService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack slackbot.AckFunc) error {
	if len(params) < 2 {
		ack(slackbot.EphemeralResponse(
			"Please enter Space's handle and your email address. ex) `/daily_report handle example@splab.dev`"))
		return nil
	}
	handle := handleParam(params)
	email := params[1]

	if err := s.api.SendDailyReport(ctx, handle, email); err != nil {
		log.Printf("service: daily report: %s to %s: %v", handle, email, err)
		ack(slackbot.EphemeralResponse("Failed to send daily report. Please check the space handle."))
		return nil
	}
	ack(map[string]interface{}{"response_type": "in_channel"})

	text := fmt.Sprintf("Daily Report sent to <@%s>'s email <%s>! %s",
		cmd.UserID, email, s.now().Format("1/2/2006, 3:04:05 PM"))
	if _, _, err := s.slack.PostMessage(cmd.ChannelID, slack.MsgOptionText(text, false)); err != nil {
		log.Printf("service: daily report: post confirmation: %v", err)
	}
	return nil
}
