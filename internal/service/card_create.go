package service

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

// CardCreateMetadata is the modal session state of the bulk card-creation
// workflow. The loaded rows ride along so submit never re-reads the sheet.
type CardCreateMetadata struct {
	SpaceID     string                               `json:"spaceId"`
	SpaceHandle string                               `json:"spaceHandle"`
	Channel     string                               `json:"channel"`
	UserID      string                               `json:"userId"`
	Cards       []umoh.SignUpAndCreateProfileRequest `json:"createCardRequestDtos"`
}

// CardCreateService bulk-creates profile cards from a Google spreadsheet.
type CardCreateService struct {
	cfg   *config.Config
	api   ProfileCreator
	slack slackbot.SlackAPI
	store MetadataStore
	rows  RowSource
}

// NewCardCreateService wires the bulk card-creation workflow.
func NewCardCreateService(cfg *config.Config, api ProfileCreator, slackAPI slackbot.SlackAPI, store MetadataStore, rows RowSource) *CardCreateService {
	return &CardCreateService{cfg: cfg, api: api, slack: slackAPI, store: store, rows: rows}
}

func (s *CardCreateService) CommandName() string { return s.cfg.Command("umoh") }
func (s *CardCreateService) CommandText() string { return "card create" }

func (s *CardCreateService) Register(bot *slackbot.Bot) {
	bot.RegisterService(s)
	bot.RegisterViewSubmission(cardCreateCallbackID, s.HandleSubmit)
	bot.RegisterViewClosed(cardCreateCallbackID, s.HandleClosed)
	bot.RegisterAction(actionLoadSpreadsheet, s.HandleLoad)
}

// HandleCommand opens the empty card-creation modal for a space.
func (s *CardCreateService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack slackbot.AckFunc) error {
	handle := handleParam(params)
	if handle == "" {
		ack(slackbot.EphemeralResponse(fmt.Sprintf(
			"Please enter the space handle. ex) `%s %s handle`", s.CommandName(), s.CommandText())))
		return nil
	}

	space, err := s.api.GetSpace(ctx, handle)
	if err != nil {
		log.Printf("service: card create: get space %s: %v", handle, err)
		ack(slackbot.EphemeralResponse("Failed to fetch space. Please check the space handle."))
		return nil
	}
	ack(map[string]interface{}{"response_type": "in_channel"})

	viewRes, err := s.slack.OpenView(cmd.TriggerID, buildCardCreateView("", "", nil))
	if err != nil {
		return fmt.Errorf("open card create view: %w", err)
	}
	return s.store.Save(ctx, viewRes.View.ID, CardCreateMetadata{
		SpaceID:     space.ID,
		SpaceHandle: space.Handle,
		Channel:     cmd.ChannelID,
		UserID:      cmd.UserID,
	})
}

// HandleLoad reacts to the Load Data button: it reads the sheet, maps the
// rows and re-renders the modal with the previews or the load error.
func (s *CardCreateService) HandleLoad(ctx context.Context, callback slack.InteractionCallback, _ *slack.BlockAction) error {
	viewID := callback.View.ID
	var metadata CardCreateMetadata
	if err := s.store.Get(ctx, viewID, &metadata); err != nil {
		return err
	}

	spreadsheetURL := trimmedStateValue(callback.View.State, blockInputSpreadsheet)

	var cards []umoh.SignUpAndCreateProfileRequest
	loadErr := func() error {
		rows, err := s.rows.FetchRows(ctx, spreadsheetURL)
		if err != nil {
			return err
		}
		cards, err = cardsFromRows(rows, metadata.SpaceID)
		return err
	}()

	metadata.Cards = cards
	if err := s.store.Save(ctx, viewID, metadata); err != nil {
		return err
	}

	if loadErr != nil {
		log.Printf("service: card create: load %s: %v", spreadsheetURL, loadErr)
		_, err := s.slack.UpdateView(buildCardCreateView(loadErr.Error(), spreadsheetURL, nil), "", "", viewID)
		return err
	}
	log.Printf("service: card create: loaded %d cards", len(cards))
	_, err := s.slack.UpdateView(buildCardCreateView("", spreadsheetURL, cards), "", "", viewID)
	return err
}

// HandleSubmit creates every loaded card, reporting each result in a
// thread and the final tally as a broadcast reply.
func (s *CardCreateService) HandleSubmit(ctx context.Context, callback slack.InteractionCallback, ack slackbot.AckFunc) error {
	var metadata CardCreateMetadata
	if err := s.store.Get(ctx, callback.View.ID, &metadata); err != nil {
		return err
	}

	if len(metadata.Cards) == 0 {
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			blockInputSpreadsheet: "Load Data first",
		}))
		return nil
	}
	ack(slack.NewClearViewSubmissionResponse())

	spreadsheetURL := trimmedStateValue(callback.View.State, blockInputSpreadsheet)
	s.createCards(ctx, metadata, spreadsheetURL)

	return s.store.Delete(ctx, callback.View.ID)
}

// HandleClosed drops the session record when the modal is dismissed.
func (s *CardCreateService) HandleClosed(ctx context.Context, callback slack.InteractionCallback) error {
	log.Printf("service: %s modal closed", callback.View.CallbackID)
	return s.store.Delete(ctx, callback.View.ID)
}

func (s *CardCreateService) createCards(ctx context.Context, metadata CardCreateMetadata, spreadsheetURL string) {
	userDisplayName := displayName(s.slack, metadata.UserID)
	spaceURL := s.cfg.SpaceURL(metadata.SpaceHandle)

	_, ts, err := s.slack.PostMessage(metadata.Channel,
		slack.MsgOptionText(fmt.Sprintf("%s started creating cards", userDisplayName), false),
		slack.MsgOptionBlocks(
			blockkit.Section(fmt.Sprintf("*%s* started creating cards >", userDisplayName)),
			blockkit.Fields(
				fmt.Sprintf("*Space*\n<%s|@%s>", spaceURL, metadata.SpaceHandle),
				fmt.Sprintf("*Cards*\n%d", len(metadata.Cards)),
				fmt.Sprintf("*Spreadsheet*\n%s", spreadsheetURL),
			),
		))
	if err != nil {
		log.Printf("service: card create: post start message: %v", err)
		return
	}

	successCount, failCount := 0, 0
	for i, card := range metadata.Cards {
		if err := s.api.SignUpAndCreateProfile(ctx, card); err != nil {
			log.Printf("service: card create: row %d (%s): %v", i+1, card.SignUpInfo.Email, err)
			failCount++
			s.postThreadReply(metadata.Channel, ts,
				blockkit.Section(fmt.Sprintf(":x: *%d. %s* failed", i+1, card.SignUpInfo.Email)),
				blockkit.Context(err.Error()))
			continue
		}
		successCount++
		s.postThreadReply(metadata.Channel, ts,
			blockkit.Section(fmt.Sprintf(":white_check_mark: *%d. %s* success", i+1, card.SignUpInfo.Email)))
	}

	_, _, err = s.slack.PostMessage(metadata.Channel,
		slack.MsgOptionTS(ts),
		slack.MsgOptionBroadcast(),
		slack.MsgOptionBlocks(blockkit.Section(fmt.Sprintf(
			"Finished creating cards.\n*Success: %d*\n*Fail: %d*", successCount, failCount))))
	if err != nil {
		log.Printf("service: card create: post tally: %v", err)
	}
}

func (s *CardCreateService) postThreadReply(channel, ts string, blocks ...slack.Block) {
	if _, _, err := s.slack.PostMessage(channel, slack.MsgOptionTS(ts), slack.MsgOptionBlocks(blocks...)); err != nil {
		log.Printf("service: card create: post thread reply: %v", err)
	}
}
