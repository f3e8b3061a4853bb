package service

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

const (
	notiReactionCallbackID = "space-noti-reaction"
	notiScrapCallbackID    = "space-noti-scrap"

	blockDdaySelect  = "dday-select"
	actionDdaySelect = "dday-select-action"

	fallbackProfileImageURL = "https://storage.umoh.io/official/umoh_icon_gray.png"
	warningIconURL          = "https://api.slack.com/img/blocks/bkb_template_images/notificationsWarningIcon.png"
)

// NotiMetadata is the modal session state of the engagement workflows.
type NotiMetadata struct {
	SpaceHandle string `json:"spaceHandle"`
	Channel     string `json:"channel"`
	UserID      string `json:"userId"`
}

// NotiReactionService sends the "popular by reaction" engagement emails
// after a confirmation modal.
type NotiReactionService struct {
	cfg   *config.Config
	api   EngagingClient
	slack slackbot.SlackAPI
	store MetadataStore
}

// NewNotiReactionService wires the reaction engagement workflow.
func NewNotiReactionService(cfg *config.Config, api EngagingClient, slackAPI slackbot.SlackAPI, store MetadataStore) *NotiReactionService {
	return &NotiReactionService{cfg: cfg, api: api, slack: slackAPI, store: store}
}

func (s *NotiReactionService) CommandName() string { return s.cfg.Command("umoh") }
func (s *NotiReactionService) CommandText() string { return "space noti reaction" }

func (s *NotiReactionService) Register(bot *slackbot.Bot) {
	bot.RegisterService(s)
	bot.RegisterViewSubmission(notiReactionCallbackID, s.HandleSubmit)
	bot.RegisterViewClosed(notiReactionCallbackID, s.handleClosed)
}

// HandleCommand previews the popular-by-reaction profile in a modal.
func (s *NotiReactionService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack slackbot.AckFunc) error {
	handle := handleParam(params)
	if handle == "" {
		ack(slackbot.EphemeralResponse(fmt.Sprintf(
			"Please enter the space handle. ex) `%s %s handle`", s.CommandName(), s.CommandText())))
		return nil
	}

	event, err := s.api.GetEngagingByReaction(ctx, handle)
	if err != nil {
		log.Printf("service: noti reaction: get engaging %s: %v", handle, err)
		ack(slackbot.EphemeralResponse("Failed to get space engaging data by reaction. Please check the space handle."))
		return nil
	}
	ack(map[string]interface{}{"response_type": "in_channel"})

	view := slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    notiReactionCallbackID,
		NotifyOnClose: true,
		Title:         blockkit.PlainText("Send Engaging by 👍"),
		Submit:        blockkit.PlainText("Submit"),
		Close:         blockkit.PlainText("Cancel"),
	}
	view.Blocks.BlockSet = buildEngagingPreviewBlocks(s.cfg.SpaceURL(handle), handle, event)

	viewRes, err := s.slack.OpenView(cmd.TriggerID, view)
	if err != nil {
		return fmt.Errorf("open noti reaction view: %w", err)
	}
	return s.store.Save(ctx, viewRes.View.ID, NotiMetadata{
		SpaceHandle: handle,
		Channel:     cmd.ChannelID,
		UserID:      cmd.UserID,
	})
}

// HandleSubmit triggers the email/SMS send and confirms in the channel.
func (s *NotiReactionService) HandleSubmit(ctx context.Context, callback slack.InteractionCallback, ack slackbot.AckFunc) error {
	var metadata NotiMetadata
	if err := s.store.Get(ctx, callback.View.ID, &metadata); err != nil {
		return err
	}

	if err := s.api.SendEngagingByReaction(ctx, metadata.SpaceHandle); err != nil {
		log.Printf("service: noti reaction: send %s: %v", metadata.SpaceHandle, err)
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			"Failed to send engaging Email, SMS": "Data not enough.",
		}))
		return nil
	}
	ack(slack.NewClearViewSubmissionResponse())

	postEngagingConfirmation(s.slack, metadata, "reaction", s.cfg.SpaceURL(metadata.SpaceHandle))

	return s.store.Delete(ctx, callback.View.ID)
}

func (s *NotiReactionService) handleClosed(ctx context.Context, callback slack.InteractionCallback) error {
	log.Printf("service: %s modal closed", callback.View.CallbackID)
	return s.store.Delete(ctx, callback.View.ID)
}

// NotiScrapService sends the "popular by scrap" engagement emails after a
// confirmation modal with a D-day offset select.
type NotiScrapService struct {
	cfg   *config.Config
	api   EngagingClient
	slack slackbot.SlackAPI
	store MetadataStore
}

// NewNotiScrapService wires the scrap engagement workflow.
func NewNotiScrapService(cfg *config.Config, api EngagingClient, slackAPI slackbot.SlackAPI, store MetadataStore) *NotiScrapService {
	return &NotiScrapService{cfg: cfg, api: api, slack: slackAPI, store: store}
}

func (s *NotiScrapService) CommandName() string { return s.cfg.Command("umoh") }
func (s *NotiScrapService) CommandText() string { return "space noti scrap" }

func (s *NotiScrapService) Register(bot *slackbot.Bot) {
	bot.RegisterService(s)
	bot.RegisterViewSubmission(notiScrapCallbackID, s.HandleSubmit)
	bot.RegisterViewClosed(notiScrapCallbackID, s.handleClosed)
}

// HandleCommand previews the popular-by-scrap profile in a modal with a
// "Day minus" select deciding how far back scraps are counted.
func (s *NotiScrapService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack slackbot.AckFunc) error {
	handle := handleParam(params)
	if handle == "" {
		ack(slackbot.EphemeralResponse(fmt.Sprintf(
			"Please enter the space handle. ex) `%s %s handle`", s.CommandName(), s.CommandText())))
		return nil
	}

	event, err := s.api.GetEngagingByScrap(ctx, handle, 1)
	if err != nil {
		log.Printf("service: noti scrap: get engaging %s: %v", handle, err)
		ack(slackbot.EphemeralResponse("Failed to get space engaging data by scrap. Please check the space handle."))
		return nil
	}
	ack(map[string]interface{}{"response_type": "in_channel"})

	view := slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    notiScrapCallbackID,
		NotifyOnClose: true,
		Title:         blockkit.PlainText("Send Engaging by scrap 🔖"),
		Submit:        blockkit.PlainText("Submit"),
		Close:         blockkit.PlainText("Cancel"),
	}
	view.Blocks.BlockSet = append(
		buildEngagingPreviewBlocks(s.cfg.SpaceURL(handle), handle, event),
		blockkit.Select(blockkit.SelectParams{
			BlockID:      blockDdaySelect,
			ActionID:     actionDdaySelect,
			Label:        "Day minus",
			Placeholder:  "Select an item",
			Options:      ddayOptions(),
			InitialValue: "1",
		}),
	)

	viewRes, err := s.slack.OpenView(cmd.TriggerID, view)
	if err != nil {
		return fmt.Errorf("open noti scrap view: %w", err)
	}
	return s.store.Save(ctx, viewRes.View.ID, NotiMetadata{
		SpaceHandle: handle,
		Channel:     cmd.ChannelID,
		UserID:      cmd.UserID,
	})
}

// HandleSubmit triggers the email/SMS send for the selected day offset.
func (s *NotiScrapService) HandleSubmit(ctx context.Context, callback slack.InteractionCallback, ack slackbot.AckFunc) error {
	var metadata NotiMetadata
	if err := s.store.Get(ctx, callback.View.ID, &metadata); err != nil {
		return err
	}

	day := ddayFromState(callback.View.State)
	if err := s.api.SendEngagingByScrap(ctx, metadata.SpaceHandle, day); err != nil {
		log.Printf("service: noti scrap: send %s day %d: %v", metadata.SpaceHandle, day, err)
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			"Failed to send engaging Email, SMS": "Data not enough.",
		}))
		return nil
	}
	ack(slack.NewClearViewSubmissionResponse())

	postEngagingConfirmation(s.slack, metadata, "scrap", s.cfg.SpaceURL(metadata.SpaceHandle))

	return s.store.Delete(ctx, callback.View.ID)
}

func (s *NotiScrapService) handleClosed(ctx context.Context, callback slack.InteractionCallback) error {
	log.Printf("service: %s modal closed", callback.View.CallbackID)
	return s.store.Delete(ctx, callback.View.ID)
}

// ddayOptions lists offsets 0..10. The zero offset keeps the historical
// value "day" the backend expects.
func ddayOptions() []blockkit.Option {
	options := []blockkit.Option{{Value: "day", Text: "0"}}
	for i := 1; i <= 10; i++ {
		v := strconv.Itoa(i)
		options = append(options, blockkit.Option{Value: v, Text: v})
	}
	return options
}

// ddayFromState reads the selected day offset, defaulting to 1.
func ddayFromState(state *slack.ViewState) int {
	switch v := trimmedStateValue(state, blockDdaySelect); v {
	case "day":
		return 0
	default:
		day, err := strconv.Atoi(v)
		if err != nil {
			return 1
		}
		return day
	}
}

// buildEngagingPreviewBlocks renders the popular profile and the audience
// size shared by both engagement modals.
func buildEngagingPreviewBlocks(spaceURL, handle string, event *umoh.EngagingEvent) []slack.Block {
	imageURL := event.PopularProfile.ImageURL
	if imageURL == "" {
		imageURL = fallbackProfileImageURL
	}
	profile := slack.NewSectionBlock(
		blockkit.Markdown(fmt.Sprintf("*Title:* %s\n*Category:* %s\n*Introduce:* %s\n",
			event.PopularProfile.Title, event.PopularProfile.Category, event.PopularProfile.Introduce)),
		nil,
		slack.NewAccessory(slack.NewImageBlockElement(imageURL, "profile thumbnail")),
	)
	audience := slack.NewContextBlock("",
		slack.NewImageBlockElement(warningIconURL, "notifications warning icon"),
		blockkit.Markdown(fmt.Sprintf(" *Above profile will send to %d people.*", len(event.Profiles))),
	)
	return []slack.Block{
		blockkit.Section(fmt.Sprintf("Engaging email, sms will send to guests from: *<%s|@%s>*", spaceURL, handle)),
		blockkit.Divider(),
		profile,
		blockkit.Divider(),
		audience,
	}
}

func postEngagingConfirmation(api slackbot.SlackAPI, metadata NotiMetadata, kind, spaceURL string) {
	text := fmt.Sprintf("*Space engaging by %s Email & SMS(Kakao) sent to guests from * <%s|@%s> by <@%s>\n",
		kind, spaceURL, metadata.SpaceHandle, metadata.UserID)
	if _, _, err := api.PostMessage(metadata.Channel, slack.MsgOptionText(text, false)); err != nil {
		log.Printf("service: noti %s: post confirmation: %v", kind, err)
	}
}
