package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/metastore"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

// SpaceEditMetadata is the modal session state of the space edit workflow.
// The category list lives here so the nested category modals can rewrite it
// without touching the backend.
type SpaceEditMetadata struct {
	SpaceID       string              `json:"spaceId"`
	SpaceHandle   string              `json:"spaceHandle"`
	Channel       string              `json:"channel"`
	UserID        string              `json:"userId"`
	CategoryItems []umoh.CategoryItem `json:"categoryItems"`
}

// SpaceEditService drives the space edit modal.
type SpaceEditService struct {
	cfg   *config.Config
	api   SpaceClient
	slack slackbot.SlackAPI
	store MetadataStore
}

// NewSpaceEditService wires the space edit workflow.
func NewSpaceEditService(cfg *config.Config, api SpaceClient, slackAPI slackbot.SlackAPI, store MetadataStore) *SpaceEditService {
	return &SpaceEditService{cfg: cfg, api: api, slack: slackAPI, store: store}
}

func (s *SpaceEditService) CommandName() string { return s.cfg.Command("umoh") }
func (s *SpaceEditService) CommandText() string { return "space edit" }

// Register hooks the modal handlers into the bot. The category service owns
// the in-modal category actions.
func (s *SpaceEditService) Register(bot *slackbot.Bot, categories *CategoryEditService) {
	bot.RegisterService(s)
	bot.RegisterViewSubmission(spaceEditCallbackID, s.HandleSubmit)
	bot.RegisterViewClosed(spaceEditCallbackID, s.HandleClosed)
	bot.RegisterAction(actionCategoryOverflow, categories.HandleOverflow)
	bot.RegisterAction(actionAddCategory, categories.HandleCreate)
	bot.RegisterAction(actionFillColors, categories.HandleFillColors)
}

// HandleCommand opens the edit modal seeded from the backend record.
func (s *SpaceEditService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack slackbot.AckFunc) error {
	handle := handleParam(params)
	if handle == "" {
		ack(slackbot.EphemeralResponse(fmt.Sprintf(
			"Please enter the space handle. ex) `%s %s handle`", s.CommandName(), s.CommandText())))
		return nil
	}

	space, err := s.api.GetSpace(ctx, handle)
	if err != nil {
		log.Printf("service: space edit: get space %s: %v", handle, err)
		ack(slackbot.EphemeralResponse("Failed to fetch space. Please check the space handle."))
		return nil
	}
	ack(map[string]interface{}{"response_type": "in_channel"})

	view := buildSpaceEditView(s.cfg.SpaceURL(space.Handle), spaceEditFormFromSpace(space))
	viewRes, err := s.slack.OpenView(cmd.TriggerID, view)
	if err != nil {
		return fmt.Errorf("open space edit view: %w", err)
	}

	metadata := SpaceEditMetadata{
		SpaceID:     space.ID,
		SpaceHandle: handle,
		Channel:     cmd.ChannelID,
		UserID:      cmd.UserID,
	}
	if cfg := space.ProfileCategoryConfig; cfg != nil {
		metadata.CategoryItems = cfg.CategoryItems
	}
	return s.store.Save(ctx, viewRes.View.ID, metadata)
}

// HandleSubmit applies the form to the backend and reports in the channel.
func (s *SpaceEditService) HandleSubmit(ctx context.Context, callback slack.InteractionCallback, ack slackbot.AckFunc) error {
	var metadata SpaceEditMetadata
	if err := s.store.Get(ctx, callback.View.ID, &metadata); err != nil {
		if errors.Is(err, metastore.ErrNotFound) {
			ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
				blockInputHandle: "This form has expired. Please run the command again.",
			}))
			return nil
		}
		return err
	}

	space, err := s.api.GetSpace(ctx, metadata.SpaceHandle)
	if err != nil {
		log.Printf("service: space edit: refetch space %s: %v", metadata.SpaceHandle, err)
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			blockInputHandle: "Failed to fetch space",
		}))
		return nil
	}

	updated := s.applyForm(*space, callback.View.State, metadata.CategoryItems)
	if err := s.api.UpdateSpace(ctx, space.Handle, updated); err != nil {
		log.Printf("service: space edit: update space %s: %v", space.Handle, err)
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			blockInputHandle: "Failed to edit space",
		}))
		return nil
	}
	ack(slack.NewClearViewSubmissionResponse())

	s.postEditSummary(metadata, updated)

	return s.store.Delete(ctx, callback.View.ID)
}

// HandleClosed drops the session record when the modal is dismissed.
func (s *SpaceEditService) HandleClosed(ctx context.Context, callback slack.InteractionCallback) error {
	log.Printf("service: %s modal closed", callback.View.CallbackID)
	return s.store.Delete(ctx, callback.View.ID)
}

// applyForm folds the submitted state into a fresh copy of the backend
// record. The whole record is written back; fields the form does not cover
// pass through unchanged.
func (s *SpaceEditService) applyForm(space umoh.Space, state *slack.ViewState, items []umoh.CategoryItem) umoh.Space {
	if v := blockkit.StateValue(state, blockInputHandle); v != "" {
		space.Handle = v
	}
	if v := blockkit.StateValue(state, blockInputTitle); v != "" {
		space.Title = v
	}
	space.Description = blockkit.StateValue(state, blockInputDescription)

	space.ContactPoints = []umoh.ContactPoint{}
	for _, raw := range strings.FieldsFunc(blockkit.StateValue(state, blockInputContacts), func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		space.ContactPoints = append(space.ContactPoints, umoh.ClassifyContact(raw))
	}

	umoh.ApplyImageShape(&space, umoh.ImageShape(blockkit.StateValue(state, blockInputImageShape)))

	defaultLanguage := blockkit.StateValue(state, blockInputDefaultLanguage)
	if defaultLanguage == "" {
		defaultLanguage = space.DefaultLanguage
	}
	space.DefaultLanguage = defaultLanguage

	var categoryLabels []umoh.LocalizedText
	if space.ProfileCategoryConfig != nil {
		categoryLabels = space.ProfileCategoryConfig.LocalizedCategoryLabels
	}
	categoryLabels = umoh.UpsertLocalizedText(categoryLabels, defaultLanguage,
		blockkit.StateValue(state, blockInputCategoryPlaceholder))

	var subtitlePlaceholders []umoh.LocalizedText
	if space.ProfileCreateConfig != nil {
		subtitlePlaceholders = space.ProfileCreateConfig.LocalizedSubtitlePlaceholders
	}
	subtitlePlaceholders = umoh.UpsertLocalizedText(subtitlePlaceholders, defaultLanguage,
		blockkit.StateValue(state, blockInputSubtitle))

	createConfig := umoh.ProfileCreateConfig{}
	if space.ProfileCreateConfig != nil {
		createConfig = *space.ProfileCreateConfig
	}
	createConfig.DefaultLanguage = defaultLanguage
	createConfig.SupportedSocials = blockkit.StateValues(state, blockInputSocialLinks)
	createConfig.LocalizedSubtitlePlaceholders = subtitlePlaceholders
	space.ProfileCreateConfig = &createConfig

	if len(items) == 0 {
		space.ProfileCategoryConfig = nil
	} else {
		maxSelections := 1
		if v, err := strconv.Atoi(blockkit.StateValue(state, blockInputMaxSelections)); err == nil && v > 0 {
			maxSelections = v
		} else if space.ProfileCategoryConfig != nil && space.ProfileCategoryConfig.MaxItemNumber > 0 {
			maxSelections = space.ProfileCategoryConfig.MaxItemNumber
		}
		space.ProfileCategoryConfig = &umoh.CategoryConfig{
			DefaultLanguage:         defaultLanguage,
			CategoryItems:           items,
			LocalizedCategoryLabels: categoryLabels,
			MaxItemNumber:           maxSelections,
		}
	}

	if len(subtitlePlaceholders) == 0 {
		space.ProfileSubtitleType = "CATEGORY"
	} else {
		space.ProfileSubtitleType = "SUBTITLE"
	}

	boardAccess := blockkit.StateValue(state, blockInputBoardAccess)
	if boardAccess == "DISABLED" || boardAccess == "" {
		space.BoardConfig = &umoh.BoardConfig{IsEnabled: false, AccessType: umoh.BoardPrivate}
	} else {
		space.BoardConfig = &umoh.BoardConfig{IsEnabled: true, AccessType: boardAccess}
	}

	umoh.ApplyPermission(&space, umoh.Permission(blockkit.StateValue(state, blockInputSpacePermission)))

	space.EnterCode = blockkit.StateValue(state, blockInputEntryCode)

	messaging := blockkit.StateValue(state, blockInputMessaging)
	space.IsNeedMessaging = messaging != umoh.MessagingDisabled
	space.MessagingOption = messaging

	return space
}

// postEditSummary posts the who-did-what line to the channel and the full
// rendition of the updated space in its thread.
func (s *SpaceEditService) postEditSummary(metadata SpaceEditMetadata, space umoh.Space) {
	userDisplayName := displayName(s.slack, metadata.UserID)
	spaceURL := s.cfg.SpaceURL(space.Handle)

	threadBlocks := s.buildSummaryBlocks(space, metadata.CategoryItems)
	err := postBlocksInThread(s.slack, metadata.Channel,
		fmt.Sprintf("@%s has been edited by %s", space.Handle, userDisplayName),
		[]slack.Block{
			blockkit.Section(fmt.Sprintf("*<%s|@%s>* has been edited by *%s*", spaceURL, space.Handle, userDisplayName)),
		},
		threadBlocks)
	if err != nil {
		log.Printf("service: space edit: post summary: %v", err)
	}
}


func (s *SpaceEditService) buildSummaryBlocks(space umoh.Space, items []umoh.CategoryItem) []slack.Block {
	var basic strings.Builder
	fmt.Fprintf(&basic, "*Handle*\n@%s\n", space.Handle)
	fmt.Fprintf(&basic, "*Title*\n%s\n", space.Title)
	fmt.Fprintf(&basic, "*Description*\n%s\n", space.Description)
	for _, cp := range space.ContactPoints {
		fmt.Fprintf(&basic, "*%s*\n%s\n", capitalizeFirst(string(cp.Type)), cp.Value)
	}
	fmt.Fprintf(&basic, "*Image shape*\n%s\n", umoh.ImageShapeLabels[umoh.ImageShapeOf(space)])
	fmt.Fprintf(&basic, "*Default language*\n%s", space.DefaultLanguage)

	categoryPlaceholder := ""
	maxSelections := 1
	if cfg := space.ProfileCategoryConfig; cfg != nil {
		categoryPlaceholder = umoh.LocalizedTextFor(cfg.LocalizedCategoryLabels, space.DefaultLanguage)
		if cfg.MaxItemNumber > 0 {
			maxSelections = cfg.MaxItemNumber
		}
	}

	socials := ""
	subtitlePlaceholder := ""
	if cfg := space.ProfileCreateConfig; cfg != nil {
		labels := make([]string, 0, len(cfg.SupportedSocials))
		for _, social := range cfg.SupportedSocials {
			labels = append(labels, umoh.SocialLabel(umoh.Social(social)))
		}
		socials = strings.Join(labels, ", ")
		subtitlePlaceholder = umoh.LocalizedTextFor(cfg.LocalizedSubtitlePlaceholders, space.DefaultLanguage)
	}

	messagingLabel := space.MessagingOption
	for _, opt := range messagingOptions {
		if opt.Value == space.MessagingOption {
			messagingLabel = opt.Text
			break
		}
	}
	board := "Disabled"
	if space.BoardConfig != nil && space.BoardConfig.IsEnabled {
		board = capitalizeFirst(space.BoardConfig.AccessType)
	}

	blocks := []slack.Block{
		blockkit.Header("Basic Information"),
		blockkit.Divider(),
		blockkit.Section(basic.String()),
		blockkit.Header("Category Configuration"),
		blockkit.Divider(),
		blockkit.Section(fmt.Sprintf("*Category select placeholder*\n%s\n*Maximum number of selections*\n%d",
			categoryPlaceholder, maxSelections)),
		blockkit.Divider(),
		blockkit.Section("*Category items*"),
	}
	for _, item := range items {
		names := make([]string, 0, len(item.LocalizedNames))
		for _, name := range item.LocalizedNames {
			names = append(names, name.Text)
		}
		color := item.Color
		if color == "" {
			color = " "
		}
		blocks = append(blocks,
			blockkit.Section(strings.Join(names, " | ")),
			blockkit.Context(item.ID, color),
			blockkit.Divider(),
		)
	}
	blocks = append(blocks,
		blockkit.Header("Profile Card Configuration"),
		blockkit.Divider(),
		blockkit.Section(fmt.Sprintf("*Supported socials*\n%s", socials)),
		blockkit.Section(fmt.Sprintf("*Subtitle placeholder*\n%s", subtitlePlaceholder)),
		blockkit.Header("Permission Configuration"),
		blockkit.Divider(),
		blockkit.Section(fmt.Sprintf("*Space*\n%s\n*Messaging*\n%s\n*Community forum*\n%s\n*Entry code*\n%s",
			umoh.PermissionLabels[umoh.PermissionOf(space)], messagingLabel, board, space.EnterCode)),
	)
	return blocks
}
