package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

const (
	hostCallbackID    = "space-host"
	blockInputAdmins  = "input-admins"
	blockInputViewers = "input-viewers"
)

// HostMetadata is the modal session state of the host workflow.
type HostMetadata struct {
	SpaceHandle string `json:"spaceHandle"`
	Channel     string `json:"channel"`
	UserID      string `json:"userId"`
}

// HostManagementService replaces a space's host list from a modal form.
type HostManagementService struct {
	cfg   *config.Config
	api   HostClient
	slack slackbot.SlackAPI
	store MetadataStore
}

// NewHostManagementService wires the host workflow.
func NewHostManagementService(cfg *config.Config, api HostClient, slackAPI slackbot.SlackAPI, store MetadataStore) *HostManagementService {
	return &HostManagementService{cfg: cfg, api: api, slack: slackAPI, store: store}
}

func (s *HostManagementService) CommandName() string { return s.cfg.Command("umoh") }
func (s *HostManagementService) CommandText() string { return "space host" }

func (s *HostManagementService) Register(bot *slackbot.Bot) {
	bot.RegisterService(s)
	bot.RegisterViewSubmission(hostCallbackID, s.HandleSubmit)
	bot.RegisterViewClosed(hostCallbackID, s.HandleClosed)
}

// HandleCommand opens the host modal seeded from the current host list.
func (s *HostManagementService) HandleCommand(ctx context.Context, cmd slack.SlashCommand, params []string, ack slackbot.AckFunc) error {
	handle := handleParam(params)
	if handle == "" {
		ack(slackbot.EphemeralResponse(fmt.Sprintf(
			"Please enter the space handle. ex) `%s %s handle`", s.CommandName(), s.CommandText())))
		return nil
	}

	hosts, err := s.api.GetHosts(ctx, handle)
	if err != nil {
		log.Printf("service: space host: get hosts %s: %v", handle, err)
		ack(slackbot.EphemeralResponse("Failed to fetch space hosts. Please check the space handle."))
		return nil
	}
	ack(map[string]interface{}{"response_type": "in_channel"})

	viewRes, err := s.slack.OpenView(cmd.TriggerID, s.buildView(handle, hosts))
	if err != nil {
		return fmt.Errorf("open space host view: %w", err)
	}
	return s.store.Save(ctx, viewRes.View.ID, HostMetadata{
		SpaceHandle: handle,
		Channel:     cmd.ChannelID,
		UserID:      cmd.UserID,
	})
}

func (s *HostManagementService) buildView(handle string, hosts []umoh.Host) slack.ModalViewRequest {
	var admins, viewers []string
	for _, host := range hosts {
		switch host.AccessType {
		case umoh.AccessAdmin:
			admins = append(admins, host.Email)
		default:
			viewers = append(viewers, host.Email)
		}
	}

	view := slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    hostCallbackID,
		NotifyOnClose: true,
		Title:         blockkit.PlainText("Update Space Hosts"),
		Submit:        blockkit.PlainText("Update"),
		Close:         blockkit.PlainText("Cancel"),
	}
	view.Blocks.BlockSet = []slack.Block{
		blockkit.Fields(fmt.Sprintf("*Space* <%s|@%s>", s.cfg.SpaceURL(handle), handle)),
		blockkit.Divider(),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputAdmins,
			ActionID:     blockInputAdmins,
			Label:        "Admins",
			Hint:         "Enter emails separated by commas, whitespaces, or new lines",
			Placeholder:  "ex) leo@splab.dev, kang@splab.dev, ...",
			InitialValue: strings.Join(admins, "\n"),
			Optional:     true,
			Multiline:    true,
		}),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputViewers,
			ActionID:     blockInputViewers,
			Label:        "Viewers",
			Hint:         "Enter emails separated by commas, whitespaces, or new lines",
			Placeholder:  "ex) leo@splab.dev, kang@splab.dev, ...",
			InitialValue: strings.Join(viewers, "\n"),
			Optional:     true,
			Multiline:    true,
		}),
	}
	return view
}

// HandleSubmit replaces the host list and reports in the channel.
func (s *HostManagementService) HandleSubmit(ctx context.Context, callback slack.InteractionCallback, ack slackbot.AckFunc) error {
	var metadata HostMetadata
	if err := s.store.Get(ctx, callback.View.ID, &metadata); err != nil {
		return err
	}

	hosts := buildHostList(
		blockkit.StateValue(callback.View.State, blockInputAdmins),
		blockkit.StateValue(callback.View.State, blockInputViewers),
	)

	if err := s.api.UpdateHosts(ctx, metadata.SpaceHandle, hosts); err != nil {
		log.Printf("service: space host: update hosts %s: %v", metadata.SpaceHandle, err)
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			blockInputAdmins: "Failed to update space hosts",
		}))
		return nil
	}
	ack()

	s.postConfirmation(metadata, hosts)

	return s.store.Delete(ctx, callback.View.ID)
}

// HandleClosed drops the session record when the modal is dismissed.
func (s *HostManagementService) HandleClosed(ctx context.Context, callback slack.InteractionCallback) error {
	log.Printf("service: %s modal closed", callback.View.CallbackID)
	return s.store.Delete(ctx, callback.View.ID)
}

func (s *HostManagementService) postConfirmation(metadata HostMetadata, hosts []umoh.Host) {
	var admins, viewers []string
	for _, host := range hosts {
		if host.AccessType == umoh.AccessAdmin {
			admins = append(admins, host.Email)
		} else {
			viewers = append(viewers, host.Email)
		}
	}

	spaceURL := s.cfg.SpaceURL(metadata.SpaceHandle)
	text := fmt.Sprintf("Hosts of *<%s|@%s>* have been updated by *<@%s>*.",
		spaceURL, metadata.SpaceHandle, metadata.UserID)
	blocks := []slack.Block{
		blockkit.Section(text),
		blockkit.Section(fmt.Sprintf("*Admins*\n%s", strings.Join(admins, "\n"))),
		blockkit.Section(fmt.Sprintf("*Viewers*\n%s", strings.Join(viewers, "\n"))),
	}
	_, _, err := s.slack.PostMessage(metadata.Channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...))
	if err != nil {
		log.Printf("service: space host: post confirmation: %v", err)
	}
}

// buildHostList parses the admin and viewer inputs into a replacement host
// list. Emails are de-duplicated and an email listed in both inputs keeps
// the admin role.
func buildHostList(adminsInput, viewersInput string) []umoh.Host {
	split := func(input string) []string {
		return strings.FieldsFunc(input, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
		})
	}

	seen := make(map[string]bool)
	var hosts []umoh.Host
	for _, email := range split(adminsInput) {
		if seen[email] {
			continue
		}
		seen[email] = true
		hosts = append(hosts, umoh.Host{Email: email, AccessType: umoh.AccessAdmin})
	}
	for _, email := range split(viewersInput) {
		if seen[email] {
			continue
		}
		seen[email] = true
		hosts = append(hosts, umoh.Host{Email: email, AccessType: umoh.AccessViewer})
	}
	return hosts
}
