package service

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

const (
	cardCreateCallbackID  = "card-create"
	blockInputSpreadsheet = "input-spreadsheet-url"
	actionLoadSpreadsheet = "load-spreadsheet"
	cardPreviewBlockLimit = 100
)

// buildCardCreateView renders the card creation modal: the spreadsheet URL
// input, the load button, an optional load error and the loaded card
// previews. Slack caps modals at 100 blocks so long batches collapse into
// a trailing "more cards" header.
func buildCardCreateView(errorText, spreadsheetURL string, cards []umoh.SignUpAndCreateProfileRequest) slack.ModalViewRequest {
	blocks := []slack.Block{
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputSpreadsheet,
			ActionID:     blockInputSpreadsheet,
			Label:        "Google spreadsheet URL",
			Placeholder:  "https://docs.google.com/spreadsheets/d/...",
			InitialValue: spreadsheetURL,
		}),
		blockkit.Buttons("", blockkit.Button{
			ActionID: actionLoadSpreadsheet,
			Text:     "Load Data",
		}),
	}
	if errorText != "" {
		blocks = append(blocks, blockkit.Section(errorText))
	}
	for i, card := range cards {
		blocks = append(blocks, cardPreviewBlock(i+1, card))
	}

	if len(blocks) > cardPreviewBlockLimit {
		hidden := len(blocks) - (cardPreviewBlockLimit - 1)
		blocks = blocks[:cardPreviewBlockLimit-1]
		blocks = append(blocks, blockkit.Header(fmt.Sprintf("%d more cards...", hidden)))
	}

	view := slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    cardCreateCallbackID,
		NotifyOnClose: true,
		Title:         blockkit.PlainText("Create Card"),
		Submit:        blockkit.PlainText("Start"),
		Close:         blockkit.PlainText("Cancel"),
	}
	view.Blocks.BlockSet = blocks
	return view
}

func cardPreviewBlock(index int, card umoh.SignUpAndCreateProfileRequest) *slack.SectionBlock {
	socials := make([]string, 0, len(card.SpaceProfileInfo.Links))
	for _, link := range card.SpaceProfileInfo.Links {
		label := link.Label
		if social, ok := umoh.SocialFromIconID(link.IconID); ok {
			label = umoh.SocialLabel(social)
		}
		socials = append(socials, fmt.Sprintf("<%s|%s>", link.URL, label))
	}

	fields := []string{
		fmt.Sprintf("*Name*\n%s", card.SignUpInfo.Name),
		fmt.Sprintf("*Email*\n%s", card.SignUpInfo.Email),
		fmt.Sprintf("*Phone*\n%s", card.SignUpInfo.Phone),
		fmt.Sprintf("*Category IDs*\n%s", strings.Join(card.SpaceProfileInfo.CategoryIDs, ", ")),
		fmt.Sprintf("*Subtitle*\n%s", card.SpaceProfileInfo.Subtitle),
		fmt.Sprintf("*Description*\n%s", card.SpaceProfileInfo.Description),
		fmt.Sprintf("*Hashtags*\n%s", strings.Join(card.SpaceProfileInfo.Tags, ", ")),
		fmt.Sprintf("*Image URL*\n%s", card.SpaceProfileInfo.ImageURL),
		fmt.Sprintf("*Socials*\n%s", strings.Join(socials, ", ")),
	}
	fieldObjs := make([]*slack.TextBlockObject, 0, len(fields))
	for _, f := range fields {
		fieldObjs = append(fieldObjs, blockkit.Markdown(f))
	}
	return slack.NewSectionBlock(
		blockkit.Markdown(fmt.Sprintf("⎯⎯⎯⎯⎯  %d  ⎯⎯⎯⎯⎯", index)),
		fieldObjs,
		nil,
	)
}
