package service

import (
	"encoding/json"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

const categoryEditCallbackID = "space-category-edit"

// Block IDs of the category edit modal.
const (
	blockInputCategoryID     = "input-category-id"
	blockInputCategoryColor  = "input-category-color"
	blockInputCategoryNameKo = "input-category-name-ko"
	blockInputCategoryNameEn = "input-category-name-en"
	blockInputCategoryNameVi = "input-category-name-vi"
	blockInputCategoryNameZh = "input-category-name-zh"
)

var categoryNameBlocks = []struct {
	blockID  string
	language string
	label    string
}{
	{blockInputCategoryNameKo, "ko", "Korean"},
	{blockInputCategoryNameEn, "en", "English"},
	{blockInputCategoryNameVi, "vi", "Vietnamese"},
	{blockInputCategoryNameZh, "zh", "Taiwanese"},
}

// categoryEditMetadata rides in the child modal's private_metadata field.
// It carries everything needed to rebuild the parent modal, because Slack
// hands the child submission no parent state.
type categoryEditMetadata struct {
	CategoryIDToEdit string            `json:"categoryIdToEdit"` // empty in create mode
	ParentViewID     string            `json:"parentViewId"`
	Parent           SpaceEditMetadata `json:"parent"`
	ParentState      *slack.ViewState  `json:"parentState"`
}

// buildCategoryEditView renders the category create/edit modal pushed on
// top of the space edit modal.
func buildCategoryEditView(item umoh.CategoryItem, metadata categoryEditMetadata) (slack.ModalViewRequest, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return slack.ModalViewRequest{}, err
	}

	blocks := []slack.Block{
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputCategoryID,
			ActionID:     blockInputCategoryID,
			Label:        "Category ID",
			Hint:         "Unique ID for the category.",
			Placeholder:  "Unique ID for the category.",
			InitialValue: item.ID,
		}),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputCategoryColor,
			ActionID:     blockInputCategoryColor,
			Label:        "Category Color",
			Hint:         "Hex color code for the category. e.g. #FF0000",
			Placeholder:  "Hex color code for the category. e.g. #FF0000",
			InitialValue: item.Color,
			Optional:     true,
		}),
		blockkit.Divider(),
		blockkit.Header("Category Names"),
	}
	for _, name := range categoryNameBlocks {
		blocks = append(blocks, blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      name.blockID,
			ActionID:     name.blockID,
			Label:        name.label,
			Placeholder:  " ",
			InitialValue: umoh.LocalizedTextFor(item.LocalizedNames, name.language),
			Optional:     true,
		}))
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      categoryEditCallbackID,
		PrivateMetadata: string(metadataJSON),
		Title:           blockkit.PlainText("Edit category"),
		Submit:          blockkit.PlainText("Confirm"),
		Close:           blockkit.PlainText("Back"),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}, nil
}

// categoryItemFromState reads the submitted category fields.
func categoryItemFromState(state *slack.ViewState) umoh.CategoryItem {
	item := umoh.CategoryItem{
		ID:    trimmedStateValue(state, blockInputCategoryID),
		Color: trimmedStateValue(state, blockInputCategoryColor),
	}
	for _, name := range categoryNameBlocks {
		if text := trimmedStateValue(state, name.blockID); text != "" {
			item.LocalizedNames = append(item.LocalizedNames, umoh.LocalizedText{
				Language: name.language,
				Text:     text,
			})
		}
	}
	return item
}
