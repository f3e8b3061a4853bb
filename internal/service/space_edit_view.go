package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

const spaceEditCallbackID = "space-edit"

// Block IDs of the space edit modal.
const (
	blockInputHandle              = "input-handle"
	blockInputTitle               = "input-title"
	blockInputDescription         = "input-description"
	blockInputContacts            = "input-contacts"
	blockInputImageShape          = "input-image-shape"
	blockInputDefaultLanguage     = "input-default-language"
	blockInputCategoryPlaceholder = "input-category-select-placeholder"
	blockInputMaxSelections       = "input-max-category-selections"
	blockInputSocialLinks         = "input-social-links"
	blockInputSubtitle            = "input-subtitle-placeholder"
	blockInputSpacePermission     = "input-space-permission"
	blockInputMessaging           = "input-messaging-permission"
	blockInputBoardAccess         = "input-board-access-type"
	blockInputEntryCode           = "input-entry-code"
)

// Action IDs of the space edit modal.
const (
	actionCategoryOverflow = "category-actions-overflow"
	actionAddCategory      = "add-category"
	actionFillColors       = "fill-category-colors"
	actionSelectIgnore     = "select-ignore"
)

// categoryOverflowValue is the JSON carried by each category overflow
// option.
type categoryOverflowValue struct {
	Type       string `json:"type"` // "edit" or "delete"
	CategoryID string `json:"categoryId"`
}

var languageOptions = []blockkit.Option{
	{Value: "ko", Text: "Korean"},
	{Value: "en", Text: "English"},
	{Value: "vi", Text: "Vietnamese"},
	{Value: "zh", Text: "Taiwanese"},
}

var messagingOptions = []blockkit.Option{
	{Value: umoh.MessagingDisabled, Text: "Disabled"},
	{Value: umoh.MessagingEnabledWithAuth, Text: "Enabled"},
	{Value: umoh.MessagingEnabledWithoutAuth, Text: "Enabled (Login not required)"},
}

var boardOptions = []blockkit.Option{
	{Value: "DISABLED", Text: "Disabled"},
	{Value: umoh.BoardPublic, Text: "Public"},
	{Value: umoh.BoardPreview, Text: "Preview"},
	{Value: umoh.BoardPrivate, Text: "Private"},
}

func imageShapeOptions() []blockkit.Option {
	shapes := []umoh.ImageShape{
		umoh.ShapeCircleDefault,
		umoh.ShapeRectangleHeight200,
		umoh.ShapeRectangleHeight300,
		umoh.ShapeCustom,
	}
	opts := make([]blockkit.Option, 0, len(shapes))
	for _, shape := range shapes {
		opts = append(opts, blockkit.Option{Value: string(shape), Text: umoh.ImageShapeLabels[shape]})
	}
	return opts
}

func permissionOptions() []blockkit.Option {
	perms := []umoh.Permission{
		umoh.PermissionPublic,
		umoh.PermissionPreview,
		umoh.PermissionPrivateApprovalRequired,
		umoh.PermissionPrivateApprovalNotRequired,
		umoh.PermissionCustom,
	}
	opts := make([]blockkit.Option, 0, len(perms))
	for _, p := range perms {
		opts = append(opts, blockkit.Option{Value: string(p), Text: umoh.PermissionLabels[p]})
	}
	return opts
}

func socialOptions() []blockkit.Option {
	opts := make([]blockkit.Option, 0, len(umoh.SocialOrder))
	for _, social := range umoh.SocialOrder {
		opts = append(opts, blockkit.Option{Value: string(social), Text: umoh.SocialLabel(social)})
	}
	return opts
}

// spaceEditForm holds everything the space edit modal renders.
type spaceEditForm struct {
	SpaceID             string
	Handle              string
	Title               string
	Description         string
	Contacts            string
	ImageShape          string
	DefaultLanguage     string
	CategoryPlaceholder string
	MaxSelections       string
	CategoryItems       []umoh.CategoryItem
	SocialValues        []string
	SubtitlePlaceholder string
	Permission          string
	Messaging           string
	BoardAccess         string
	EntryCode           string
}

// spaceEditFormFromSpace seeds the form from the backend record.
func spaceEditFormFromSpace(space *umoh.Space) spaceEditForm {
	form := spaceEditForm{
		SpaceID:         space.ID,
		Handle:          space.Handle,
		Title:           space.Title,
		Description:     space.Description,
		ImageShape:      string(umoh.ImageShapeOf(*space)),
		DefaultLanguage: space.DefaultLanguage,
		Permission:      string(umoh.PermissionOf(*space)),
		Messaging:       space.MessagingOption,
		BoardAccess:     "DISABLED",
		EntryCode:       space.EnterCode,
		MaxSelections:   "1",
	}

	var contacts []string
	for _, cp := range space.ContactPoints {
		if cp.Value != "" {
			contacts = append(contacts, cp.Value)
		}
	}
	form.Contacts = strings.Join(contacts, ", ")

	if cfg := space.ProfileCategoryConfig; cfg != nil {
		form.CategoryItems = cfg.CategoryItems
		form.CategoryPlaceholder = umoh.LocalizedTextFor(cfg.LocalizedCategoryLabels, space.DefaultLanguage)
		if cfg.MaxItemNumber > 0 {
			form.MaxSelections = strconv.Itoa(cfg.MaxItemNumber)
		}
	}
	if cfg := space.ProfileCreateConfig; cfg != nil {
		for _, social := range cfg.SupportedSocials {
			if umoh.IsKnownSocial(umoh.Social(social)) {
				form.SocialValues = append(form.SocialValues, social)
			}
		}
		form.SubtitlePlaceholder = umoh.LocalizedTextFor(cfg.LocalizedSubtitlePlaceholders, space.DefaultLanguage)
	}
	if cfg := space.BoardConfig; cfg != nil && cfg.IsEnabled {
		form.BoardAccess = cfg.AccessType
	}
	return form
}

// spaceEditFormFromState rebuilds the form from the live view state, so the
// modal can be re-rendered without losing typed input. meta supplies the
// identity fields; items the (possibly changed) category list.
func spaceEditFormFromState(state *slack.ViewState, meta SpaceEditMetadata, items []umoh.CategoryItem) spaceEditForm {
	form := spaceEditForm{
		SpaceID:             meta.SpaceID,
		Handle:              blockkit.StateValue(state, blockInputHandle),
		Title:               blockkit.StateValue(state, blockInputTitle),
		Description:         blockkit.StateValue(state, blockInputDescription),
		Contacts:            blockkit.StateValue(state, blockInputContacts),
		ImageShape:          blockkit.StateValue(state, blockInputImageShape),
		DefaultLanguage:     blockkit.StateValue(state, blockInputDefaultLanguage),
		CategoryPlaceholder: blockkit.StateValue(state, blockInputCategoryPlaceholder),
		MaxSelections:       blockkit.StateValue(state, blockInputMaxSelections),
		CategoryItems:       items,
		SocialValues:        blockkit.StateValues(state, blockInputSocialLinks),
		SubtitlePlaceholder: blockkit.StateValue(state, blockInputSubtitle),
		Permission:          blockkit.StateValue(state, blockInputSpacePermission),
		Messaging:           blockkit.StateValue(state, blockInputMessaging),
		BoardAccess:         blockkit.StateValue(state, blockInputBoardAccess),
		EntryCode:           blockkit.StateValue(state, blockInputEntryCode),
	}
	if form.Handle == "" {
		form.Handle = meta.SpaceHandle
	}
	return form
}

// buildSpaceEditView renders the space edit modal.
func buildSpaceEditView(spaceURL string, form spaceEditForm) slack.ModalViewRequest {
	blocks := []slack.Block{
		blockkit.Context(
			fmt.Sprintf("URL: <%s|%s>", spaceURL, spaceURL),
			fmt.Sprintf("ID: %s", form.SpaceID),
		),
		blockkit.Header("Basic Information"),
		blockkit.Divider(),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputHandle,
			ActionID:     blockInputHandle,
			Label:        "Handle",
			Hint:         "Space handle without @",
			Placeholder:  "Space handle without @",
			InitialValue: form.Handle,
		}),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputTitle,
			ActionID:     blockInputTitle,
			Label:        "Title",
			Placeholder:  "Space title",
			InitialValue: form.Title,
		}),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputDescription,
			ActionID:     blockInputDescription,
			Label:        "Description",
			Placeholder:  "Space description",
			InitialValue: form.Description,
			Optional:     true,
			Multiline:    true,
		}),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputContacts,
			ActionID:     blockInputContacts,
			Label:        "Contact points",
			Hint:         "Enter emails, phone numbers, or URLs separated by commas, or new lines. The order will be preserved.",
			Placeholder:  "ex) email@splab.dev, 010-1234-5678, https://umoh.io, https://join.umoh.io/kr",
			InitialValue: form.Contacts,
			Optional:     true,
			Multiline:    true,
		}),
		blockkit.SectionSelect("*Image Shape*", blockInputImageShape, actionSelectIgnore,
			"Select an image shape", imageShapeOptions(), form.ImageShape),
		blockkit.SectionSelect("*Default language*", blockInputDefaultLanguage, actionSelectIgnore,
			"Select a language", languageOptions, form.DefaultLanguage),
		blockkit.Header("Category Configuration"),
		blockkit.Divider(),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputCategoryPlaceholder,
			ActionID:     blockInputCategoryPlaceholder,
			Label:        "Category select placeholder",
			Placeholder:  "ex) Select a category",
			InitialValue: form.CategoryPlaceholder,
			Optional:     true,
		}),
		blockkit.NumberInput(blockkit.NumberInputParams{
			BlockID:      blockInputMaxSelections,
			ActionID:     blockInputMaxSelections,
			Label:        "Maximum number of selections",
			InitialValue: form.MaxSelections,
		}),
		blockkit.Divider(),
		blockkit.Section("*Categories*"),
	}

	blocks = append(blocks, buildCategoryListBlocks(form.CategoryItems)...)

	blocks = append(blocks,
		blockkit.Buttons("",
			blockkit.Button{
				ActionID: actionAddCategory,
				Text:     "Add Category",
				Style:    slack.StylePrimary,
			},
			blockkit.Button{
				ActionID: actionFillColors,
				Text:     "Fill colors randomly",
				Confirm:  blockkit.Confirm("This will reset all category colors.", "Are you sure?", "Yes", "No"),
			},
		),
		blockkit.Header("Profile Card Configuration"),
		blockkit.Divider(),
		blockkit.MultiSelect(blockkit.MultiSelectParams{
			BlockID:       blockInputSocialLinks,
			ActionID:      blockInputSocialLinks,
			Label:         "Social links",
			Placeholder:   "Select social links to show on profile card",
			Options:       socialOptions(),
			InitialValues: form.SocialValues,
			Optional:      true,
		}),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputSubtitle,
			ActionID:     blockInputSubtitle,
			Label:        "Subtitle placeholder",
			Placeholder:  "ex) CEO, Splab",
			InitialValue: form.SubtitlePlaceholder,
			Optional:     true,
		}),
		blockkit.Header("Permission Configuration"),
		blockkit.Divider(),
		blockkit.SectionSelect("*Space*", blockInputSpacePermission, actionSelectIgnore,
			"Select a permission", permissionOptions(), form.Permission),
		blockkit.SectionSelect("*Messaging*", blockInputMessaging, actionSelectIgnore,
			"Select a messaging option", messagingOptions, form.Messaging),
		blockkit.SectionSelect("*Community forum*", blockInputBoardAccess, actionSelectIgnore,
			"Select a forum access", boardOptions, form.BoardAccess),
		blockkit.TextInput(blockkit.TextInputParams{
			BlockID:      blockInputEntryCode,
			ActionID:     blockInputEntryCode,
			Label:        "Entry code",
			Placeholder:  "ex) 231219, splab",
			InitialValue: form.EntryCode,
			Optional:     true,
		}),
	)

	return slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    spaceEditCallbackID,
		NotifyOnClose: true,
		Title:         blockkit.PlainText("Edit Space"),
		Submit:        blockkit.PlainText("Edit"),
		Close:         blockkit.PlainText("Cancel"),
		Blocks:        slack.Blocks{BlockSet: blocks},
	}
}

// buildCategoryListBlocks renders the category list with the edit/delete
// overflow on each row.
func buildCategoryListBlocks(items []umoh.CategoryItem) []slack.Block {
	var blocks []slack.Block
	for _, item := range items {
		editValue, _ := json.Marshal(categoryOverflowValue{Type: "edit", CategoryID: item.ID})
		deleteValue, _ := json.Marshal(categoryOverflowValue{Type: "delete", CategoryID: item.ID})

		names := make([]string, 0, len(item.LocalizedNames))
		for _, name := range item.LocalizedNames {
			names = append(names, name.Text)
		}

		color := item.Color
		if color == "" {
			color = " "
		}
		blocks = append(blocks,
			blockkit.SectionOverflow(strings.Join(names, " | "), "", actionCategoryOverflow,
				[]blockkit.Option{
					{Value: string(editValue), Text: ":large_blue_circle: Edit"},
					{Value: string(deleteValue), Text: ":red_circle: Delete"},
				}, nil),
			blockkit.Context(item.ID, color),
			blockkit.Divider(),
		)
	}
	return blocks
}
