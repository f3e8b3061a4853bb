package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryEditService drives the category modal nested inside the space
// edit modal, plus the in-place category actions (delete, color fill).
type CategoryEditService struct {
	cfg   *config.Config
	slack slackbot.SlackAPI
	store MetadataStore
}

// NewCategoryEditService wires the nested category workflow.
func NewCategoryEditService(cfg *config.Config, slackAPI slackbot.SlackAPI, store MetadataStore) *CategoryEditService {
	return &CategoryEditService{cfg: cfg, slack: slackAPI, store: store}
}

// Register hooks the category modal submit into the bot. The actions that
// launch it are registered by the space edit service alongside its view.
func (s *CategoryEditService) Register(bot *slackbot.Bot) {
	bot.RegisterViewSubmission(categoryEditCallbackID, s.HandleSubmit)
}

// HandleOverflow reacts to the per-category overflow menu: it pushes the
// edit modal or deletes the category in place.
func (s *CategoryEditService) HandleOverflow(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error {
	var value categoryOverflowValue
	if err := json.Unmarshal([]byte(action.SelectedOption.Value), &value); err != nil {
		return fmt.Errorf("parse overflow value: %w", err)
	}

	switch value.Type {
	case "edit":
		return s.openModal(ctx, callback, value.CategoryID)
	case "delete":
		return s.deleteCategory(ctx, callback, value.CategoryID)
	default:
		return fmt.Errorf("unknown overflow action %q", value.Type)
	}
}

// HandleCreate reacts to the Add Category button.
func (s *CategoryEditService) HandleCreate(ctx context.Context, callback slack.InteractionCallback, _ *slack.BlockAction) error {
	return s.openModal(ctx, callback, "")
}

// HandleFillColors assigns a fresh random color to every category and
// re-renders the parent modal.
func (s *CategoryEditService) HandleFillColors(ctx context.Context, callback slack.InteractionCallback, _ *slack.BlockAction) error {
	parentViewID := callback.View.ID
	var metadata SpaceEditMetadata
	if err := s.store.Get(ctx, parentViewID, &metadata); err != nil {
		return err
	}

	colors := randomCategoryColors(len(metadata.CategoryItems))
	for i := range metadata.CategoryItems {
		metadata.CategoryItems[i].Color = colors[i]
	}
	if err := s.store.Save(ctx, parentViewID, metadata); err != nil {
		return err
	}
	return s.updateParentView(parentViewID, callback.View.State, metadata)
}

// openModal pushes the category modal over the space edit modal. The
// parent's metadata and live state ride along in the child's private
// metadata so the submit can rebuild the parent.
func (s *CategoryEditService) openModal(ctx context.Context, callback slack.InteractionCallback, categoryID string) error {
	parentViewID := callback.View.ID
	var metadata SpaceEditMetadata
	if err := s.store.Get(ctx, parentViewID, &metadata); err != nil {
		return err
	}

	item := umoh.CategoryItem{}
	if categoryID != "" {
		for _, candidate := range metadata.CategoryItems {
			if candidate.ID == categoryID {
				item = candidate
				break
			}
		}
	}

	view, err := buildCategoryEditView(item, categoryEditMetadata{
		CategoryIDToEdit: categoryID,
		ParentViewID:     parentViewID,
		Parent:           metadata,
		ParentState:      callback.View.State,
	})
	if err != nil {
		return err
	}
	_, err = s.slack.PushView(callback.TriggerID, view)
	return err
}

// HandleSubmit validates the category form, rewrites the parent's category
// list and re-renders the parent modal with its typed state preserved.
func (s *CategoryEditService) HandleSubmit(ctx context.Context, callback slack.InteractionCallback, ack slackbot.AckFunc) error {
	var metadata categoryEditMetadata
	if err := json.Unmarshal([]byte(callback.View.PrivateMetadata), &metadata); err != nil {
		return fmt.Errorf("parse category metadata: %w", err)
	}

	item := categoryItemFromState(callback.View.State)

	if item.Color != "" && !hexColorPattern.MatchString(item.Color) {
		ack(slack.NewErrorsViewSubmissionResponse(map[string]string{
			blockInputCategoryColor: "Color must be a hex code. e.g. #FF0000",
		}))
		return nil
	}
	if len(item.LocalizedNames) == 0 {
		errs := make(map[string]string, len(categoryNameBlocks))
		for _, name := range categoryNameBlocks {
			errs[name.blockID] = "At least one category name is required."
		}
		ack(slack.NewErrorsViewSubmissionResponse(errs))
		return nil
	}
	ack()

	parent := metadata.Parent
	if metadata.CategoryIDToEdit == "" {
		parent.CategoryItems = append(parent.CategoryItems, item)
	} else {
		for i, candidate := range parent.CategoryItems {
			if candidate.ID == metadata.CategoryIDToEdit {
				parent.CategoryItems[i] = item
				break
			}
		}
	}
	log.Printf("service: category %q saved on space %s", item.ID, parent.SpaceHandle)

	if err := s.store.Save(ctx, metadata.ParentViewID, parent); err != nil {
		return err
	}
	return s.updateParentView(metadata.ParentViewID, metadata.ParentState, parent)
}

// deleteCategory removes a category in place and re-renders the modal.
func (s *CategoryEditService) deleteCategory(ctx context.Context, callback slack.InteractionCallback, categoryID string) error {
	parentViewID := callback.View.ID
	var metadata SpaceEditMetadata
	if err := s.store.Get(ctx, parentViewID, &metadata); err != nil {
		return err
	}

	kept := metadata.CategoryItems[:0]
	for _, item := range metadata.CategoryItems {
		if item.ID != categoryID {
			kept = append(kept, item)
		}
	}
	metadata.CategoryItems = kept
	log.Printf("service: category %q deleted on space %s", categoryID, metadata.SpaceHandle)

	if err := s.store.Save(ctx, parentViewID, metadata); err != nil {
		return err
	}
	return s.updateParentView(parentViewID, callback.View.State, metadata)
}

func (s *CategoryEditService) updateParentView(parentViewID string, state *slack.ViewState, metadata SpaceEditMetadata) error {
	form := spaceEditFormFromState(state, metadata, metadata.CategoryItems)
	view := buildSpaceEditView(s.cfg.SpaceURL(form.Handle), form)
	_, err := s.slack.UpdateView(view, "", "", parentViewID)
	return err
}
