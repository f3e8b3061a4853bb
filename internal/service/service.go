// Package service implements the slash-command workflows: space editing
// with nested category modals, host management, engagement notifications,
// bulk card creation from a spreadsheet and the daily report trigger.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

// MetadataStore persists per-modal metadata between interactions.
// *metastore.Store satisfies it; tests use an in-memory fake.
type MetadataStore interface {
	Save(ctx context.Context, viewID string, metadata interface{}) error
	Get(ctx context.Context, viewID string, out interface{}) error
	Delete(ctx context.Context, viewID string) error
}

// SpaceClient is the backend surface the edit workflows need.
type SpaceClient interface {
	GetSpace(ctx context.Context, handle string) (*umoh.Space, error)
	UpdateSpace(ctx context.Context, handle string, space umoh.Space) error
}

// HostClient is the backend surface host management needs.
type HostClient interface {
	GetHosts(ctx context.Context, handle string) ([]umoh.Host, error)
	UpdateHosts(ctx context.Context, handle string, hosts []umoh.Host) error
}

// EngagingClient is the backend surface the engagement notifications need.
type EngagingClient interface {
	GetEngagingByReaction(ctx context.Context, handle string) (*umoh.EngagingEvent, error)
	GetEngagingByScrap(ctx context.Context, handle string, day int) (*umoh.EngagingEvent, error)
	SendEngagingByReaction(ctx context.Context, handle string) error
	SendEngagingByScrap(ctx context.Context, handle string, day int) error
}

// ProfileCreator is the backend surface card creation needs.
type ProfileCreator interface {
	GetSpace(ctx context.Context, handle string) (*umoh.Space, error)
	SignUpAndCreateProfile(ctx context.Context, req umoh.SignUpAndCreateProfileRequest) error
}

// ReportClient is the backend surface the daily report needs.
type ReportClient interface {
	SendDailyReport(ctx context.Context, handle, email string) error
}

// handleParam extracts the space handle from command params, tolerating a
// leading @.
func handleParam(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return strings.TrimPrefix(params[0], "@")
}

// trimmedStateValue is StateValue with surrounding whitespace removed.
func trimmedStateValue(state *slack.ViewState, blockID string) string {
	return strings.TrimSpace(blockkit.StateValue(state, blockID))
}

// displayName resolves a user's display name, falling back to a mention
// when the profile lookup fails.
func displayName(api slackbot.SlackAPI, userID string) string {
	profile, err := api.GetUserProfile(&slack.GetUserProfileParameters{UserID: userID})
	if err != nil {
		log.Printf("service: get user profile %s: %v", userID, err)
		return fmt.Sprintf("<@%s>", userID)
	}
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	return profile.RealName
}

// capitalizeFirst lowercases a word and uppercases its first letter, for
// rendering enum values like ADMIN as Admin.
func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
