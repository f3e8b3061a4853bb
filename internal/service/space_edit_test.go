package service

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

type fakeSpaceClient struct {
	space   *umoh.Space
	updated *umoh.Space
}

func (f *fakeSpaceClient) GetSpace(_ context.Context, handle string) (*umoh.Space, error) {
	if f.space == nil {
		return nil, assert.AnError
	}
	copied := *f.space
	return &copied, nil
}

func (f *fakeSpaceClient) UpdateSpace(_ context.Context, handle string, space umoh.Space) error {
	f.updated = &space
	return nil
}

func editState() *slack.ViewState {
	state := stateWith(map[string]string{
		blockInputHandle:              "splab",
		blockInputTitle:               "SPLAB",
		blockInputDescription:         "We build scheduling tools",
		blockInputContacts:            "hello@splab.dev, https://splab.dev",
		blockInputCategoryPlaceholder: "직군을 선택하세요",
		blockInputMaxSelections:       "2",
		blockInputSubtitle:            "한 줄 소개",
		blockInputEntryCode:           "1234",
	})
	selectedState(state, blockInputImageShape, string(umoh.ShapeCircleDefault))
	selectedState(state, blockInputDefaultLanguage, "ko")
	selectedState(state, blockInputSpacePermission, string(umoh.PermissionPreview))
	selectedState(state, blockInputMessaging, umoh.MessagingEnabledWithAuth)
	selectedState(state, blockInputBoardAccess, umoh.BoardPublic)
	state.Values[blockInputSocialLinks] = map[string]slack.BlockAction{
		blockInputSocialLinks: {SelectedOptions: []slack.OptionBlockObject{
			{Value: string(umoh.SocialWebsite)},
			{Value: string(umoh.SocialGitHub)},
		}},
	}
	return state
}

func TestApplyForm(t *testing.T) {
	svc := NewSpaceEditService(testConfig(), &fakeSpaceClient{}, &fakeSlack{}, newFakeStore())

	items := []umoh.CategoryItem{{ID: "dev"}}
	space := svc.applyForm(umoh.Space{Handle: "old"}, editState(), items)

	assert.Equal(t, "splab", space.Handle)
	assert.Equal(t, "SPLAB", space.Title)
	assert.Equal(t, "ko", space.DefaultLanguage)
	assert.Equal(t, "1234", space.EnterCode)

	require.Len(t, space.ContactPoints, 2)
	assert.Equal(t, umoh.ContactEmail, space.ContactPoints[0].Type)
	assert.Equal(t, umoh.ContactWebsite, space.ContactPoints[1].Type)

	assert.Nil(t, space.ImageConfig)
	assert.Equal(t, umoh.PermissionPreview, umoh.PermissionOf(space))

	require.NotNil(t, space.ProfileCategoryConfig)
	assert.Equal(t, 2, space.ProfileCategoryConfig.MaxItemNumber)
	assert.Equal(t, items, space.ProfileCategoryConfig.CategoryItems)
	assert.Equal(t, "직군을 선택하세요",
		umoh.LocalizedTextFor(space.ProfileCategoryConfig.LocalizedCategoryLabels, "ko"))

	require.NotNil(t, space.ProfileCreateConfig)
	assert.Equal(t, []string{"WEBSITE", "GITHUB"}, space.ProfileCreateConfig.SupportedSocials)
	assert.Equal(t, "SUBTITLE", space.ProfileSubtitleType)

	require.NotNil(t, space.BoardConfig)
	assert.True(t, space.BoardConfig.IsEnabled)
	assert.Equal(t, umoh.BoardPublic, space.BoardConfig.AccessType)

	assert.True(t, space.IsNeedMessaging)
	assert.Equal(t, umoh.MessagingEnabledWithAuth, space.MessagingOption)
}

func TestApplyFormNoCategoriesDropsConfig(t *testing.T) {
	svc := NewSpaceEditService(testConfig(), &fakeSpaceClient{}, &fakeSlack{}, newFakeStore())

	space := svc.applyForm(umoh.Space{
		ProfileCategoryConfig: &umoh.CategoryConfig{CategoryItems: []umoh.CategoryItem{{ID: "x"}}},
	}, editState(), nil)

	assert.Nil(t, space.ProfileCategoryConfig)
}

func TestApplyFormDisabledBoardAndMessaging(t *testing.T) {
	svc := NewSpaceEditService(testConfig(), &fakeSpaceClient{}, &fakeSlack{}, newFakeStore())

	state := editState()
	selectedState(state, blockInputBoardAccess, "DISABLED")
	selectedState(state, blockInputMessaging, umoh.MessagingDisabled)
	space := svc.applyForm(umoh.Space{}, state, nil)

	require.NotNil(t, space.BoardConfig)
	assert.False(t, space.BoardConfig.IsEnabled)
	assert.Equal(t, umoh.BoardPrivate, space.BoardConfig.AccessType)
	assert.False(t, space.IsNeedMessaging)
}

func TestSpaceEditSubmitExpiredForm(t *testing.T) {
	svc := NewSpaceEditService(testConfig(), &fakeSpaceClient{}, &fakeSlack{}, newFakeStore())

	cb := slack.InteractionCallback{}
	cb.View.ID = "VGONE"
	cb.View.State = editState()

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))

	errs := ack.errors()
	require.NotNil(t, errs)
	assert.Contains(t, errs[blockInputHandle], "expired")
}

func TestSpaceEditSubmitUpdatesAndReports(t *testing.T) {
	store := newFakeStore()
	api := &fakeSpaceClient{space: &umoh.Space{ID: "S1", Handle: "splab"}}
	slackAPI := &fakeSlack{}
	svc := NewSpaceEditService(testConfig(), api, slackAPI, store)

	require.NoError(t, store.Save(context.Background(), "V001", SpaceEditMetadata{
		SpaceID: "S1", SpaceHandle: "splab", Channel: "C01", UserID: "U01",
	}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = editState()

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))
	assert.Nil(t, ack.errors())

	require.NotNil(t, api.updated)
	assert.Equal(t, "splab", api.updated.Handle)

	// Summary message plus at least one thread reply.
	assert.GreaterOrEqual(t, len(slackAPI.posted), 2)

	var gone SpaceEditMetadata
	assert.Error(t, store.Get(context.Background(), "V001", &gone))
}

func TestSpaceEditFormFromSpace(t *testing.T) {
	space := &umoh.Space{
		ID:              "S1",
		Handle:          "splab",
		Title:           "SPLAB",
		DefaultLanguage: "ko",
		EnterCode:       "1234",
		ContactPoints: []umoh.ContactPoint{
			{Type: umoh.ContactEmail, Value: "hello@splab.dev"},
		},
		ProfileCategoryConfig: &umoh.CategoryConfig{
			MaxItemNumber: 3,
			LocalizedCategoryLabels: []umoh.LocalizedText{
				{Language: "ko", Text: "직군"},
			},
		},
		ProfileCreateConfig: &umoh.ProfileCreateConfig{
			SupportedSocials: []string{"WEBSITE", "BOGUS"},
		},
		BoardConfig: &umoh.BoardConfig{IsEnabled: true, AccessType: umoh.BoardPreview},
	}

	form := spaceEditFormFromSpace(space)
	assert.Equal(t, "splab", form.Handle)
	assert.Equal(t, "hello@splab.dev", form.Contacts)
	assert.Equal(t, "3", form.MaxSelections)
	assert.Equal(t, "직군", form.CategoryPlaceholder)
	assert.Equal(t, []string{"WEBSITE"}, form.SocialValues)
	assert.Equal(t, umoh.BoardPreview, form.BoardAccess)
}
