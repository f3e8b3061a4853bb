package service

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

type fakeRowSource struct {
	rows [][]string
	err  error
}

func (f *fakeRowSource) FetchRows(_ context.Context, _ string) ([][]string, error) {
	return f.rows, f.err
}

type fakeProfileCreator struct {
	space    *umoh.Space
	created  []umoh.SignUpAndCreateProfileRequest
	failWith map[string]error
}

func (f *fakeProfileCreator) GetSpace(_ context.Context, handle string) (*umoh.Space, error) {
	if f.space == nil {
		return nil, errors.New("not found")
	}
	return f.space, nil
}

func (f *fakeProfileCreator) SignUpAndCreateProfile(_ context.Context, req umoh.SignUpAndCreateProfileRequest) error {
	if err := f.failWith[req.SignUpInfo.Email]; err != nil {
		return err
	}
	f.created = append(f.created, req)
	return nil
}

func TestCardCreateLoadStoresCards(t *testing.T) {
	store := newFakeStore()
	slackAPI := &fakeSlack{}
	svc := NewCardCreateService(testConfig(), &fakeProfileCreator{}, slackAPI, store, &fakeRowSource{
		rows: [][]string{{"홍길동", "hong@splab.dev"}},
	})

	require.NoError(t, store.Save(context.Background(), "V001", CardCreateMetadata{SpaceID: "SPACE1"}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = stateWith(map[string]string{
		blockInputSpreadsheet: "https://docs.google.com/spreadsheets/d/abc/edit",
	})

	require.NoError(t, svc.HandleLoad(context.Background(), cb, nil))

	var saved CardCreateMetadata
	require.NoError(t, store.Get(context.Background(), "V001", &saved))
	require.Len(t, saved.Cards, 1)
	assert.Equal(t, "SPACE1", saved.Cards[0].SpaceProfileInfo.SpaceID)
	require.Len(t, slackAPI.updatedViews, 1)
}

func TestCardCreateLoadErrorClearsCards(t *testing.T) {
	store := newFakeStore()
	slackAPI := &fakeSlack{}
	svc := NewCardCreateService(testConfig(), &fakeProfileCreator{}, slackAPI, store, &fakeRowSource{
		err: errors.New("invalid spreadsheet url"),
	})

	require.NoError(t, store.Save(context.Background(), "V001", CardCreateMetadata{
		SpaceID: "SPACE1",
		Cards:   []umoh.SignUpAndCreateProfileRequest{{}},
	}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = stateWith(map[string]string{blockInputSpreadsheet: "nope"})

	require.NoError(t, svc.HandleLoad(context.Background(), cb, nil))

	var saved CardCreateMetadata
	require.NoError(t, store.Get(context.Background(), "V001", &saved))
	assert.Empty(t, saved.Cards)
}

func TestCardCreateSubmitRequiresLoadedCards(t *testing.T) {
	store := newFakeStore()
	svc := NewCardCreateService(testConfig(), &fakeProfileCreator{}, &fakeSlack{}, store, &fakeRowSource{})

	require.NoError(t, store.Save(context.Background(), "V001", CardCreateMetadata{SpaceID: "SPACE1"}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = stateWith(map[string]string{blockInputSpreadsheet: ""})

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))
	assert.Contains(t, ack.errors(), blockInputSpreadsheet)
}

func TestCardCreateSubmitCreatesAllCards(t *testing.T) {
	store := newFakeStore()
	slackAPI := &fakeSlack{}
	api := &fakeProfileCreator{failWith: map[string]error{"bad@splab.dev": errors.New("boom")}}
	svc := NewCardCreateService(testConfig(), api, slackAPI, store, &fakeRowSource{})

	cards := []umoh.SignUpAndCreateProfileRequest{
		{SignUpInfo: umoh.SignUpInfo{Email: "hong@splab.dev"}},
		{SignUpInfo: umoh.SignUpInfo{Email: "bad@splab.dev"}},
		{SignUpInfo: umoh.SignUpInfo{Email: "kim@splab.dev"}},
	}
	require.NoError(t, store.Save(context.Background(), "V001", CardCreateMetadata{
		SpaceID: "SPACE1", SpaceHandle: "splab", Channel: "C01", UserID: "U01", Cards: cards,
	}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = stateWith(map[string]string{blockInputSpreadsheet: "url"})

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))

	require.Len(t, api.created, 2)
	// Start message, three per-row results and the final tally.
	assert.Len(t, slackAPI.posted, 5)

	var gone CardCreateMetadata
	assert.Error(t, store.Get(context.Background(), "V001", &gone))
}

func TestCardCreateViewCapsPreviewBlocks(t *testing.T) {
	cards := make([]umoh.SignUpAndCreateProfileRequest, 150)
	view := buildCardCreateView("", "url", cards)
	assert.LessOrEqual(t, len(view.Blocks.BlockSet), 100)

	header, ok := view.Blocks.BlockSet[len(view.Blocks.BlockSet)-1].(*slack.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "more cards")
}
