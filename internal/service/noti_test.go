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

type fakeEngagingClient struct {
	event    *umoh.EngagingEvent
	sendErr  error
	sentKind string
	sentDay  int
}

func (f *fakeEngagingClient) GetEngagingByReaction(_ context.Context, handle string) (*umoh.EngagingEvent, error) {
	if f.event == nil {
		return nil, errors.New("no data")
	}
	return f.event, nil
}

func (f *fakeEngagingClient) GetEngagingByScrap(_ context.Context, handle string, day int) (*umoh.EngagingEvent, error) {
	if f.event == nil {
		return nil, errors.New("no data")
	}
	return f.event, nil
}

func (f *fakeEngagingClient) SendEngagingByReaction(_ context.Context, handle string) error {
	f.sentKind = "reaction"
	return f.sendErr
}

func (f *fakeEngagingClient) SendEngagingByScrap(_ context.Context, handle string, day int) error {
	f.sentKind = "scrap"
	f.sentDay = day
	return f.sendErr
}

func TestDdayFromState(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"day", 0},
		{"1", 1},
		{"10", 10},
		{"", 1},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			state := selectedState(stateWith(nil), blockDdaySelect, tc.value)
			assert.Equal(t, tc.want, ddayFromState(state))
		})
	}
}

func TestNotiScrapSubmitSendsSelectedDay(t *testing.T) {
	store := newFakeStore()
	api := &fakeEngagingClient{event: &umoh.EngagingEvent{}}
	slackAPI := &fakeSlack{}
	svc := NewNotiScrapService(testConfig(), api, slackAPI, store)

	require.NoError(t, store.Save(context.Background(), "V001", NotiMetadata{
		SpaceHandle: "splab", Channel: "C01", UserID: "U01",
	}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = selectedState(stateWith(nil), blockDdaySelect, "3")

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))

	assert.Equal(t, "scrap", api.sentKind)
	assert.Equal(t, 3, api.sentDay)
	require.Len(t, slackAPI.posted, 1)
	assert.Equal(t, "C01", slackAPI.posted[0].channel)
}

func TestNotiReactionSubmitSendFailureKeepsModal(t *testing.T) {
	store := newFakeStore()
	api := &fakeEngagingClient{event: &umoh.EngagingEvent{}, sendErr: errors.New("not enough data")}
	slackAPI := &fakeSlack{}
	svc := NewNotiReactionService(testConfig(), api, slackAPI, store)

	require.NoError(t, store.Save(context.Background(), "V001", NotiMetadata{SpaceHandle: "splab"}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = stateWith(nil)

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))

	assert.NotNil(t, ack.errors())
	assert.Empty(t, slackAPI.posted)

	// The record stays for the retry.
	var meta NotiMetadata
	assert.NoError(t, store.Get(context.Background(), "V001", &meta))
}

func TestEngagingPreviewFallsBackToDefaultImage(t *testing.T) {
	event := &umoh.EngagingEvent{
		Profiles:       []umoh.EngagingProfile{{}, {}},
		PopularProfile: umoh.EngagingProfile{Title: "Hong"},
	}
	blocks := buildEngagingPreviewBlocks("https://umoh.io/@splab", "splab", event)
	require.Len(t, blocks, 5)

	profile, ok := blocks[2].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, fallbackProfileImageURL, profile.Accessory.ImageElement.ImageURL)
}
