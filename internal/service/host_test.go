package service

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

func TestBuildHostList(t *testing.T) {
	hosts := buildHostList(
		"leo@splab.dev, kang@splab.dev\nleo@splab.dev",
		"kang@splab.dev guest@splab.dev",
	)

	require.Len(t, hosts, 3)
	assert.Equal(t, umoh.Host{Email: "leo@splab.dev", AccessType: umoh.AccessAdmin}, hosts[0])
	assert.Equal(t, umoh.Host{Email: "kang@splab.dev", AccessType: umoh.AccessAdmin}, hosts[1])
	assert.Equal(t, umoh.Host{Email: "guest@splab.dev", AccessType: umoh.AccessViewer}, hosts[2])
}

func TestBuildHostListEmpty(t *testing.T) {
	assert.Empty(t, buildHostList("", ""))
}

type fakeHostClient struct {
	hosts   []umoh.Host
	updated []umoh.Host
	handle  string
}

func (f *fakeHostClient) GetHosts(_ context.Context, handle string) ([]umoh.Host, error) {
	return f.hosts, nil
}

func (f *fakeHostClient) UpdateHosts(_ context.Context, handle string, hosts []umoh.Host) error {
	f.handle = handle
	f.updated = hosts
	return nil
}

func TestHostSubmitReplacesHosts(t *testing.T) {
	store := newFakeStore()
	api := &fakeHostClient{}
	slackAPI := &fakeSlack{}
	svc := NewHostManagementService(testConfig(), api, slackAPI, store)

	require.NoError(t, store.Save(context.Background(), "V001", HostMetadata{
		SpaceHandle: "splab",
		Channel:     "C01",
		UserID:      "U01",
	}))

	cb := slack.InteractionCallback{}
	cb.View.ID = "V001"
	cb.View.State = stateWith(map[string]string{
		blockInputAdmins:  "leo@splab.dev",
		blockInputViewers: "guest@splab.dev",
	})

	ack := &ackRecorder{}
	require.NoError(t, svc.HandleSubmit(context.Background(), cb, ack.fn()))

	assert.Equal(t, "splab", api.handle)
	require.Len(t, api.updated, 2)
	assert.Equal(t, umoh.AccessAdmin, api.updated[0].AccessType)

	// Confirmation lands in the originating channel and the record is gone.
	require.Len(t, slackAPI.posted, 1)
	assert.Equal(t, "C01", slackAPI.posted[0].channel)
	var gone HostMetadata
	assert.Error(t, store.Get(context.Background(), "V001", &gone))
}

func TestHostCommandRequiresHandle(t *testing.T) {
	svc := NewHostManagementService(testConfig(), &fakeHostClient{}, &fakeSlack{}, newFakeStore())

	ack := &ackRecorder{}
	err := svc.HandleCommand(context.Background(), slack.SlashCommand{}, nil, ack.fn())
	require.NoError(t, err)
	require.Len(t, ack.payloads, 1)

	response, ok := ack.payloads[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ephemeral", response["response_type"])
}
