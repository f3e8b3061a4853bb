package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/metastore"
)

func testConfig() *config.Config {
	return &config.Config{Production: true}
}

// fakeStore is an in-memory MetadataStore.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Save(_ context.Context, viewID string, metadata interface{}) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewID] = raw
	return nil
}

func (s *fakeStore) Get(_ context.Context, viewID string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[viewID]
	if !ok {
		return metastore.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *fakeStore) Delete(_ context.Context, viewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, viewID)
	return nil
}

// fakeSlack records the Slack calls the services make.
type fakeSlack struct {
	posted       []postedMessage
	opened       []slack.ModalViewRequest
	pushed       []slack.ModalViewRequest
	updatedViews []updatedView
	nextViewID   string
}

type postedMessage struct {
	channel string
	options []slack.MsgOption
}

type updatedView struct {
	view   slack.ModalViewRequest
	viewID string
}

func (f *fakeSlack) AuthTest() (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: "UBOT"}, nil
}

func (f *fakeSlack) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	f.posted = append(f.posted, postedMessage{channel: channelID, options: options})
	return channelID, "100.001", nil
}

func (f *fakeSlack) PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error) {
	return "100.002", nil
}

func (f *fakeSlack) UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	return channelID, timestamp, "", nil
}

func (f *fakeSlack) OpenView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	f.opened = append(f.opened, view)
	res := &slack.ViewResponse{}
	res.View.ID = f.viewID()
	return res, nil
}

func (f *fakeSlack) PushView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	f.pushed = append(f.pushed, view)
	res := &slack.ViewResponse{}
	res.View.ID = f.viewID()
	return res, nil
}

func (f *fakeSlack) UpdateView(view slack.ModalViewRequest, externalID, hash, viewID string) (*slack.ViewResponse, error) {
	f.updatedViews = append(f.updatedViews, updatedView{view: view, viewID: viewID})
	res := &slack.ViewResponse{}
	res.View.ID = viewID
	return res, nil
}

func (f *fakeSlack) GetUserProfile(params *slack.GetUserProfileParameters) (*slack.UserProfile, error) {
	return &slack.UserProfile{DisplayName: "tester"}, nil
}

func (f *fakeSlack) viewID() string {
	if f.nextViewID != "" {
		return f.nextViewID
	}
	return "V001"
}

// stateWith builds a view state with one element per block.
func stateWith(values map[string]string) *slack.ViewState {
	state := &slack.ViewState{Values: make(map[string]map[string]slack.BlockAction)}
	for blockID, value := range values {
		state.Values[blockID] = map[string]slack.BlockAction{
			blockID: {Value: value},
		}
	}
	return state
}

// selectedState marks a value as a static-select choice instead of raw text.
func selectedState(state *slack.ViewState, blockID, value string) *slack.ViewState {
	state.Values[blockID] = map[string]slack.BlockAction{
		blockID: {SelectedOption: slack.OptionBlockObject{Value: value}},
	}
	return state
}

// ackRecorder captures what a handler acked with.
type ackRecorder struct {
	called   bool
	payloads []interface{}
}

func (a *ackRecorder) fn() func(payload ...interface{}) {
	return func(payload ...interface{}) {
		a.called = true
		a.payloads = append(a.payloads, payload...)
	}
}

func (a *ackRecorder) errors() map[string]string {
	for _, p := range a.payloads {
		if res, ok := p.(slack.ViewSubmissionResponse); ok && res.Errors != nil {
			return res.Errors
		}
		if res, ok := p.(*slack.ViewSubmissionResponse); ok && res.Errors != nil {
			return res.Errors
		}
	}
	return nil
}
