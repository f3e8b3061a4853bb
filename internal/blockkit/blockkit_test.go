package blockkit

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func TestStateValue(t *testing.T) {
	state := &slack.ViewState{Values: map[string]map[string]slack.BlockAction{
		"input-title": {
			"input-title": {Value: "SPLAB"},
		},
		"input-shape": {
			// Section accessories carry their own action ID; the block is
			// still read by block ID alone.
			"select-ignore": {SelectedOption: slack.OptionBlockObject{Value: "CIRCLE"}},
		},
		"input-socials": {
			"input-socials": {SelectedOptions: []slack.OptionBlockObject{
				{Value: "WEBSITE"}, {Value: "GITHUB"},
			}},
		},
	}}

	assert.Equal(t, "SPLAB", StateValue(state, "input-title"))
	assert.Equal(t, "CIRCLE", StateValue(state, "input-shape"))
	assert.Equal(t, "WEBSITE,GITHUB", StateValue(state, "input-socials"))
	assert.Empty(t, StateValue(state, "missing"))
	assert.Empty(t, StateValue(nil, "input-title"))
}

func TestStateValues(t *testing.T) {
	state := &slack.ViewState{Values: map[string]map[string]slack.BlockAction{
		"input-socials": {
			"input-socials": {SelectedOptions: []slack.OptionBlockObject{
				{Value: "WEBSITE"}, {Value: "GITHUB"},
			}},
		},
	}}

	assert.Equal(t, []string{"WEBSITE", "GITHUB"}, StateValues(state, "input-socials"))
	assert.Empty(t, StateValues(state, "missing"))
}

func TestTextInput(t *testing.T) {
	block := TextInput(TextInputParams{
		BlockID:      "input-admins",
		ActionID:     "input-admins",
		Label:        "Admins",
		Hint:         "One email per line",
		Placeholder:  "leo@splab.dev",
		InitialValue: "leo@splab.dev\nkang@splab.dev",
		Optional:     true,
		Multiline:    true,
	})

	assert.Equal(t, "input-admins", block.BlockID)
	assert.True(t, block.Optional)
	assert.Equal(t, "Admins", block.Label.Text)
	assert.Equal(t, "One email per line", block.Hint.Text)

	elem, ok := block.Element.(*slack.PlainTextInputBlockElement)
	assert.True(t, ok)
	assert.Equal(t, "input-admins", elem.ActionID)
	assert.Equal(t, "leo@splab.dev\nkang@splab.dev", elem.InitialValue)
	assert.True(t, elem.Multiline)
	assert.Equal(t, "leo@splab.dev", elem.Placeholder.Text)
}

func TestSelectInitialOption(t *testing.T) {
	block := Select(SelectParams{
		BlockID:      "b",
		ActionID:     "a",
		Label:        "Label",
		Options:      []Option{{Value: "x", Text: "X"}, {Value: "y", Text: "Y"}},
		InitialValue: "y",
	})

	elem, ok := block.Element.(*slack.SelectBlockElement)
	assert.True(t, ok)
	assert.NotNil(t, elem.InitialOption)
	assert.Equal(t, "y", elem.InitialOption.Value)
}
