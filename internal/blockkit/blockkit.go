// Package blockkit wraps the slack-go block constructors with the small
// set of building helpers the modal views use over and over.
package blockkit

import (
	"strings"

	"github.com/slack-go/slack"
)

// PlainText builds a plain_text text object.
func PlainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

// Markdown builds an mrkdwn text object.
func Markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

// Header builds a header block.
func Header(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(PlainText(text))
}

// Section builds a section block with mrkdwn body text.
func Section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(Markdown(text), nil, nil)
}

// Fields builds a section block whose body is a two-column field grid.
func Fields(fields ...string) *slack.SectionBlock {
	objs := make([]*slack.TextBlockObject, 0, len(fields))
	for _, f := range fields {
		objs = append(objs, Markdown(f))
	}
	return slack.NewSectionBlock(nil, objs, nil)
}

// Divider builds a divider block.
func Divider() *slack.DividerBlock {
	return slack.NewDividerBlock()
}

// Context builds a context block of mrkdwn elements.
func Context(texts ...string) *slack.ContextBlock {
	elems := make([]slack.MixedElement, 0, len(texts))
	for _, t := range texts {
		elems = append(elems, Markdown(t))
	}
	return slack.NewContextBlock("", elems...)
}

// Image builds an image block with the alt text doubling as the title.
func Image(imageURL, altText string) *slack.ImageBlock {
	return slack.NewImageBlock(imageURL, altText, "", PlainText(altText))
}

// TextInputParams configures a plain-text input block.
type TextInputParams struct {
	BlockID      string
	ActionID     string
	Label        string
	Hint         string
	Placeholder  string
	InitialValue string
	Optional     bool
	Multiline    bool
}

// TextInput builds an input block wrapping a plain-text element.
func TextInput(p TextInputParams) *slack.InputBlock {
	var placeholder *slack.TextBlockObject
	if p.Placeholder != "" {
		placeholder = PlainText(p.Placeholder)
	}
	elem := slack.NewPlainTextInputBlockElement(placeholder, p.ActionID)
	elem.InitialValue = p.InitialValue
	elem.Multiline = p.Multiline

	var hint *slack.TextBlockObject
	if p.Hint != "" {
		hint = PlainText(p.Hint)
	}
	return slack.NewInputBlock(p.BlockID, PlainText(p.Label), hint, elem).
		WithOptional(p.Optional)
}

// NumberInputParams configures a number input block.
type NumberInputParams struct {
	BlockID      string
	ActionID     string
	Label        string
	Hint         string
	Placeholder  string
	InitialValue string
	Optional     bool
}

// NumberInput builds an input block wrapping an integer number element.
func NumberInput(p NumberInputParams) *slack.InputBlock {
	var placeholder *slack.TextBlockObject
	if p.Placeholder != "" {
		placeholder = PlainText(p.Placeholder)
	}
	elem := slack.NewNumberInputBlockElement(placeholder, p.ActionID, false)
	elem.InitialValue = p.InitialValue

	var hint *slack.TextBlockObject
	if p.Hint != "" {
		hint = PlainText(p.Hint)
	}
	return slack.NewInputBlock(p.BlockID, PlainText(p.Label), hint, elem).
		WithOptional(p.Optional)
}

// Option pairs a select option's value with its display text.
type Option struct {
	Value       string
	Text        string
	Description string
}

func optionObjects(options []Option) []*slack.OptionBlockObject {
	objs := make([]*slack.OptionBlockObject, 0, len(options))
	for _, o := range options {
		var desc *slack.TextBlockObject
		if o.Description != "" {
			desc = PlainText(o.Description)
		}
		objs = append(objs, slack.NewOptionBlockObject(o.Value, PlainText(o.Text), desc))
	}
	return objs
}

// SelectParams configures a static select input block.
type SelectParams struct {
	BlockID      string
	ActionID     string
	Label        string
	Placeholder  string
	Options      []Option
	InitialValue string
	Optional     bool
}

// Select builds an input block wrapping a static select.
func Select(p SelectParams) *slack.InputBlock {
	var placeholder *slack.TextBlockObject
	if p.Placeholder != "" {
		placeholder = PlainText(p.Placeholder)
	}
	objs := optionObjects(p.Options)
	elem := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, placeholder, p.ActionID, objs...)
	for _, o := range objs {
		if o.Value == p.InitialValue {
			elem = elem.WithInitialOption(o)
			break
		}
	}
	return slack.NewInputBlock(p.BlockID, PlainText(p.Label), nil, elem).
		WithOptional(p.Optional)
}

// MultiSelectParams configures a static multi-select input block.
type MultiSelectParams struct {
	BlockID       string
	ActionID      string
	Label         string
	Placeholder   string
	Options       []Option
	InitialValues []string
	Optional      bool
}

// MultiSelect builds an input block wrapping a static multi-select.
func MultiSelect(p MultiSelectParams) *slack.InputBlock {
	var placeholder *slack.TextBlockObject
	if p.Placeholder != "" {
		placeholder = PlainText(p.Placeholder)
	}
	objs := optionObjects(p.Options)
	elem := slack.NewOptionsMultiSelectBlockElement(slack.MultiOptTypeStatic, placeholder, p.ActionID, objs...)
	for _, o := range objs {
		for _, v := range p.InitialValues {
			if o.Value == v {
				elem.InitialOptions = append(elem.InitialOptions, o)
			}
		}
	}
	return slack.NewInputBlock(p.BlockID, PlainText(p.Label), nil, elem).
		WithOptional(p.Optional)
}

// SectionSelect builds a section block with a static select accessory,
// for selects that live outside the submit payload (e.g. message actions).
func SectionSelect(text, blockID, actionID, placeholder string, options []Option, initialValue string) *slack.SectionBlock {
	objs := optionObjects(options)
	elem := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, PlainText(placeholder), actionID, objs...)
	for _, o := range objs {
		if o.Value == initialValue {
			elem = elem.WithInitialOption(o)
			break
		}
	}
	block := slack.NewSectionBlock(Markdown(text), nil, slack.NewAccessory(elem))
	block.BlockID = blockID
	return block
}

// Confirm builds a confirmation dialog.
func Confirm(title, text, confirm, deny string) *slack.ConfirmationBlockObject {
	return slack.NewConfirmationBlockObject(PlainText(title), Markdown(text), PlainText(confirm), PlainText(deny))
}

// Button describes one button in an action block.
type Button struct {
	ActionID string
	Value    string
	Text     string
	Style    slack.Style
	Confirm  *slack.ConfirmationBlockObject
}

// Buttons builds an action block of buttons.
func Buttons(blockID string, buttons ...Button) *slack.ActionBlock {
	elems := make([]slack.BlockElement, 0, len(buttons))
	for _, b := range buttons {
		elem := slack.NewButtonBlockElement(b.ActionID, b.Value, PlainText(b.Text))
		if b.Style != "" {
			elem = elem.WithStyle(b.Style)
		}
		if b.Confirm != nil {
			elem.Confirm = b.Confirm
		}
		elems = append(elems, elem)
	}
	return slack.NewActionBlock(blockID, elems...)
}

// SectionOverflow builds a section block with an overflow menu accessory.
func SectionOverflow(text, blockID, actionID string, options []Option, confirm *slack.ConfirmationBlockObject) *slack.SectionBlock {
	elem := slack.NewOverflowBlockElement(actionID, optionObjects(options)...)
	elem.Confirm = confirm
	block := slack.NewSectionBlock(Markdown(text), nil, slack.NewAccessory(elem))
	block.BlockID = blockID
	return block
}

// ViewState helpers.

// StateValue returns the submitted value for a block, covering plain
// inputs, number inputs and static selects. Each input block holds exactly
// one element, so the element's action ID does not matter. Multi-select
// values come back joined with commas.
func StateValue(state *slack.ViewState, blockID string) string {
	bv, ok := blockAction(state, blockID)
	if !ok {
		return ""
	}
	if bv.SelectedOption.Value != "" {
		return bv.SelectedOption.Value
	}
	if len(bv.SelectedOptions) > 0 {
		return strings.Join(optionValues(bv.SelectedOptions), ",")
	}
	return bv.Value
}

// StateValues returns the selected values of a multi-select block.
func StateValues(state *slack.ViewState, blockID string) []string {
	bv, ok := blockAction(state, blockID)
	if !ok {
		return nil
	}
	return optionValues(bv.SelectedOptions)
}

func blockAction(state *slack.ViewState, blockID string) (slack.BlockAction, bool) {
	if state == nil {
		return slack.BlockAction{}, false
	}
	for _, bv := range state.Values[blockID] {
		return bv, true
	}
	return slack.BlockAction{}, false
}

func optionValues(options []slack.OptionBlockObject) []string {
	if len(options) == 0 {
		return nil
	}
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return values
}
