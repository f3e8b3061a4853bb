// Package slackbot implements the Socket Mode event loop and routes slash
// commands, modal submissions and block actions to registered services.
// It uses the slack-go/slack library with Socket Mode for WebSocket-based
// communication.
package slackbot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Bot owns the Socket Mode connection and the handler registries.
type Bot struct {
	client     SlackAPI
	socketMode *socketmode.Client
	debug      bool

	services []SlashCommandService

	viewSubmissions map[string]ViewSubmissionHandler
	viewClosed      map[string]ViewClosedHandler

	// Block actions are matched by action ID prefix, in registration
	// order, so handlers can own families of generated IDs.
	actions []actionRegistration

	// Bot identity, resolved at startup.
	botUserID string
}

type actionRegistration struct {
	prefix  string
	handler ActionHandler
}

// BotConfig holds configuration for the Slack bot.
type BotConfig struct {
	BotToken string // xoxb-... Slack bot token
	AppToken string // xapp-... Slack app-level token (for Socket Mode)
	Debug    bool
}

// NewBot creates a new Slack bot. Services are registered afterwards with
// RegisterService and the handler registration methods.
func NewBot(cfg BotConfig) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if cfg.AppToken == "" {
		return nil, fmt.Errorf("app token is required for Socket Mode")
	}
	if !strings.HasPrefix(cfg.AppToken, "xapp-") {
		return nil, fmt.Errorf("app token must start with xapp-")
	}

	client := slack.New(
		cfg.BotToken,
		slack.OptionDebug(cfg.Debug),
		slack.OptionAppLevelToken(cfg.AppToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(cfg.Debug),
	)

	return &Bot{
		client:          client,
		socketMode:      socketClient,
		debug:           cfg.Debug,
		viewSubmissions: make(map[string]ViewSubmissionHandler),
		viewClosed:      make(map[string]ViewClosedHandler),
	}, nil
}

// newBotForTest creates a Bot with an injectable mock Slack client. No
// Slack connection or token validation is performed.
func newBotForTest(slackAPI SlackAPI) *Bot {
	return &Bot{
		client:          slackAPI,
		viewSubmissions: make(map[string]ViewSubmissionHandler),
		viewClosed:      make(map[string]ViewClosedHandler),
	}
}

// Client returns the Slack API used by the bot, for services that post
// outside the event loop.
func (b *Bot) Client() SlackAPI {
	return b.client
}

// RegisterService adds a slash-command service. Commands are routed to the
// first matching service in registration order.
func (b *Bot) RegisterService(svc SlashCommandService) {
	b.services = append(b.services, svc)
	log.Printf("slackbot: registered %s %q", svc.CommandName(), svc.CommandText())
}

// RegisterViewSubmission adds a handler for modal submits with the given
// callback ID.
func (b *Bot) RegisterViewSubmission(callbackID string, h ViewSubmissionHandler) {
	b.viewSubmissions[callbackID] = h
}

// RegisterViewClosed adds a handler for modal closes with the given
// callback ID. The modal must be built with NotifyOnClose.
func (b *Bot) RegisterViewClosed(callbackID string, h ViewClosedHandler) {
	b.viewClosed[callbackID] = h
}

// RegisterAction adds a handler for block actions whose action ID starts
// with prefix.
func (b *Bot) RegisterAction(prefix string, h ActionHandler) {
	b.actions = append(b.actions, actionRegistration{prefix: prefix, handler: h})
}

// Run starts the bot event loop. Blocks until context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	authResp, err := b.client.AuthTest()
	if err != nil {
		log.Printf("slackbot: warning: failed to get bot user ID: %v", err)
	} else {
		b.botUserID = authResp.UserID
		log.Printf("slackbot: bot user ID: %s", b.botUserID)
	}

	go func() {
		for evt := range b.socketMode.Events {
			b.handleEvent(ctx, evt)
		}
	}()

	return b.socketMode.RunContext(ctx)
}

// ---------- Event dispatch ----------

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		log.Println("slackbot: connecting to Socket Mode...")

	case socketmode.EventTypeConnected:
		log.Println("slackbot: connected to Socket Mode")

	case socketmode.EventTypeConnectionError:
		log.Printf("slackbot: connection error: %v", evt.Data)

	case socketmode.EventTypeEventsAPI:
		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		b.socketMode.Ack(*evt.Request)
		b.handleEventsAPI(eventsAPIEvent)

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.handleSlashCommand(ctx, cmd, b.ackOnce(evt.Request))

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		b.handleInteraction(ctx, callback, b.ackOnce(evt.Request))
	}
}

// ackOnce wraps the Socket Mode ack so handlers can respond with a payload
// exactly once; the dispatcher falls back to an empty ack if the handler
// never did.
func (b *Bot) ackOnce(req *socketmode.Request) AckFunc {
	var once sync.Once
	return func(payload ...interface{}) {
		once.Do(func() {
			if req == nil {
				return
			}
			b.socketMode.Ack(*req, payload...)
		})
	}
}

// ---------- Slash commands ----------

func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand, ack AckFunc) {
	log.Printf("slackbot: slash command %s %q from %s", cmd.Command, cmd.Text, cmd.UserID)

	svc, params := b.matchService(cmd)
	if svc == nil {
		ack(EphemeralResponse(fmt.Sprintf("`%s %s` is not supported.", cmd.Command, cmd.Text)))
		return
	}

	if err := svc.HandleCommand(ctx, cmd, params, ack); err != nil {
		log.Printf("slackbot: %s %q: %v", cmd.Command, cmd.Text, err)
		ack(EphemeralResponse(fmt.Sprintf("Something went wrong: %v", err)))
	}
	ack()
}

// matchService finds the first service matching the command and returns
// the whitespace-split text after the matched prefix.
func (b *Bot) matchService(cmd slack.SlashCommand) (SlashCommandService, []string) {
	text := strings.TrimSpace(cmd.Text)
	for _, svc := range b.services {
		if svc.CommandName() != cmd.Command {
			continue
		}
		prefix := svc.CommandText()
		if prefix == "" {
			return svc, strings.Fields(text)
		}
		if text == prefix || strings.HasPrefix(text, prefix+" ") {
			return svc, strings.Fields(strings.TrimPrefix(text, prefix))
		}
	}
	return nil, nil
}

// ---------- Interactions ----------

func (b *Bot) handleInteraction(ctx context.Context, callback slack.InteractionCallback, ack AckFunc) {
	switch callback.Type {
	case slack.InteractionTypeViewSubmission:
		handler, ok := b.viewSubmissions[callback.View.CallbackID]
		if !ok {
			log.Printf("slackbot: no submit handler for callback %q", callback.View.CallbackID)
			ack()
			return
		}
		if err := handler(ctx, callback, ack); err != nil {
			log.Printf("slackbot: submit %s: %v", callback.View.CallbackID, err)
		}
		ack()

	case slack.InteractionTypeViewClosed:
		ack()
		handler, ok := b.viewClosed[callback.View.CallbackID]
		if !ok {
			return
		}
		if err := handler(ctx, callback); err != nil {
			log.Printf("slackbot: close %s: %v", callback.View.CallbackID, err)
		}

	case slack.InteractionTypeBlockActions:
		ack()
		for i := range callback.ActionCallback.BlockActions {
			action := callback.ActionCallback.BlockActions[i]
			handler := b.matchAction(action.ActionID)
			if handler == nil {
				continue
			}
			if err := handler(ctx, callback, action); err != nil {
				log.Printf("slackbot: action %s: %v", action.ActionID, err)
			}
		}

	default:
		ack()
	}
}

func (b *Bot) matchAction(actionID string) ActionHandler {
	for _, reg := range b.actions {
		if strings.HasPrefix(actionID, reg.prefix) {
			return reg.handler
		}
	}
	return nil
}

// ---------- Events API ----------

func (b *Bot) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		b.handleAppMention(ev)
	}
}

func (b *Bot) handleAppMention(ev *slackevents.AppMentionEvent) {
	if ev.User == b.botUserID {
		return
	}
	opts := []slack.MsgOption{
		slack.MsgOptionText(fmt.Sprintf("Hi, <@%s>! :wave:", ev.User), false),
	}
	if ev.ThreadTimeStamp != "" {
		opts = append(opts, slack.MsgOptionTS(ev.ThreadTimeStamp))
	}
	if _, _, err := b.client.PostMessage(ev.Channel, opts...); err != nil {
		log.Printf("slackbot: app mention reply: %v", err)
	}
}
