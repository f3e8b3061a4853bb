package menu

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/team-splab/splab-slack-bot/internal/blockkit"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
)

// ActionMenuSelect is the block action ID of the per-corner pick button.
const ActionMenuSelect = "menu_select"

var koreanDays = []string{"일", "월", "화", "수", "목", "금", "토"}

// MenuSource provides the day's menus.
type MenuSource interface {
	FetchMenus(ctx context.Context, date string) ([]Menu, error)
}

// Notifier posts the menu message once per day and edits it in place on
// every later cycle of the same day. The last message timestamp lives only
// in memory; a restart posts a fresh message.
type Notifier struct {
	channelID string
	slack     slackbot.SlackAPI
	source    MenuSource
	picks     *Picks
	loc       *time.Location
	now       func() time.Time

	mu           sync.Mutex
	lastSentTS   string
	lastSentDate string
}

// NewNotifier wires a notifier for the given channel.
func NewNotifier(channelID string, slackAPI slackbot.SlackAPI, source MenuSource, loc *time.Location) *Notifier {
	return &Notifier{
		channelID: channelID,
		slack:     slackAPI,
		source:    source,
		picks:     NewPicks(),
		loc:       loc,
		now:       time.Now,
	}
}

// Register hooks the pick button into the bot.
func (n *Notifier) Register(bot *slackbot.Bot) {
	bot.RegisterAction(ActionMenuSelect, n.HandleMenuSelect)
}

// Send fetches the menus and posts or updates the day's message.
func (n *Notifier) Send(ctx context.Context) error {
	now := n.now().In(n.loc)
	date := now.Format("20060102")

	menus, err := n.source.FetchMenus(ctx, date)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	title := fmt.Sprintf("%d/%d (%s) 오늘의 메뉴", now.Month(), now.Day(), koreanDays[now.Weekday()])

	if n.lastSentTS != "" && n.lastSentDate == date {
		blocks := n.buildBlocks(title, menus)
		_, ts, _, err := n.slack.UpdateMessage(n.channelID, n.lastSentTS,
			slack.MsgOptionText(title, false),
			slack.MsgOptionBlocks(blocks...))
		if err != nil {
			return fmt.Errorf("update menu message: %w", err)
		}
		n.lastSentTS = ts
		log.Printf("menu: notification updated for %s", date)
	} else {
		n.picks.Reset()
		blocks := n.buildBlocks(title, menus)
		_, ts, err := n.slack.PostMessage(n.channelID,
			slack.MsgOptionText(title, false),
			slack.MsgOptionBlocks(blocks...))
		if err != nil {
			return fmt.Errorf("post menu message: %w", err)
		}
		n.lastSentTS = ts
		log.Printf("menu: notification posted for %s", date)
	}
	n.lastSentDate = date
	return nil
}

// HandleMenuSelect toggles the clicking user's pick and refreshes the
// message.
func (n *Notifier) HandleMenuSelect(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error {
	n.picks.Toggle(action.Value, callback.User.ID)
	return n.Send(ctx)
}

func (n *Notifier) buildBlocks(title string, menus []Menu) []slack.Block {
	blocks := []slack.Block{blockkit.Header(title)}
	for _, m := range menus {
		blocks = append(blocks, blockkit.Divider(), n.cornerBlock(m))
		if m.ImageURL != "" {
			blocks = append(blocks, blockkit.Image(encodeImageURL(m.ImageURL), m.Name))
		}
	}
	blocks = append(blocks,
		blockkit.Divider(),
		blockkit.Context(fmt.Sprintf("마지막 업데이트: %s", n.now().In(n.loc).Format("2006-01-02 15:04:05"))),
	)
	return blocks
}

func (n *Notifier) cornerBlock(m Menu) slack.Block {
	mentions := make([]string, 0)
	for _, id := range n.picks.Users(m.CornerID) {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}

	var remaining string
	if m.MaxQuantity >= m.CurrentQuantity {
		remaining = fmt.Sprintf("*%d* 인분 남음", m.MaxQuantity-m.CurrentQuantity)
	} else {
		remaining = fmt.Sprintf("*%d* 인분 초과 판매 중", m.CurrentQuantity-m.MaxQuantity)
	}
	percent := 0
	if m.MaxQuantity != 0 {
		percent = int(math.Round(float64(m.MaxQuantity-m.CurrentQuantity) / float64(m.MaxQuantity) * 100))
	}

	text := fmt.Sprintf("*%s*  %s\n*%s* (%s)\n%s (%d%%)\n%skcal",
		m.CornerName, strings.Join(mentions, " "), m.Name, m.Category, remaining, percent, m.Kcal)

	button := slack.NewButtonBlockElement(ActionMenuSelect, m.CornerID, blockkit.PlainText("선택"))
	return slack.NewSectionBlock(blockkit.Markdown(text), nil, slack.NewAccessory(button))
}

// encodeImageURL percent-encodes the odd space or Hangul the cafeteria API
// leaves raw in its image URLs.
func encodeImageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.String()
}
