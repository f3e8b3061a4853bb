// Command splab-bot runs the SPLAB workspace Slack bot: the umoh space
// management commands and the daily cafeteria menu notification.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/team-splab/splab-slack-bot/internal/config"
	"github.com/team-splab/splab-slack-bot/internal/menu"
	"github.com/team-splab/splab-slack-bot/internal/metastore"
	"github.com/team-splab/splab-slack-bot/internal/service"
	"github.com/team-splab/splab-slack-bot/internal/slackbot"
	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "splab-bot",
		Short:         "SPLAB workspace Slack bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "splab-bot: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := metastore.New(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer store.Close()

	api := umoh.NewClient(cfg.SendtimeAPIURL, cfg.SendtimeUserID, cfg.SendtimeUserPW)

	bot, err := slackbot.NewBot(slackbot.BotConfig{
		BotToken: cfg.SlackBotToken,
		AppToken: cfg.SlackAppToken,
		Debug:    cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	categories := service.NewCategoryEditService(cfg, bot.Client(), store)
	categories.Register(bot)

	// Registration order doubles as command match order, so the longer
	// prefixes go first.
	service.NewNotiReactionService(cfg, api, bot.Client(), store).Register(bot)
	service.NewNotiScrapService(cfg, api, bot.Client(), store).Register(bot)
	service.NewSpaceEditService(cfg, api, bot.Client(), store).Register(bot, categories)
	service.NewHostManagementService(cfg, api, bot.Client(), store).Register(bot)
	service.NewCardCreateService(cfg, api, bot.Client(), store, service.NewSheetFetcher()).Register(bot)
	service.NewDailyReportService(cfg, api, bot.Client()).Register(bot)

	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	notifier := menu.NewNotifier(cfg.MenuChannelID, bot.Client(), menu.NewGreeatRepository(), seoul)
	notifier.Register(bot)
	if cfg.Production {
		if _, err := menu.Schedule(ctx, notifier, seoul); err != nil {
			return fmt.Errorf("schedule menu notification: %w", err)
		}
	} else {
		log.Printf("splab-bot: menu notification disabled outside production")
	}

	return bot.Run(ctx)
}
