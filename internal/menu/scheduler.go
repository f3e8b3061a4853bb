package menu

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Cron windows the menu message is (re)sent in: every five minutes through
// the morning, then until 13:30.
var cronWindows = []string{
	"*/5 9-12 * * MON-FRI",
	"0-30/5 13 * * MON-FRI",
}

// Schedule runs the notifier on the cafeteria's cron windows until ctx is
// cancelled. The caller decides whether to schedule at all (development
// deployments don't).
func Schedule(ctx context.Context, notifier *Notifier, loc *time.Location) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	task := gocron.NewTask(func() {
		if err := notifier.Send(ctx); err != nil {
			log.Printf("menu: send notification: %v", err)
		}
	})
	for _, window := range cronWindows {
		if _, err := scheduler.NewJob(gocron.CronJob(window, false), task); err != nil {
			_ = scheduler.Shutdown()
			return nil, err
		}
	}

	scheduler.Start()
	go func() {
		<-ctx.Done()
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("menu: scheduler shutdown: %v", err)
		}
	}()
	return scheduler, nil
}
