package bot

import (
	"context"
	"errors"
	"time"

	"concoin/service"

	log "github.com/sirupsen/logrus"
)

// StartDailyCreditWorker starts the external timer that triggers the
// daily credit job at the configured hour. The worker is only a
// trigger: the once-per-day guarantee lives in the service, so a
// restart near the fire time cannot double-credit.
// Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartDailyCreditWorker(ctx context.Context, creditService service.DailyCreditService, creditHour int, loc *time.Location) func() {
	stopChan := make(chan struct{})

	calculateNextRun := func() time.Duration {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), creditHour, 0, 0, 0, loc)

		// If today's fire time has passed, schedule for tomorrow
		if now.After(next) || now.Equal(next) {
			next = next.AddDate(0, 0, 1)
		}

		return next.Sub(now)
	}

	runOnce := func() {
		_, err := creditService.Run(context.Background(), time.Now())
		if err != nil {
			if errors.Is(err, service.ErrAlreadyCredited) || errors.Is(err, service.ErrCreditRunInProgress) {
				log.Infof("Daily credit run skipped: %v", err)
				return
			}
			log.Errorf("Daily credit run failed: %v", err)
		}
	}

	go func() {
		log.Info("Daily credit worker started")

		for {
			wait := calculateNextRun()
			log.Debugf("Next daily credit run in %v", wait)

			select {
			case <-ctx.Done():
				log.Info("Daily credit worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Daily credit worker shutting down (stop requested)...")
				return
			case <-time.After(wait):
				runOnce()
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
