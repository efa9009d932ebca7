package main

import (
	"context"
	"fmt"
	"time"
)

const (
	invitationPurgeAge = 7 * 24 * time.Hour
	pushTokenStaleAge  = 70 * 24 * time.Hour
)

// background runs fn on its own goroutine. run waits for these on shutdown.
func (app *application) background(fn func(ctx context.Context)) {
	app.wg.Add(1)

	go func() {
		defer app.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", fmt.Sprint(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		fn(ctx)
	}()
}

func (app *application) startBackgroundJobs(ctx context.Context) {
	app.every(ctx, time.Hour, "purge expired invitations", func(ctx context.Context) error {
		n, err := app.store.Invitations.PurgeExpired(ctx, invitationPurgeAge)
		if err == nil && n > 0 {
			app.logger.Infow("purged expired invitations", "count", n)
		}
		return err
	})

	app.every(ctx, 24*time.Hour, "prune stale push tokens", func(ctx context.Context) error {
		n, err := app.store.PushTokens.PruneStale(ctx, pushTokenStaleAge)
		if err == nil && n > 0 {
			app.logger.Infow("pruned stale push tokens", "count", n)
		}
		return err
	})
}

// every runs job once immediately and then on each tick until ctx is done.
func (app *application) every(ctx context.Context, interval time.Duration, name string, job func(context.Context) error) {
	app.wg.Add(1)

	go func() {
		defer app.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := job(jobCtx); err != nil && ctx.Err() == nil {
				app.logger.Errorw("background job failed", "job", name, "error", err.Error())
			}
			cancel()

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
