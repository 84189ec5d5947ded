package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"internhub_backend/internals/repository"
)

// PurgeExpiredTokens deletes blacklist rows whose token has expired anyway.
func PurgeExpiredTokens(ctx context.Context, store repository.Store, now time.Time) (int64, error) {
	n, err := store.PurgeExpiredTokens(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired blacklist tokens removed", n)
	}
	return n, nil
}

// StartBlacklistCleanupScheduler runs the purge on spec (cron syntax, UTC).
// The caller stops the returned cron on shutdown.
func StartBlacklistCleanupScheduler(store repository.Store, spec string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := PurgeExpiredTokens(ctx, store, time.Now().UTC()); err != nil {
			log.Printf("[CLEANUP ERROR] purge token_blacklist: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[INFO] token blacklist cleanup scheduled (%s)", spec)
	return c, nil
}
