package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	authRepo "library_backend/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler purges revoked tokens that expired more
// than ttlDays ago, once a day until ctx is cancelled.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, ttlDays int) {
	if ttlDays < 0 {
		ttlDays = 7
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			RunBlacklistCleanup(ctx, db, ttlDays, time.Now())

			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, ttlDays int, now time.Time) int64 {
	log.Println("[CLEANUP] purging token_blacklist...")

	deleteBefore := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	n, err := authRepo.CleanupExpiredBlacklist(db.WithContext(ctx), deleteBefore)
	switch {
	case err != nil:
		log.Printf("[CLEANUP ERROR] failed to purge tokens: %v", err)
	case n > 0:
		log.Printf("[CLEANUP] %d expired token(s) removed", n)
	default:
		log.Println("[CLEANUP] nothing to remove")
	}
	return n
}
