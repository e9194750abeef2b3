package scheduler

import (
	"context"
	"log"
	"time"

	borrowService "library_backend/internals/features/borrowing/service"
)

// StartOverdueScheduler flags late loans once at start and then every
// interval until ctx is cancelled.
func StartOverdueScheduler(ctx context.Context, ledger *borrowService.Ledger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			RunOverdueSweep(ctx, ledger, time.Now())

			select {
			case <-ctx.Done():
				log.Println("[OVERDUE] scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

// RunOverdueSweep runs one pass and logs the outcome.
func RunOverdueSweep(ctx context.Context, ledger *borrowService.Ledger, now time.Time) int64 {
	n, err := ledger.MarkOverdue(ctx, now)
	switch {
	case err != nil:
		log.Printf("[OVERDUE ERROR] sweep failed: %v", err)
	case n > 0:
		log.Printf("[OVERDUE] %d loan(s) marked overdue", n)
	}
	return n
}
