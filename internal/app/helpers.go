package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medtrack/internal/repository"
)

// swapped in tests
var newPool = repository.NewPool

// connectAttemptTimeout bounds a single pool open plus ping.
const connectAttemptTimeout = 3 * time.Second

// connectDbWithRetry dials Postgres up to retries times, sleeping delay
// between attempts. A canceled ctx stops the loop immediately.
func connectDbWithRetry(ctx context.Context, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := 1; ; attempt++ {
		actx, cancel := context.WithTimeout(ctx, connectAttemptTimeout)
		pool, err := newPool(actx, dsn)
		cancel()
		if err == nil {
			log.Printf("db connected on attempt %d", attempt)
			return pool, nil
		}
		lastErr = err
		log.Printf("db connect attempt %d/%d: %v", attempt, retries, err)
		if attempt >= retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", retries, lastErr)
}
