package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLockTimeout is returned when a lock could not be acquired within the
// configured wait bound. Callers may retry with backoff.
var ErrLockTimeout = errors.New("lock acquire timed out")

// ErrLockNotHeld is returned when releasing a lock whose token no longer
// matches, meaning the lease expired and someone else may hold it now.
var ErrLockNotHeld = errors.New("lock not held")

// releaseScript deletes the key only when the stored token matches, so an
// expired holder cannot release a lock re-acquired by someone else.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// AcquireLock takes an exclusive lease on key, polling until timeout. The
// returned token must be passed back to ReleaseLock. The lease expires after
// ttl even if never released.
func (c *Client) AcquireLock(ctx context.Context, key string, timeout, ttl, retryInterval time.Duration) (string, error) {
	if c.store == nil {
		return "", errors.New("redis client not initialized")
	}
	if ttl <= 0 {
		return "", errors.New("lock ttl must be positive")
	}
	if retryInterval <= 0 {
		retryInterval = 50 * time.Millisecond
	}

	token := uuid.NewString()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := c.store.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("acquiring lock %s: %w", key, err)
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// ReleaseLock gives up the lease identified by token.
func (c *Client) ReleaseLock(ctx context.Context, key, token string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	res, err := c.store.Eval(ctx, releaseScript, []string{key}, token).Result()
	if err != nil {
		return fmt.Errorf("releasing lock %s: %w", key, err)
	}
	if n, ok := res.(int64); ok && n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
