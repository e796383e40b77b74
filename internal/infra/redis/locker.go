// Package redis provides a catalog lock shared by every bot replica that
// points at the same Redis instance.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
	"github.com/cenkalti/backoff/v5"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// maxLockWait caps how long Lock keeps retrying when ctx has no deadline.
const maxLockWait = time.Minute

var errLockHeld = errors.New("catalog lock held by another process")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a catalog.Locker backed by SET NX with a TTL. The TTL bounds how
// long a crashed holder can block the others.
type Locker struct {
	client goredis.UniversalClient
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

var _ catalog.Locker = (*Locker)(nil)

func NewLocker(client goredis.UniversalClient, key string, ttl time.Duration, logger *slog.Logger) *Locker {
	return &Locker{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger.With("component", "catalog_lock", "key", key),
	}
}

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, addr, username, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Lock retries with exponential backoff until the key is acquired, ctx is
// done, or maxLockWait has passed.
func (l *Locker) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (bool, error) {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return false, backoff.Permanent(err)
		}
		if !ok {
			return false, errLockHeld
		}
		return true, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxElapsedTime(maxLockWait))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}

	return l.unlockFunc(token), nil
}

func (l *Locker) unlockFunc(token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			released, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int64()
			switch {
			case err != nil:
				l.logger.Error("Failed to release catalog lock, it expires with its TTL",
					"ttl", l.ttl, "error", err)
			case released == 0:
				l.logger.Warn("Catalog lock expired before release", "ttl", l.ttl)
			}
		})
	}
}
