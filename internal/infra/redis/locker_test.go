package redis

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	locker, mr, _ := newLoggedLocker(t, ttl)
	return locker, mr
}

func newLoggedLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis, *bytes.Buffer) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewLocker(client, "catalog:lock", ttl, logger), mr, &logs
}

func Test_Locker_AcquireRelease(t *testing.T) {
	// given
	locker, mr := newTestLocker(t, time.Minute)

	// when
	unlock, err := locker.Lock(context.Background())

	// then
	require.NoError(t, err)
	assert.True(t, mr.Exists("catalog:lock"))
	unlock()
	unlock()
	assert.False(t, mr.Exists("catalog:lock"))
}

func Test_Locker_BlocksUntilContextDone(t *testing.T) {
	// given
	locker, _ := newTestLocker(t, time.Minute)
	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	// when
	_, err = locker.Lock(ctx)

	// then
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_Locker_ReleaseKeepsForeignToken(t *testing.T) {
	// given
	locker, mr := newTestLocker(t, time.Minute)
	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)

	// another holder took over after our TTL ran out
	require.NoError(t, mr.Set("catalog:lock", "someone-else"))

	// when
	unlock()

	// then
	value, err := mr.Get("catalog:lock")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", value)
}

func Test_Locker_ReleaseFailureIsLogged(t *testing.T) {
	// given
	locker, mr, logs := newLoggedLocker(t, time.Minute)
	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)

	// when
	mr.Close()
	unlock()

	// then
	assert.Contains(t, logs.String(), "Failed to release catalog lock")
	assert.Contains(t, logs.String(), "key=catalog:lock")
}

func Test_Locker_RedisDown(t *testing.T) {
	// given
	locker, mr, _ := newLoggedLocker(t, time.Minute)
	mr.Close()

	// when
	_, err := locker.Lock(context.Background())

	// then
	assert.ErrorContains(t, err, "acquire catalog lock")
}

func Test_Locker_MutualExclusion(t *testing.T) {
	// given
	locker, _ := newTestLocker(t, time.Minute)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	// when
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	// then
	assert.Equal(t, 1, maxSeen)
}
