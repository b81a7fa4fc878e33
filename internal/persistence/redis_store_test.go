package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const redisTestPrefix = "draftline:test:"

// newRedisStore connects to the Redis named by DRAFTLINE_REDIS_ADDR
// (default localhost:6379) and skips the test when none is reachable.
func newRedisStore(t *testing.T) *RedisSessionStore {
	t.Helper()

	addr := os.Getenv("DRAFTLINE_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping Redis tests: %v", err)
	}

	// Clean up all keys with the test prefix.
	iter := client.Scan(context.Background(), 0, redisTestPrefix+"*", 0).Iterator()
	for iter.Next(context.Background()) {
		require.NoError(t, client.Del(context.Background(), iter.Val()).Err())
	}
	require.NoError(t, iter.Err())

	return NewRedisSessionStore(client, redisTestPrefix)
}

func TestRedisStoreContract(t *testing.T) {
	testSessionStore(t, newRedisStore(t))
}
