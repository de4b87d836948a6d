// Package lock provides a Redis-backed advisory lock that serializes
// reconciliations against the same host.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/nmconn/pkg/util"
)

const keyPrefix = "NMCONN_LOCK|"

// acquireScript atomically creates the lock hash with a TTL if it does not
// already exist. Returns 1 on success, 0 if held by someone else.
var acquireScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "holder", ARGV[1], "acquired", ARGV[2], "ttl", ARGV[3])
redis.call("EXPIRE", KEYS[1], tonumber(ARGV[3]))
return 1
`)

// releaseScript deletes the lock only if the caller is the holder.
// Returns 1 if deleted, 0 on holder mismatch, -1 if the key is gone.
var releaseScript = redis.NewScript(`
local h = redis.call("HGET", KEYS[1], "holder")
if h == false then
	return -1
end
if h ~= ARGV[1] then
	return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

// Locker acquires and releases per-host locks.
type Locker struct {
	client *redis.Client
}

// New connects to the Redis server at addr using database db.
func New(addr string, db int) *Locker {
	return &Locker{client: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

// Ping verifies the Redis server is reachable.
func (l *Locker) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to lock server: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (l *Locker) Close() error {
	return l.client.Close()
}

// Acquire takes the lock for host on behalf of holder. The lock expires
// after ttl so a crashed holder cannot wedge the host.
func (l *Locker) Acquire(ctx context.Context, host, holder string, ttl time.Duration) error {
	secs := int(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	res, err := acquireScript.Run(ctx, l.client, []string{keyPrefix + host},
		holder, time.Now().UTC().Format(time.RFC3339), secs).Int()
	if err != nil {
		return fmt.Errorf("acquiring lock on %s: %w", host, err)
	}
	if res == 1 {
		util.WithHost(host).Debugf("Lock acquired by %s", holder)
		return nil
	}

	current, acquired, herr := l.Holder(ctx, host)
	if herr != nil || current == "" {
		return fmt.Errorf("%w: %s", util.ErrHostLocked, host)
	}
	return fmt.Errorf("%w: %s held by %s since %s", util.ErrHostLocked, host, current,
		acquired.Format(time.RFC3339))
}

// Release drops the lock for host. Releasing a lock that has already
// expired is not an error; releasing someone else's lock is.
func (l *Locker) Release(ctx context.Context, host, holder string) error {
	res, err := releaseScript.Run(ctx, l.client, []string{keyPrefix + host}, holder).Int()
	if err != nil {
		return fmt.Errorf("releasing lock on %s: %w", host, err)
	}
	switch res {
	case 0:
		return fmt.Errorf("lock on %s is not held by %s", host, holder)
	case -1:
		util.WithHost(host).Debug("Lock already expired")
	}
	return nil
}

// Holder returns the current holder of the lock on host and when it was
// acquired. An empty holder means the host is not locked.
func (l *Locker) Holder(ctx context.Context, host string) (string, time.Time, error) {
	vals, err := l.client.HGetAll(ctx, keyPrefix+host).Result()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("reading lock on %s: %w", host, err)
	}
	holder := vals["holder"]
	if holder == "" {
		return "", time.Time{}, nil
	}
	acquired, _ := time.Parse(time.RFC3339, vals["acquired"])
	return holder, acquired, nil
}
