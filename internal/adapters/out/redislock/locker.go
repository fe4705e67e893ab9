// Package redislock serializes order mutations across engine instances with
// Redis keys set by SET NX PX. Each lock carries a random token so that only
// the holder can remove it, and a TTL so that a crashed holder cannot block an
// order forever.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 30 * time.Second

var errLockHeld = errors.New("lock is held by another operation")

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewLocker builds a locker on an existing client. A non-positive ttl falls
// back to DefaultTTL.
func NewLocker(client redis.UniversalClient, prefix string, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "orderengine"
	}
	return &Locker{client: client, prefix: prefix, ttl: ttl}
}

// NewClient connects to addr and checks the connection with PING.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (l *Locker) key(id kernel.UUID) string {
	return fmt.Sprintf("%s:order-lock:%s", l.prefix, id.String())
}

func (l *Locker) TryAcquire(ctx context.Context, id kernel.UUID) (ports.OrderLock, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	token := ulid.Make().String()
	key := l.key(id)

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, errs.NewConcurrentModificationErrorWithCause("order", id.String(), errLockHeld)
	}
	return &lock{client: l.client, key: key, token: token}, nil
}

type lock struct {
	client redis.UniversalClient
	key    string
	token  string
}

func (k *lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, k.client, []string{k.key}, k.token).Err(); err != nil &&
		!errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", k.key, err)
	}
	return nil
}
