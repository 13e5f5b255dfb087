package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "lock:"

// releaseScript deletes the key only while it still holds the caller's token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrLockHeld = errors.New("lock_held")

// Locker hands out expiring leases on named keys. A lease only keeps two
// instances from doing the same periodic work; it is not a fence for data.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{client: client, release: redis.NewScript(releaseScript)}
}

// Lease is a held lock. Release may be called more than once.
type Lease struct {
	locker *Locker
	key    string
	token  string
	once   sync.Once
}

// Acquire takes name for ttl, or returns ErrLockHeld when another holder has it.
func (l *Locker) Acquire(ctx context.Context, name string, ttl time.Duration) (*Lease, error) {
	if l == nil || l.client == nil {
		return nil, errors.New("lock client not configured")
	}
	if name == "" || ttl <= 0 {
		return nil, errors.New("lock name and ttl are required")
	}

	lease := &Lease{locker: l, key: lockKeyPrefix + name, token: uuid.NewString()}
	ok, err := l.client.SetNX(ctx, lease.key, lease.token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return lease, nil
}

func (le *Lease) Release(ctx context.Context) error {
	if le == nil {
		return nil
	}
	var err error
	le.once.Do(func() {
		err = le.locker.release.Run(ctx, le.locker.client, []string{le.key}, le.token).Err()
	})
	return err
}
