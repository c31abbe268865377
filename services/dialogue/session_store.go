// File: services/dialogue/session_store.go
package dialogue

import (
	"context"
	"encoding/json"
	"time"

	"tablevoice/models"
	"tablevoice/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SessionStore abstracts per-call dialogue state with TTL. Absence of a
// session means "start a new greeting-state session".
type SessionStore interface {
	Get(ctx context.Context, callID string) (*models.CallSession, error)
	Put(ctx context.Context, callID string, sess *models.CallSession, ttl time.Duration) error
	Delete(ctx context.Context, callID string) error
	// Acquire serializes turns for one call id: duplicate webhook deliveries
	// must observe each other's committed state. The returned func releases
	// the lock.
	Acquire(ctx context.Context, callID string) (func(), error)
}

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Get(ctx context.Context, callID string) (*models.CallSession, error) {
	data, err := s.client.Get(ctx, utils.SessionKeyPrefix+callID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.CallSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, callID string, sess *models.CallSession, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, utils.SessionKeyPrefix+callID, b, ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, callID string) error {
	return s.client.Del(ctx, utils.SessionKeyPrefix+callID).Err()
}

// unlockScript releases the lock only if the caller still owns it.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Acquire takes a short lease on the call's lock key, polling until the
// previous turn releases it or the lease would exceed the turn budget.
func (s *RedisSessionStore) Acquire(ctx context.Context, callID string) (func(), error) {
	key := utils.SessionLockPrefix + callID
	token := uuid.New().String()
	deadline := time.Now().Add(utils.TurnLockTTL)

	for {
		ok, err := s.client.SetNX(ctx, key, token, utils.TurnLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = unlockScript.Run(releaseCtx, s.client, []string{key}, token).Err()
			}
			return release, nil
		}
		if time.Now().After(deadline) {
			return nil, context.DeadlineExceeded
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
