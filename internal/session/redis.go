package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sman1la/tatib-bot/internal/models"
)

const keyPrefix = "tatib:session:"

// RedisStore keeps sessions in Redis so restarts do not drop in-flight
// wizards. Sessions are stored as JSON under a per-user key.
type RedisStore struct {
	client  *redis.Client
	idleTTL time.Duration
}

// NewRedisStore constructs a RedisStore. idleTTL of zero stores keys
// without expiry.
func NewRedisStore(client *redis.Client, idleTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, idleTTL: idleTTL}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// Get returns the stored session or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, userID int64) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Put stores the session, replacing any previous one for the same user.
func (s *RedisStore) Put(ctx context.Context, sess *models.Session) error {
	sess.UpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.UserID), data, s.idleTTL).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete removes the session. Deleting an absent session is a no-op.
func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
