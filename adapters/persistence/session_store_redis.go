package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/career-studio/internal/domain/studio"
)

const maxSessionRetries = 5

type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) studio.Store {
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(ownerID uuid.UUID) string {
	return "studio:session:" + ownerID.String()
}

func (r *redisSessionStore) Get(ctx context.Context, ownerID uuid.UUID) (*studio.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, studio.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get studio session: %w", err)
	}
	return decodeSession(raw)
}

func (r *redisSessionStore) Put(ctx context.Context, s *studio.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode studio session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(s.OwnerID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set studio session: %w", err)
	}
	return nil
}

// Update runs fn inside a WATCH transaction and retries when another request
// changed the session first.
func (r *redisSessionStore) Update(ctx context.Context, ownerID uuid.UUID, fn func(*studio.Session) error) (*studio.Session, error) {
	key := sessionKey(ownerID)
	var result *studio.Session

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return studio.ErrSessionNotFound
			}
			return err
		}
		s, err := decodeSession(raw)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		next, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode studio session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, r.ttl)
			return nil
		})
		if err == nil {
			result = s
		}
		return err
	}

	for i := 0; i < maxSessionRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update studio session: too many concurrent edits")
}

func (r *redisSessionStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	if err := r.rdb.Del(ctx, sessionKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("delete studio session: %w", err)
	}
	return nil
}

func decodeSession(raw []byte) (*studio.Session, error) {
	var s studio.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode studio session: %w", err)
	}
	return &s, nil
}
