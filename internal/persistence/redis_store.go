package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/draftline/draftline/pkg/api"
)

// RedisSessionStore is a SessionStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>sess:<id>              => JSON-encoded session aggregate
//	<prefix>idx:all                => SET of all session IDs
//	<prefix>idx:status:<status>    => SET of session IDs per status
//	<prefix>idx:variant:<variant>  => SET of session IDs per variant
//
// The indexes are always updated on Save/Update; ListSessions
// intersects them for filtering and sorts the fetched sessions by
// update time. The optimistic version check runs inside a WATCH
// transaction so concurrent writers cannot both succeed.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a RedisSessionStore.
// prefix is optional but recommended (e.g. "draftline:").
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "draftline:"
	}
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisSessionStore) keySession(id string) string {
	return s.prefix + "sess:" + id
}

func (s *RedisSessionStore) keyAll() string {
	return s.prefix + "idx:all"
}

func (s *RedisSessionStore) keyStatus(status api.Status) string {
	return s.prefix + "idx:status:" + string(status)
}

func (s *RedisSessionStore) keyVariant(v api.WorkflowVariant) string {
	return s.prefix + "idx:variant:" + string(v)
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, sess *api.Session) error {
	key := s.keySession(sess.ID)

	sess.Version = 1
	payload, err := EncodeSession(sess)
	if err != nil {
		sess.Version = 0
		return err
	}

	ok, err := s.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		sess.Version = 0
		return err
	}
	if !ok {
		sess.Version = 0
		return ErrSessionExists
	}

	return s.updateIndexes(ctx, sess, "")
}

func (s *RedisSessionStore) UpdateSession(ctx context.Context, sess *api.Session) error {
	key := s.keySession(sess.ID)
	prev := sess.Version

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			return err
		}

		stored, err := DecodeSession(data)
		if err != nil {
			return err
		}
		if stored.Version != prev {
			return ErrVersionConflict
		}

		sess.Version = prev + 1
		payload, err := EncodeSession(sess)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return err
		}

		return s.updateIndexes(ctx, sess, stored.Status)
	}

	if err := s.client.Watch(ctx, txn, key); err != nil {
		sess.Version = prev
		return err
	}
	return nil
}

func (s *RedisSessionStore) updateIndexes(ctx context.Context, sess *api.Session, prevStatus api.Status) error {
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, s.keyAll(), sess.ID)
	pipe.SAdd(ctx, s.keyVariant(sess.Variant), sess.ID)
	if prevStatus != "" && prevStatus != sess.Status {
		pipe.SRem(ctx, s.keyStatus(prevStatus), sess.ID)
	}
	pipe.SAdd(ctx, s.keyStatus(sess.Status), sess.ID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (*api.Session, error) {
	data, err := s.client.Get(ctx, s.keySession(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return DecodeSession(data)
}

func (s *RedisSessionStore) ListSessions(ctx context.Context, filter SessionFilter) ([]api.SessionSummary, error) {
	keys := []string{s.keyAll()}
	if filter.Status != "" {
		keys = append(keys, s.keyStatus(filter.Status))
	}
	if filter.Variant != "" {
		keys = append(keys, s.keyVariant(filter.Variant))
	}

	var (
		ids []string
		err error
	)
	if len(keys) == 1 {
		ids, err = s.client.SMembers(ctx, keys[0]).Result()
	} else {
		ids, err = s.client.SInter(ctx, keys...).Result()
	}
	if err != nil {
		return nil, err
	}

	var result []api.SessionSummary
	for _, id := range ids {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				// Index entry outlived its session; ignore.
				continue
			}
			return nil, err
		}
		result = append(result, sess.Summary())
	}

	SortAndPage(&result, filter)
	return result, nil
}
