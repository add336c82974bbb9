package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
)

const keyPrefix = "session:"

// Client is the subset of *redis.Client used by the Store.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ Client = (*redis.Client)(nil)

// Store keeps sessions in redis as JSON, expiring with the session.
type Store struct {
	client Client
}

var _ session.Store = (*Store)(nil)

func NewStore(client Client) *Store {
	return &Store{client: client}
}

// NewClient connects to redis using conf.
func NewClient(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

func key(id string) string {
	return keyPrefix + id
}

func (s *Store) Save(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	ttl := sess.TTL(core.Now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	return errors.Wrap(s.client.Set(ctx, key(sess.ID), string(data), ttl).Err(), "redis set")
}

func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	data, err := s.client.Get(ctx, key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "redis get")
	}

	var sess session.Session
	if err = json.Unmarshal([]byte(data), &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "unmarshalling session")
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, key(id)).Result()
	if err != nil {
		return errors.Wrap(err, "redis del")
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx).Err(), "redis ping")
}
