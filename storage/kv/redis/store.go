package rediskv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
)

// Store keeps entries as plain redis strings.
type Store struct {
	client redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Open connects to the server described by conf and checks it answers.
func Open(ctx context.Context, conf core.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", conf.Addr)
	}
	return NewStore(client), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", access.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis GET %s", key)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "redis DEL %s", key)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
