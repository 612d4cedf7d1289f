package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage creates a RedisStorage from a Redis URL.
func NewRedisStorage(redisURL, key string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStorage{client: redis.NewClient(opts), key: key}, nil
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func (s *RedisStorage) Load(ctx context.Context) ([]job.Job, bool, error) {
	blob, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	jobs, err := Decode(blob)
	if err != nil {
		return nil, false, err
	}
	return jobs, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, jobs []job.Job) error {
	blob, err := Encode(jobs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, blob, 0).Err()
}
