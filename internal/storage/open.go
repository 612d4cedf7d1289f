package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/config"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

// Open returns the Storage selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s := NewSQLiteStorage(cfg.StorageKey)
		if err := s.Init(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("init sqlite storage: %w", err)
		}
		return s, nil
	case config.BackendRedis:
		s, err := NewRedisStorage(cfg.RedisURL, cfg.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("create redis storage: %w", err)
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return s, nil
	case config.BackendPostgres:
		return NewPostgresStorage(ctx, cfg.PostgresURL, cfg.StorageKey)
	case config.BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
