package storage

import (
	"context"
	"sync"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

// MemoryStorage keeps the encoded blob in process. It is used for ephemeral
// sessions and tests.
type MemoryStorage struct {
	mu    sync.Mutex
	blob  []byte
	saves int
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (s *MemoryStorage) Ping(context.Context) error { return nil }

func (s *MemoryStorage) Close() error { return nil }

func (s *MemoryStorage) Load(context.Context) ([]job.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, false, nil
	}
	jobs, err := Decode(s.blob)
	if err != nil {
		return nil, false, err
	}
	return jobs, true, nil
}

func (s *MemoryStorage) Save(_ context.Context, jobs []job.Job) error {
	blob, err := Encode(jobs)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = blob
	s.saves++
	return nil
}

// Blob returns a copy of the last saved blob.
func (s *MemoryStorage) Blob() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.blob...)
}

// Saves reports how many times Save succeeded.
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
