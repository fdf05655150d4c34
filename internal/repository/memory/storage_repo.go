// Package memory — хранилище сессии в памяти процесса, для локального запуска и тестов.
package memory

import (
	"context"
	"sync"
)

type StorageRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStorageRepo() *StorageRepo {
	return &StorageRepo{
		values: make(map[string]string),
	}
}

func (s *StorageRepo) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *StorageRepo) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *StorageRepo) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}
