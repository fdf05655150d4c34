package redis

import (
	"context"

	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// StorageRepo хранит ключи сессии в одном хэше Redis.
type StorageRepo struct {
	client *clients.SessionHashClient
	logger logger.Logger
}

func NewStorageRepo(client *clients.SessionHashClient, logger logger.Logger) *StorageRepo {
	return &StorageRepo{
		client: client,
		logger: logger,
	}
}

// Get возвращает значение поля хэша. Отсутствие поля не ошибка: ok = false.
func (s *StorageRepo) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.client.Field(ctx, key)
	if err != nil {
		s.logger.Warnf("Redis HGET %s/%s failed: %v", s.client.HashKey(), key, err)
		return "", false, err
	}

	return value, ok, nil
}

func (s *StorageRepo) Set(ctx context.Context, key, value string) error {
	if err := s.client.SetField(ctx, key, value); err != nil {
		s.logger.Warnf("Redis HSET %s/%s failed: %v", s.client.HashKey(), key, err)
		return err
	}

	return nil
}

// Delete удаляет поля хэша. Отсутствующие поля игнорируются.
func (s *StorageRepo) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.DeleteFields(ctx, keys...); err != nil {
		s.logger.Warnf("Redis HDEL %s %v failed: %v", s.client.HashKey(), keys, err)
		return err
	}

	return nil
}
