package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

// Storage — долговременное хранилище ключ-значение для состояния сессии.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
