package clients

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SessionHashClient работает с одним хэшем Redis, в котором лежат ключи сессии витрины
// (токен, email, фото профиля, история поиска). Поля хэша — ключи хранилища.
type SessionHashClient struct {
	rdb     *r.Client
	hashKey string
	addr    string
}

func NewSessionHashClient(redisCfg *cfg.RedisCfg, storageCfg *cfg.StorageCfg) *SessionHashClient {
	rdb := r.NewClient(&r.Options{
		Addr:         redisCfg.Addr,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		Username:     redisCfg.User,
		MaxRetries:   redisCfg.MaxRetries,
		DialTimeout:  redisCfg.DialTimeout,
		ReadTimeout:  redisCfg.Timeout,
		WriteTimeout: redisCfg.Timeout,
	})

	return &SessionHashClient{
		rdb:     rdb,
		hashKey: storageCfg.HashKey,
		addr:    redisCfg.Addr,
	}
}

func (c *SessionHashClient) HashKey() string {
	return c.hashKey
}

func (c *SessionHashClient) Addr() string {
	return c.addr
}

// Ping проверяет соединение и заодно то, что ключ сессии, если он есть, хранит хэш.
func (c *SessionHashClient) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	kind, err := c.rdb.Type(ctx, c.hashKey).Result()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if kind != "none" && kind != "hash" {
		return e.Wrap(c.hashKey+" holds "+kind, ErrNotAHash)
	}

	return nil
}

var ErrNotAHash = errors.New("session key is not a redis hash")

// Field читает поле хэша; отсутствие поля даёт ok = false без ошибки.
func (c *SessionHashClient) Field(ctx context.Context, field string) (string, bool, error) {
	value, err := c.rdb.HGet(ctx, c.hashKey, field).Result()
	if errors.Is(err, r.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, true, nil
}

func (c *SessionHashClient) SetField(ctx context.Context, field, value string) error {
	if err := c.rdb.HSet(ctx, c.hashKey, field, value).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteFields удаляет поля хэша; пустой список не обращается к Redis.
func (c *SessionHashClient) DeleteFields(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	if err := c.rdb.HDel(ctx, c.hashKey, fields...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *SessionHashClient) Close(_ context.Context) error {
	return c.rdb.Close()
}
