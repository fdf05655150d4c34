package usecase

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/pubsub"
)

// popularSearches — подсказки для пустого окна поиска.
var popularSearches = []string{"laptops", "smartphones", "headphones", "watches", "cameras"}

// SearchUseCase ищет по каталогу и ведёт список недавних запросов.
type SearchUseCase struct {
	store   *state.Store
	storage Storage
	keys    *pubsub.Bus[string]
	limit   int
	logger  logger.Logger
}

func NewSearchUC(store *state.Store, storage Storage, keys *pubsub.Bus[string], limit int, logger logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		store:   store,
		storage: storage,
		keys:    keys,
		limit:   limit,
		logger:  logger,
	}
}

// Search фильтрует каталог и запоминает непустой запрос в списке недавних.
// Сбой записи списка не влияет на результат поиска.
func (s *SearchUseCase) Search(ctx context.Context, query string) []domain.Product {
	const op = "SearchUseCase.Search"

	query = strings.TrimSpace(query)
	results := s.store.Snapshot().Catalog.Search(query)

	if query != "" {
		if err := s.remember(ctx, query); err != nil {
			s.logger.Warnf("Failed to save recent search: %v", e.Wrap(op, err))
		}
	}

	return results
}

// Recent возвращает недавние запросы, самый новый первым.
func (s *SearchUseCase) Recent(ctx context.Context) ([]string, error) {
	const op = "SearchUseCase.Recent"

	raw, ok, err := s.storage.Get(ctx, domain.KeyRecentSearches)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}

	var searches []string
	if err := json.Unmarshal([]byte(raw), &searches); err != nil {
		s.logger.Warnf("%s: corrupted recent searches dropped: %v", op, err)
		return []string{}, nil
	}

	return searches, nil
}

func (s *SearchUseCase) Popular() []string {
	return slices.Clone(popularSearches)
}

// remember переносит запрос в начало списка и обрезает список до limit.
func (s *SearchUseCase) remember(ctx context.Context, query string) error {
	searches, err := s.Recent(ctx)
	if err != nil {
		return err
	}

	searches = slices.DeleteFunc(searches, func(q string) bool { return q == query })
	searches = slices.Insert(searches, 0, query)
	if len(searches) > s.limit {
		searches = searches[:s.limit]
	}

	data, err := json.Marshal(searches)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, domain.KeyRecentSearches, string(data)); err != nil {
		return err
	}

	s.keys.Publish(domain.KeyRecentSearches, string(data))
	return nil
}
