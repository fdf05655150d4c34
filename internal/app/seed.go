package app

import (
	"encoding/json"
	"os"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
)

// loadCatalog читает начальный каталог из JSON-файла со списком товаров.
// Пустой путь даёт пустой каталог.
func loadCatalog(path string) (state.Catalog, error) {
	if path == "" {
		return state.NewCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return state.Catalog{}, e.Wrap(whereami.WhereAmI(), err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return state.Catalog{}, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := state.NewCatalog(products...)
	if err != nil {
		return state.Catalog{}, e.Wrap(whereami.WhereAmI(), err)
	}

	return catalog, nil
}
