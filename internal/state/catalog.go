package state

import (
	"slices"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

// Catalog — единственный владелец канонического набора товаров.
// Значение неизменяемо: каждая операция возвращает новый каталог.
type Catalog struct {
	products []domain.Product
}

// NewCatalog создаёт каталог из начальных данных, проверяя каждый товар.
func NewCatalog(seed ...domain.Product) (Catalog, error) {
	c := Catalog{}
	for _, p := range seed {
		next, err := c.Add(p)
		if err != nil {
			return Catalog{}, e.Wrap(p.Name, err)
		}
		c = next
	}

	return c, nil
}

// Add добавляет проверенный товар. Дубликат идентификатора отклоняется.
func (c Catalog) Add(p domain.Product) (Catalog, error) {
	if err := p.Validate(); err != nil {
		return c, err
	}

	if _, ok := c.Get(p.ID); ok {
		return c, e.ErrDuplicateProduct
	}

	products := make([]domain.Product, len(c.products), len(c.products)+1)
	copy(products, c.products)

	return Catalog{products: append(products, p)}, nil
}

// Remove удаляет товар по идентификатору. Отсутствующий товар — не ошибка.
func (c Catalog) Remove(id int64) (Catalog, bool) {
	idx := c.index(id)
	if idx < 0 {
		return c, false
	}

	return Catalog{products: slices.Delete(slices.Clone(c.products), idx, idx+1)}, true
}

func (c Catalog) Get(id int64) (domain.Product, bool) {
	idx := c.index(id)
	if idx < 0 {
		return domain.Product{}, false
	}
	return c.products[idx], true
}

func (c Catalog) Len() int {
	return len(c.products)
}

// Items возвращает товары в порядке добавления.
func (c Catalog) Items() []domain.Product {
	return slices.Clone(c.products)
}

// NewestFirst возвращает товары, отсортированные по убыванию идентификатора.
func (c Catalog) NewestFirst() []domain.Product {
	items := slices.Clone(c.products)
	slices.SortStableFunc(items, func(a, b domain.Product) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	return items
}

// Search отбирает товары, у которых название содержит term (без учёта регистра)
// либо цена или старая цена с двумя знаками после запятой совпадает с term.
func (c Catalog) Search(term string) []domain.Product {
	lower := strings.ToLower(term)

	result := make([]domain.Product, 0)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			p.Price.StringFixed(2) == term ||
			(p.OldPrice.IsPositive() && p.OldPrice.StringFixed(2) == term) {
			result = append(result, p)
		}
	}

	return result
}

func (c Catalog) index(id int64) int {
	return slices.IndexFunc(c.products, func(p domain.Product) bool {
		return p.ID == id
	})
}
