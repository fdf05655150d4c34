package state

import (
	"slices"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// SortOrder — порядок сортировки списка избранного.
type SortOrder string

const (
	SortByName      SortOrder = "name"
	SortByPriceLow  SortOrder = "price-low"
	SortByPriceHigh SortOrder = "price-high"
)

// PriceBucket — фильтр избранного по диапазону цен.
type PriceBucket string

const (
	PriceAll     PriceBucket = "all"
	PriceUnder50 PriceBucket = "under-50"
	Price50To100 PriceBucket = "50-100"
	PriceOver100 PriceBucket = "over-100"
)

var (
	fifty      = decimal.NewFromInt(50)
	oneHundred = decimal.NewFromInt(100)
)

// Wishlist — множество товаров без дубликатов в порядке добавления.
type Wishlist struct {
	items []domain.Product
}

// Add добавляет товар, если его ещё нет. Повторное добавление ничего не меняет.
func (w Wishlist) Add(p domain.Product) (Wishlist, bool) {
	if w.Contains(p.ID) {
		return w, false
	}

	return Wishlist{items: append(slices.Clone(w.items), p)}, true
}

func (w Wishlist) Remove(id int64) (Wishlist, bool) {
	idx := w.index(id)
	if idx < 0 {
		return w, false
	}

	return Wishlist{items: slices.Delete(slices.Clone(w.items), idx, idx+1)}, true
}

// Toggle удаляет товар, если он есть, иначе добавляет. Возвращает true, если товар добавлен.
func (w Wishlist) Toggle(p domain.Product) (Wishlist, bool) {
	if next, removed := w.Remove(p.ID); removed {
		return next, false
	}

	next, _ := w.Add(p)
	return next, true
}

func (w Wishlist) Clear() (Wishlist, bool) {
	return Wishlist{}, len(w.items) > 0
}

func (w Wishlist) Contains(id int64) bool {
	return w.index(id) >= 0
}

func (w Wishlist) Items() []domain.Product {
	return slices.Clone(w.items)
}

func (w Wishlist) Len() int {
	return len(w.items)
}

// Sorted возвращает копию списка в заданном порядке. Неизвестный порядок оставляет порядок добавления.
func (w Wishlist) Sorted(order SortOrder) []domain.Product {
	items := slices.Clone(w.items)

	switch order {
	case SortByName:
		slices.SortStableFunc(items, func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortByPriceLow:
		slices.SortStableFunc(items, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortByPriceHigh:
		slices.SortStableFunc(items, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return items
}

// FilterByPrice: under-50 — цена < 50, 50-100 — от 50 до 100 включительно, over-100 — > 100.
func (w Wishlist) FilterByPrice(bucket PriceBucket) []domain.Product {
	result := make([]domain.Product, 0, len(w.items))
	for _, p := range w.items {
		if bucket.Matches(p.Price) {
			result = append(result, p)
		}
	}
	return result
}

func (b PriceBucket) Matches(price decimal.Decimal) bool {
	switch b {
	case PriceUnder50:
		return price.LessThan(fifty)
	case Price50To100:
		return price.GreaterThanOrEqual(fifty) && price.LessThanOrEqual(oneHundred)
	case PriceOver100:
		return price.GreaterThan(oneHundred)
	default:
		return true
	}
}

func (w Wishlist) index(id int64) int {
	return slices.IndexFunc(w.items, func(p domain.Product) bool {
		return p.ID == id
	})
}
