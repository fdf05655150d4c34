package state

import (
	"slices"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// MaxCompareItems — вместимость списка сравнения.
const MaxCompareItems = 4

// Compare — ограниченный список товаров для сравнения, без дубликатов.
type Compare struct {
	items []domain.Product
}

// CompareRow — строка таблицы сравнения.
type CompareRow struct {
	domain.Product
	FinalPrice     decimal.Decimal `json:"finalPrice"`
	CurrencySymbol string          `json:"currencySymbol"`
}

// Add добавляет товар в конец. Повтор игнорируется, пятый товар отклоняется с ErrCapacityExceeded.
func (c Compare) Add(p domain.Product) (Compare, bool, error) {
	if c.Contains(p.ID) {
		return c, false, nil
	}

	if c.Full() {
		return c, false, e.ErrCapacityExceeded
	}

	return Compare{items: append(slices.Clone(c.items), p)}, true, nil
}

func (c Compare) Remove(id int64) (Compare, bool) {
	idx := c.index(id)
	if idx < 0 {
		return c, false
	}

	return Compare{items: slices.Delete(slices.Clone(c.items), idx, idx+1)}, true
}

// Toggle удаляет товар, если он есть, иначе добавляет его с проверкой вместимости.
func (c Compare) Toggle(p domain.Product) (Compare, bool, error) {
	if next, removed := c.Remove(p.ID); removed {
		return next, false, nil
	}

	next, _, err := c.Add(p)
	if err != nil {
		return c, false, err
	}
	return next, true, nil
}

func (c Compare) Clear() (Compare, bool) {
	return Compare{}, len(c.items) > 0
}

func (c Compare) Contains(id int64) bool {
	return c.index(id) >= 0
}

func (c Compare) Items() []domain.Product {
	return slices.Clone(c.items)
}

func (c Compare) Len() int {
	return len(c.items)
}

func (c Compare) Full() bool {
	return len(c.items) >= MaxCompareItems
}

// Rows возвращает товары вместе с итоговой ценой после скидки и символом валюты.
func (c Compare) Rows() []CompareRow {
	rows := make([]CompareRow, 0, len(c.items))
	for _, p := range c.items {
		rows = append(rows, CompareRow{
			Product:        p,
			FinalPrice:     p.DiscountedPrice(),
			CurrencySymbol: domain.CurrencySymbol(p.Currency),
		})
	}
	return rows
}

func (c Compare) index(id int64) int {
	return slices.IndexFunc(c.items, func(p domain.Product) bool {
		return p.ID == id
	})
}
