package state

import (
	"math"
	"slices"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// LineItem — позиция корзины: товар и его количество (не меньше 1).
type LineItem struct {
	domain.Product
	Quantity int `json:"quantity"`
}

// Subtotal = price * quantity
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart хранит не более одной позиции на идентификатор товара.
type Cart struct {
	items []LineItem
}

// AddItem увеличивает количество существующей позиции или добавляет новую в конец.
// Слияние, при котором количество вышло бы за пределы int, отклоняется.
func (c Cart) AddItem(p domain.Product, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, e.ErrInvalidQuantity
	}

	items := slices.Clone(c.items)
	if idx := c.index(p.ID); idx >= 0 {
		if quantity > math.MaxInt-items[idx].Quantity {
			return c, e.ErrInvalidQuantity
		}
		items[idx].Quantity += quantity
		return Cart{items: items}, nil
	}

	return Cart{items: append(items, LineItem{Product: p, Quantity: quantity})}, nil
}

// RemoveItem удаляет позицию целиком. Отсутствующая позиция — не ошибка.
func (c Cart) RemoveItem(id int64) (Cart, bool) {
	idx := c.index(id)
	if idx < 0 {
		return c, false
	}

	return Cart{items: slices.Delete(slices.Clone(c.items), idx, idx+1)}, true
}

func (c Cart) Clear() (Cart, bool) {
	return Cart{}, len(c.items) > 0
}

// UpdateQuantity задаёт количество напрямую; значение меньше 1 отклоняется.
func (c Cart) UpdateQuantity(id int64, quantity int) (Cart, bool, error) {
	if quantity < 1 {
		return c, false, e.ErrInvalidQuantity
	}

	idx := c.index(id)
	if idx < 0 {
		return c, false, e.ErrItemNotInCart
	}

	if c.items[idx].Quantity == quantity {
		return c, false, nil
	}

	items := slices.Clone(c.items)
	items[idx].Quantity = quantity

	return Cart{items: items}, true, nil
}

func (c Cart) Increment(id int64) (Cart, error) {
	item, ok := c.Get(id)
	if !ok {
		return c, e.ErrItemNotInCart
	}

	if item.Quantity == math.MaxInt {
		return c, e.ErrInvalidQuantity
	}

	next, _, err := c.UpdateQuantity(id, item.Quantity+1)
	return next, err
}

// Decrement уменьшает количество на 1; при количестве 1 ничего не делает.
func (c Cart) Decrement(id int64) (Cart, bool, error) {
	item, ok := c.Get(id)
	if !ok {
		return c, false, e.ErrItemNotInCart
	}

	if item.Quantity <= 1 {
		return c, false, nil
	}

	return c.UpdateQuantity(id, item.Quantity-1)
}

func (c Cart) Get(id int64) (LineItem, bool) {
	idx := c.index(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.items[idx], true
}

func (c Cart) Items() []LineItem {
	return slices.Clone(c.items)
}

// Count — количество различных позиций (значение бейджа в шапке).
func (c Cart) Count() int {
	return len(c.items)
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Total = sum(price * quantity)
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c Cart) index(id int64) int {
	return slices.IndexFunc(c.items, func(item LineItem) bool {
		return item.ID == id
	})
}
