package state

import (
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

// Action — типизированная команда изменения состояния витрины.
// Набор действий закрыт: применяет их только Store.
type Action interface {
	Kind() string
	reduce(s State) (State, []Slice, error)
}

// AddProduct добавляет товар в каталог.
type AddProduct struct{ Product domain.Product }

// RemoveProduct удаляет товар из каталога и из всех коллекций, которые на него ссылаются.
type RemoveProduct struct{ ProductID int64 }

type AddToCart struct {
	ProductID int64
	Quantity  int
}

type RemoveFromCart struct{ ProductID int64 }

type UpdateCartQuantity struct {
	ProductID int64
	Quantity  int
}

type IncrementCartItem struct{ ProductID int64 }

type DecrementCartItem struct{ ProductID int64 }

type ClearCart struct{}

type AddToWishlist struct{ ProductID int64 }

type RemoveFromWishlist struct{ ProductID int64 }

type ToggleWishlist struct{ ProductID int64 }

type ClearWishlist struct{}

type AddToCompare struct{ ProductID int64 }

type RemoveFromCompare struct{ ProductID int64 }

type ToggleCompare struct{ ProductID int64 }

type ClearCompare struct{}

func (AddProduct) Kind() string         { return "catalog/add" }
func (RemoveProduct) Kind() string      { return "catalog/remove" }
func (AddToCart) Kind() string          { return "cart/add" }
func (RemoveFromCart) Kind() string     { return "cart/remove" }
func (UpdateCartQuantity) Kind() string { return "cart/update-quantity" }
func (IncrementCartItem) Kind() string  { return "cart/increment" }
func (DecrementCartItem) Kind() string  { return "cart/decrement" }
func (ClearCart) Kind() string          { return "cart/clear" }
func (AddToWishlist) Kind() string      { return "wishlist/add" }
func (RemoveFromWishlist) Kind() string { return "wishlist/remove" }
func (ToggleWishlist) Kind() string     { return "wishlist/toggle" }
func (ClearWishlist) Kind() string      { return "wishlist/clear" }
func (AddToCompare) Kind() string       { return "compare/add" }
func (RemoveFromCompare) Kind() string  { return "compare/remove" }
func (ToggleCompare) Kind() string      { return "compare/toggle" }
func (ClearCompare) Kind() string       { return "compare/clear" }

func (a AddProduct) reduce(s State) (State, []Slice, error) {
	catalog, err := s.Catalog.Add(a.Product)
	if err != nil {
		return s, nil, err
	}
	s.Catalog = catalog
	return s, []Slice{SliceCatalog}, nil
}

func (a RemoveProduct) reduce(s State) (State, []Slice, error) {
	var (
		touched []Slice
		changed bool
	)

	if s.Catalog, changed = s.Catalog.Remove(a.ProductID); changed {
		touched = append(touched, SliceCatalog)
	}
	if s.Cart, changed = s.Cart.RemoveItem(a.ProductID); changed {
		touched = append(touched, SliceCart)
	}
	if s.Wishlist, changed = s.Wishlist.Remove(a.ProductID); changed {
		touched = append(touched, SliceWishlist)
	}
	if s.Compare, changed = s.Compare.Remove(a.ProductID); changed {
		touched = append(touched, SliceCompare)
	}

	return s, touched, nil
}

func (a AddToCart) reduce(s State) (State, []Slice, error) {
	p, err := lookup(s, a.ProductID)
	if err != nil {
		return s, nil, err
	}

	cart, err := s.Cart.AddItem(p, a.Quantity)
	if err != nil {
		return s, nil, err
	}
	s.Cart = cart
	return s, []Slice{SliceCart}, nil
}

func (a RemoveFromCart) reduce(s State) (State, []Slice, error) {
	var changed bool
	s.Cart, changed = s.Cart.RemoveItem(a.ProductID)
	return s, touchedIf(changed, SliceCart), nil
}

func (a UpdateCartQuantity) reduce(s State) (State, []Slice, error) {
	cart, changed, err := s.Cart.UpdateQuantity(a.ProductID, a.Quantity)
	if err != nil {
		return s, nil, err
	}
	s.Cart = cart
	return s, touchedIf(changed, SliceCart), nil
}

func (a IncrementCartItem) reduce(s State) (State, []Slice, error) {
	cart, err := s.Cart.Increment(a.ProductID)
	if err != nil {
		return s, nil, err
	}
	s.Cart = cart
	return s, []Slice{SliceCart}, nil
}

func (a DecrementCartItem) reduce(s State) (State, []Slice, error) {
	cart, changed, err := s.Cart.Decrement(a.ProductID)
	if err != nil {
		return s, nil, err
	}
	s.Cart = cart
	return s, touchedIf(changed, SliceCart), nil
}

func (ClearCart) reduce(s State) (State, []Slice, error) {
	var changed bool
	s.Cart, changed = s.Cart.Clear()
	return s, touchedIf(changed, SliceCart), nil
}

func (a AddToWishlist) reduce(s State) (State, []Slice, error) {
	p, err := lookup(s, a.ProductID)
	if err != nil {
		return s, nil, err
	}

	var changed bool
	s.Wishlist, changed = s.Wishlist.Add(p)
	return s, touchedIf(changed, SliceWishlist), nil
}

func (a RemoveFromWishlist) reduce(s State) (State, []Slice, error) {
	var changed bool
	s.Wishlist, changed = s.Wishlist.Remove(a.ProductID)
	return s, touchedIf(changed, SliceWishlist), nil
}

// Удаление по переключателю не требует наличия товара в каталоге.
func (a ToggleWishlist) reduce(s State) (State, []Slice, error) {
	if s.Wishlist.Contains(a.ProductID) {
		s.Wishlist, _ = s.Wishlist.Remove(a.ProductID)
		return s, []Slice{SliceWishlist}, nil
	}

	p, err := lookup(s, a.ProductID)
	if err != nil {
		return s, nil, err
	}
	s.Wishlist, _ = s.Wishlist.Toggle(p)
	return s, []Slice{SliceWishlist}, nil
}

func (ClearWishlist) reduce(s State) (State, []Slice, error) {
	var changed bool
	s.Wishlist, changed = s.Wishlist.Clear()
	return s, touchedIf(changed, SliceWishlist), nil
}

func (a AddToCompare) reduce(s State) (State, []Slice, error) {
	p, err := lookup(s, a.ProductID)
	if err != nil {
		return s, nil, err
	}

	compare, changed, err := s.Compare.Add(p)
	if err != nil {
		return s, nil, err
	}
	s.Compare = compare
	return s, touchedIf(changed, SliceCompare), nil
}

func (a RemoveFromCompare) reduce(s State) (State, []Slice, error) {
	var changed bool
	s.Compare, changed = s.Compare.Remove(a.ProductID)
	return s, touchedIf(changed, SliceCompare), nil
}

func (a ToggleCompare) reduce(s State) (State, []Slice, error) {
	if s.Compare.Contains(a.ProductID) {
		s.Compare, _ = s.Compare.Remove(a.ProductID)
		return s, []Slice{SliceCompare}, nil
	}

	p, err := lookup(s, a.ProductID)
	if err != nil {
		return s, nil, err
	}

	compare, _, err := s.Compare.Toggle(p)
	if err != nil {
		return s, nil, err
	}
	s.Compare = compare
	return s, []Slice{SliceCompare}, nil
}

func (ClearCompare) reduce(s State) (State, []Slice, error) {
	var changed bool
	s.Compare, changed = s.Compare.Clear()
	return s, touchedIf(changed, SliceCompare), nil
}

func lookup(s State, id int64) (domain.Product, error) {
	p, ok := s.Catalog.Get(id)
	if !ok {
		return domain.Product{}, e.ErrProductNotFound
	}
	return p, nil
}

func touchedIf(changed bool, slice Slice) []Slice {
	if !changed {
		return nil
	}
	return []Slice{slice}
}
