// Package state содержит неизменяемые коллекции витрины (каталог, корзина,
// избранное, сравнение) и контейнер Store, который последовательно применяет
// к ним действия и уведомляет подписчиков об изменениях.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/DRSN-tech/storefront/pkg/pubsub"
)

// Slice — имя части состояния, на изменения которой можно подписаться.
type Slice string

const (
	SliceCatalog  Slice = "catalog"
	SliceCart     Slice = "cart"
	SliceWishlist Slice = "wishlist"
	SliceCompare  Slice = "compare"

	// SliceAll — подписка на изменения всех частей.
	SliceAll Slice = pubsub.Wildcard
)

// State — снимок всего состояния витрины.
type State struct {
	Catalog  Catalog
	Cart     Cart
	Wishlist Wishlist
	Compare  Compare
}

// Change — уведомление об изменении одной части состояния.
type Change struct {
	Slice  Slice
	Action string
	State  State
}

// Store применяет действия по одному и публикует изменения в шину.
// Обработчики подписок вызываются синхронно и не должны вызывать Dispatch.
type Store struct {
	mu    sync.Mutex
	state atomic.Pointer[State]
	bus   *pubsub.Bus[Change]
}

func NewStore(initial State, bus *pubsub.Bus[Change]) *Store {
	if bus == nil {
		bus = pubsub.NewBus[Change]()
	}

	s := &Store{bus: bus}
	s.state.Store(&initial)

	return s
}

// Dispatch применяет действие. При ошибке состояние не меняется и уведомления не отправляются.
// Для каждой изменённой части публикуется одно уведомление с новым снимком.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := *s.state.Load()
	next, touched, err := a.reduce(current)
	if err != nil {
		return current, err
	}

	if len(touched) == 0 {
		return current, nil
	}

	s.state.Store(&next)
	for _, slice := range touched {
		s.bus.Publish(string(slice), Change{Slice: slice, Action: a.Kind(), State: next})
	}

	return next, nil
}

// Snapshot возвращает текущее состояние без блокировки.
func (s *Store) Snapshot() State {
	return *s.state.Load()
}

// Subscribe подписывает обработчик на изменения части состояния (SliceAll — на все части).
func (s *Store) Subscribe(slice Slice, h func(Change)) (unsubscribe func()) {
	return s.bus.Subscribe(string(slice), func(_ string, c Change) {
		h(c)
	})
}
