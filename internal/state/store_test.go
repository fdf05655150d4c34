package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	catalog, err := NewCatalog(
		product(1, "Lamp", "10"),
		product(2, "Desk", "90"),
		product(3, "Chair", "45"),
		product(4, "Sofa", "300"),
		product(5, "Rug", "60"),
	)
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	return NewStore(State{Catalog: catalog}, nil)
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) handle(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) slices() []Slice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Slice, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Slice)
	}
	return out
}

func TestStore_DispatchNotifiesSliceSubscribers(t *testing.T) {
	s := newTestStore(t)

	var cart, wishlist recorder
	s.Subscribe(SliceCart, cart.handle)
	s.Subscribe(SliceWishlist, wishlist.handle)

	if _, err := s.Dispatch(AddToCart{ProductID: 1, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cart.slices(); len(got) != 1 || got[0] != SliceCart {
		t.Errorf("expected one cart notification, got %v", got)
	}
	if len(wishlist.slices()) != 0 {
		t.Errorf("wishlist subscriber must not be notified")
	}

	c := cart.changes[0]
	if c.Action != "cart/add" || c.State.Cart.TotalQuantity() != 2 {
		t.Errorf("unexpected change payload %+v", c)
	}
}

func TestStore_FailedDispatchLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(t)
	var all recorder
	s.Subscribe(SliceAll, all.handle)

	for i := int64(1); i <= MaxCompareItems; i++ {
		if _, err := s.Dispatch(AddToCompare{ProductID: i}); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	before := s.Snapshot()
	if _, err := s.Dispatch(AddToCompare{ProductID: 5}); !errors.Is(err, e.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}

	if got := ids(s.Snapshot().Compare.Items()); !equalIDs(got, ids(before.Compare.Items())) {
		t.Errorf("state changed after failed dispatch: %v", got)
	}
	if n := len(all.slices()); n != MaxCompareItems {
		t.Errorf("expected %d notifications, got %d", MaxCompareItems, n)
	}

	if _, err := s.Dispatch(AddToCart{ProductID: 99, Quantity: 1}); !errors.Is(err, e.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestStore_NoOpDispatchDoesNotNotify(t *testing.T) {
	s := newTestStore(t)
	var all recorder
	s.Subscribe(SliceAll, all.handle)

	actions := []Action{
		RemoveFromCart{ProductID: 1},
		RemoveFromWishlist{ProductID: 1},
		RemoveFromCompare{ProductID: 1},
		RemoveProduct{ProductID: 42},
		ClearCart{},
		ClearWishlist{},
		ClearCompare{},
	}
	for _, a := range actions {
		if _, err := s.Dispatch(a); err != nil {
			t.Errorf("%s: unexpected error %v", a.Kind(), err)
		}
	}

	if n := len(all.slices()); n != 0 {
		t.Errorf("expected no notifications, got %d", n)
	}
}

func TestStore_RemoveProductCascades(t *testing.T) {
	s := newTestStore(t)

	for _, a := range []Action{
		AddToCart{ProductID: 2, Quantity: 1},
		AddToCart{ProductID: 3, Quantity: 1},
		AddToWishlist{ProductID: 2},
		AddToCompare{ProductID: 2},
	} {
		if _, err := s.Dispatch(a); err != nil {
			t.Fatalf("%s: %v", a.Kind(), err)
		}
	}

	var all recorder
	s.Subscribe(SliceAll, all.handle)

	st, err := s.Dispatch(RemoveProduct{ProductID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := st.Catalog.Get(2); ok {
		t.Error("product must be removed from catalog")
	}
	if _, ok := st.Cart.Get(2); ok || st.Cart.Count() != 1 {
		t.Errorf("cart must keep only product 3, got %d lines", st.Cart.Count())
	}
	if st.Wishlist.Contains(2) || st.Compare.Contains(2) {
		t.Error("wishlist and compare must not reference removed product")
	}

	want := []Slice{SliceCatalog, SliceCart, SliceWishlist, SliceCompare}
	got := all.slices()
	if len(got) != len(want) {
		t.Fatalf("expected notifications %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func TestStore_ToggleActions(t *testing.T) {
	s := newTestStore(t)

	st, _ := s.Dispatch(ToggleWishlist{ProductID: 1})
	if !st.Wishlist.Contains(1) {
		t.Error("expected toggle to add product")
	}
	st, _ = s.Dispatch(ToggleWishlist{ProductID: 1})
	if st.Wishlist.Contains(1) {
		t.Error("expected toggle to remove product")
	}

	if _, err := s.Dispatch(ToggleCompare{ProductID: 77}); !errors.Is(err, e.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	s := newTestStore(t)
	var cart recorder
	unsubscribe := s.Subscribe(SliceCart, cart.handle)

	_, _ = s.Dispatch(AddToCart{ProductID: 1, Quantity: 1})
	unsubscribe()
	_, _ = s.Dispatch(AddToCart{ProductID: 1, Quantity: 1})

	if n := len(cart.slices()); n != 1 {
		t.Errorf("expected 1 notification, got %d", n)
	}
}

func TestStore_ConcurrentDispatchIsSerialized(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(AddToCart{ProductID: 1, Quantity: 1})
		}()
	}
	wg.Wait()

	item, ok := s.Snapshot().Cart.Get(1)
	if !ok || item.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", item.Quantity)
	}
}

func TestStore_HeadphonesScenario(t *testing.T) {
	s := newTestStore(t)

	_, _ = s.Dispatch(AddToCart{ProductID: 2, Quantity: 1})
	_, _ = s.Dispatch(AddToCart{ProductID: 2, Quantity: 1})
	_, _ = s.Dispatch(IncrementCartItem{ProductID: 2})
	st, _ := s.Dispatch(DecrementCartItem{ProductID: 2})

	item, _ := st.Cart.Get(2)
	if item.Quantity != 2 || st.Cart.Count() != 1 {
		t.Errorf("expected one line with quantity 2, got %+v", item)
	}
	if !st.Cart.Total().Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected total 180, got %s", st.Cart.Total())
	}
}
