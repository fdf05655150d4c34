package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStorefrontUseCase_AddProduct(t *testing.T) {
	env := newTestEnv(t, product(1, "Old lamp", "10"))
	env.signIn(t, adminEmail)

	req := NewAddProductReq("  Headphones ", dec("90"), dec("120"), "25", "Wireless", "", "", photo())
	p, err := env.storefront.AddProduct(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Name != "Headphones" || p.Discount != "25%" {
		t.Errorf("unexpected product: %+v", p)
	}
	if p.Category != domain.CategoryOther || p.Currency != domain.DefaultCurrency {
		t.Errorf("expected default category and currency, got %q %q", p.Category, p.Currency)
	}
	if p.ImgSrc != "data:image/png;base64,iVBORw==" {
		t.Errorf("unexpected data url %q", p.ImgSrc)
	}

	catalog := env.storefront.Catalog(context.Background())
	if len(catalog) != 2 || catalog[0].ID != p.ID {
		t.Errorf("new product must be listed first, got %+v", catalog)
	}

	select {
	case archived := <-env.images.uploaded:
		if archived.Name != "Headphones" || len(archived.Images) != 1 {
			t.Errorf("unexpected archive request: %+v", archived)
		}
	case <-time.After(time.Second):
		t.Error("photo was not archived")
	}
}

func TestStorefrontUseCase_AddProductAccess(t *testing.T) {
	env := newTestEnv(t)
	req := NewAddProductReq("Camera", dec("450"), decimal.Zero, "", "", "", "", photo())

	if _, err := env.storefront.AddProduct(context.Background(), req); !errors.Is(err, e.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	env.signIn(t, "user@example.com")
	if _, err := env.storefront.AddProduct(context.Background(), req); !errors.Is(err, e.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if got := len(env.storefront.Catalog(context.Background())); got != 0 {
		t.Errorf("catalog must stay empty, got %d", got)
	}
}

func TestStorefrontUseCase_AddProductValidation(t *testing.T) {
	big := NewProductImage(make([]byte, 2048), "image/png", 2048, "big.png")

	tests := []struct {
		name    string
		req     *AddProductReq
		wantErr error
	}{
		{"nil request", nil, e.ErrMissingFields},
		{"blank name", NewAddProductReq(" ", dec("10"), decimal.Zero, "", "", "", "", photo()), e.ErrProductNameRequired},
		{"negative price", NewAddProductReq("A", dec("-1"), decimal.Zero, "", "", "", "", photo()), e.ErrNegativePrice},
		{"no photo", NewAddProductReq("A", dec("10"), decimal.Zero, "", "", "", "", nil), e.ErrNoImages},
		{"photo too large", NewAddProductReq("A", dec("10"), decimal.Zero, "", "", "", "", big), e.ErrFileTooLarge},
		{"unknown currency", NewAddProductReq("A", dec("10"), decimal.Zero, "", "", "", "XYZ", photo()), e.ErrInvalidCurrency},
		{"discount too high", NewAddProductReq("A", dec("90"), dec("100"), "20", "", "", "", photo()), e.ErrDiscountTooHigh},
		{"old price below price", NewAddProductReq("A", dec("90"), dec("50"), "", "", "", "", photo()), e.ErrInvalidPriceOrdering},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.signIn(t, adminEmail)

			_, err := env.storefront.AddProduct(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if n := env.store.Snapshot().Catalog.Len(); n != 0 {
				t.Errorf("catalog must stay empty, got %d", n)
			}
		})
	}
}

func TestStorefrontUseCase_AddProductEncoding(t *testing.T) {
	t.Run("encoder failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(t, adminEmail)
		env.encoder.err = errors.New("unreadable")

		_, err := env.storefront.AddProduct(context.Background(), NewAddProductReq("A", dec("10"), decimal.Zero, "", "", "", "", photo()))
		if !errors.Is(err, e.ErrEncodeFailure) {
			t.Errorf("expected ErrEncodeFailure, got %v", err)
		}
	})

	t.Run("encoder timeout", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(t, adminEmail)
		env.encoder.hang = true
		env.cfg.EncodeTimeout = 10 * time.Millisecond

		_, err := env.storefront.AddProduct(context.Background(), NewAddProductReq("A", dec("10"), decimal.Zero, "", "", "", "", photo()))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if n := env.store.Snapshot().Catalog.Len(); n != 0 {
			t.Errorf("abandoned submission must not add a product, got %d", n)
		}
	})

	t.Run("cancelled request", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(t, adminEmail)
		env.encoder.hang = true

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := env.storefront.AddProduct(ctx, NewAddProductReq("A", dec("10"), decimal.Zero, "", "", "", "", photo()))
		if err == nil {
			t.Error("expected error for cancelled request")
		}
	})
}

func TestStorefrontUseCase_RemoveProductCascades(t *testing.T) {
	env := newTestEnv(t, product(1, "Headphones", "90"), product(2, "Camera", "450"))
	env.signIn(t, adminEmail)
	ctx := context.Background()

	if _, err := env.storefront.AddToCart(ctx, 1, 2); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if _, err := env.storefront.AddToWishlist(ctx, 1); err != nil {
		t.Fatalf("add to wishlist: %v", err)
	}
	if _, err := env.storefront.AddToCompare(ctx, 1); err != nil {
		t.Fatalf("add to compare: %v", err)
	}

	if err := env.storefront.RemoveProduct(ctx, 1); err != nil {
		t.Fatalf("remove product: %v", err)
	}

	if _, err := env.storefront.Product(ctx, 1); !errors.Is(err, e.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
	if cart := env.storefront.Cart(ctx); cart.Count != 0 {
		t.Errorf("cart must be empty, got %+v", cart)
	}
	if w := env.storefront.Wishlist(ctx, WishlistQuery{}); len(w) != 0 {
		t.Errorf("wishlist must be empty, got %+v", w)
	}
	if c := env.storefront.Compare(ctx); len(c) != 0 {
		t.Errorf("compare must be empty, got %+v", c)
	}
}

func TestStorefrontUseCase_CollectionsRequireSession(t *testing.T) {
	env := newTestEnv(t, product(1, "Headphones", "90"))
	ctx := context.Background()

	var redirects int
	env.session.OnNavigate(func(domain.NavigationRequest) { redirects++ })

	calls := map[string]func() error{
		"cart":     func() error { _, err := env.storefront.AddToCart(ctx, 1, 1); return err },
		"wishlist": func() error { _, err := env.storefront.ToggleWishlist(ctx, 1); return err },
		"compare":  func() error { _, err := env.storefront.AddToCompare(ctx, 1); return err },
	}

	for name, call := range calls {
		if err := call(); !errors.Is(err, e.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}

	if redirects != len(calls) {
		t.Errorf("expected %d redirects, got %d", len(calls), redirects)
	}
	if st := env.store.Snapshot(); st.Cart.Count() != 0 || st.Wishlist.Len() != 0 || st.Compare.Len() != 0 {
		t.Error("state must not change for anonymous user")
	}
}

func TestStorefrontUseCase_Cart(t *testing.T) {
	env := newTestEnv(t, product(1, "Headphones", "90"), product(2, "Cable", "5.50"))
	env.signIn(t, "user@example.com")
	ctx := context.Background()

	if _, err := env.storefront.AddToCart(ctx, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := env.storefront.AddToCart(ctx, 1, 1)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if view.Count != 1 || view.TotalQuantity != 2 || !view.Total.Equal(dec("180")) {
		t.Errorf("unexpected cart: %+v", view)
	}

	view, err = env.storefront.IncrementCartItem(ctx, 1)
	if err != nil || view.TotalQuantity != 3 {
		t.Errorf("increment: %+v, %v", view, err)
	}

	if _, err := env.storefront.UpdateCartQuantity(ctx, 1, 0); !errors.Is(err, e.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := env.storefront.UpdateCartQuantity(ctx, 2, 3); !errors.Is(err, e.ErrItemNotInCart) {
		t.Errorf("expected ErrItemNotInCart, got %v", err)
	}
	if _, err := env.storefront.AddToCart(ctx, 42, 1); !errors.Is(err, e.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}

	view, err = env.storefront.UpdateCartQuantity(ctx, 1, 1)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	view, err = env.storefront.DecrementCartItem(ctx, 1)
	if err != nil || view.TotalQuantity != 1 {
		t.Errorf("decrement at one must keep the item: %+v, %v", view, err)
	}

	view, err = env.storefront.ClearCart(ctx)
	if err != nil || view.Count != 0 || !view.Total.IsZero() {
		t.Errorf("clear: %+v, %v", view, err)
	}
}

func TestStorefrontUseCase_Wishlist(t *testing.T) {
	env := newTestEnv(t,
		product(1, "Headphones", "90"),
		product(2, "Cable", "5.50"),
		product(3, "Camera", "450"),
	)
	env.signIn(t, "user@example.com")
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if _, err := env.storefront.AddToWishlist(ctx, id); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}

	sorted := env.storefront.Wishlist(ctx, WishlistQuery{Sort: state.SortByPriceHigh, Filter: state.PriceAll})
	if len(sorted) != 3 || sorted[0].ID != 3 || sorted[2].ID != 2 {
		t.Errorf("unexpected order: %+v", sorted)
	}

	cheap := env.storefront.Wishlist(ctx, WishlistQuery{Filter: state.PriceUnder50})
	if len(cheap) != 1 || cheap[0].ID != 2 {
		t.Errorf("unexpected filter result: %+v", cheap)
	}

	in, err := env.storefront.ToggleWishlist(ctx, 2)
	if err != nil || in {
		t.Errorf("toggle must remove existing item: %v, %v", in, err)
	}
	in, err = env.storefront.ToggleWishlist(ctx, 2)
	if err != nil || !in {
		t.Errorf("toggle must add missing item: %v, %v", in, err)
	}

	items, err := env.storefront.ClearWishlist(ctx)
	if err != nil || len(items) != 0 {
		t.Errorf("clear: %+v, %v", items, err)
	}
}

func TestStorefrontUseCase_CompareCapacity(t *testing.T) {
	var seed []domain.Product
	for id := int64(1); id <= 5; id++ {
		seed = append(seed, product(id, "Item", "10"))
	}
	env := newTestEnv(t, seed...)
	env.signIn(t, "user@example.com")
	ctx := context.Background()

	for id := int64(1); id <= state.MaxCompareItems; id++ {
		if _, err := env.storefront.AddToCompare(ctx, id); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}

	if _, err := env.storefront.AddToCompare(ctx, 5); !errors.Is(err, e.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if _, err := env.storefront.ToggleCompare(ctx, 5); !errors.Is(err, e.ErrCapacityExceeded) {
		t.Errorf("toggle on full list: expected ErrCapacityExceeded, got %v", err)
	}

	rows, err := env.storefront.AddToCompare(ctx, 1)
	if err != nil || len(rows) != state.MaxCompareItems {
		t.Errorf("duplicate add must be a no-op: %d rows, %v", len(rows), err)
	}

	in, err := env.storefront.ToggleCompare(ctx, 1)
	if err != nil || in {
		t.Errorf("toggle must remove existing item: %v, %v", in, err)
	}

	rows, err = env.storefront.RemoveFromCompare(ctx, 2)
	if err != nil || len(rows) != 2 {
		t.Errorf("remove: %d rows, %v", len(rows), err)
	}
}

func TestStorefrontUseCase_ValidateDiscount(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.storefront.ValidateDiscount(context.Background(), &DiscountCheckReq{
		Price:    dec("80"),
		OldPrice: dec("100"),
		Discount: "20abc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Discount != "20%" || res.MaxPercent == nil || *res.MaxPercent != 20 || !res.FinalPrice.Equal(dec("64")) {
		t.Errorf("unexpected result: %+v", res)
	}

	res, err = env.storefront.ValidateDiscount(context.Background(), &DiscountCheckReq{Price: dec("80"), Discount: ""})
	if err != nil || res.Discount != "" || res.MaxPercent != nil {
		t.Errorf("empty discount: %+v, %v", res, err)
	}

	if _, err := env.storefront.ValidateDiscount(context.Background(), &DiscountCheckReq{
		Price:    dec("90"),
		OldPrice: dec("100"),
		Discount: "11",
	}); !errors.Is(err, e.ErrDiscountTooHigh) {
		t.Errorf("expected ErrDiscountTooHigh, got %v", err)
	}
}
