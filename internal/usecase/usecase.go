package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
)

type StorefrontUC interface {
	Catalog(ctx context.Context) []domain.Product
	Product(ctx context.Context, id int64) (*domain.Product, error)
	AddProduct(ctx context.Context, req *AddProductReq) (*domain.Product, error)
	RemoveProduct(ctx context.Context, id int64) error
	ValidateDiscount(ctx context.Context, req *DiscountCheckReq) (*DiscountCheckRes, error)

	Cart(ctx context.Context) *CartView
	AddToCart(ctx context.Context, productID int64, quantity int) (*CartView, error)
	RemoveFromCart(ctx context.Context, productID int64) (*CartView, error)
	UpdateCartQuantity(ctx context.Context, productID int64, quantity int) (*CartView, error)
	IncrementCartItem(ctx context.Context, productID int64) (*CartView, error)
	DecrementCartItem(ctx context.Context, productID int64) (*CartView, error)
	ClearCart(ctx context.Context) (*CartView, error)

	Wishlist(ctx context.Context, q WishlistQuery) []domain.Product
	AddToWishlist(ctx context.Context, productID int64) ([]domain.Product, error)
	RemoveFromWishlist(ctx context.Context, productID int64) ([]domain.Product, error)
	ToggleWishlist(ctx context.Context, productID int64) (bool, error)
	ClearWishlist(ctx context.Context) ([]domain.Product, error)

	Compare(ctx context.Context) []state.CompareRow
	AddToCompare(ctx context.Context, productID int64) ([]state.CompareRow, error)
	RemoveFromCompare(ctx context.Context, productID int64) ([]state.CompareRow, error)
	ToggleCompare(ctx context.Context, productID int64) (bool, error)
	ClearCompare(ctx context.Context) ([]state.CompareRow, error)
}

type SessionUC interface {
	SignIn(ctx context.Context, token, email string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*domain.Session, error)
	IsAdmin(session *domain.Session) bool
	SetProfileImage(ctx context.Context, image *ProductImage) (string, error)
	ProfileImage(ctx context.Context) (string, error)
	FirstVisit(ctx context.Context) (bool, error)
}

type SearchUC interface {
	Search(ctx context.Context, query string) []domain.Product
	Recent(ctx context.Context) ([]string, error)
	Popular() []string
}
