package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// StorefrontUseCase реализует операции витрины над каталогом, корзиной, избранным и сравнением.
// Изменения коллекций доступны только вошедшему пользователю, изменения каталога — администратору.
type StorefrontUseCase struct {
	store       *state.Store
	session     *SessionUseCase
	encoder     ImageEncoder
	imagesInfra ImagesInfra // может быть nil, если архив фото отключён
	ids         *domain.IDGenerator
	cfg         *cfg.StorefrontCfg
	logger      logger.Logger
}

func NewStorefrontUC(
	store *state.Store,
	session *SessionUseCase,
	encoder ImageEncoder,
	imagesInfra ImagesInfra,
	ids *domain.IDGenerator,
	cfg *cfg.StorefrontCfg,
	logger logger.Logger,
) *StorefrontUseCase {
	return &StorefrontUseCase{
		store:       store,
		session:     session,
		encoder:     encoder,
		imagesInfra: imagesInfra,
		ids:         ids,
		cfg:         cfg,
		logger:      logger,
	}
}

// CATALOG

// Catalog возвращает товары каталога, новые первыми.
func (s *StorefrontUseCase) Catalog(_ context.Context) []domain.Product {
	return productsOrEmpty(s.store.Snapshot().Catalog.NewestFirst())
}

func (s *StorefrontUseCase) Product(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.store.Snapshot().Catalog.Get(id)
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

// AddProduct проверяет данные формы, кодирует фото в data URL и добавляет товар в каталог.
// Исходное фото архивируется в фоне; сбой архивации на результат не влияет.
func (s *StorefrontUseCase) AddProduct(ctx context.Context, req *AddProductReq) (*domain.Product, error) {
	const op = "StorefrontUseCase.AddProduct"

	if _, err := s.session.RequireAdmin(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	discount, err := s.validateProduct(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dataURL, err := awaitEncoding(ctx, s.encoder, *req.Photo, s.cfg.EncodeTimeout)
	if err != nil {
		s.logger.Warnf("%s: encode failed for %s: %v", op, req.Photo.Name, err)
		return nil, e.Wrap(op, err)
	}

	// Запрос мог быть отменён одновременно с завершением кодирования
	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	product := domain.NewProduct(
		s.ids.Next(),
		strings.TrimSpace(req.Name),
		req.Price,
		req.OldPrice,
		discount,
		strings.TrimSpace(req.Description),
		dataURL,
		category,
		currency,
	)

	if _, err := s.store.Dispatch(state.AddProduct{Product: *product}); err != nil {
		return nil, e.Wrap(op, err)
	}

	s.archivePhoto(product.Name, *req.Photo)

	s.logger.Infof("%s: product %d (%s) added", op, product.ID, product.Name)
	return product, nil
}

// RemoveProduct удаляет товар из каталога вместе со ссылками на него в коллекциях.
func (s *StorefrontUseCase) RemoveProduct(ctx context.Context, id int64) error {
	const op = "StorefrontUseCase.RemoveProduct"

	if _, err := s.session.RequireAdmin(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if _, err := s.store.Dispatch(state.RemoveProduct{ProductID: id}); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// ValidateDiscount проверяет скидку при вводе и возвращает её в формате хранения.
func (s *StorefrontUseCase) ValidateDiscount(_ context.Context, req *DiscountCheckReq) (*DiscountCheckRes, error) {
	const op = "StorefrontUseCase.ValidateDiscount"

	if req.Price.IsNegative() || req.OldPrice.IsNegative() {
		return nil, e.Wrap(op, e.ErrNegativePrice)
	}

	discount, err := domain.ValidateDiscount(req.Price, req.OldPrice, req.Discount)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res := &DiscountCheckRes{
		Discount:   discount,
		FinalPrice: domain.FinalPrice(req.Price, discount),
	}

	if req.OldPrice.IsPositive() {
		if maxPercent, err := domain.MaxDiscountPercent(req.Price, req.OldPrice); err == nil {
			res.MaxPercent = &maxPercent
		}
	}

	return res, nil
}

// CART

func (s *StorefrontUseCase) Cart(_ context.Context) *CartView {
	return NewCartView(s.store.Snapshot().Cart)
}

func (s *StorefrontUseCase) AddToCart(ctx context.Context, productID int64, quantity int) (*CartView, error) {
	return s.mutateCart(ctx, "StorefrontUseCase.AddToCart", state.AddToCart{ProductID: productID, Quantity: quantity})
}

func (s *StorefrontUseCase) RemoveFromCart(ctx context.Context, productID int64) (*CartView, error) {
	return s.mutateCart(ctx, "StorefrontUseCase.RemoveFromCart", state.RemoveFromCart{ProductID: productID})
}

func (s *StorefrontUseCase) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) (*CartView, error) {
	return s.mutateCart(ctx, "StorefrontUseCase.UpdateCartQuantity", state.UpdateCartQuantity{ProductID: productID, Quantity: quantity})
}

func (s *StorefrontUseCase) IncrementCartItem(ctx context.Context, productID int64) (*CartView, error) {
	return s.mutateCart(ctx, "StorefrontUseCase.IncrementCartItem", state.IncrementCartItem{ProductID: productID})
}

func (s *StorefrontUseCase) DecrementCartItem(ctx context.Context, productID int64) (*CartView, error) {
	return s.mutateCart(ctx, "StorefrontUseCase.DecrementCartItem", state.DecrementCartItem{ProductID: productID})
}

func (s *StorefrontUseCase) ClearCart(ctx context.Context) (*CartView, error) {
	return s.mutateCart(ctx, "StorefrontUseCase.ClearCart", state.ClearCart{})
}

// WISHLIST

// Wishlist возвращает избранное с учётом фильтра по цене и сортировки.
func (s *StorefrontUseCase) Wishlist(_ context.Context, q WishlistQuery) []domain.Product {
	result := make([]domain.Product, 0)
	for _, p := range s.store.Snapshot().Wishlist.Sorted(q.Sort) {
		if q.Filter.Matches(p.Price) {
			result = append(result, p)
		}
	}
	return result
}

func (s *StorefrontUseCase) AddToWishlist(ctx context.Context, productID int64) ([]domain.Product, error) {
	return s.mutateWishlist(ctx, "StorefrontUseCase.AddToWishlist", state.AddToWishlist{ProductID: productID})
}

func (s *StorefrontUseCase) RemoveFromWishlist(ctx context.Context, productID int64) ([]domain.Product, error) {
	return s.mutateWishlist(ctx, "StorefrontUseCase.RemoveFromWishlist", state.RemoveFromWishlist{ProductID: productID})
}

// ToggleWishlist возвращает true, если товар после операции находится в избранном.
func (s *StorefrontUseCase) ToggleWishlist(ctx context.Context, productID int64) (bool, error) {
	st, err := s.dispatch(ctx, "StorefrontUseCase.ToggleWishlist", state.ToggleWishlist{ProductID: productID})
	if err != nil {
		return false, err
	}
	return st.Wishlist.Contains(productID), nil
}

func (s *StorefrontUseCase) ClearWishlist(ctx context.Context) ([]domain.Product, error) {
	return s.mutateWishlist(ctx, "StorefrontUseCase.ClearWishlist", state.ClearWishlist{})
}

// COMPARE

func (s *StorefrontUseCase) Compare(_ context.Context) []state.CompareRow {
	return s.store.Snapshot().Compare.Rows()
}

func (s *StorefrontUseCase) AddToCompare(ctx context.Context, productID int64) ([]state.CompareRow, error) {
	return s.mutateCompare(ctx, "StorefrontUseCase.AddToCompare", state.AddToCompare{ProductID: productID})
}

func (s *StorefrontUseCase) RemoveFromCompare(ctx context.Context, productID int64) ([]state.CompareRow, error) {
	return s.mutateCompare(ctx, "StorefrontUseCase.RemoveFromCompare", state.RemoveFromCompare{ProductID: productID})
}

// ToggleCompare возвращает true, если товар после операции находится в списке сравнения.
func (s *StorefrontUseCase) ToggleCompare(ctx context.Context, productID int64) (bool, error) {
	st, err := s.dispatch(ctx, "StorefrontUseCase.ToggleCompare", state.ToggleCompare{ProductID: productID})
	if err != nil {
		return false, err
	}
	return st.Compare.Contains(productID), nil
}

func (s *StorefrontUseCase) ClearCompare(ctx context.Context) ([]state.CompareRow, error) {
	return s.mutateCompare(ctx, "StorefrontUseCase.ClearCompare", state.ClearCompare{})
}

// HELPERS

func (s *StorefrontUseCase) mutateCart(ctx context.Context, op string, a state.Action) (*CartView, error) {
	st, err := s.dispatch(ctx, op, a)
	if err != nil {
		return nil, err
	}
	return NewCartView(st.Cart), nil
}

func (s *StorefrontUseCase) mutateWishlist(ctx context.Context, op string, a state.Action) ([]domain.Product, error) {
	st, err := s.dispatch(ctx, op, a)
	if err != nil {
		return nil, err
	}
	return productsOrEmpty(st.Wishlist.Items()), nil
}

func (s *StorefrontUseCase) mutateCompare(ctx context.Context, op string, a state.Action) ([]state.CompareRow, error) {
	st, err := s.dispatch(ctx, op, a)
	if err != nil {
		return nil, err
	}
	return st.Compare.Rows(), nil
}

// dispatch применяет действие только для вошедшего пользователя.
func (s *StorefrontUseCase) dispatch(ctx context.Context, op string, a state.Action) (state.State, error) {
	if _, err := s.session.RequireSession(ctx); err != nil {
		return state.State{}, e.Wrap(op, err)
	}

	st, err := s.store.Dispatch(a)
	if err != nil {
		if errors.Is(err, e.ErrCapacityExceeded) {
			s.logger.Warnf("%s: %v", op, err)
		}
		return state.State{}, e.Wrap(op, err)
	}

	return st, nil
}

// validateProduct проверяет поля формы и возвращает скидку в формате хранения.
func (s *StorefrontUseCase) validateProduct(req *AddProductReq) (string, error) {
	if req == nil {
		return "", e.ErrMissingFields
	}

	if strings.TrimSpace(req.Name) == "" {
		return "", e.ErrProductNameRequired
	}

	if req.Price.IsNegative() || req.OldPrice.IsNegative() {
		return "", e.ErrNegativePrice
	}

	if req.Photo == nil || len(req.Photo.Data) == 0 {
		return "", e.ErrNoImages
	}

	if s.cfg.MaxPhotoSize > 0 && req.Photo.Size > s.cfg.MaxPhotoSize {
		return "", e.ErrFileTooLarge
	}

	if req.Currency != "" && !domain.IsSupportedCurrency(strings.ToUpper(strings.TrimSpace(req.Currency))) {
		return "", e.ErrInvalidCurrency
	}

	return domain.ValidateDiscount(req.Price, req.OldPrice, req.Discount)
}

// archivePhoto сохраняет исходное фото товара в фоне.
func (s *StorefrontUseCase) archivePhoto(name string, photo ProductImage) {
	const op = "StorefrontUseCase.archivePhoto"

	if s.imagesInfra == nil {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := s.imagesInfra.UploadImages(bgCtx, NewUploadImagesReq(name, []ProductImage{photo}))
		if err != nil {
			s.logger.Warnf("Failed to archive product photo in background: %v", e.Wrap(op, err))
			return
		}

		s.logger.Debugf("%s: archived %v", op, res.ImagesKeys)
	}()
}
