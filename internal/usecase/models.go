package usecase

import (
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/shopspring/decimal"
)

// STOREFRONT USECASE

// AddProductReq — запрос администратора на добавление товара в каталог.
type AddProductReq struct {
	Name        string
	Price       decimal.Decimal
	OldPrice    decimal.Decimal // ноль — старая цена не задана
	Discount    string
	Description string
	Category    string
	Currency    string
	Photo       *ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// CartView — содержимое корзины вместе с агрегатами.
type CartView struct {
	Items         []state.LineItem `json:"items"`
	Count         int              `json:"count"`
	TotalQuantity int              `json:"totalQuantity"`
	Total         decimal.Decimal  `json:"total"`
}

// WishlistQuery — параметры отображения избранного.
type WishlistQuery struct {
	Sort   state.SortOrder
	Filter state.PriceBucket
}

// DiscountCheckReq — проверка скидки при вводе в форме товара.
type DiscountCheckReq struct {
	Price    decimal.Decimal
	OldPrice decimal.Decimal
	Discount string
}

// DiscountCheckRes — результат проверки скидки.
type DiscountCheckRes struct {
	Discount   string          `json:"discount"`
	MaxPercent *int64          `json:"maxPercent,omitempty"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// INFRASTRUCTURE

// EncodeResult — единственный результат асинхронного кодирования изображения.
type EncodeResult struct {
	DataURL string
	Err     error
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

// UploadImagesReq — запрос на архивирование исходных фотографий товара.
type UploadImagesReq struct {
	Name   string
	Images []ProductImage
}

// WriteMessageReq — уведомление об изменении части состояния для внешней шины.
type WriteMessageReq struct {
	Slice    string
	Action   string
	Snapshot any
}

// MAPPERS

func NewCartView(cart state.Cart) *CartView {
	return &CartView{
		Items:         cart.Items(),
		Count:         cart.Count(),
		TotalQuantity: cart.TotalQuantity(),
		Total:         cart.Total(),
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewAddProductReq(name string, price, oldPrice decimal.Decimal, discount, description, category, currency string, photo *ProductImage) *AddProductReq {
	return &AddProductReq{
		Name:        name,
		Price:       price,
		OldPrice:    oldPrice,
		Discount:    discount,
		Description: description,
		Category:    category,
		Currency:    currency,
		Photo:       photo,
	}
}

func NewUploadImagesReq(name string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

// NewWriteMessageReq собирает уведомление из изменения состояния: в снимок попадает только изменённая часть.
func NewWriteMessageReq(change state.Change) *WriteMessageReq {
	return &WriteMessageReq{
		Slice:    string(change.Slice),
		Action:   change.Action,
		Snapshot: SliceSnapshot(change.Slice, change.State),
	}
}

// SliceSnapshot возвращает сериализуемое представление части состояния.
func SliceSnapshot(slice state.Slice, s state.State) any {
	switch slice {
	case state.SliceCatalog:
		return s.Catalog.Items()
	case state.SliceCart:
		return NewCartView(s.Cart)
	case state.SliceWishlist:
		return s.Wishlist.Items()
	case state.SliceCompare:
		return s.Compare.Rows()
	default:
		return nil
	}
}

func productsOrEmpty(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
