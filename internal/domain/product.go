package domain

import (
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// Product описывает товар каталога. После создания не изменяется.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`    // текущая цена продажи
	OldPrice    decimal.Decimal `json:"oldPrice"` // цена до скидки, ноль — не задана
	Discount    string          `json:"discount"` // например "20%", может быть пустой
	Description string          `json:"description"`
	ImgSrc      string          `json:"imgSrc"` // data URL изображения
	Alt         string          `json:"alt,omitempty"`
	Category    string          `json:"category,omitempty"`
	Currency    string          `json:"currency,omitempty"`
}

func NewProduct(id int64, name string, price, oldPrice decimal.Decimal, discount, description, imgSrc, category, currency string) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Price:       price,
		OldPrice:    oldPrice,
		Discount:    discount,
		Description: description,
		ImgSrc:      imgSrc,
		Alt:         name,
		Category:    category,
		Currency:    currency,
	}
}

// Validate проверяет обязательные поля и согласованность цены, старой цены и скидки.
func (p *Product) Validate() error {
	if p.ID <= 0 {
		return e.ErrInvalidProductID
	}

	if strings.TrimSpace(p.Name) == "" {
		return e.ErrProductNameRequired
	}

	if p.Price.IsNegative() || p.OldPrice.IsNegative() {
		return e.ErrNegativePrice
	}

	if p.ImgSrc == "" {
		return e.ErrNoImages
	}

	if p.Currency != "" && !IsSupportedCurrency(p.Currency) {
		return e.ErrInvalidCurrency
	}

	if p.Price.IsPositive() && p.OldPrice.IsPositive() && p.OldPrice.LessThan(p.Price) {
		return e.ErrInvalidPriceOrdering
	}

	if p.Discount != "" {
		if _, err := ValidateDiscount(p.Price, p.OldPrice, p.Discount); err != nil {
			return err
		}
	}

	return nil
}

// DiscountedPrice — цена после применения скидки (по модулю процента).
func (p *Product) DiscountedPrice() decimal.Decimal {
	return FinalPrice(p.Price, p.Discount)
}
