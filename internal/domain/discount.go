package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SanitizeDiscount оставляет в строке только цифры и минусы, затем сохраняет минус,
// только если он первый в отфильтрованной строке. Строка без цифр ("" или "-") считается пустой скидкой.
func SanitizeDiscount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	s := b.String()
	if s == "-" {
		return ""
	}

	return s
}

// MaxDiscountPercent = floor((oldPrice - price) / oldPrice * 100). Определено только при oldPrice > 0.
func MaxDiscountPercent(price, oldPrice decimal.Decimal) (int64, error) {
	if !oldPrice.IsPositive() {
		return 0, e.Wrap("old price must be positive", e.ErrInvalidPrice)
	}

	return oldPrice.Sub(price).Mul(hundred).Div(oldPrice).Floor().IntPart(), nil
}

// ValidateDiscount проверяет, что скидка согласована с парой цен, и возвращает
// значение в формате хранения ("20%"). Пустая скидка допустима и возвращается как "".
// Проверки по ценам выполняются, только если старая цена задана (больше нуля).
func ValidateDiscount(price, oldPrice decimal.Decimal, candidate string) (string, error) {
	sanitized := SanitizeDiscount(candidate)
	if sanitized == "" {
		return "", nil
	}

	value, err := strconv.ParseInt(sanitized, 10, 64)
	if err != nil {
		return "", e.Wrap(candidate, e.ErrInvalidDiscount)
	}

	if oldPrice.IsPositive() {
		if oldPrice.LessThanOrEqual(price) {
			return "", e.ErrInvalidPriceOrdering
		}

		maxDiscount, err := MaxDiscountPercent(price, oldPrice)
		if err != nil {
			return "", err
		}

		if value > maxDiscount {
			return "", e.Wrap(fmt.Sprintf("discount cannot be more than %d%%", maxDiscount), e.ErrDiscountTooHigh)
		}
	}

	return sanitized + "%", nil
}

// ParseDiscountPercent извлекает числовое значение скидки из строки вида "20%".
func ParseDiscountPercent(discount string) (int64, bool) {
	sanitized := SanitizeDiscount(discount)
	if sanitized == "" {
		return 0, false
	}

	value, err := strconv.ParseInt(sanitized, 10, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// FinalPrice возвращает цену после скидки: price - price * |discount| / 100, с точностью до копеек.
func FinalPrice(price decimal.Decimal, discount string) decimal.Decimal {
	percent, ok := ParseDiscountPercent(discount)
	if !ok {
		return price
	}

	off := price.Mul(decimal.NewFromInt(percent).Abs()).Div(hundred)
	return price.Sub(off).Round(2)
}
