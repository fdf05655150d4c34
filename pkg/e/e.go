package e

import "fmt"

var (
	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Сессия и доступ
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrForbidden       = fmt.Errorf("forbidden")

	// Коллекции (корзина, избранное, сравнение, каталог)
	ErrCapacityExceeded = fmt.Errorf("compare list capacity exceeded")
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrDuplicateProduct = fmt.Errorf("product with this id already exists")
	ErrInvalidQuantity  = fmt.Errorf("quantity must be at least 1")
	ErrItemNotInCart    = fmt.Errorf("item not in cart")
	ErrInvalidProductID = fmt.Errorf("invalid product id")

	// Валидация цены и скидки
	ErrInvalidPriceOrdering = fmt.Errorf("old price must be higher than new price")
	ErrDiscountTooHigh      = fmt.Errorf("discount is too high")
	ErrInvalidDiscount      = fmt.Errorf("invalid discount")
	ErrNegativePrice        = fmt.Errorf("price cannot be negative")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidCurrency      = fmt.Errorf("unsupported currency")

	// Изображения
	ErrEncodeFailure        = fmt.Errorf("failed to encode image")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrExpectedMultipart   = fmt.Errorf("expected multipart/form-data")
	ErrInvalidJSON         = fmt.Errorf("invalid json body")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
