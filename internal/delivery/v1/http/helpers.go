package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Warning  string `json:"warning,omitempty"`  // показывается пользователю как предупреждение
	Redirect string `json:"redirect,omitempty"` // путь, на который должен перейти клиент
}

type ProductMetadata struct {
	Name        string
	Price       decimal.Decimal
	OldPrice    decimal.Decimal
	Discount    string
	Description string
	Category    string
	Currency    string
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrUnauthenticated):
		return http.StatusUnauthorized, e.ErrUnauthenticated.Error()
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, e.ErrForbidden.Error()
	case errors.Is(err, e.ErrCapacityExceeded):
		return http.StatusConflict, e.ErrCapacityExceeded.Error()
	case errors.Is(err, e.ErrDuplicateProduct):
		return http.StatusConflict, e.ErrDuplicateProduct.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrItemNotInCart):
		return http.StatusNotFound, e.ErrItemNotInCart.Error()
	case errors.Is(err, e.ErrInvalidPriceOrdering):
		return http.StatusUnprocessableEntity, e.ErrInvalidPriceOrdering.Error()
	case errors.Is(err, e.ErrDiscountTooHigh):
		return http.StatusUnprocessableEntity, e.ErrDiscountTooHigh.Error()
	case errors.Is(err, e.ErrInvalidDiscount):
		return http.StatusUnprocessableEntity, e.ErrInvalidDiscount.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrEncodeFailure):
		return http.StatusUnprocessableEntity, e.ErrEncodeFailure.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidJSON):
		return http.StatusBadRequest, e.ErrInvalidJSON.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrNegativePrice):
		return http.StatusBadRequest, e.ErrNegativePrice.Error()
	case errors.Is(err, e.ErrNoImages):
		return http.StatusBadRequest, e.ErrNoImages.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusBadRequest, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrInvalidCurrency):
		return http.StatusBadRequest, e.ErrInvalidCurrency.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, context.DeadlineExceeded.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// responder пишет ответы и ошибки одинаково для всех обработчиков.
type responder struct {
	logger    logger.Logger
	loginPath string
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := ToHTTPResponse(err)
	resp := NewErrorResponse(code, msg)

	switch code {
	case http.StatusUnauthorized:
		resp.Redirect = rs.loginPath
	case http.StatusConflict:
		if errors.Is(err, e.ErrCapacityExceeded) {
			resp.Warning = fmt.Sprintf("You can only compare up to %d products", state.MaxCompareItems)
		}
	}

	if code >= http.StatusInternalServerError {
		rs.logger.Errorf(err, "%s %s", r.Method, r.URL.Path)
	} else {
		rs.logger.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
	}

	WriteErrorResponse(w, resp)
}

func WriteErrorResponse(w http.ResponseWriter, resp *ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePrice converts a string like "599.99" or "600" to a decimal price.
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds reasonable limit (1 billion)
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, e.Wrap("price is empty", e.ErrMissingFields)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if d.IsNegative() {
		return decimal.Zero, e.ErrNegativePrice
	}

	if d.GreaterThan(decimal.NewFromInt(1_000_000_000)) {
		return decimal.Zero, e.ErrInvalidPrice
	}

	// Check decimal places
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, e.ErrPricePrecision
	}

	return d, nil
}

// parseOptionalPrice трактует пустую строку как отсутствующую цену (ноль).
func parseOptionalPrice(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parsePrice(s)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

func parseProductForm(r *http.Request) (*ProductMetadata, error) {
	name := strings.TrimSpace(r.FormValue("name"))
	priceStr := r.FormValue("price")

	if name == "" || strings.TrimSpace(priceStr) == "" {
		return nil, e.Wrap(fmt.Sprintf("name: %q, price: %q", name, priceStr), e.ErrMissingFields)
	}

	price, err := parsePrice(priceStr)
	if err != nil {
		return nil, err
	}

	oldPrice, err := parseOptionalPrice(r.FormValue("oldPrice"))
	if err != nil {
		return nil, err
	}

	return &ProductMetadata{
		Name:        name,
		Price:       price,
		OldPrice:    oldPrice,
		Discount:    r.FormValue("discount"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Currency:    r.FormValue("currency"),
	}, nil
}

// parseImage читает первый файл из поля формы.
func parseImage(form *multipart.Form, field string, maxSize int64) (*usecase.ProductImage, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, e.ErrNoImages
	}

	fh := form.File[field][0]
	data, mimeType, err := readFile(fh, maxSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if maxSize > 0 && fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data[:min(len(data), 512)])
	}
	return data, mimeType, nil
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidProductID
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}
	return nil
}
