package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
)

type ProductHandler struct {
	responder
	storefront   usecase.StorefrontUC
	maxPhotoSize int64
}

func NewProductHandler(storefront usecase.StorefrontUC, rs responder, maxPhotoSize int64) *ProductHandler {
	return &ProductHandler{responder: rs, storefront: storefront, maxPhotoSize: maxPhotoSize}
}

type discountRequest struct {
	Price    string `json:"price"`
	OldPrice string `json:"oldPrice"`
	Discount string `json:"discount"`
}

func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products":   p.storefront.Catalog(r.Context()),
		"categories": domain.Categories,
		"currencies": domain.Currencies,
	})
}

func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	product, err := p.storefront.Product(r.Context(), id)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// addProduct
//
//	@Summary		Добавление товара
//	@Description	Создает товар в каталоге; фото сохраняется в товаре как data URL
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Название товара"
//	@Param			price		formData	number	true	"Цена"
//	@Param			oldPrice	formData	number	false	"Старая цена"
//	@Param			discount	formData	string	false	"Скидка, например 20%"
//	@Param			photo		formData	file	true	"Фото товара"
//	@Success		201			{object}	domain.Product
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		422			{object}	ErrorResponse	"Скидка не согласована с ценами"
//	@Router			/products [post]
func (p *ProductHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxMemory = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, p.maxPhotoSize+maxMemory)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.fail(w, r, err)
		return
	}

	meta, err := parseProductForm(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	photo, err := parseImage(r.MultipartForm, "photo", p.maxPhotoSize)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	product, err := p.storefront.AddProduct(r.Context(), usecase.NewAddProductReq(
		meta.Name, meta.Price, meta.OldPrice, meta.Discount, meta.Description, meta.Category, meta.Currency, photo,
	))
	if err != nil {
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, product)
}

func (p *ProductHandler) removeProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	if err := p.storefront.RemoveProduct(r.Context(), id); err != nil {
		p.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validateDiscount проверяет скидку при вводе в форме товара.
func (p *ProductHandler) validateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.fail(w, r, err)
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	oldPrice, err := parseOptionalPrice(req.OldPrice)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	res, err := p.storefront.ValidateDiscount(r.Context(), &usecase.DiscountCheckReq{
		Price:    price,
		OldPrice: oldPrice,
		Discount: req.Discount,
	})
	if err != nil {
		if errors.Is(err, e.ErrDiscountTooHigh) {
			maxPercent, _ := domain.MaxDiscountPercent(price, oldPrice)
			WriteErrorResponse(w, NewErrorResponse(http.StatusUnprocessableEntity, fmt.Sprintf(
				"Discount cannot be more than %d%%. This would make the new price lower than specified price.", maxPercent,
			)))
			return
		}
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}
