package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
)

type CartHandler struct {
	responder
	storefront usecase.StorefrontUC
}

func NewCartHandler(storefront usecase.StorefrontUC, rs responder) *CartHandler {
	return &CartHandler{responder: rs, storefront: storefront}
}

type addCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity,omitempty"` // по умолчанию 1
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, c.storefront.Cart(r.Context()))
}

func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.fail(w, r, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	c.respond(w, r)(c.storefront.AddToCart(r.Context(), req.ProductID, quantity))
}

func (c *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.fail(w, r, err)
		return
	}

	c.respond(w, r)(c.storefront.UpdateCartQuantity(r.Context(), id, req.Quantity))
}

func (c *CartHandler) increment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.respond(w, r)(c.storefront.IncrementCartItem(r.Context(), id))
}

func (c *CartHandler) decrement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.respond(w, r)(c.storefront.DecrementCartItem(r.Context(), id))
}

func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.respond(w, r)(c.storefront.RemoveFromCart(r.Context(), id))
}

func (c *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r)(c.storefront.ClearCart(r.Context()))
}

func (c *CartHandler) respond(w http.ResponseWriter, r *http.Request) func(*usecase.CartView, error) {
	return func(view *usecase.CartView, err error) {
		if err != nil {
			c.fail(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, view)
	}
}
