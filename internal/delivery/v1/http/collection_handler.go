package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

type itemRequest struct {
	ProductID int64 `json:"productId"`
}

// WishlistHandler обслуживает избранное.
type WishlistHandler struct {
	responder
	storefront usecase.StorefrontUC
}

func NewWishlistHandler(storefront usecase.StorefrontUC, rs responder) *WishlistHandler {
	return &WishlistHandler{responder: rs, storefront: storefront}
}

// getWishlist поддерживает ?sort=name|price-low|price-high и ?filter=all|under-50|50-100|over-100.
func (h *WishlistHandler) getWishlist(w http.ResponseWriter, r *http.Request) {
	items := h.storefront.Wishlist(r.Context(), usecase.WishlistQuery{
		Sort:   state.SortOrder(r.URL.Query().Get("sort")),
		Filter: state.PriceBucket(r.URL.Query().Get("filter")),
	})

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (h *WishlistHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r)(h.storefront.AddToWishlist(r.Context(), req.ProductID))
}

func (h *WishlistHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r)(h.storefront.RemoveFromWishlist(r.Context(), id))
}

func (h *WishlistHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	inList, err := h.storefront.ToggleWishlist(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"productId": id, "inWishlist": inList})
}

func (h *WishlistHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.storefront.ClearWishlist(r.Context()))
}

func (h *WishlistHandler) respond(w http.ResponseWriter, r *http.Request) func([]domain.Product, error) {
	return func(items []domain.Product, err error) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
	}
}

// CompareHandler обслуживает список сравнения.
type CompareHandler struct {
	responder
	storefront usecase.StorefrontUC
}

func NewCompareHandler(storefront usecase.StorefrontUC, rs responder) *CompareHandler {
	return &CompareHandler{responder: rs, storefront: storefront}
}

func (h *CompareHandler) getCompare(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.storefront.Compare(r.Context()), nil)
}

func (h *CompareHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r)(h.storefront.AddToCompare(r.Context(), req.ProductID))
}

func (h *CompareHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r)(h.storefront.RemoveFromCompare(r.Context(), id))
}

func (h *CompareHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	inList, err := h.storefront.ToggleCompare(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"productId": id, "inCompare": inList})
}

func (h *CompareHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.storefront.ClearCompare(r.Context()))
}

func (h *CompareHandler) respond(w http.ResponseWriter, r *http.Request) func([]state.CompareRow, error) {
	return func(rows []state.CompareRow, err error) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"items":    rows,
			"count":    len(rows),
			"capacity": state.MaxCompareItems,
		})
	}
}
