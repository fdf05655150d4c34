package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
)

type SearchHandler struct {
	responder
	search usecase.SearchUC
}

func NewSearchHandler(search usecase.SearchUC, rs responder) *SearchHandler {
	return &SearchHandler{responder: rs, search: search}
}

func (h *SearchHandler) find(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.search.Search(r.Context(), query)

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (h *SearchHandler) recent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.search.Recent(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"recent":  recent,
		"popular": h.search.Popular(),
	})
}
