package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/internal/store"
	"github.com/utafrali/shopstate/pkg/httputil"
	"github.com/utafrali/shopstate/pkg/validator"
)

// WishlistResponse is the JSON view of a wishlist snapshot.
type WishlistResponse struct {
	Entries []domain.WishlistEntry `json:"entries"`
	State   string                 `json:"state"`
}

func wishlistResponse(wl domain.Wishlist, state store.State) WishlistResponse {
	entries := wl.Entries
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	return WishlistResponse{Entries: entries, State: state.String()}
}

// GetWishlist handles GET /api/v1/screens/{screen}/wishlist
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.wishlistStore(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistResponse(ws.Snapshot(), ws.State()))
}

// AddWishlistItem handles POST /api/v1/screens/{screen}/wishlist/items
func (h *Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.wishlistStore(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	product, err := req.product()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	wl := ws.Add(r.Context(), product)
	httputil.WriteData(w, http.StatusOK, wishlistResponse(wl, ws.State()))
}

// RemoveWishlistItem handles DELETE /api/v1/screens/{screen}/wishlist/items/{productId}
func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.wishlistStore(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	wl := ws.Remove(r.Context(), id)
	httputil.WriteData(w, http.StatusOK, wishlistResponse(wl, ws.State()))
}
