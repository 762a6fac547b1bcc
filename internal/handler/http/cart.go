package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/internal/store"
	"github.com/utafrali/shopstate/pkg/httputil"
	"github.com/utafrali/shopstate/pkg/validator"
)

// CartResponse is the JSON view of a cart snapshot.
type CartResponse struct {
	Entries   []domain.CartEntry `json:"entries"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
	State     string             `json:"state"`
}

func cartResponse(cart domain.Cart, state store.State) CartResponse {
	entries := cart.Entries
	if entries == nil {
		entries = []domain.CartEntry{}
	}
	return CartResponse{
		Entries:   entries,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
		State:     state.String(),
	}
}

// GetCart handles GET /api/v1/screens/{screen}/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cs, ok := h.cartStore(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cs.Snapshot(), cs.State()))
}

// GetCartTotal handles GET /api/v1/screens/{screen}/cart/total
func (h *Handler) GetCartTotal(w http.ResponseWriter, r *http.Request) {
	cs, ok := h.cartStore(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]decimal.Decimal{"total": cs.Total()})
}

// AddCartItem handles POST /api/v1/screens/{screen}/cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	cs, ok := h.cartStore(w, r)
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

	cart := cs.Add(r.Context(), product)
	httputil.WriteData(w, http.StatusOK, cartResponse(cart, cs.State()))
}

// RemoveCartItem handles DELETE /api/v1/screens/{screen}/cart/items/{productId}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, (*store.CartStore).Remove)
}

// IncrementCartItem handles POST /api/v1/screens/{screen}/cart/items/{productId}/increment
func (h *Handler) IncrementCartItem(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, (*store.CartStore).IncrementQuantity)
}

// DecrementCartItem handles POST /api/v1/screens/{screen}/cart/items/{productId}/decrement
func (h *Handler) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, (*store.CartStore).DecrementQuantity)
}

type cartMutation func(*store.CartStore, context.Context, int64) domain.Cart

func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, op cartMutation) {
	cs, ok := h.cartStore(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	cart := op(cs, r.Context(), id)
	httputil.WriteData(w, http.StatusOK, cartResponse(cart, cs.State()))
}
