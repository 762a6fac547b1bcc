package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/shopstate/internal/catalog"
	"github.com/utafrali/shopstate/internal/store"
	"github.com/utafrali/shopstate/internal/viewsync"
	apperrors "github.com/utafrali/shopstate/pkg/errors"
	"github.com/utafrali/shopstate/pkg/httputil"
)

// Screen groups the state one UI screen owns. Any field may be nil when the
// screen does not show that collection.
type Screen struct {
	Cart     *store.CartStore
	Wishlist *store.WishlistStore
	Catalog  *catalog.Browser
}

// Handler exposes the per-screen stores to an external UI.
type Handler struct {
	screens    map[string]*Screen
	controller *viewsync.Controller
	logger     *slog.Logger
}

// NewHandler creates a handler over the given screens. Focus events are
// delivered through controller.
func NewHandler(screens map[string]*Screen, controller *viewsync.Controller, logger *slog.Logger) *Handler {
	return &Handler{
		screens:    screens,
		controller: controller,
		logger:     logger,
	}
}

type screenResponse struct {
	Name     string `json:"name"`
	Cart     bool   `json:"cart"`
	Wishlist bool   `json:"wishlist"`
	Catalog  bool   `json:"catalog"`
}

// ListScreens handles GET /api/v1/screens
func (h *Handler) ListScreens(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.screens))
	for name := range h.screens {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]screenResponse, 0, len(names))
	for _, name := range names {
		s := h.screens[name]
		out = append(out, screenResponse{
			Name:     name,
			Cart:     s.Cart != nil,
			Wishlist: s.Wishlist != nil,
			Catalog:  s.Catalog != nil,
		})
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// Focus handles POST /api/v1/screens/{screen}/focus
func (h *Handler) Focus(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "screen")
	if err := h.controller.FocusGained(r.Context(), name); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) screen(w http.ResponseWriter, r *http.Request) (*Screen, bool) {
	name := chi.URLParam(r, "screen")
	s, ok := h.screens[name]
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("screen", name), h.logger)
		return nil, false
	}
	return s, true
}

func (h *Handler) cartStore(w http.ResponseWriter, r *http.Request) (*store.CartStore, bool) {
	s, ok := h.screen(w, r)
	if !ok {
		return nil, false
	}
	if s.Cart == nil {
		httputil.WriteError(w, r, apperrors.NotFound("cart on screen", chi.URLParam(r, "screen")), h.logger)
		return nil, false
	}
	return s.Cart, true
}

func (h *Handler) wishlistStore(w http.ResponseWriter, r *http.Request) (*store.WishlistStore, bool) {
	s, ok := h.screen(w, r)
	if !ok {
		return nil, false
	}
	if s.Wishlist == nil {
		httputil.WriteError(w, r, apperrors.NotFound("wishlist on screen", chi.URLParam(r, "screen")), h.logger)
		return nil, false
	}
	return s.Wishlist, true
}

func (h *Handler) browser(w http.ResponseWriter, r *http.Request) (*catalog.Browser, bool) {
	s, ok := h.screen(w, r)
	if !ok {
		return nil, false
	}
	if s.Catalog == nil {
		httputil.WriteError(w, r, apperrors.NotFound("catalog on screen", chi.URLParam(r, "screen")), h.logger)
		return nil, false
	}
	return s.Catalog, true
}
