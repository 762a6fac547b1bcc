package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/shopstate/internal/domain"
	apperrors "github.com/utafrali/shopstate/pkg/errors"
	"github.com/utafrali/shopstate/pkg/httputil"
	"github.com/utafrali/shopstate/pkg/pagination"
)

// ProductsResponse is the JSON view of one page of a screen's product list.
type ProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Loading    bool             `json:"loading"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
	HasNext    bool             `json:"has_next"`
}

func productsResponse(r *http.Request, products []domain.Product, loading bool) ProductsResponse {
	page := pagination.Slice(products, pagination.FromQuery(r.URL.Query()))
	return ProductsResponse{
		Products:   page.Items,
		Loading:    loading,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
	}
}

// ListProducts handles GET /api/v1/screens/{screen}/products?page=&per_page=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	b, ok := h.browser(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, productsResponse(r, b.Products(), b.Loading()))
}

// RefreshProducts handles POST /api/v1/screens/{screen}/products/refresh
func (h *Handler) RefreshProducts(w http.ResponseWriter, r *http.Request) {
	b, ok := h.browser(w, r)
	if !ok {
		return
	}
	products := b.Refresh(r.Context())
	httputil.WriteData(w, http.StatusOK, productsResponse(r, products, b.Loading()))
}

// SearchProducts handles GET /api/v1/screens/{screen}/products/search?q=
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	b, ok := h.browser(w, r)
	if !ok {
		return
	}
	results := b.Search(r.URL.Query().Get("q"))
	httputil.WriteData(w, http.StatusOK, productsResponse(r, results, b.Loading()))
}

// GetProduct handles GET /api/v1/screens/{screen}/products/{productId}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	b, ok := h.browser(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	p, found := b.Product(id)
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.FormatInt(id, 10)), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}
