package http

import (
	"github.com/shopspring/decimal"

	"github.com/utafrali/shopstate/internal/domain"
	apperrors "github.com/utafrali/shopstate/pkg/errors"
)

// ProductRequest is the JSON body for adding a product to a cart or wishlist.
type ProductRequest struct {
	ID        int64            `json:"id" validate:"gt=0"`
	Title     string           `json:"title" validate:"required,max=500"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	Thumbnail string           `json:"thumbnail" validate:"omitempty,url"`
}

func (req ProductRequest) product() (domain.Product, error) {
	if req.Price.IsNegative() {
		return domain.Product{}, apperrors.InvalidInput("price must not be negative")
	}
	return domain.Product{
		ID:        req.ID,
		Title:     req.Title,
		Price:     *req.Price,
		Thumbnail: req.Thumbnail,
	}, nil
}
