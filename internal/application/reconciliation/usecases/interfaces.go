package usecases

import (
	"context"

	"haneul/internal/domain/catalog"
)

// CatalogSource supplies the catalog types the classifier matches against.
// The cache-backed implementation falls through to the repository when the
// cache is cold or disabled.
type CatalogSource interface {
	GetTypes(ctx context.Context) ([]*catalog.Type, error)
}

// ItemInput is one classified line item submitted with a deduction.
type ItemInput struct {
	Label    string `json:"label" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Weight   int    `json:"weight" validate:"min=0"`
}
