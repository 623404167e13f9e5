package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStoreFailure    = errors.New("store failure")
)

// ProductFilter narrows a search. Zero values and nil pointers impose no
// restriction; Query and Category are expected to be trimmed already.
type ProductFilter struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
}

// ProductRepository defines the contract for product storage.
//
// Implementations enforce SKU uniqueness themselves and report a violation
// as ErrDuplicateSKU, report a missing id as ErrProductNotFound and wrap any
// other fault with ErrStoreFailure. Results are ordered by ascending ID.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, offset, limit int) ([]*Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
}
