package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

var (
	ErrInvalidSkip       = fmt.Errorf("%w: skip must be non-negative", ErrInvalidArgument)
	ErrInvalidLimit      = fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, MaxListLimit)
	ErrInvalidMinPrice   = fmt.Errorf("%w: minimum price must be non-negative", ErrInvalidArgument)
	ErrInvalidMaxPrice   = fmt.Errorf("%w: maximum price must be positive", ErrInvalidArgument)
	ErrInvalidPriceRange = fmt.Errorf("%w: maximum price cannot be less than minimum price", ErrInvalidArgument)
)

// ValidatePage checks offset/limit pagination bounds.
func ValidatePage(skip, limit int) error {
	if skip < 0 {
		return ErrInvalidSkip
	}
	if limit < 1 || limit > MaxListLimit {
		return ErrInvalidLimit
	}
	return nil
}

// Validate checks the price bounds of the filter.
func (f ProductFilter) Validate() error {
	if f.MinPrice != nil && (math.IsNaN(*f.MinPrice) || *f.MinPrice < 0) {
		return ErrInvalidMinPrice
	}
	if f.MaxPrice != nil && (math.IsNaN(*f.MaxPrice) || *f.MaxPrice <= 0) {
		return ErrInvalidMaxPrice
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MaxPrice < *f.MinPrice {
		return ErrInvalidPriceRange
	}
	return nil
}

// Matches reports whether p satisfies every restriction of the filter.
// Stores that cannot push the filter down to a query engine use it directly.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Query != "" && !matchesQuery(p, f.Query) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock && p.Quantity <= 0 {
		return false
	}
	return true
}

func matchesQuery(p *Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q)
}
