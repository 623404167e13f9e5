package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxCategoryLength    = 100
	MaxSKULength         = 50
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateSKU    = errors.New("product with this SKU already exists")

	ErrInvalidProductID          = fmt.Errorf("%w: product ID must be positive", ErrInvalidArgument)
	ErrInvalidProductName        = fmt.Errorf("%w: product name is required", ErrInvalidArgument)
	ErrProductNameTooLong        = fmt.Errorf("%w: product name must be at most %d characters", ErrInvalidArgument, MaxNameLength)
	ErrProductDescriptionTooLong = fmt.Errorf("%w: product description must be at most %d characters", ErrInvalidArgument, MaxDescriptionLength)
	ErrInvalidProductPrice       = fmt.Errorf("%w: product price must be positive", ErrInvalidArgument)
	ErrInvalidProductQuantity    = fmt.Errorf("%w: product quantity must be non-negative", ErrInvalidArgument)
	ErrProductQuantityRequired   = fmt.Errorf("%w: product quantity is required", ErrInvalidArgument)
	ErrInvalidProductCategory    = fmt.Errorf("%w: product category is required", ErrInvalidArgument)
	ErrProductCategoryTooLong    = fmt.Errorf("%w: product category must be at most %d characters", ErrInvalidArgument, MaxCategoryLength)
	ErrInvalidProductSKU         = fmt.Errorf("%w: product SKU is required", ErrInvalidArgument)
	ErrProductSKUTooLong         = fmt.Errorf("%w: product SKU must be at most %d characters", ErrInvalidArgument, MaxSKULength)
)

// Product represents the product entity
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       float64
	Quantity    int
	Category    string
	SKU         string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// NewProduct creates a new product with validation. String fields are
// trimmed before they are checked; the ID is left for the store to assign.
func NewProduct(name string, description *string, price float64, quantity int, category, sku string, now time.Time) (*Product, error) {
	product := &Product{
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Quantity:    quantity,
		Category:    strings.TrimSpace(category),
		SKU:         strings.TrimSpace(sku),
		CreatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if p.Description != nil {
		if err := ValidateDescription(*p.Description); err != nil {
			return err
		}
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if err := ValidateQuantity(p.Quantity); err != nil {
		return err
	}
	if err := ValidateCategory(p.Category); err != nil {
		return err
	}
	return ValidateSKU(p.SKU)
}

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (p *Product) Clone() *Product {
	c := *p
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	if p.UpdatedAt != nil {
		u := *p.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}

func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidProductID
	}
	return nil
}

func ValidateName(name string) error {
	return validateText(name, MaxNameLength, ErrInvalidProductName, ErrProductNameTooLong)
}

func ValidateCategory(category string) error {
	return validateText(category, MaxCategoryLength, ErrInvalidProductCategory, ErrProductCategoryTooLong)
}

func ValidateSKU(sku string) error {
	return validateText(sku, MaxSKULength, ErrInvalidProductSKU, ErrProductSKUTooLong)
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrProductDescriptionTooLong
	}
	return nil
}

func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return ErrInvalidProductPrice
	}
	return nil
}

func ValidateQuantity(quantity int) error {
	if quantity < 0 {
		return ErrInvalidProductQuantity
	}
	return nil
}

// validateText expects an already trimmed value.
func validateText(v string, maxLen int, errEmpty, errTooLong error) error {
	if v == "" {
		return errEmpty
	}
	if utf8.RuneCountInString(v) > maxLen {
		return errTooLong
	}
	return nil
}
