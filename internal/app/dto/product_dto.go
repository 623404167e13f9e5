package dto

import (
	"time"

	"github.com/mrops-br/inventory-api/internal/domain"
)

// CreateProductRequest represents the request to create a product.
// Price and Quantity are pointers so a missing value can be told apart from zero.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Category    string   `json:"category"`
	SKU         string   `json:"sku"`
}

// UpdateProductRequest is a patch: only supplied, non-null fields change.
type UpdateProductRequest struct {
	Name        domain.Optional[string]  `json:"name"`
	Description domain.Optional[string]  `json:"description"`
	Price       domain.Optional[float64] `json:"price"`
	Quantity    domain.Optional[int]     `json:"quantity"`
	Category    domain.Optional[string]  `json:"category"`
	SKU         domain.Optional[string]  `json:"sku"`
}

// SearchProductsRequest carries the optional search filters, combined with AND.
type SearchProductsRequest struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Category    string     `json:"category"`
	SKU         string     `json:"sku"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		SKU:         p.SKU,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
