package service

import (
	"strings"

	"github.com/mrops-br/inventory-api/internal/app/dto"
	"github.com/mrops-br/inventory-api/internal/domain"
)

// normalizePatch trims the supplied string fields and validates every
// supplied field. It returns a patch that can be applied without further checks.
func normalizePatch(req *dto.UpdateProductRequest) (dto.UpdateProductRequest, error) {
	patch := *req

	if v, ok := req.Name.Get(); ok {
		patch.Name = domain.Some(strings.TrimSpace(v))
		if err := domain.ValidateName(patch.Name.Value); err != nil {
			return patch, err
		}
	}
	if v, ok := req.Category.Get(); ok {
		patch.Category = domain.Some(strings.TrimSpace(v))
		if err := domain.ValidateCategory(patch.Category.Value); err != nil {
			return patch, err
		}
	}
	if v, ok := req.SKU.Get(); ok {
		patch.SKU = domain.Some(strings.TrimSpace(v))
		if err := domain.ValidateSKU(patch.SKU.Value); err != nil {
			return patch, err
		}
	}
	if v, ok := req.Description.Get(); ok {
		if err := domain.ValidateDescription(v); err != nil {
			return patch, err
		}
	}
	if v, ok := req.Price.Get(); ok {
		if err := domain.ValidatePrice(v); err != nil {
			return patch, err
		}
	}
	if v, ok := req.Quantity.Get(); ok {
		if err := domain.ValidateQuantity(v); err != nil {
			return patch, err
		}
	}

	return patch, nil
}

// applyPatch overwrites the fields the patch supplies.
func applyPatch(p *domain.Product, patch dto.UpdateProductRequest) {
	if v, ok := patch.Name.Get(); ok {
		p.Name = v
	}
	if v, ok := patch.Description.Get(); ok {
		p.Description = &v
	}
	if v, ok := patch.Price.Get(); ok {
		p.Price = v
	}
	if v, ok := patch.Quantity.Get(); ok {
		p.Quantity = v
	}
	if v, ok := patch.Category.Get(); ok {
		p.Category = v
	}
	if v, ok := patch.SKU.Get(); ok {
		p.SKU = v
	}
}
