package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mrops-br/inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// SKU uniqueness is checked and written under the same lock, so concurrent
// writers cannot both claim a SKU.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	skus     map[string]int64
	nextID   int64
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		skus:     make(map[string]int64),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new product and assigns its ID
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.sku", product.SKU),
		attribute.String("product.name", product.Name),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.skus[product.SKU]; taken {
		span.RecordError(domain.ErrDuplicateSKU)
		span.SetStatus(codes.Error, "Duplicate SKU")
		return domain.ErrDuplicateSKU
	}

	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = product.Clone()
	r.skus[product.SKU] = product.ID

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", product.ID),
		slog.String("product_sku", product.SKU),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.Int64("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.Int64("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product found")
	return product.Clone(), nil
}

// FindBySKU retrieves a product by its exact SKU
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindBySKU")
	defer span.End()

	span.SetAttributes(attribute.String("product.sku", sku))

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.skus[sku]
	if !exists {
		span.SetStatus(codes.Ok, "No product with SKU")
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return r.products[id].Clone(), nil
}

// FindAll retrieves one page of products ordered by ID
func (r *ProductRepository) FindAll(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int("page.offset", offset),
		attribute.Int("page.limit", limit),
	)

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted(func(*domain.Product) bool { return true })

	products := make([]*domain.Product, 0)
	if offset < len(all) {
		end := len(all)
		if limit >= 0 && offset+limit < end {
			end = offset + limit
		}
		products = append(products, all[offset:end]...)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.InfoContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Search retrieves every product matching the filter
func (r *ProductRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Search")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := r.sorted(filter.Matches)

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products searched in repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products searched successfully")
	return products, nil
}

// Update replaces the stored product with the same ID
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.sku", product.SKU),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.products[product.ID]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}

	if owner, taken := r.skus[product.SKU]; taken && owner != product.ID {
		span.RecordError(domain.ErrDuplicateSKU)
		span.SetStatus(codes.Error, "Duplicate SKU")
		return domain.ErrDuplicateSKU
	}

	delete(r.skus, current.SKU)
	r.skus[product.SKU] = product.ID
	r.products[product.ID] = product.Clone()

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

// Delete removes the product with the given ID
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}

	delete(r.skus, product.SKU)
	delete(r.products, id)

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// sorted returns clones of the matching products by ascending ID.
// The caller must hold the read lock.
func (r *ProductRepository) sorted(keep func(*domain.Product) bool) []*domain.Product {
	products := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if keep(product) {
			products = append(products, product.Clone())
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}
