package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mrops-br/inventory-api/internal/app/dto"
	"github.com/mrops-br/inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	now                   func() time.Time
	productCreatedCounter metric.Int64Counter
	productDeletedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productDeletedCounter, _ := meter.Int64Counter(
		"products.deleted.total",
		metric.WithDescription("Total number of products deleted"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		now:                   func() time.Time { return time.Now().UTC() },
		productCreatedCounter: productCreatedCounter,
		productDeletedCounter: productDeletedCounter,
		productOperations:     productOperations,
	}
}

// CreateProduct validates and stores a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.String("product.sku", req.SKU),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.String("sku", req.SKU),
	)

	if req.Price == nil {
		return nil, s.fail(ctx, span, "create", domain.ErrInvalidProductPrice)
	}
	if req.Quantity == nil {
		return nil, s.fail(ctx, span, "create", domain.ErrProductQuantityRequired)
	}

	// Create domain entity
	product, err := domain.NewProduct(req.Name, req.Description, *req.Price, *req.Quantity, req.Category, req.SKU, s.now())
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	// Fast path for a friendly error; the store's unique constraint is authoritative
	if err := s.ensureSKUAvailable(ctx, product.SKU); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	// Record metrics
	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	if err := domain.ValidateID(id); err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}

	s.record(ctx, "read", "success")

	s.logger.InfoContext(ctx, "Product retrieved successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves one page of products
func (s *ProductService) ListProducts(ctx context.Context, skip, limit int) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.Int("page.skip", skip),
		attribute.Int("page.limit", limit),
	)

	if err := domain.ValidatePage(skip, limit); err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	s.logger.InfoContext(ctx, "Listing products",
		slog.Int("skip", skip),
		slog.Int("limit", limit),
	)

	products, err := s.repo.FindAll(ctx, skip, limit)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}

// SearchProducts returns every product matching all supplied filters
func (s *ProductService) SearchProducts(ctx context.Context, req *dto.SearchProductsRequest) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.SearchProducts")
	defer span.End()

	filter := domain.ProductFilter{
		Query:    strings.TrimSpace(req.Query),
		Category: strings.TrimSpace(req.Category),
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		InStock:  req.InStock != nil && *req.InStock,
	}

	span.SetAttributes(
		attribute.String("search.query", filter.Query),
		attribute.String("search.category", filter.Category),
		attribute.Bool("search.in_stock", filter.InStock),
	)

	if err := filter.Validate(); err != nil {
		return nil, s.fail(ctx, span, "search", err)
	}

	s.logger.InfoContext(ctx, "Searching products",
		slog.String("query", filter.Query),
		slog.String("category", filter.Category),
		slog.Bool("in_stock", filter.InStock),
	)

	products, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, span, "search", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "search", "success")

	span.SetStatus(codes.Ok, "Products searched successfully")
	return dto.ToProductResponseList(products), nil
}

// UpdateProduct applies a patch. Every supplied field is validated before
// any of them is applied, so a rejected patch leaves the product unchanged.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	if err := domain.ValidateID(id); err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	patch, err := normalizePatch(req)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	if sku, ok := patch.SKU.Get(); ok && sku != product.SKU {
		if err := s.ensureSKUAvailable(ctx, sku); err != nil {
			return nil, s.fail(ctx, span, "update", err)
		}
	}

	applyPatch(product, patch)
	now := s.now()
	product.UpdatedAt = &now

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	s.record(ctx, "update", "success")

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// DeleteProduct removes a product and returns it as it was before deletion
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	if err := domain.ValidateID(id); err != nil {
		return nil, s.fail(ctx, span, "delete", err)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "delete", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, s.fail(ctx, span, "delete", err)
	}

	s.productDeletedCounter.Add(ctx, 1)
	s.record(ctx, "delete", "success")

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return dto.ToProductResponse(product), nil
}

func (s *ProductService) ensureSKUAvailable(ctx context.Context, sku string) error {
	_, err := s.repo.FindBySKU(ctx, sku)
	switch {
	case err == nil:
		return domain.ErrDuplicateSKU
	case errors.Is(err, domain.ErrProductNotFound):
		return nil
	default:
		return err
	}
}

// fail normalizes err to one of the domain error kinds, then records it on
// the span, the log and the operations counter.
func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	result := "failure"
	level := slog.LevelError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		result, level = "invalid", slog.LevelWarn
	case errors.Is(err, domain.ErrDuplicateSKU):
		result, level = "duplicate_sku", slog.LevelWarn
	case errors.Is(err, domain.ErrProductNotFound):
		result, level = "not_found", slog.LevelWarn
	case !errors.Is(err, domain.ErrStoreFailure):
		err = fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, result)
	s.logger.Log(ctx, level, "Product operation failed",
		slog.String("operation", operation),
		slog.String("result", result),
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, result)
	return err
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
