package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mrops-br/inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// productRecord is the products table row. The unique index on sku is the
// source of truth for SKU uniqueness.
type productRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Name        string     `gorm:"size:255;not null;index"`
	Description *string    `gorm:"size:1000"`
	Price       float64    `gorm:"not null;check:chk_products_price_positive,price > 0"`
	Quantity    int        `gorm:"not null;check:chk_products_quantity_non_negative,quantity >= 0"`
	Category    string     `gorm:"size:100;not null;index"`
	SKU         string     `gorm:"column:sku;size:50;not null;uniqueIndex:idx_products_sku"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

func (productRecord) TableName() string {
	return "products"
}

func toRecord(p *domain.Product) *productRecord {
	return &productRecord{
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

func (r *productRecord) toDomain() *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    r.Category,
		SKU:         r.SKU,
		CreatedAt:   r.CreatedAt.UTC(),
	}
	if r.UpdatedAt != nil {
		u := r.UpdatedAt.UTC()
		p.UpdatedAt = &u
	}
	return p
}

func toDomainList(records []productRecord) []*domain.Product {
	products := make([]*domain.Product, len(records))
	for i := range records {
		products[i] = records[i].toDomain()
	}
	return products
}

// ProductRepository is a GORM implementation of domain.ProductRepository
type ProductRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository creates a new SQL product repository
func NewProductRepository(db *gorm.DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		tracer: tracer,
		logger: logger,
	}
}

// Create inserts a new product and assigns its ID
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.sku", product.SKU),
		attribute.String("product.name", product.Name),
	)

	rec := toRecord(product)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return r.fail(ctx, span, "create", err)
	}
	product.ID = rec.ID

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

	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, r.fail(ctx, span, "find by id", err)
	}

	span.SetStatus(codes.Ok, "Product found")
	return rec.toDomain(), nil
}

// FindBySKU retrieves a product by its exact SKU
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindBySKU")
	defer span.End()

	span.SetAttributes(attribute.String("product.sku", sku))

	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "sku = ?", sku).Error; err != nil {
		return nil, r.fail(ctx, span, "find by sku", err)
	}

	span.SetStatus(codes.Ok, "Product found")
	return rec.toDomain(), nil
}

// FindAll retrieves one page of products ordered by ID
func (r *ProductRepository) FindAll(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int("page.offset", offset),
		attribute.Int("page.limit", limit),
	)

	var records []productRecord
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, r.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(records)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return toDomainList(records), nil
}

// Search retrieves every product matching the filter
func (r *ProductRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Search")
	defer span.End()

	stmt := r.db.WithContext(ctx).Model(&productRecord{})

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		stmt = stmt.Where(
			`(LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE LOWER(?) ESCAPE '\' OR LOWER(sku) LIKE LOWER(?) ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		stmt = stmt.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		stmt = stmt.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock {
		stmt = stmt.Where("quantity > ?", 0)
	}

	var records []productRecord
	if err := stmt.Order("id ASC").Find(&records).Error; err != nil {
		return nil, r.fail(ctx, span, "search", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(records)))
	span.SetStatus(codes.Ok, "Products searched successfully")
	return toDomainList(records), nil
}

// Update writes every mutable column of the product in one transaction
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.sku", product.SKU),
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&productRecord{}).
			Where("id = ?", product.ID).
			Updates(map[string]any{
				"name":        product.Name,
				"description": product.Description,
				"price":       product.Price,
				"quantity":    product.Quantity,
				"category":    product.Category,
				"sku":         product.SKU,
				"updated_at":  product.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return r.fail(ctx, span, "update", err)
	}

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

	res := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if res.Error != nil {
		return r.fail(ctx, span, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.fail(ctx, span, "delete", domain.ErrProductNotFound)
	}

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// fail maps a driver error to a domain error and records it on the span.
func (r *ProductRepository) fail(ctx context.Context, span trace.Span, op string, err error) error {
	var mapped error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, domain.ErrProductNotFound):
		mapped = domain.ErrProductNotFound
	case isDuplicateKeyErr(err):
		mapped = domain.ErrDuplicateSKU
	default:
		mapped = fmt.Errorf("%w: %s: %v", domain.ErrStoreFailure, op, err)
		r.logger.ErrorContext(ctx, "Product store operation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}

	span.RecordError(mapped)
	span.SetStatus(codes.Error, mapped.Error())
	return mapped
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
