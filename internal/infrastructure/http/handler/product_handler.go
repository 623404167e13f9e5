package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/inventory-api/internal/app/dto"
	"github.com/mrops-br/inventory-api/internal/app/service"
	"github.com/mrops-br/inventory-api/internal/domain"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/response"
)

const maxBodyBytes = 1 << 20

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the product endpoints on r
func (h *ProductHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateProduct)
	r.Get("/", h.ListProducts)
	r.Get("/search", h.SearchProducts)
	r.Get("/{id}", h.GetProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

// CreateProduct handles POST /products/
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products/?skip=&limit=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, err := intParam(q.Get("skip"), "skip", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := intParam(q.Get("limit"), "limit", domain.DefaultListLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, err := h.service.ListProducts(r.Context(), skip, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// SearchProducts handles GET /products/search
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.SearchProductsRequest{
		Query:    q.Get("query"),
		Category: q.Get("category"),
	}

	var err error
	if req.MinPrice, err = floatParam(q.Get("min_price"), "min_price"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.MaxPrice, err = floatParam(q.Get("max_price"), "max_price"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if raw := q.Get("in_stock"); raw != "" {
		inStock, perr := strconv.ParseBool(raw)
		if perr != nil {
			h.writeError(w, r, fmt.Errorf("%w: in_stock must be a boolean", domain.ErrInvalidArgument))
			return
		}
		req.InStock = &inStock
	}

	products, err := h.service.SearchProducts(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

// writeError maps err to a status. Internal failures are logged with an
// incident ID and never echoed to the caller.
func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := response.StatusFor(err)
	if status != http.StatusInternalServerError {
		response.Error(w, status, err)
		return
	}

	incidentID := response.InternalError(w)
	h.logger.ErrorContext(r.Context(), "Request failed",
		slog.String("incident_id", incidentID),
		slog.String("error", err.Error()),
	)
}

func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: product ID must be an integer", domain.ErrInvalidArgument)
	}
	return id, nil
}

func intParam(raw, name string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, name)
	}
	return v, nil
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidArgument, name)
	}
	return &v, nil
}
