package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/inventory-api/internal/app/dto"
	"github.com/mrops-br/inventory-api/internal/app/service"
	"github.com/mrops-br/inventory-api/internal/domain"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/response"
	"github.com/mrops-br/inventory-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newRouter(repo domain.ProductRepository) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	svc := service.NewProductService(
		repo,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		logger,
	)
	h := NewProductHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/products", h.Routes)
	return r
}

func newMemoryRouter() http.Handler {
	return newRouter(memory.NewProductRepository(tracenoop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler)))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProduct(t *testing.T, rec *httptest.ResponseRecorder) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []dto.ProductResponse {
	t.Helper()
	var ps []dto.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ps))
	return ps
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var e response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

const widget = `{"name":"Widget","price":9.99,"quantity":5,"category":"Tools","sku":"W-001"}`

func TestProductLifecycle(t *testing.T) {
	h := newMemoryRouter()

	rec := do(t, h, http.MethodPost, "/products/", widget)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, field := range []string{"id", "name", "description", "price", "quantity", "category", "sku", "created_at", "updated_at"} {
		assert.Contains(t, raw, field)
	}
	assert.Nil(t, raw["updated_at"])
	assert.Nil(t, raw["description"])

	created := decodeProduct(t, rec)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	rec = do(t, h, http.MethodGet, "/products/search?query=widget", "")
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeList(t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	rec = do(t, h, http.MethodPut, "/products/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeProduct(t, rec)
	assert.Equal(t, 0, updated.Quantity)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Price, updated.Price)
	assert.Equal(t, created.SKU, updated.SKU)

	rec = do(t, h, http.MethodGet, "/products/search?in_stock=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))

	rec = do(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeProduct(t, rec).Quantity)

	rec = do(t, h, http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeProduct(t, rec).ID)

	rec = do(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)
}

func TestCreateProduct_Errors(t *testing.T) {
	h := newMemoryRouter()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/products/", widget).Code)

	tests := []struct {
		name string
		body string
	}{
		{"duplicate sku", widget},
		{"duplicate sku after trim", `{"name":"Other","price":1,"quantity":1,"category":"Tools","sku":"  W-001 "}`},
		{"malformed json", `{"name":`},
		{"wrong type", `{"name":"X","price":"cheap","quantity":1,"category":"c","sku":"s"}`},
		{"blank name", `{"name":"  ","price":1,"quantity":1,"category":"c","sku":"s"}`},
		{"zero price", `{"name":"X","price":0,"quantity":1,"category":"c","sku":"s"}`},
		{"negative quantity", `{"name":"X","price":1,"quantity":-1,"category":"c","sku":"s"}`},
		{"missing quantity", `{"name":"X","price":1,"category":"c","sku":"s"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/products/", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "bad_request", decodeError(t, rec).Error)
		})
	}

	rec := do(t, h, http.MethodGet, "/products/", "")
	assert.Len(t, decodeList(t, rec), 1)
}

func TestListProducts_Params(t *testing.T) {
	h := newMemoryRouter()

	rec := do(t, h, http.MethodGet, "/products/?skip=0&limit=1000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	for _, sku := range []string{"A", "B", "C"} {
		body := strings.Replace(widget, "W-001", sku, 1)
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/products/", body).Code)
	}

	rec = do(t, h, http.MethodGet, "/products/", "")
	assert.Len(t, decodeList(t, rec), 3)

	rec = do(t, h, http.MethodGet, "/products/?skip=2", "")
	page := decodeList(t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "C", page[0].SKU)

	for _, q := range []string{"skip=-1", "limit=0", "limit=1001", "skip=abc"} {
		rec := do(t, h, http.MethodGet, "/products/?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestSearchProducts_Params(t *testing.T) {
	h := newMemoryRouter()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/products/", widget).Code)

	rec := do(t, h, http.MethodGet, "/products/search?min_price=10&max_price=5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "maximum price cannot be less than minimum price")

	for _, q := range []string{"min_price=-1", "max_price=0", "min_price=ten", "in_stock=sometimes"} {
		rec := do(t, h, http.MethodGet, "/products/search?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec = do(t, h, http.MethodGet, "/products/search?category=Tools&min_price=9.99&max_price=9.99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = do(t, h, http.MethodGet, "/products/search?category=tools", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))
}

func TestProductByID_Errors(t *testing.T) {
	h := newMemoryRouter()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		body := ""
		if method == http.MethodPut {
			body = `{"quantity":1}`
		}

		rec := do(t, h, method, "/products/0", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)

		rec = do(t, h, method, "/products/abc", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)

		rec = do(t, h, method, "/products/99999", body)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestUpdateProduct_Patch(t *testing.T) {
	h := newMemoryRouter()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/products/", widget).Code)
	other := strings.Replace(widget, "W-001", "W-002", 1)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/products/", other).Code)

	rec := do(t, h, http.MethodPut, "/products/1", `{"name":null,"description":"now described","price":12.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decodeProduct(t, rec)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 12.5, p.Price)
	require.NotNil(t, p.Description)
	assert.Equal(t, "now described", *p.Description)

	rec = do(t, h, http.MethodPut, "/products/1", `{"sku":"W-002"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/products/1", `{"quantity":3,"sku":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/products/1", "")
	p = decodeProduct(t, rec)
	assert.Equal(t, "W-001", p.SKU)
	assert.Equal(t, 5, p.Quantity)
}

type failingRepository struct {
	domain.ProductRepository
}

func (failingRepository) FindAll(context.Context, int, int) ([]*domain.Product, error) {
	return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestInternalErrorsHideDetail(t *testing.T) {
	h := newRouter(failingRepository{})

	rec := do(t, h, http.MethodGet, "/products/", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	e := decodeError(t, rec)
	assert.Equal(t, "internal_server_error", e.Error)
	assert.Equal(t, "internal server error", e.Message)
	assert.NotEmpty(t, e.IncidentID)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
