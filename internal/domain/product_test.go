package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("trims string fields", func(t *testing.T) {
		p, err := NewProduct("  Widget ", nil, 9.99, 5, " Tools ", " W-001 ", now)
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, "Tools", p.Category)
		assert.Equal(t, "W-001", p.SKU)
		assert.Equal(t, now, p.CreatedAt)
		assert.Nil(t, p.UpdatedAt)
		assert.Zero(t, p.ID)
	})

	tests := []struct {
		name     string
		pName    string
		desc     *string
		price    float64
		quantity int
		category string
		sku      string
		want     error
	}{
		{"blank name", "   ", nil, 1, 0, "c", "s", ErrInvalidProductName},
		{"long name", strings.Repeat("n", MaxNameLength+1), nil, 1, 0, "c", "s", ErrProductNameTooLong},
		{"long description", "n", ptr(strings.Repeat("d", MaxDescriptionLength+1)), 1, 0, "c", "s", ErrProductDescriptionTooLong},
		{"zero price", "n", nil, 0, 0, "c", "s", ErrInvalidProductPrice},
		{"negative price", "n", nil, -1, 0, "c", "s", ErrInvalidProductPrice},
		{"NaN price", "n", nil, math.NaN(), 0, "c", "s", ErrInvalidProductPrice},
		{"negative quantity", "n", nil, 1, -1, "c", "s", ErrInvalidProductQuantity},
		{"blank category", "n", nil, 1, 0, "\t", "s", ErrInvalidProductCategory},
		{"long category", "n", nil, 1, 0, strings.Repeat("c", MaxCategoryLength+1), "s", ErrProductCategoryTooLong},
		{"blank sku", "n", nil, 1, 0, "c", " ", ErrInvalidProductSKU},
		{"long sku", "n", nil, 1, 0, "c", strings.Repeat("s", MaxSKULength+1), ErrProductSKUTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.pName, tt.desc, tt.price, tt.quantity, tt.category, tt.sku, now)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}

	t.Run("limits count characters not bytes", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("é", MaxNameLength), nil, 1, 0, "c", "s", now)
		require.NoError(t, err)
	})

	t.Run("empty description is allowed", func(t *testing.T) {
		p, err := NewProduct("n", ptr(""), 1, 0, "c", "s", now)
		require.NoError(t, err)
		require.NotNil(t, p.Description)
		assert.Equal(t, "", *p.Description)
	})
}

func TestValidateID(t *testing.T) {
	assert.ErrorIs(t, ValidateID(0), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateID(-3), ErrInvalidProductID)
	assert.NoError(t, ValidateID(1))
}

func TestProductClone(t *testing.T) {
	updated := time.Now()
	p := &Product{ID: 1, Name: "a", Description: ptr("d"), UpdatedAt: &updated}

	c := p.Clone()
	*c.Description = "changed"
	c.Name = "b"

	assert.Equal(t, "d", *p.Description)
	assert.Equal(t, "a", p.Name)
	assert.NotSame(t, p.UpdatedAt, c.UpdatedAt)
}

func TestOptionalUnmarshal(t *testing.T) {
	var patch struct {
		Name     Optional[string]  `json:"name"`
		Quantity Optional[int]     `json:"quantity"`
		Price    Optional[float64] `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"name": null, "quantity": 0}`), &patch))

	_, ok := patch.Name.Get()
	assert.False(t, ok, "null must be treated as not supplied")

	q, ok := patch.Quantity.Get()
	assert.True(t, ok, "explicit zero must be treated as supplied")
	assert.Equal(t, 0, q)

	assert.False(t, patch.Price.Set)

	err := json.Unmarshal([]byte(`{"quantity": "many"}`), &patch)
	require.Error(t, err)
}

func TestOptionalMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 3, "b": null}`, string(b))
}

func ptr[T any](v T) *T {
	return &v
}
