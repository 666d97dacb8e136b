package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name      string
		draft     domain.ProductDraft
		wantError bool
		errorMsg  string
	}{
		{
			name:  "valid_product",
			draft: domain.ProductDraft{Name: "Espresso", Price: decimal.NewFromFloat(2.5), Quantity: 20},
		},
		{
			name:  "zero_price_is_allowed",
			draft: domain.ProductDraft{Name: "Tap water", Price: decimal.Zero},
		},
		{
			name:      "missing_name",
			draft:     domain.ProductDraft{Name: "   ", Price: decimal.NewFromInt(1)},
			wantError: true,
			errorMsg:  "product name is required",
		},
		{
			name:      "negative_price",
			draft:     domain.ProductDraft{Name: "Latte", Price: decimal.NewFromInt(-1)},
			wantError: true,
			errorMsg:  "product price must be a non-negative number",
		},
		{
			name:      "negative_quantity",
			draft:     domain.ProductDraft{Name: "Latte", Price: decimal.NewFromInt(3), Quantity: -2},
			wantError: true,
			errorMsg:  "product quantity cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := domain.NewProduct(42, tt.draft, testNow)
			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), product.ID)
			assert.Equal(t, testNow, product.CreatedAt)
			assert.True(t, product.UpdatedAt.IsZero())
		})
	}
}

func TestProductPatch_Apply(t *testing.T) {
	base := func() *domain.Product {
		return &domain.Product{
			ID:       1,
			Name:     "Cappuccino",
			Price:    domain.NewMoney(decimal.NewFromInt(3)),
			Quantity: 5,
			Category: "coffee",
		}
	}

	t.Run("merges_only_present_fields", func(t *testing.T) {
		p := base()
		patch := domain.ProductPatch{Price: ptr(decimal.NewFromFloat(3.5)), Description: ptr("double shot")}

		require.NoError(t, patch.Apply(p, testNow))

		assert.Equal(t, "Cappuccino", p.Name)
		assert.True(t, p.Price.Equal(decimal.NewFromFloat(3.5)))
		assert.Equal(t, 5, p.Quantity)
		assert.Equal(t, "double shot", p.Description)
		assert.Equal(t, "coffee", p.Category)
		assert.Equal(t, testNow, p.UpdatedAt)
	})

	t.Run("invalid_field_changes_nothing", func(t *testing.T) {
		p := base()
		patch := domain.ProductPatch{Name: ptr("Flat white"), Quantity: ptr(-1)}

		err := patch.Apply(p, testNow)

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, *base(), *p)
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		p := base()
		err := domain.ProductPatch{Name: ptr("")}.Apply(p, testNow)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("empty_patch", func(t *testing.T) {
		assert.True(t, domain.ProductPatch{}.Empty())
		assert.False(t, domain.ProductPatch{Image: ptr("")}.Empty())
	})
}

func TestProduct_JSON(t *testing.T) {
	p := domain.Product{
		ID:        7,
		Name:      "Muffin",
		Price:     domain.NewMoney(decimal.NewFromFloat(1.75)),
		Quantity:  3,
		CreatedAt: testNow,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 1.75, raw["price"])
	assert.NotContains(t, raw, "image")
	assert.NotContains(t, raw, "updatedAt")
}

func TestMoney_JSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  decimal.Decimal
	}{
		{name: "number", input: `{"price":2.5}`, want: decimal.NewFromFloat(2.5)},
		{name: "quoted_string", input: `{"price":"2.5"}`, want: decimal.NewFromFloat(2.5)},
		{name: "integer", input: `{"price":4}`, want: decimal.NewFromInt(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p domain.Product
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.True(t, p.Price.Equal(tt.want), "price was %s", p.Price)

			data, err := json.Marshal(p.Price)
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), string(data))
		})
	}
}
