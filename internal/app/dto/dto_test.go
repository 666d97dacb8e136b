package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
)

func TestLooseInt(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{raw: `12`, want: 12, wantOK: true},
		{raw: `3.9`, want: 3, wantOK: true},
		{raw: `"7"`, want: 7, wantOK: true},
		{raw: `" 5 cups"`, want: 5, wantOK: true},
		{raw: `-4`, want: -4, wantOK: true},
		{raw: `"abc"`, wantOK: false},
		{raw: `null`, wantOK: false},
		{raw: `true`, wantOK: false},
		{raw: `[1]`, wantOK: false},
		{raw: ``, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := looseInt(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCreateProductRequest_ToDraft(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		wantQty int
	}{
		{name: "valid", body: `{"name":"Mocha","price":4.5,"quantity":12}`, wantQty: 12},
		{name: "quantity_as_string", body: `{"name":"Mocha","price":4.5,"quantity":"8"}`, wantQty: 8},
		{name: "quantity_missing", body: `{"name":"Mocha","price":4.5}`, wantQty: 0},
		{name: "missing_name", body: `{"price":4.5}`, wantErr: true},
		{name: "missing_price", body: `{"name":"Mocha"}`, wantErr: true},
		{name: "negative_price", body: `{"name":"Mocha","price":-1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateProductRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			draft, err := req.ToDraft()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, draft.Quantity)
			assert.True(t, draft.Price.Equal(decimal.NewFromFloat(4.5)))
		})
	}

	t.Run("string_price_fails_decoding", func(t *testing.T) {
		var req CreateProductRequest
		assert.Error(t, json.Unmarshal([]byte(`{"name":"Mocha","price":"4.5"}`), &req))
	})
}

func TestUpdateProductRequest_ToPatch(t *testing.T) {
	var req UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price":2,"category":"pastry","name":null}`), &req))

	patch := req.ToPatch()

	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Quantity)
	require.NotNil(t, patch.Price)
	assert.True(t, patch.Price.Equal(decimal.NewFromInt(2)))
	require.NotNil(t, patch.Category)
	assert.Equal(t, "pastry", *patch.Category)

	var bad UpdateProductRequest
	assert.Error(t, json.Unmarshal([]byte(`{"quantity":"lots"}`), &bad))
}

func TestAddStockRequest_ToReceipt(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    StockReceipt
		wantErr bool
	}{
		{name: "numbers", body: `{"productId":17,"quantity":5}`, want: StockReceipt{ProductID: 17, Quantity: 5}},
		{name: "strings", body: `{"productId":"17","quantity":"5"}`, want: StockReceipt{ProductID: 17, Quantity: 5}},
		{name: "zero_quantity", body: `{"productId":17,"quantity":0}`, wantErr: true},
		{name: "negative_quantity", body: `{"productId":17,"quantity":-2}`, wantErr: true},
		{name: "missing_product", body: `{"quantity":3}`, wantErr: true},
		{name: "garbage_quantity", body: `{"productId":17,"quantity":"many"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req AddStockRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			receipt, err := req.ToReceipt()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, receipt)
		})
	}
}

func TestParseSaleRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []domain.LineRequest
		wantErr bool
	}{
		{
			name: "single_object",
			body: `{"productId":1,"quantity":2}`,
			want: []domain.LineRequest{{ProductID: 1, Quantity: 2}},
		},
		{
			name: "array",
			body: ` [{"productId":"1","quantity":"2"},{"productId":2}]`,
			want: []domain.LineRequest{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		},
		{
			name: "invalid_quantity_defaults_to_one",
			body: `[{"productId":3,"quantity":"lots"},{"productId":4,"quantity":0},{"productId":5,"quantity":-3}]`,
			want: []domain.LineRequest{{ProductID: 3, Quantity: 1}, {ProductID: 4, Quantity: 1}, {ProductID: 5, Quantity: 1}},
		},
		{name: "empty_array", body: `[]`, wantErr: true},
		{name: "empty_body", body: ``, wantErr: true},
		{name: "missing_product_id", body: `{"quantity":1}`, wantErr: true},
		{name: "malformed", body: `{"productId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ParseSaleRequest([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestParseThreshold(t *testing.T) {
	assert.Equal(t, 10, ParseThreshold(""))
	assert.Equal(t, 10, ParseThreshold("abc"))
	assert.Equal(t, 10, ParseThreshold("0"))
	assert.Equal(t, 5, ParseThreshold("5"))
}
