package services

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{"plain string", "12.50", "12.5", false},
		{"currency prefix", "R1,299.50", "1299.5", false},
		{"thousands space", "1 299", "1299", false},
		{"negative", "-3.20", "-3.2", false},
		{"float", float64(7.25), "7.25", false},
		{"int", 42, "42", false},
		{"empty", "", "", true},
		{"letters only", "n/a", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestConvertRowHeaderSynonyms(t *testing.T) {
	raw := RawRow{
		"Product Name":  "Basmati Rice 5kg",
		"CATEGORY_NAME": "Grains",
		"Vendor":        "Gupta Wholesale",
		"Qty":           "24",
		"Unit-Cost":     "410",
		"Retail Price":  "475.99",
		"Best Before":   "31/12/2026",
	}

	row := ConvertRow(raw, 2)

	assert.Equal(t, "Basmati Rice 5kg", row.Name)
	assert.Equal(t, "Grains", row.CategoryName)
	assert.Equal(t, "Gupta Wholesale", row.SupplierName)
	assert.Equal(t, "24", row.Quantity.String())
	assert.Equal(t, "410", row.CostPrice.String())
	assert.Equal(t, "475.99", row.SellingPrice.String())
	assert.Equal(t, "2026-12-31", row.ExpiryDate)
}

func TestConvertRowSynonymPriority(t *testing.T) {
	// Two headers for the same field: the first-listed synonym must win,
	// every time, regardless of map order.
	raw := RawRow{
		"name":          "Honey",
		"Selling Price": "30",
		"Price":         "99",
	}

	for i := 0; i < 20; i++ {
		row := ConvertRow(raw, 2)
		assert.Equal(t, "30", row.SellingPrice.String())
	}
}

func TestConvertRowPriceFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		cost        interface{}
		selling     interface{}
		wantCost    string
		wantSelling string
	}{
		{"both present", "10", "15", "10", "15"},
		{"missing cost defaults to minimum", nil, "15", "0.01", "15"},
		{"zero cost defaults to minimum", "0", "15", "0.01", "15"},
		{"missing selling defaults to cost", "10", nil, "10", "10"},
		{"selling below cost raised", "10", "8", "10", "10"},
		{"negative selling defaults to cost", "10", "-5", "10", "10"},
		{"both missing", nil, nil, "0.01", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawRow{
				"name":     "Milk",
				"category": "Dairy",
				"supplier": "Local Farm",
				"quantity": "5",
			}
			if tt.cost != nil {
				raw["cost price"] = tt.cost
			}
			if tt.selling != nil {
				raw["selling price"] = tt.selling
			}

			row := ConvertRow(raw, 3)
			assert.Equal(t, tt.wantCost, row.CostPrice.String())
			assert.Equal(t, tt.wantSelling, row.SellingPrice.String())
			assert.True(t, row.SellingPrice.GreaterThanOrEqual(row.CostPrice))
		})
	}
}

func TestConvertRowQuantity(t *testing.T) {
	raw := RawRow{"name": "Eggs", "quantity": "-4"}
	row := ConvertRow(raw, 2)
	assert.True(t, row.Quantity.Equal(decimal.Zero), "negative quantity should clamp to zero")

	raw["quantity"] = "2.5"
	row = ConvertRow(raw, 2)
	assert.Equal(t, "2.5", row.Quantity.String())
}

func TestConvertRowHalalFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"yes", true},
		{"TRUE", true},
		{"maybe", true},
		{"false", false},
		{"No", false},
		{"n", false},
		{"0", false},
	}

	for _, tt := range tests {
		raw := RawRow{"name": "Dates", "halal certified": tt.value}
		row := ConvertRow(raw, 2)
		assert.Equal(t, tt.want, row.HalalCertified, "value %q", tt.value)
	}
}

func TestConvertRowPreservesRawExpiry(t *testing.T) {
	raw := RawRow{"name": "Yoghurt", "expiry date": "soonish"}
	row := ConvertRow(raw, 4)
	assert.Empty(t, row.ExpiryDate)
	assert.Equal(t, "soonish", row.ExpiryRaw)
}

func TestGenerateBarcode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{13}$`)
	for i := 0; i < 10; i++ {
		code := GenerateBarcode()
		assert.Truef(t, pattern.MatchString(code), "barcode %q is not 13 digits", code)
	}
}
