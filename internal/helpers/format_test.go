package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		locale   string
		currency string
		want     string
	}{
		{"4950000", "id-ID", "IDR", "Rp 4.950.000"},
		{"550000", "id-ID", "IDR", "Rp 550.000"},
		{"0", "id-ID", "IDR", "Rp 0"},
		{"999.6", "id-ID", "IDR", "Rp 1.000"},
		{"-25000", "id-ID", "IDR", "-Rp 25.000"},
		{"1250000", "en-US", "USD", "$ 1,250,000"},
		{"1000", "??", "XYZ", "XYZ 1.000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatCurrency(decimal.RequireFromString(tt.amount), tt.locale, tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp 2.000.000", FormatIDR(decimal.NewFromInt(2_000_000)))
}
