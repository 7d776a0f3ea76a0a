package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeDiscountRate(t *testing.T) {
	tests := []struct {
		name            string
		bookCount       int
		completedOrders int
		want            string
	}{
		{"no discount below thresholds", 4, 0, "0"},
		{"volume discount at five books", 5, 0, "0.05"},
		{"loyalty discount at ten completed", 1, 10, "0.1"},
		{"both discounts stack additively", 5, 10, "0.15"},
		{"rates cap at the two fixed thresholds", 20, 20, "0.15"},
		{"boundary just below volume", 4, 9, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscountRate(tt.bookCount, tt.completedOrders)
			require.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}
