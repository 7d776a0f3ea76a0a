package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	book := Book{
		Price:      decimal.RequireFromString("25"),
		OnSale:     true,
		SalePrice:  decimal.RequireFromString("19.99"),
		SaleStarts: start,
		SaleEnds:   end,
	}

	require.True(t, book.EffectivePrice(start).Equal(book.SalePrice), "window start is inclusive")
	require.True(t, book.EffectivePrice(start.Add(24*time.Hour)).Equal(book.SalePrice))
	require.True(t, book.EffectivePrice(end).Equal(book.Price), "window end is exclusive")
	require.True(t, book.EffectivePrice(start.Add(-time.Second)).Equal(book.Price))

	book.OnSale = false
	require.True(t, book.EffectivePrice(start.Add(24*time.Hour)).Equal(book.Price),
		"sale window without the flag does not discount")
}
