package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Book struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	OnSale     bool            `json:"on_sale"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	SaleStarts time.Time       `json:"sale_starts"`
	SaleEnds   time.Time       `json:"sale_ends"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// EffectivePrice is the price a buyer pays at the given instant: the sale
// price inside an active sale window, the list price otherwise.
func (b Book) EffectivePrice(now time.Time) decimal.Decimal {
	if b.OnSale && !now.Before(b.SaleStarts) && now.Before(b.SaleEnds) {
		return b.SalePrice
	}
	return b.Price
}

// ListFilter carries the per-field catalog filters. Zero values mean
// "no constraint".
type ListFilter struct {
	Author    string
	TitleLike string
	OnSaleNow bool
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	Limit     int
	Offset    int
}
