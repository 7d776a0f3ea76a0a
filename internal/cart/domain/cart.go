package domain

import (
	"errors"
	"time"

	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound      = errors.New("cart line not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrQuantityAtMinimum = errors.New("quantity already at minimum, remove the line instead")
)

// Line is a stored (user, book) quantity counter.
type Line struct {
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineView is a line joined with live catalog data. Prices are the
// current effective price, not the price at the time the item was added.
type LineView struct {
	Book      catalog.Book    `json:"book"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Cart struct {
	UserID    int64           `json:"user_id"`
	Lines     []LineView      `json:"lines"`
	BookCount int             `json:"book_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// BuildCart prices the raw lines at the given instant.
func BuildCart(userID int64, lines []Line, books map[int64]catalog.Book, now time.Time) Cart {
	cart := Cart{UserID: userID, Subtotal: decimal.Zero}
	for _, l := range lines {
		book, ok := books[l.BookID]
		if !ok {
			continue
		}
		unit := book.EffectivePrice(now)
		total := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		cart.Lines = append(cart.Lines, LineView{
			Book:      book,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			LineTotal: total,
		})
		cart.BookCount += l.Quantity
		cart.Subtotal = cart.Subtotal.Add(total)
	}
	return cart
}
