package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotPending         = errors.New("order is not pending")
	ErrClaimCodeMismatch  = errors.New("claim code mismatch")
	ErrDuplicateClaimCode = errors.New("claim code already in use")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Order is the immutable snapshot of a checkout. Only Status and
// UpdatedAt change after creation, and only Pending orders change at all.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	UserID         int64           `json:"user_id"`
	BookCount      int             `json:"book_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	ClaimCode      string          `json:"claim_code,omitempty"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Details        []Detail        `json:"details,omitempty"`
}

// Detail records a purchased line at the price in effect at checkout.
type Detail struct {
	BookID    int64           `json:"book_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewOrder snapshots the given details into a Pending order, applying the
// loyalty discount for the buyer's completed-order history. Totals keep
// full precision; rounding happens only at presentation.
func NewOrder(id uuid.UUID, userID int64, details []Detail, completedOrders int, claimCode string, now time.Time) (Order, error) {
	if len(details) == 0 {
		return Order{}, ErrEmptyCart
	}

	var bookCount int
	subtotal := decimal.Zero
	for _, d := range details {
		bookCount += d.Quantity
		subtotal = subtotal.Add(d.Subtotal)
	}

	rate := ComputeDiscountRate(bookCount, completedOrders)
	discount := subtotal.Mul(rate)

	return Order{
		ID:             id,
		UserID:         userID,
		BookCount:      bookCount,
		Subtotal:       subtotal,
		DiscountRate:   rate,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
		ClaimCode:      claimCode,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		Details:        details,
	}, nil
}

// Complete transitions Pending -> Completed after the supplied claim code
// matches. Terminal states never transition again.
func (o *Order) Complete(suppliedCode string, now time.Time) error {
	if o.Status != StatusPending {
		return ErrNotPending
	}
	if !VerifyClaimCode(o.ClaimCode, suppliedCode) {
		return ErrClaimCodeMismatch
	}
	o.Status = StatusCompleted
	o.UpdatedAt = now
	return nil
}

// Cancel transitions Pending -> Cancelled.
func (o *Order) Cancel(now time.Time) error {
	if o.Status != StatusPending {
		return ErrNotPending
	}
	o.Status = StatusCancelled
	o.UpdatedAt = now
	return nil
}
