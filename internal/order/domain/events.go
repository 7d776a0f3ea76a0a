package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderCompleted = "OrderCompleted"
	EventOrderCancelled = "OrderCancelled"
)

type OrderCreated struct {
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    int64           `json:"user_id"`
	BookCount int             `json:"book_count"`
	Total     decimal.Decimal `json:"total"`
}

type OrderCompleted struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  int64     `json:"user_id"`
}

type OrderCancelled struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  int64     `json:"user_id"`
}
