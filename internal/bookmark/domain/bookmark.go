package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmark marks a book a user wants to come back to.
type Bookmark struct {
	UserID    int64           `json:"user_id"`
	BookID    int64           `json:"book_id"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
