package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Order-System/internal/cart/domain"
	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
)

type CartRepository interface {
	Add(ctx context.Context, userID, bookID int64, quantity int) error
	Increase(ctx context.Context, userID, bookID int64) error
	Decrease(ctx context.Context, userID, bookID int64) error
	Remove(ctx context.Context, userID, bookID int64) error
	Lines(ctx context.Context, userID int64) ([]domain.Line, error)
}

type BookLookup interface {
	Get(ctx context.Context, id int64) (catalog.Book, error)
}
