package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
)

type BookRepository interface {
	Get(ctx context.Context, id int64) (domain.Book, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Book, error)
	Create(ctx context.Context, b domain.Book) (domain.Book, error)
	Update(ctx context.Context, b domain.Book) (domain.Book, error)
}
