package application

import (
	"context"
	"errors"

	"github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
)

var ErrInvalidBook = errors.New("invalid book")

type Service struct {
	repo BookRepository
}

func NewService(repo BookRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, filter domain.ListFilter) ([]domain.Book, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) CreateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	if b.Title == "" || b.Price.IsNegative() || b.Stock < 0 {
		return domain.Book{}, ErrInvalidBook
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) UpdateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	if b.Title == "" || b.Price.IsNegative() || b.Stock < 0 {
		return domain.Book{}, ErrInvalidBook
	}
	return s.repo.Update(ctx, b)
}
