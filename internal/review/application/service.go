package application

import (
	"context"

	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/dmehra2102/Bookstore-Order-System/internal/review/domain"
)

type ReviewRepository interface {
	Upsert(ctx context.Context, r domain.Review) (domain.Review, error)
	Remove(ctx context.Context, userID, bookID int64) error
	ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error)
}

type BookLookup interface {
	Get(ctx context.Context, id int64) (catalog.Book, error)
}

type Service struct {
	repo  ReviewRepository
	books BookLookup
}

func NewService(repo ReviewRepository, books BookLookup) *Service {
	return &Service{repo: repo, books: books}
}

// Write creates the user's review of a book or replaces their earlier one.
func (s *Service) Write(ctx context.Context, r domain.Review) (domain.Review, error) {
	if err := r.Validate(); err != nil {
		return domain.Review{}, err
	}
	if _, err := s.books.Get(ctx, r.BookID); err != nil {
		return domain.Review{}, err
	}
	return s.repo.Upsert(ctx, r)
}

func (s *Service) Remove(ctx context.Context, userID, bookID int64) error {
	return s.repo.Remove(ctx, userID, bookID)
}

func (s *Service) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListByBook(ctx, bookID)
}
