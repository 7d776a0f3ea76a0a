package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/domain"
	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
)

type BookmarkRepository interface {
	Add(ctx context.Context, userID, bookID int64) error
	Remove(ctx context.Context, userID, bookID int64) error
	List(ctx context.Context, userID int64) ([]domain.Bookmark, error)
}

type BookLookup interface {
	Get(ctx context.Context, id int64) (catalog.Book, error)
}

type Service struct {
	repo  BookmarkRepository
	books BookLookup
}

func NewService(repo BookmarkRepository, books BookLookup) *Service {
	return &Service{repo: repo, books: books}
}

// Add is an idempotent upsert; bookmarking twice is not an error.
func (s *Service) Add(ctx context.Context, userID, bookID int64) error {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return err
	}
	return s.repo.Add(ctx, userID, bookID)
}

func (s *Service) Remove(ctx context.Context, userID, bookID int64) error {
	return s.repo.Remove(ctx, userID, bookID)
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	return s.repo.List(ctx, userID)
}
