package application

import (
	"context"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/cart/domain"
	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
)

type Service struct {
	repo  CartRepository
	books BookLookup
}

func NewService(repo CartRepository, books BookLookup) *Service {
	return &Service{repo: repo, books: books}
}

// AddItem creates the (user, book) line or bumps its quantity.
func (s *Service) AddItem(ctx context.Context, userID, bookID int64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return domain.Cart{}, err
	}
	if book.Stock < quantity {
		return domain.Cart{}, catalog.ErrInsufficientStock
	}
	if err := s.repo.Add(ctx, userID, bookID, quantity); err != nil {
		return domain.Cart{}, err
	}
	return s.GetCart(ctx, userID)
}

func (s *Service) IncreaseItem(ctx context.Context, userID, bookID int64) (domain.Cart, error) {
	if err := s.repo.Increase(ctx, userID, bookID); err != nil {
		return domain.Cart{}, err
	}
	return s.GetCart(ctx, userID)
}

// DecreaseItem lowers the quantity by one. Quantity floors at 1; callers
// must remove the line explicitly to drop it.
func (s *Service) DecreaseItem(ctx context.Context, userID, bookID int64) (domain.Cart, error) {
	if err := s.repo.Decrease(ctx, userID, bookID); err != nil {
		return domain.Cart{}, err
	}
	return s.GetCart(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, bookID int64) (domain.Cart, error) {
	if err := s.repo.Remove(ctx, userID, bookID); err != nil {
		return domain.Cart{}, err
	}
	return s.GetCart(ctx, userID)
}

// GetCart returns the user's lines priced live against the catalog.
func (s *Service) GetCart(ctx context.Context, userID int64) (domain.Cart, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	books := make(map[int64]catalog.Book, len(lines))
	for _, l := range lines {
		book, err := s.books.Get(ctx, l.BookID)
		if err != nil {
			return domain.Cart{}, err
		}
		books[l.BookID] = book
	}
	return domain.BuildCart(userID, lines, books, time.Now().UTC()), nil
}
