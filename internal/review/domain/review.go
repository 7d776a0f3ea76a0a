package domain

import (
	"errors"
	"time"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// Review is one user's verdict on a book. A user keeps a single review
// per book; writing again replaces the earlier one.
type Review struct {
	BookID    int64     `json:"book_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
