package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmehra2102/Bookstore-Order-System/internal/review/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const reviewColumns = `book_id, user_id, rating, body, created_at, updated_at`

// Upsert keeps one review per (book, user); a rewrite replaces rating and
// body but preserves the original created_at.
func (r *Repository) Upsert(ctx context.Context, review domain.Review) (domain.Review, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (book_id, user_id, rating, body, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now(),now())
		ON CONFLICT (book_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, body = EXCLUDED.body, updated_at = now()
		RETURNING `+reviewColumns,
		review.BookID, review.UserID, review.Rating, review.Body)
	return scanReview(row)
}

func (r *Repository) Remove(ctx context.Context, userID, bookID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE user_id=$1 AND book_id=$2`, userID, bookID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *Repository) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews WHERE book_id=$1 ORDER BY updated_at DESC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(&review.BookID, &review.UserID, &review.Rating, &review.Body,
		&review.CreatedAt, &review.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Review{}, domain.ErrReviewNotFound
	}
	return review, err
}
