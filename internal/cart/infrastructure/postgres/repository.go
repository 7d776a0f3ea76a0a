package postgres

import (
	"context"
	"log/slog"

	"github.com/dmehra2102/Bookstore-Order-System/internal/cart/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Add upserts the line in a single statement so concurrent adds for the
// same (user, book) cannot lose updates.
func (r *Repository) Add(ctx context.Context, userID, bookID int64, quantity int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, book_id, quantity, created_at, updated_at)
		VALUES ($1,$2,$3,now(),now())
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		userID, bookID, quantity)
	return err
}

func (r *Repository) Increase(ctx context.Context, userID, bookID int64) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE cart_items SET quantity = quantity + 1, updated_at = now()
		WHERE user_id=$1 AND book_id=$2`,
		userID, bookID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *Repository) Decrease(ctx context.Context, userID, bookID int64) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE cart_items SET quantity = quantity - 1, updated_at = now()
		WHERE user_id=$1 AND book_id=$2 AND quantity > 1`,
		userID, bookID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Zero rows: the line is either absent or already at quantity 1.
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cart_items WHERE user_id=$1 AND book_id=$2)`,
		userID, bookID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrLineNotFound
	}
	return domain.ErrQuantityAtMinimum
}

func (r *Repository) Remove(ctx context.Context, userID, bookID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1 AND book_id=$2`, userID, bookID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *Repository) Lines(ctx context.Context, userID int64) ([]domain.Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, book_id, quantity, created_at, updated_at
		FROM cart_items WHERE user_id=$1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.Line
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.UserID, &l.BookID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
