package postgres

import (
	"context"
	"log/slog"

	"github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Add(ctx context.Context, userID, bookID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookmarks (user_id, book_id, created_at)
		VALUES ($1,$2,now())
		ON CONFLICT (user_id, book_id) DO NOTHING`,
		userID, bookID)
	return err
}

func (r *Repository) Remove(ctx context.Context, userID, bookID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM bookmarks WHERE user_id=$1 AND book_id=$2`, userID, bookID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrBookmarkNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.user_id, m.book_id, b.title, b.author, b.price, m.created_at
		FROM bookmarks m
		JOIN books b ON b.id = m.book_id
		WHERE m.user_id=$1
		ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var marks []domain.Bookmark
	for rows.Next() {
		var m domain.Bookmark
		if err := rows.Scan(&m.UserID, &m.BookID, &m.Title, &m.Author, &m.Price, &m.CreatedAt); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}
