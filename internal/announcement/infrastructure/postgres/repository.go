package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/announcement/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/announcement/domain"
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

const announcementColumns = `id, title, body, starts_at, ends_at, created_at, updated_at`

func (r *Repository) CreateWithOutbox(ctx context.Context, a domain.Announcement, headers map[string]string, traceparent string, eventFn application.EventFn) (domain.Announcement, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Announcement{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		INSERT INTO announcements (title, body, starts_at, ends_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now(),now())
		RETURNING `+announcementColumns,
		a.Title, a.Body, a.StartsAt, a.EndsAt)
	stored, err := scanAnnouncement(row)
	if err != nil {
		return domain.Announcement{}, err
	}

	eventType, payload, err := eventFn(stored)
	if err != nil {
		return domain.Announcement{}, err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		"announcement", strconv.FormatInt(stored.ID, 10), eventType, payload, headers, traceparent)
	if err != nil {
		return domain.Announcement{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Announcement{}, err
	}
	return stored, nil
}

func (r *Repository) Update(ctx context.Context, a domain.Announcement) (domain.Announcement, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE announcements
		SET title=$2, body=$3, starts_at=$4, ends_at=$5, updated_at=now()
		WHERE id=$1
		RETURNING `+announcementColumns,
		a.ID, a.Title, a.Body, a.StartsAt, a.EndsAt)
	return scanAnnouncement(row)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]domain.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE starts_at <= $1 AND ends_at > $1
		ORDER BY starts_at DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAnnouncement(row pgx.Row) (domain.Announcement, error) {
	var a domain.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Announcement{}, domain.ErrAnnouncementNotFound
	}
	return a, err
}
