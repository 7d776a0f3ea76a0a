package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/catalog/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/redis/go-redis/v9"
)

// Repository is a read-through cache over another BookRepository.
// Only single-book reads are cached; list queries always hit the store.
type Repository struct {
	log  *slog.Logger
	next application.BookRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func New(log *slog.Logger, next application.BookRepository, rdb *redis.Client, ttl time.Duration) *Repository {
	return &Repository{log: log, next: next, rdb: rdb, ttl: ttl}
}

func key(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Book, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if err == nil {
		var b domain.Book
		if err := json.Unmarshal(raw, &b); err == nil {
			return b, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		// Cache trouble must not take down reads.
		r.log.Warn("book cache get failed", "book_id", id, "err", err)
	}

	b, err := r.next.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if raw, err := json.Marshal(b); err == nil {
		if err := r.rdb.Set(ctx, key(id), raw, r.ttl).Err(); err != nil {
			r.log.Warn("book cache set failed", "book_id", id, "err", err)
		}
	}
	return b, nil
}

func (r *Repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Book, error) {
	return r.next.List(ctx, filter)
}

func (r *Repository) Create(ctx context.Context, b domain.Book) (domain.Book, error) {
	return r.next.Create(ctx, b)
}

func (r *Repository) Update(ctx context.Context, b domain.Book) (domain.Book, error) {
	updated, err := r.next.Update(ctx, b)
	if err != nil {
		return domain.Book{}, err
	}
	if err := r.rdb.Del(ctx, key(updated.ID)).Err(); err != nil {
		r.log.Warn("book cache invalidate failed", "book_id", updated.ID, "err", err)
	}
	return updated, nil
}

// Invalidate drops a book from the cache. Called after stock changes made
// outside this repository, e.g. checkout and cancellation transactions.
func (r *Repository) Invalidate(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		if err := r.rdb.Del(ctx, key(id)).Err(); err != nil {
			r.log.Warn("book cache invalidate failed", "book_id", id, "err", err)
		}
	}
}
