package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
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

const bookColumns = `id, title, author, price, stock, on_sale, sale_price, sale_starts, sale_ends, created_at, updated_at`

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Stock, &b.OnSale,
		&b.SalePrice, &b.SaleStarts, &b.SaleEnds, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Book{}, domain.ErrBookNotFound
	}
	return b, err
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Book, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id=$1`, id)
	return scanBook(row)
}

func (r *Repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Book, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Author != "" {
		where = append(where, "author = "+arg(filter.Author))
	}
	if filter.TitleLike != "" {
		where = append(where, "title ILIKE "+arg("%"+filter.TitleLike+"%"))
	}
	if filter.OnSaleNow {
		where = append(where, "on_sale AND now() >= sale_starts AND now() < sale_ends")
	}
	if !filter.MinPrice.IsZero() {
		where = append(where, "price >= "+arg(filter.MinPrice))
	}
	if !filter.MaxPrice.IsZero() {
		where = append(where, "price <= "+arg(filter.MaxPrice))
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *Repository) Create(ctx context.Context, b domain.Book) (domain.Book, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (title, author, price, stock, on_sale, sale_price, sale_starts, sale_ends, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
		RETURNING `+bookColumns,
		b.Title, b.Author, b.Price, b.Stock, b.OnSale, b.SalePrice, b.SaleStarts, b.SaleEnds)
	return scanBook(row)
}

func (r *Repository) Update(ctx context.Context, b domain.Book) (domain.Book, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE books
		SET title=$2, author=$3, price=$4, stock=$5, on_sale=$6, sale_price=$7, sale_starts=$8, sale_ends=$9, updated_at=now()
		WHERE id=$1
		RETURNING `+bookColumns,
		b.ID, b.Title, b.Author, b.Price, b.Stock, b.OnSale, b.SalePrice, b.SaleStarts, b.SaleEnds)
	return scanBook(row)
}
