package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/dmehra2102/Bookstore-Order-System/internal/order/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Checkout(ctx context.Context, userID int64, orderID uuid.UUID, claimCode string, headers map[string]string, traceparent string, eventFn application.EventFn) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Lock the cart lines and their books so concurrent checkouts or
	// stock changes serialize against this snapshot.
	rows, err := tx.Query(ctx, `
		SELECT c.book_id, c.quantity, b.title, b.price, b.stock, b.on_sale, b.sale_price, b.sale_starts, b.sale_ends
		FROM cart_items c
		JOIN books b ON b.id = c.book_id
		WHERE c.user_id = $1
		ORDER BY c.book_id
		FOR UPDATE`, userID)
	if err != nil {
		return domain.Order{}, err
	}

	type lockedLine struct {
		book     catalog.Book
		quantity int
	}
	var lines []lockedLine
	for rows.Next() {
		var l lockedLine
		if err := rows.Scan(&l.book.ID, &l.quantity, &l.book.Title, &l.book.Price, &l.book.Stock,
			&l.book.OnSale, &l.book.SalePrice, &l.book.SaleStarts, &l.book.SaleEnds); err != nil {
			rows.Close()
			return domain.Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	now := time.Now().UTC()
	details := make([]domain.Detail, 0, len(lines))
	for _, l := range lines {
		if l.book.Stock < l.quantity {
			return domain.Order{}, catalog.ErrInsufficientStock
		}
		unit := l.book.EffectivePrice(now)
		details = append(details, domain.Detail{
			BookID:    l.book.ID,
			Title:     l.book.Title,
			Quantity:  l.quantity,
			UnitPrice: unit,
			Subtotal:  unit.Mul(decimalFromInt(l.quantity)),
		})
	}

	var completedOrders int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE user_id=$1 AND status=$2`,
		userID, domain.StatusCompleted).Scan(&completedOrders); err != nil {
		return domain.Order{}, err
	}

	o, err := domain.NewOrder(orderID, userID, details, completedOrders, claimCode, now)
	if err != nil {
		return domain.Order{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, book_count, subtotal, discount_rate, discount_amount, total, claim_code, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.UserID, o.BookCount, o.Subtotal, o.DiscountRate, o.DiscountAmount, o.Total,
		o.ClaimCode, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "orders_claim_code_key") {
			return domain.Order{}, domain.ErrDuplicateClaimCode
		}
		return domain.Order{}, err
	}

	batch := &pgx.Batch{}
	for _, d := range o.Details {
		batch.Queue(`
			INSERT INTO order_details (order_id, book_id, title, quantity, unit_price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, d.BookID, d.Title, d.Quantity, d.UnitPrice, d.Subtotal)
		batch.Queue(`
			UPDATE books SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`,
			d.BookID, d.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Order{}, err
	}

	eventType, payload, err := eventFn(o)
	if err != nil {
		return domain.Order{}, err
	}
	if err := insertOutbox(ctx, tx, "order", o.ID.String(), eventType, payload, headers, traceparent); err != nil {
		return domain.Order{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) Transition(ctx context.Context, orderID uuid.UUID, headers map[string]string, traceparent string, fn application.TransitionFn, eventFn application.EventFn) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	o, err := getOrder(ctx, tx, orderID, true)
	if err != nil {
		return domain.Order{}, err
	}

	restock, err := fn(&o)
	if err != nil {
		return domain.Order{}, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1`,
		o.ID, o.Status, o.UpdatedAt); err != nil {
		return domain.Order{}, err
	}

	if restock {
		batch := &pgx.Batch{}
		for _, d := range o.Details {
			batch.Queue(`UPDATE books SET stock = stock + $2, updated_at = now() WHERE id = $1`,
				d.BookID, d.Quantity)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return domain.Order{}, err
		}
	}

	eventType, payload, err := eventFn(o)
	if err != nil {
		return domain.Order{}, err
	}
	if err := insertOutbox(ctx, tx, "order", o.ID.String(), eventType, payload, headers, traceparent); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) Get(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return getOrder(ctx, r.pool, orderID, false)
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, book_count, subtotal, discount_rate, discount_amount, total, claim_code, status, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.BookCount, &o.Subtotal, &o.DiscountRate,
			&o.DiscountAmount, &o.Total, &o.ClaimCode, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getOrder(ctx context.Context, q queryer, orderID uuid.UUID, forUpdate bool) (domain.Order, error) {
	query := `
		SELECT id, user_id, book_count, subtotal, discount_rate, discount_amount, total, claim_code, status, created_at, updated_at
		FROM orders WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var o domain.Order
	err := q.QueryRow(ctx, query, orderID).Scan(&o.ID, &o.UserID, &o.BookCount, &o.Subtotal,
		&o.DiscountRate, &o.DiscountAmount, &o.Total, &o.ClaimCode, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT book_id, title, quantity, unit_price, subtotal
		FROM order_details WHERE order_id=$1 ORDER BY book_id`, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.Detail
		if err := rows.Scan(&d.BookID, &d.Title, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return domain.Order{}, err
		}
		o.Details = append(o.Details, d)
	}
	return o, rows.Err()
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType string, payload []byte, headers map[string]string, traceparent string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		aggregateType, aggregateID, eventType, payload, headers, traceparent)
	return err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
