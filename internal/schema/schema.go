// Package schema creates the tables the server needs on startup.
package schema

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Ensure(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, ddl)
	return err
}

const ddl = `
CREATE TABLE IF NOT EXISTS books (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	author      TEXT NOT NULL DEFAULT '',
	price       NUMERIC(10,2) NOT NULL,
	stock       INT NOT NULL CHECK (stock >= 0),
	on_sale     BOOLEAN NOT NULL DEFAULT FALSE,
	sale_price  NUMERIC(10,2) NOT NULL DEFAULT 0,
	sale_starts TIMESTAMPTZ NOT NULL DEFAULT 'epoch',
	sale_ends   TIMESTAMPTZ NOT NULL DEFAULT 'epoch',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cart_items (
	user_id    BIGINT NOT NULL,
	book_id    BIGINT NOT NULL REFERENCES books(id),
	quantity   INT NOT NULL CHECK (quantity >= 1),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, book_id)
);

CREATE TABLE IF NOT EXISTS orders (
	id              UUID PRIMARY KEY,
	user_id         BIGINT NOT NULL,
	book_count      INT NOT NULL,
	subtotal        NUMERIC(12,4) NOT NULL,
	discount_rate   NUMERIC(4,2) NOT NULL,
	discount_amount NUMERIC(12,4) NOT NULL,
	total           NUMERIC(12,4) NOT NULL,
	claim_code      TEXT NOT NULL,
	status          TEXT NOT NULL CHECK (status IN ('pending','completed','cancelled')),
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	CONSTRAINT orders_claim_code_key UNIQUE (claim_code)
);
CREATE INDEX IF NOT EXISTS orders_user_idx ON orders (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_details (
	order_id   UUID NOT NULL REFERENCES orders(id),
	book_id    BIGINT NOT NULL,
	title      TEXT NOT NULL,
	quantity   INT NOT NULL,
	unit_price NUMERIC(10,2) NOT NULL,
	subtotal   NUMERIC(12,4) NOT NULL,
	PRIMARY KEY (order_id, book_id)
);

CREATE TABLE IF NOT EXISTS bookmarks (
	user_id    BIGINT NOT NULL,
	book_id    BIGINT NOT NULL REFERENCES books(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, book_id)
);

CREATE TABLE IF NOT EXISTS reviews (
	book_id    BIGINT NOT NULL REFERENCES books(id),
	user_id    BIGINT NOT NULL,
	rating     INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	body       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (book_id, user_id)
);

CREATE TABLE IF NOT EXISTS announcements (
	id         BIGSERIAL PRIMARY KEY,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL,
	starts_at  TIMESTAMPTZ NOT NULL,
	ends_at    TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outbox (
	id             BIGSERIAL PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	type           TEXT NOT NULL,
	payload        JSONB NOT NULL,
	headers        JSONB,
	traceparent    TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	status         TEXT NOT NULL DEFAULT 'pending',
	relay_id       TEXT,
	lease_until    TIMESTAMPTZ,
	retry_count    INT NOT NULL DEFAULT 0,
	last_error     TEXT
);
CREATE INDEX IF NOT EXISTS outbox_pending_idx ON outbox (id) WHERE status = 'pending';
`
