package integration

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/dmehra2102/Bookstore-Order-System/internal/schema"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	env  *Env
	pool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	e, err := Setup(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration setup:", err)
		os.Exit(1)
	}
	env = e

	pool, err = pgxpool.New(ctx, env.PGURL)
	if err == nil {
		err = schema.Ensure(ctx, pool)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration schema:", err)
		e.Teardown(ctx)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	e.Teardown(ctx)
	os.Exit(code)
}

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test, needs docker")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
