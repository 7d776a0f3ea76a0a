package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/Bookstore-Order-System/internal/config"
	"github.com/dmehra2102/Bookstore-Order-System/internal/schema"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/idempotency"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/logging"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/outbox"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/shutdown"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/tracing"

	announcementapp "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/application"
	announcementhttp "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/infrastructure/http"
	announcementpg "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/infrastructure/postgres"
	bookmarkapp "github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/application"
	bookmarkhttp "github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/infrastructure/http"
	bookmarkpg "github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/infrastructure/postgres"
	cartapp "github.com/dmehra2102/Bookstore-Order-System/internal/cart/application"
	carthttp "github.com/dmehra2102/Bookstore-Order-System/internal/cart/infrastructure/http"
	cartpg "github.com/dmehra2102/Bookstore-Order-System/internal/cart/infrastructure/postgres"
	catalogapp "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/application"
	cataloghttp "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/infrastructure/http"
	catalogpg "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/infrastructure/postgres"
	"github.com/dmehra2102/Bookstore-Order-System/internal/catalog/infrastructure/rediscache"
	notificationapp "github.com/dmehra2102/Bookstore-Order-System/internal/notification/application"
	notificationhttp "github.com/dmehra2102/Bookstore-Order-System/internal/notification/infrastructure/http"
	notificationkafka "github.com/dmehra2102/Bookstore-Order-System/internal/notification/infrastructure/kafka"
	orderapp "github.com/dmehra2102/Bookstore-Order-System/internal/order/application"
	orderhttp "github.com/dmehra2102/Bookstore-Order-System/internal/order/infrastructure/http"
	orderkafka "github.com/dmehra2102/Bookstore-Order-System/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/Bookstore-Order-System/internal/order/infrastructure/postgres"
	reviewapp "github.com/dmehra2102/Bookstore-Order-System/internal/review/application"
	reviewhttp "github.com/dmehra2102/Bookstore-Order-System/internal/review/infrastructure/http"
	reviewpg "github.com/dmehra2102/Bookstore-Order-System/internal/review/infrastructure/postgres"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "bookstore-server", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Postgres
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		log.Error("pg config invalid", "err", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := schema.Ensure(ctx, pool); err != nil {
		log.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// Catalog with read-through cache
	books := rediscache.New(log, catalogpg.NewRepository(log, pool), rdb, cfg.BookCacheTTL)
	catalogSvc := catalogapp.NewService(books)

	// Cart
	cartSvc := cartapp.NewService(cartpg.NewRepository(log, pool), books)

	// Orders
	orderSvc := orderapp.NewService(orderpg.NewRepository(log, pool), books)

	// Bookmarks, reviews & announcements
	bookmarkSvc := bookmarkapp.NewService(bookmarkpg.NewRepository(log, pool), books)
	reviewSvc := reviewapp.NewService(reviewpg.NewRepository(log, pool), books)
	announcementSvc := announcementapp.NewService(announcementpg.NewRepository(log, pool))

	// Outbox relay
	writer := orderkafka.NewWriter(cfg.KafkaBrokers)
	defer writer.Close()
	dispatch := outbox.NewDispatcher(log, writer, cfg.OrderTopic, map[string]string{
		"order":        cfg.OrderTopic,
		"announcement": cfg.AnnouncementTopic,
	})
	store := orderpg.NewOutboxStore(log, pool)
	relay := outbox.NewRelay(log, store, dispatch, "bookstore-server-relay")
	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	// Notification fan-out
	hub := notificationapp.NewHub(log)
	idem := idempotency.NewStore(rdb, 10*time.Minute)
	consumer := notificationkafka.NewConsumer(log, cfg.KafkaBrokers,
		[]string{cfg.OrderTopic, cfg.AnnouncementTopic}, cfg.ConsumerGroup, hub, idem)
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("consumer stopped", "err", err)
			cancel()
		}
	}()

	// HTTP server. The server's own write timeout stays off so SSE
	// streams can live; regular routes are bounded individually.
	bounded := func(h http.Handler) http.Handler {
		return http.TimeoutHandler(h, cfg.WriteTimeout, "request timed out")
	}
	r := chi.NewRouter()
	r.Mount("/books", bounded(cataloghttp.NewHandler(log, catalogSvc).Routes()))
	r.Mount("/cart", bounded(carthttp.NewHandler(log, cartSvc).Routes()))
	r.Mount("/orders", bounded(orderhttp.NewHandler(log, orderSvc).Routes()))
	r.Mount("/bookmarks", bounded(bookmarkhttp.NewHandler(log, bookmarkSvc).Routes()))
	r.Mount("/reviews", bounded(reviewhttp.NewHandler(log, reviewSvc).Routes()))
	r.Mount("/announcements", bounded(announcementhttp.NewHandler(log, announcementSvc).Routes()))
	r.Mount("/notifications", notificationhttp.NewHandler(log, hub).Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: 0,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("bookstore-server shutdown complete")
}
