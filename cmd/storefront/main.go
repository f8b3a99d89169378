package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartstore "github.com/rayltitan1993/yournextstore-1/internal/cart/store"
	"github.com/rayltitan1993/yournextstore-1/pkg/config"
	"github.com/rayltitan1993/yournextstore-1/pkg/idempotency"
	"github.com/rayltitan1993/yournextstore-1/pkg/logging"
	"github.com/rayltitan1993/yournextstore-1/pkg/outbox"
	"github.com/rayltitan1993/yournextstore-1/pkg/postgres"
	"github.com/rayltitan1993/yournextstore-1/pkg/shutdown"
	"github.com/rayltitan1993/yournextstore-1/pkg/tracing"

	cartapp "github.com/rayltitan1993/yournextstore-1/internal/cart/infrastructure/http"
	catalogapp "github.com/rayltitan1993/yournextstore-1/internal/catalog/application"
	cataloghttp "github.com/rayltitan1993/yournextstore-1/internal/catalog/infrastructure/http"
	catalogpg "github.com/rayltitan1993/yournextstore-1/internal/catalog/infrastructure/postgres"
	checkoutapp "github.com/rayltitan1993/yournextstore-1/internal/checkout/application"
	checkouthttp "github.com/rayltitan1993/yournextstore-1/internal/checkout/infrastructure/http"
	checkoutpg "github.com/rayltitan1993/yournextstore-1/internal/checkout/infrastructure/postgres"
	identityapp "github.com/rayltitan1993/yournextstore-1/internal/identity/application"
	identityhttp "github.com/rayltitan1993/yournextstore-1/internal/identity/infrastructure/http"
	identitypg "github.com/rayltitan1993/yournextstore-1/internal/identity/infrastructure/postgres"
	identityredis "github.com/rayltitan1993/yournextstore-1/internal/identity/infrastructure/redis"
	orderapp "github.com/rayltitan1993/yournextstore-1/internal/order/application"
	orderhttp "github.com/rayltitan1993/yournextstore-1/internal/order/infrastructure/http"
	orderkafka "github.com/rayltitan1993/yournextstore-1/internal/order/infrastructure/kafka"
	orderpg "github.com/rayltitan1993/yournextstore-1/internal/order/infrastructure/postgres"
	"github.com/rayltitan1993/yournextstore-1/internal/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Postgres
	if err := postgres.Migrate(cfg.PGURL, cfg.MigrationsDir); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	pool, err := postgres.Connect(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis
	redisDB := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisDB.Close()

	// Catalog
	catalogSvc := catalogapp.NewService(catalogpg.NewRepository(log, pool))

	// Cart: process-local, not persisted
	carts := cartstore.New(catalogSvc)

	// Identity
	identitySvc := identityapp.NewService(
		identitypg.NewRepository(log, pool),
		identityredis.NewSessionStore(redisDB),
		cfg.SessionTTL,
	)

	// Checkout + payment gateway
	gateway := payment.NewClient(log, cfg.PaymentAPIURL, cfg.PaymentAPIKey, cfg.PaymentTimeout)
	checkoutSessions := checkoutpg.NewRepository(log, pool)
	checkoutSvc := checkoutapp.NewService(log, carts, gateway, checkoutSessions, cfg.PublicOrigin)

	// Orders, webhook intake, outbox relay
	orderRepo := orderpg.NewRepository(log, pool)
	orderSvc := orderapp.NewService(log, orderRepo, checkoutSessions, carts)
	idem := idempotency.NewStore(redisDB, cfg.IdempotencyTTL)

	writer := orderkafka.NewWriter(cfg.KafkaAddr)
	defer writer.Close()
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, orderpg.NewOutboxStore(log, pool), dispatch,
		"storefront-relay-"+uuid.NewString()[:8])

	// HTTP
	r := chi.NewRouter()
	r.Use(identityhttp.WithUser(identitySvc))
	r.Mount("/products", cataloghttp.NewHandler(log, catalogSvc).Routes())
	r.Mount("/cart", cartapp.NewHandler(log, carts).Routes())
	r.Mount("/checkout", checkouthttp.NewHandler(log, checkoutSvc).Routes())
	r.Mount("/auth", identityhttp.NewHandler(log, identitySvc).Routes())
	r.Mount("/", orderhttp.NewHandler(log, orderSvc, idem, cfg.PaymentWebhookSecret).Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

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
	log.Info("storefront shutdown complete")
}
