package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentkaro/rentkaro/internal/cart"
	"github.com/rentkaro/rentkaro/internal/catalog"
	"github.com/rentkaro/rentkaro/internal/checkout"
	"github.com/rentkaro/rentkaro/internal/clients"
	"github.com/rentkaro/rentkaro/internal/config"
	"github.com/rentkaro/rentkaro/internal/db"
	"github.com/rentkaro/rentkaro/internal/events"
	httpapi "github.com/rentkaro/rentkaro/internal/http"
	"github.com/rentkaro/rentkaro/internal/order"
	"github.com/rentkaro/rentkaro/internal/payment"
)

func main() {
	logger := log.New(os.Stdout, "[rentkaro] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	// DB
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}
	database := db.MustOpen(cfg.DatabaseDSN)
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("open pgx pool: %v", err)
	}
	defer pool.Close()

	catalogRepo := catalog.NewPostgresRepository(pool)
	orderRepo := order.NewRepository(database)

	// Cart store
	var store cart.Store
	switch cfg.CartStore {
	case "postgres":
		store = cart.NewPostgresStore(database)
	default:
		redisStore, err := cart.NewRedisStore(cfg.RedisURL, cfg.CartTTL)
		if err != nil {
			logger.Fatalf("redis cart store: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	}
	carts := cart.NewService(store)

	// RabbitMQ
	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn)
	if err != nil {
		logger.Fatalf("events publisher: %v", err)
	}
	defer publisher.Close()

	// External collaborators
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	gateway := payment.NewHTTPGateway(clients.NewClient("payment", cfg.PaymentURL, httpClient))
	kyc := clients.NewKYCClient(clients.NewClient("kyc", cfg.KYCURL, httpClient))

	checkoutSvc := checkout.NewService(carts, catalogRepo, orderRepo, gateway, kyc, publisher, cfg.ShippingFlat, logger)

	router := httpapi.NewRouter(
		httpapi.NewCatalogHandler(catalogRepo),
		httpapi.NewCartHandler(carts, catalogRepo),
		httpapi.NewCheckoutHandler(checkoutSvc),
		httpapi.NewOrderHandler(orderRepo),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Minute, // checkout waits on the payment gateway
	}

	go func() {
		logger.Printf("rentkaro-core listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}
