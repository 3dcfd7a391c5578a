package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/farmlink/marketplace/application/cart"
	checkoutapp "github.com/farmlink/marketplace/application/checkout"
	paymentapp "github.com/farmlink/marketplace/application/payment"
	"github.com/farmlink/marketplace/cmd/config"
	redisclient "github.com/farmlink/marketplace/cmd/redis"
	_ "github.com/farmlink/marketplace/docs"
	cartRepo "github.com/farmlink/marketplace/repository/cart"
	orderRepo "github.com/farmlink/marketplace/repository/order"
	paymentRepo "github.com/farmlink/marketplace/repository/payment"
	productRepo "github.com/farmlink/marketplace/repository/product"
	txRepo "github.com/farmlink/marketplace/repository/tx"
	"github.com/farmlink/marketplace/thirdparty/gateway"
	"github.com/farmlink/marketplace/thirdparty/rabbitmq"
	"github.com/farmlink/marketplace/transport"
	"github.com/farmlink/marketplace/utils/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// @title FARMLINK MARKETPLACE API
// @version 1.0
// @description Checkout and payment API for the FarmLink producer marketplace
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Initialize Redis client (cart store + idempotency tokens)
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// RabbitMQ publisher for notifications and the release sweep
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer func() {
		_ = publisher.Close()
	}()

	gatewayClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)

	// Initialize repositories
	TxRepo := txRepo.NewTxRepository(db)
	CartRepo := cartRepo.NewCartRepository()
	ProductRepo := productRepo.NewProductRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	PaymentRepo := paymentRepo.NewPaymentRepository(db)

	// Initialize application layers
	CartApp := cartapp.NewCartApp(CartRepo, ProductRepo)
	CheckoutApp := checkoutapp.NewCheckoutApp(cfg, TxRepo, CartApp, CartRepo, ProductRepo, OrderRepo, PaymentRepo, gatewayClient, publisher)
	PaymentApp := paymentapp.NewPaymentApp(TxRepo, OrderRepo, PaymentRepo, ProductRepo, publisher)

	httpTransport := transport.NewTransport(cfg, CartApp, CheckoutApp, PaymentApp)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
