package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/farmlink/marketplace/cmd/config"
	"github.com/farmlink/marketplace/thirdparty/rabbitmq"
)

// The sweeper drains delayed order-expiration messages and calls the
// internal release endpoint so abandoned pending orders give their stock
// back. Run it only with ORDER_RELEASE_ENABLED=true on the API side.
func main() {
	cfg := config.Load()

	consumer, err := rabbitmq.NewConsumer(
		cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
		cfg.Internal.APIURL, cfg.Internal.APIKey,
	)
	if err != nil {
		log.Fatalf("failed to connect rabbitmq: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}

	log.Println("order release sweeper running")
	<-ctx.Done()
}
