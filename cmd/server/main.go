package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/commons"
	"storefront/internal/config"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/infrastructure/redisx"
	"storefront/internal/order"
	"storefront/internal/order/usecase"
	"storefront/internal/payment"
	"storefront/internal/server"
)

func main() {
	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = commons.LoadConfig(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	rdb := redisx.New(cfg.Redis.Addr)
	defer rdb.Close()
	if err := redisx.Ping(context.Background(), rdb); err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	zapLogger.Info("redis connected")

	var events usecase.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zapLogger)
		defer producer.Close()
		events = producer
		zapLogger.Info("kafka producer configured", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	carts := cart.NewStore(rdb, cfg.Redis.CartTTL)
	bridge := payment.NewBridge(cfg.Payment.BaseURL, cfg.Payment.WebhookSecret, cfg.Payment.Timeout, zapLogger)

	productsCtrl := catalog.NewModule(db, zapLogger)
	orderModule, err := order.NewModule(db, carts, bridge, events, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("wiring order module", zap.Error(err))
	}
	cartsCtrl := cart.NewController(carts, zapLogger)

	router := server.NewRouter(productsCtrl, orderModule, cartsCtrl, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
