package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/api"
	"github.com/vantagepay/checkout-gateway/internal/config"
	"github.com/vantagepay/checkout-gateway/internal/processor"
	"github.com/vantagepay/checkout-gateway/internal/repository"
	"github.com/vantagepay/checkout-gateway/internal/service"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize telemetry
	if err := telemetry.InitTelemetry("checkout-gateway", cfg.JaegerEndpoint); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Checkout Gateway")

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	reversalRepo := repository.NewReversalRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	for _, init := range []func() error{orderRepo.InitDB, reversalRepo.InitDB, tokenRepo.InitDB} {
		if err := init(); err != nil {
			telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
		}
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	// Connect to Kafka
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers),
		Topic:    "order.annotated",
		Balancer: &kafka.LeastBytes{},
	}
	defer kafkaWriter.Close()

	// Remote payment API client
	apiClient := processor.NewClient(nil, cfg.ProcessorBaseURL, cfg.Settings.MerchantID, cfg.ProcessorAPIKey)

	// Wire services
	ledger := service.NewOrderLedger(orderRepo, kafkaWriter)
	lock := service.NewOrderLock(redisClient, cfg.Settings.CaptureLockTTL)
	reversals := service.NewReversalService(apiClient, reversalRepo)
	captures := service.NewCaptureService(apiClient, orderRepo, ledger, lock)
	tokens := service.NewTokenService(tokenRepo)
	formatter := service.NewShopperErrorFormatter()
	dispatcher := service.NewDispatcher(ledger, reversals, captures, tokens, formatter)
	payments := service.NewPaymentService(apiClient, dispatcher, cfg.Settings)
	refunds := service.NewRefundService(apiClient, orderRepo, ledger)

	// Start review poller
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()
	poller := service.NewReviewPoller(apiClient, orderRepo, ledger, cfg.Settings.ReviewPollInterval, cfg.Settings.IsChargeType())
	go poller.Run(pollerCtx)

	// Setup router and HTTP server
	r := api.NewRouter(orderRepo, payments, captures, refunds)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Checkout Gateway starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	pollerCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
