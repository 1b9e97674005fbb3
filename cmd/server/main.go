package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmstore/config"
	"farmstore/internal/api"
	"farmstore/internal/broker"
	"farmstore/internal/mailer"
	"farmstore/internal/notify"
	"farmstore/internal/payment"
	"farmstore/internal/redisclient"
	"farmstore/internal/service"
	"farmstore/internal/store"
	"farmstore/internal/util"
	"farmstore/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogService := service.NewCatalogService(db, redisClient, time.Duration(cfg.Business.CatalogCacheTTL)*time.Second)
	cartService := service.NewCartService(db)
	orderService := service.NewOrderService(db, redisClient, eventPublisher, cfg.Business.DeliveryFee)
	paymentService := service.NewPaymentService(db, eventPublisher)
	contactService := service.NewContactService(db, eventPublisher)

	mail := mailer.New(cfg.SMTP)
	notifier := notify.NewEmailNotifier(mail, cfg.SMTP.OwnerEmail)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	notifyConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	notifyWorker := worker.NewNotifyWorker(notifyConsumer, notifier, mail)
	go func() {
		if err := notifyWorker.Start(workerCtx); err != nil {
			log.Printf("Notify worker error: %v", err)
		}
	}()

	paymo := &payment.Paymo{
		APIKey:      cfg.Payments.PaymoAPIKey,
		SecretKey:   cfg.Payments.PaymoSecretKey,
		CheckoutURL: cfg.Payments.PaymoCheckoutURL,
	}
	paymaster := &payment.Paymaster{
		MerchantID: cfg.Payments.PaymasterMerchantID,
		SecretKey:  cfg.Payments.PaymasterSecretKey,
	}
	ckassa := &payment.Ckassa{
		SecretKey: cfg.Payments.CkassaSecretKey,
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		catalogService,
		cartService,
		orderService,
		paymentService,
		contactService,
		paymo,
		paymaster,
		ckassa,
		cfg.Server.BaseURL,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	notifyWorker.Stop()

	log.Println("Server exited")
}
