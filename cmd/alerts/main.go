package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aqalert/internal/alerts/handler"
	"aqalert/internal/alerts/repository"
	"aqalert/internal/alerts/service"
	"aqalert/internal/alerts/validator"
	"aqalert/internal/config"
	"aqalert/internal/events"
	"aqalert/internal/notify"
	"aqalert/internal/observability"
	"aqalert/pkg/logger"
	"aqalert/pkg/middleware"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   "air-alerts",
	})
	log.Info("Starting air-quality alert service")

	mongoClient := connectMongoDB(cfg, log)
	defer mongoClient.Disconnect(context.Background())

	clock := clockwork.NewRealClock()
	repo := repository.NewMongoSubscriptionRepository(mongoClient.Database(cfg.MongoDatabase), clock)
	ensureIndexes(cfg, repo, log)

	publisher := initPublisher(cfg, log)
	if publisher != nil {
		defer publisher.Close()
	}

	metrics := observability.NewMetrics()
	gateway := notify.NewClient(cfg.NotificationServiceURL, cfg.NotifyTimeout, log)
	setupValidator := validator.NewSetupAlertValidator(log)

	setupService := service.NewSetupAlertService(
		repo,
		setupValidator,
		gateway,
		publisher,
		metrics,
		clock,
		cfg,
		log,
	)
	log.Info("Setup-alert service initialized")

	server := setupHTTPServer(cfg, setupService, mongoClient, log)
	run(cfg, server, log)
}

func connectMongoDB(cfg *config.Config, log *logger.Logger) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB", "database", cfg.MongoDatabase)
	return client
}

func ensureIndexes(cfg *config.Config, repo repository.SubscriptionRepository, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create indexes", "error", err)
	}
	log.Info("Unique contact index ensured")
}

func initPublisher(cfg *config.Config, log *logger.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("Kafka brokers not configured, setup-event stream disabled")
		return nil
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaSetupTopic, log)
	if err != nil {
		log.Fatal("Failed to create Kafka publisher", "error", err)
	}

	log.Info("Setup-event stream enabled", "topic", cfg.KafkaSetupTopic)
	return publisher
}

func setupHTTPServer(cfg *config.Config, setupService service.SetupAlertService, mongoClient *mongo.Client, log *logger.Logger) *http.Server {
	healthRouter := httprouter.New()
	healthHandler := handler.NewHealthHandler(mongoClient, log)
	healthHandler.RegisterRoutes(healthRouter)

	alertRouter := httprouter.New()
	setupHandler := handler.NewSetupAlertHandler(setupService, log)
	setupHandler.RegisterRoutes(alertRouter)

	// Middleware order: Recovery -> Logging -> ContentType -> Timeout -> Router
	var alertHTTPHandler http.Handler = alertRouter
	alertHTTPHandler = middleware.RequestTimeout(cfg.RequestTimeout)(alertHTTPHandler)
	alertHTTPHandler = middleware.ContentTypeValidation(log)(alertHTTPHandler)
	alertHTTPHandler = middleware.RequestLogging(log)(alertHTTPHandler)
	alertHTTPHandler = middleware.Recovery(log)(alertHTTPHandler)

	mux := http.NewServeMux()
	mux.Handle("/health", healthRouter)
	mux.Handle("/ready", healthRouter)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", alertHTTPHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Info("HTTP server configured", "port", cfg.Port)
	return server
}

func run(cfg *config.Config, server *http.Server, log *logger.Logger) {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
		gracefulShutdown(cfg, server, log)
	}
}

func gracefulShutdown(cfg *config.Config, server *http.Server, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		if err := server.Close(); err != nil {
			log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	log.Info("Server stopped gracefully")
}
