package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"resourcesvc/internal/config"
	"resourcesvc/internal/database"
	"resourcesvc/internal/logger"
	"resourcesvc/internal/repositories"
	"resourcesvc/internal/server"
	"resourcesvc/internal/services"
	"resourcesvc/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	// --- Initialize Database ---
	store, err := database.Open(cfg.Database, log.Named("database"))
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	if err := store.InitSchema(context.Background()); err != nil {
		log.Fatal("failed to initialize database schema", zap.Error(err))
	}

	// --- Initialize RabbitMQ publisher (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:   cfg.RabbitMQ.URL,
			Queue: cfg.RabbitMQ.Queue,
		}, log.Named("rabbitmq"))
		if err != nil {
			log.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Info("RABBITMQ_URL not set, resource events disabled")
	}

	// --- Wiring ---
	resourceRepo := repositories.NewSQLResourceRepository(store)
	resourceService := services.NewResourceService(resourceRepo, publisher, log.Named("service"))
	app := server.New(cfg, resourceService, store, log)

	// --- Start HTTP Server ---
	go func() {
		log.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down server", zap.String("signal", sig.String()))

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error("error during Fiber shutdown", zap.Error(err))
	}

	log.Info("server gracefully stopped")
}
