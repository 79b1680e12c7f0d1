package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/database"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/server"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/pkg/logger"
)

const probeTimeout = 5 * time.Second

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting product catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
	)

	// Initialize repositories
	productRepo, closer, err := openRepository(cfg.Database, log)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Initialize services
	productService := service.NewProductService(productRepo)

	// Create router
	r := server.NewRouter(productService, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openRepository builds the product repository for the configured driver.
// An unreachable database is logged and does not stop startup; requests
// fail individually until it comes back, and the first one to reach it
// creates the table.
func openRepository(cfg config.DatabaseConfig, log *slog.Logger) (repository.ProductRepository, io.Closer, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using in-memory product storage, data is lost on restart")
		return repository.NewInMemoryProductRepository(), nopCloser{}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := db.Probe(ctx); err != nil {
		log.Error("database connection failed, continuing without it", "error", err)
		log.Warn("products table will be created on first successful request")
		return repository.NewSQLProductRepository(db), db, nil
	}
	log.Info("database connection succeeded")

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("failed to create products table, retrying on first request", "error", err)
	} else {
		log.Info("database tables created")
	}

	return repository.NewSQLProductRepository(db), db, nil
}
