package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/luisfernandomp/ApiDataDriven/internal/config"
	"github.com/luisfernandomp/ApiDataDriven/internal/db"
	"github.com/luisfernandomp/ApiDataDriven/internal/es"
	"github.com/luisfernandomp/ApiDataDriven/internal/httpserver"
	"github.com/luisfernandomp/ApiDataDriven/internal/logging"
	"github.com/luisfernandomp/ApiDataDriven/internal/middleware/loggingmw"
	"github.com/luisfernandomp/ApiDataDriven/internal/mykafka"
	"github.com/luisfernandomp/ApiDataDriven/internal/repo"
	"github.com/luisfernandomp/ApiDataDriven/internal/service"
)

const productIndex = "product"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	database, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
	} else {
		log.Println("KAFKA_BROKERS not set, domain events disabled")
	}

	gormRepo := &repo.GormRepo{DB: database}

	catalogSvc := &service.CatalogService{Repo: gormRepo}
	authSvc := &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret}
	if producer != nil {
		catalogSvc.Publisher = producer
		authSvc.Publisher = producer
	}

	deps := &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		UserHandler:    &httpserver.UserHTTP{Svc: authSvc},
		JWTSecret:      cfg.JWTSecret,
	}

	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		catalogSvc.Indexer = &es.Indexer{ES: esClient, Index: productIndex}
		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient, Index: productIndex}
	} else {
		log.Println("ES_URL not set, product search disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(middleware.Gzip())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
