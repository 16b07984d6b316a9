package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/scatch/internal/config"
	"github.com/Skotchmaster/scatch/internal/es"
	"github.com/Skotchmaster/scatch/internal/httpserver"
	"github.com/Skotchmaster/scatch/internal/logging"
	loggingmw "github.com/Skotchmaster/scatch/internal/middleware/logging"
	"github.com/Skotchmaster/scatch/internal/mykafka"
	"github.com/Skotchmaster/scatch/internal/repo"
	"github.com/Skotchmaster/scatch/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	r := repo.New(db)
	tokenSvc := &service.TokenService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	authSvc := &service.AuthService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	cartSvc := &service.CartService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &httpserver.AuthHandler{Svc: authSvc, Producer: producer},
		ShopHandler:    &httpserver.ShopHandler{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHandler{Svc: cartSvc, Producer: producer},
		ProductHandler: &httpserver.ProductHandler{Svc: catalogSvc, Producer: producer, ES: esClient, Index: "products"},
		SearchHandler:  &httpserver.SearchHandler{ES: esClient, Index: "products"},
		Auth:           &httpserver.AuthMiddleware{Tokens: tokenSvc},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "addr", configuration.HTTP_ADDR)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
