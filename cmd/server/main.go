package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/homelist/homelist-api/internal/config"
	"github.com/homelist/homelist-api/internal/database"
	"github.com/homelist/homelist-api/internal/handler"
	"github.com/homelist/homelist-api/internal/logger"
	"github.com/homelist/homelist-api/internal/metrics"
	"github.com/homelist/homelist-api/internal/middleware"
	"github.com/homelist/homelist-api/internal/queue"
	"github.com/homelist/homelist-api/internal/repository"
	"github.com/homelist/homelist-api/internal/router"
	"github.com/homelist/homelist-api/internal/service"
	"github.com/homelist/homelist-api/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if cfg.MigrateOnStart {
		if err := database.RunMigrations(dsn); err != nil {
			return err
		}
		slog.Info("database migrations applied")
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	users := repository.NewUserRepo(db)
	homes := repository.NewHomeRepo(db)
	messages := repository.NewMessageRepo(db)
	tokens := utils.NewSessionTokens(cfg.JWTSecret, cfg.TokenTTL)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	qcfg := config.LoadQueueConfig()
	var publisher service.InquiryPublisher
	if qcfg.Enabled {
		publisher = queue.NewPublisher(qcfg.URL, qcfg.InquiryQueue)
		if qcfg.ConsumerEnabled {
			go func() {
				if err := queue.StartInquiryConsumer(ctx, qcfg.URL, qcfg.InquiryQueue, qcfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
					slog.Error("inquiry consumer stopped", "error", err)
				}
			}()
		}
	}

	auth := service.NewAuthService(users, tokens, cfg.ProductKeySecret, cfg.BcryptCost, rec)
	catalog := service.NewCatalogService(homes, users, cache)
	messaging := service.NewMessagingService(homes, messages, publisher, rec)
	guard := middleware.NewGuard(users, rec)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLog())
	e.Use(metrics.Middleware(rec))
	e.Use(middleware.Identity(tokens))

	router.RegisterRoutes(e, db, metrics.Handler(reg))
	router.RegisterAuth(e, handler.NewAuthHandler(auth), guard, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterHomes(e, handler.NewHomeHandler(catalog, messaging), guard, cache.Middleware())

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
