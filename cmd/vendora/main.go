package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vendora/vendora/internal/app"
	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/observability"
	"github.com/vendora/vendora/internal/orders"
	"github.com/vendora/vendora/internal/platform/cache"
	"github.com/vendora/vendora/internal/platform/db"
	"github.com/vendora/vendora/internal/products"
	"github.com/vendora/vendora/internal/shared"
	"github.com/vendora/vendora/internal/users"
	"github.com/vendora/vendora/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, owner lookups go straight to postgres", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, issuer)
	authHandler := auth.NewHandler(logger, authService, cfg.TokenTTL)
	authMiddleware := &auth.Middleware{Issuer: issuer, Logger: logger}

	auditLogger := shared.NewAuditLogger(dbpool)

	usersRepo := users.NewRepository(dbpool)
	overrideStore := authz.NewRepository(dbpool)
	resolver := authz.NewResolver(overrideStore, usersRepo)
	gate := authz.NewGate(resolver, metrics)

	usersService := users.NewService(usersRepo, resolver, auditLogger, logger)
	usersHandler := users.NewHandler(logger, usersService, resolver)

	ordersRepo := orders.NewRepository(dbpool)
	var ownerSource authz.OwnerInfoSource
	if redisClient != nil {
		ownerSource = orders.NewOwnerCache(redisClient, ordersRepo, cfg.OwnerCacheTTL)
	}
	ordersService := orders.NewService(ordersRepo, gate, ownerSource, auditLogger, logger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(productsRepo, gate, logger)
	productsHandler := products.NewHandler(logger, productsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthMiddleware:  authMiddleware,
		AuthHandler:     authHandler,
		OrdersHandler:   ordersHandler,
		ProductsHandler: productsHandler,
		UsersHandler:    usersHandler,
		JobsHandler:     jobsHandler,
		Pool:            dbpool,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
