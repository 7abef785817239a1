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

	"github.com/tsena-shop/tsena/internal/app"
	"github.com/tsena-shop/tsena/internal/catalog/categories"
	"github.com/tsena-shop/tsena/internal/catalog/groups"
	"github.com/tsena-shop/tsena/internal/catalog/products"
	"github.com/tsena-shop/tsena/internal/catalog/watch"
	"github.com/tsena-shop/tsena/internal/customers"
	"github.com/tsena-shop/tsena/internal/ledger"
	"github.com/tsena-shop/tsena/internal/media"
	"github.com/tsena-shop/tsena/internal/platform/cache"
	"github.com/tsena-shop/tsena/internal/platform/db"
	"github.com/tsena-shop/tsena/internal/shared"
	"github.com/tsena-shop/tsena/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	mediaStore, err := media.NewDiskStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		logger.Error("init media store", slog.Any("error", err))
		os.Exit(1)
	}

	auditLogger := shared.NewAuditLogger(pool)
	watcher := watch.New(redisClient, logger)

	groupsRepo := groups.NewRepository(pool)
	groupsService := groups.NewService(groupsRepo, watcher, logger)
	groupsHandler := groups.NewHandler(logger, groupsService)

	categoriesRepo := categories.NewRepository(pool)
	categoriesService := categories.NewService(categoriesRepo, groupsRepo, watcher, logger)
	categoriesHandler := categories.NewHandler(logger, categoriesService)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo, groupsRepo, categoriesRepo, mediaStore, logger)
	productsHandler := products.NewHandler(logger, productsService)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, auditLogger, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, groupsRepo, categoriesRepo)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	watchHandler := watch.NewHandler(logger, watcher)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobsHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		GroupsHandler:     groupsHandler,
		CategoriesHandler: categoriesHandler,
		ProductsHandler:   productsHandler,
		LedgerHandler:     ledgerHandler,
		CustomersHandler:  customersHandler,
		WatchHandler:      watchHandler,
		JobsHandler:       jobsHandler,
		MediaRoot:         mediaStore.Root(),
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
