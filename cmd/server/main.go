package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/contactbook/backend/internal/config"
	"github.com/contactbook/backend/internal/handler"
	"github.com/contactbook/backend/internal/logging"
	"github.com/contactbook/backend/internal/metrics"
	"github.com/contactbook/backend/internal/repository"
	"github.com/contactbook/backend/internal/service"
	"github.com/contactbook/backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()

	var (
		db          repository.DB
		contactRepo repository.ContactRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := repository.NewMemoryContactRepository()
		db, contactRepo = mem, mem
		slog.Warn("using in-memory contact store; data is lost on restart")
	default:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		db, contactRepo = pool, repository.NewPgContactRepository(pool)
	}

	// 一覧キャッシュ（REDIS_URL 未設定なら無効）
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logging.Fatal("invalid REDIS_URL", "error", err)
		}
		rdb := redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable at startup; list cache will fall through", "error", err)
		}
		contactRepo = repository.NewCachedContactRepository(contactRepo, rdb, cfg.CachePrefix, cfg.ListCacheTTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	contactMetrics := metrics.NewContactMetrics(reg)

	validator := validation.New(cfg.Policy())
	contactService := service.NewContactService(contactRepo, validator, contactMetrics)

	router := handler.NewRouter(handler.RouterConfig{
		Base:           handler.New(db, cfg.ClientOrigin),
		Contacts:       handler.NewContactHandler(contactService),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.StoreDriver, "cache", cfg.RedisURL != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
