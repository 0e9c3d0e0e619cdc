package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pharmeo/pharmeo/internal/app"
	"github.com/pharmeo/pharmeo/internal/ledger/accounts"
	ledgerhttp "github.com/pharmeo/pharmeo/internal/ledger/http"
	"github.com/pharmeo/pharmeo/internal/ledger/journals"
	"github.com/pharmeo/pharmeo/internal/ledger/reports"
	"github.com/pharmeo/pharmeo/internal/ledger/tax"
	"github.com/pharmeo/pharmeo/internal/platform/cache"
	"github.com/pharmeo/pharmeo/internal/platform/db"
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

	// Reports degrade to direct computation without redis, so a cache
	// outage only costs latency.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("connect redis", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	accountSvc := accounts.NewService(accounts.NewRepository(dbpool))
	journalSvc := journals.NewService(journals.NewRepository(dbpool), reportCache)
	aggregator := reports.NewAggregator(reports.NewRepository(dbpool))
	vatReader := tax.NewRepository(dbpool)
	reportSvc := reports.NewService(accountSvc, aggregator, vatReader, reportCache)

	ledgerHandler := ledgerhttp.NewHandler(logger, journalSvc, reportSvc)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		LedgerHandler: ledgerHandler,
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
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
