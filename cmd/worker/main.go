package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/pharmeo/pharmeo/internal/app"
	"github.com/pharmeo/pharmeo/internal/ledger/accounts"
	"github.com/pharmeo/pharmeo/internal/ledger/reports"
	"github.com/pharmeo/pharmeo/internal/ledger/tax"
	"github.com/pharmeo/pharmeo/internal/platform/cache"
	"github.com/pharmeo/pharmeo/internal/platform/db"
	"github.com/pharmeo/pharmeo/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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
	accountSvc := accounts.NewService(accounts.NewRepository(pool))
	aggregator := reports.NewAggregator(reports.NewRepository(pool))
	vatReader := tax.NewRepository(pool)
	reportSvc := reports.NewService(accountSvc, aggregator, vatReader, reportCache)

	warmup := jobs.NewReportWarmupJob(pool, reportSvc, logger)
	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmup.Handle},
		},
		Cron: []jobs.CronRegistration{
			// 02:00 UTC on the first of the month, right after the tax
			// subsystem finalises the previous period.
			{Spec: "0 2 1 * *", Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
