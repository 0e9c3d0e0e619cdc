package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmeo/pharmeo/internal/ledger/reports"
)

// ReportWarmupJob pre-computes the previous month's trial balance and G50
// for every active tenant so the first human request of the month hits a
// warm cache.
type ReportWarmupJob struct {
	Pool    *pgxpool.Pool
	Reports *reports.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportWarmupJob initialises the warm-up handler.
func NewReportWarmupJob(pool *pgxpool.Pool, reportSvc *reports.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Pool:    pool,
		Reports: reportSvc,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the warm-up for the payload's month.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Year == 0 || payload.Month == 0 {
		prev := j.clock().AddDate(0, -1, 0)
		payload.Year = prev.Year()
		payload.Month = int(prev.Month())
	}

	tenants, err := j.listTenants(ctx)
	if err != nil {
		return err
	}
	start := time.Date(payload.Year, time.Month(payload.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	for _, tenant := range tenants {
		for _, req := range []reports.Request{
			{TenantID: tenant, Type: reports.TypeTrialBalance, StartDate: &start, EndDate: &end},
			{TenantID: tenant, Type: reports.TypeG50, Year: payload.Year, Month: payload.Month},
		} {
			if _, err := j.Reports.GenerateReport(ctx, req); err != nil {
				// A single tenant failure must not starve the rest.
				j.Logger.Warn("report warmup",
					slog.String("tenant_id", tenant.String()),
					slog.String("report_type", string(req.Type)),
					slog.Any("error", err))
			}
		}
	}
	j.Logger.Info("report warmup completed",
		slog.Int("tenants", len(tenants)),
		slog.Int("year", payload.Year),
		slog.Int("month", payload.Month))
	return nil
}

func (j *ReportWarmupJob) listTenants(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := j.Pool.Query(ctx, `SELECT DISTINCT tenant_id FROM accounts WHERE is_active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tenants []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tenants = append(tenants, id)
	}
	return tenants, rows.Err()
}
