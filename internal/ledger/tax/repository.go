package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Reader fetches the VAT entries for one tenant period. A period with no
// entries is not an error; the G50 builder renders zeros.
type Reader interface {
	ListForPeriod(ctx context.Context, tenantID uuid.UUID, year, month int) ([]Entry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed VAT reader.
func NewRepository(pool *pgxpool.Pool) Reader {
	return &repository{pool: pool}
}

func (r *repository) ListForPeriod(ctx context.Context, tenantID uuid.UUID, year, month int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tenant_id, period_year, period_month, tva_type,
amount_19::text, amount_9::text, status, COALESCE(reference,''), created_at, updated_at
FROM tax_entries WHERE tenant_id=$1 AND period_year=$2 AND period_month=$3`, tenantID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var a19, a9 string
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Year, &e.Month, &e.Type, &a19, &a9, &e.Status, &e.Reference, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if e.Amount19, err = decimal.NewFromString(a19); err != nil {
			return nil, err
		}
		if e.Amount9, err = decimal.NewFromString(a9); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
