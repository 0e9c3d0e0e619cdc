package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// Repository reads the tenant-scoped chart of accounts. The chart is
// populated by the onboarding process; no mutation happens here.
type Repository interface {
	ListDetail(ctx context.Context, tenantID uuid.UUID) ([]ledger.Account, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (ledger.Account, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed chart of accounts reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, tenant_id, code, name, class, normal_balance, is_detail, is_active, created_at, updated_at`

func (r *repository) ListDetail(ctx context.Context, tenantID uuid.UUID) ([]ledger.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts
WHERE tenant_id=$1 AND is_detail AND is_active ORDER BY code`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []ledger.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (ledger.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
WHERE tenant_id=$1 AND code=$2`, tenantID, code)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Account{}, ledger.ErrAccountNotFound
		}
		return ledger.Account{}, err
	}
	return a, nil
}

func scanAccount(row pgx.Row) (ledger.Account, error) {
	var a ledger.Account
	err := row.Scan(&a.ID, &a.TenantID, &a.Code, &a.Name, &a.Class, &a.NormalBalance, &a.IsDetail, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
