package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// Repository is the pgx-backed LineReader. Reporting never writes through
// this adapter.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the journal store adapter.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// QueryPostedLines returns posted journal lines for the tenant matching the
// query, ordered by (entry_date, entry_number, line id).
func (r *Repository) QueryPostedLines(ctx context.Context, tenantID uuid.UUID, q LineQuery) ([]ledger.PostedLine, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT l.account_code, l.debit::text, l.credit::text, e.entry_date, e.entry_number, COALESCE(l.description,'')
FROM journal_lines l
JOIN journal_entries e ON e.id = l.entry_id
WHERE e.tenant_id = $1 AND e.status = 'POSTED'`)
	args := []any{tenantID}
	next := func() string {
		return fmt.Sprintf("$%d", len(args)+1)
	}
	if q.AccountCode != "" {
		sb.WriteString(" AND l.account_code = " + next())
		args = append(args, q.AccountCode)
	}
	if q.AccountPrefix != "" {
		sb.WriteString(" AND l.account_code LIKE " + next())
		args = append(args, q.AccountPrefix+"%")
	}
	if q.From != nil {
		sb.WriteString(" AND e.entry_date >= " + next())
		args = append(args, *q.From)
	}
	if q.To != nil {
		sb.WriteString(" AND e.entry_date <= " + next())
		args = append(args, *q.To)
	}
	if q.Before != nil {
		sb.WriteString(" AND e.entry_date < " + next())
		args = append(args, *q.Before)
	}
	sb.WriteString(" ORDER BY e.entry_date, e.entry_number, l.id")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []ledger.PostedLine
	for rows.Next() {
		var line ledger.PostedLine
		var debit, credit string
		if err := rows.Scan(&line.AccountCode, &debit, &credit, &line.EntryDate, &line.EntryNumber, &line.Description); err != nil {
			return nil, err
		}
		if line.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if line.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
