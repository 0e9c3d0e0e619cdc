package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
	"github.com/pharmeo/pharmeo/internal/platform/db"
)

// ListFilter narrows an entry listing. Zero fields mean no restriction.
type ListFilter struct {
	Status ledger.EntryStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

// RepositoryPort abstracts repository behaviour for the service layer; tests
// provide in-memory implementations.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetEntry(ctx context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]ledger.JournalEntry, error)
}

// TxRepository exposes the operations available inside one transaction.
type TxRepository interface {
	NextEntryNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	InsertEntry(ctx context.Context, in CreateInput, number string) (ledger.JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []LineInput) error
	LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error
	GetEntryForUpdate(ctx context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error)
	GetLines(ctx context.Context, entryID int64) ([]ledger.JournalLine, error)
	PostableCodes(ctx context.Context, tenantID uuid.UUID) (map[string]bool, error)
	MarkPosted(ctx context.Context, entryID int64, at time.Time) error
}

// Repository persists journal entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes fn within a repeatable-read transaction. Posting is
// serialized per tenant by the entry row lock taken inside fn.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger: journal repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const entryColumns = `id, tenant_id, entry_number, entry_date, description, source_module, source_id, status, posted_at, created_at, updated_at`

// GetEntry fetches one entry with its lines, without locking.
func (r *Repository) GetEntry(ctx context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE tenant_id=$1 AND id=$2`, tenantID, entryID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.JournalEntry{}, ledger.ErrEntryNotFound
		}
		return ledger.JournalEntry{}, err
	}
	lines, err := scanLines(ctx, r.pool, entryID)
	if err != nil {
		return ledger.JournalEntry{}, err
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries returns the tenant's entries matching the filter, newest
// first. Lines are not loaded; callers needing them fetch per entry.
func (r *Repository) ListEntries(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]ledger.JournalEntry, error) {
	sql := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id=$1`
	args := []any{tenantID}
	if f.Status != "" {
		args = append(args, f.Status)
		sql += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		sql += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sql += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY entry_date DESC, entry_number DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []ledger.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (ledger.JournalEntry, error) {
	var e ledger.JournalEntry
	err := row.Scan(&e.ID, &e.TenantID, &e.EntryNumber, &e.EntryDate, &e.Description, &e.SourceModule, &e.SourceID, &e.Status, &e.PostedAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanLines(ctx context.Context, q querier, entryID int64) ([]ledger.JournalLine, error) {
	rows, err := q.Query(ctx, `SELECT id, entry_id, account_code, debit::text, credit::text, COALESCE(description,'')
FROM journal_lines WHERE entry_id=$1 ORDER BY id`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []ledger.JournalLine
	for rows.Next() {
		var line ledger.JournalLine
		var debit, credit string
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountCode, &debit, &credit, &line.Description); err != nil {
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

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) NextEntryNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var last int64
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_sequences (tenant_id, last_number) VALUES ($1, 1)
ON CONFLICT (tenant_id) DO UPDATE SET last_number = journal_sequences.last_number + 1
RETURNING last_number`, tenantID).Scan(&last)
	if err != nil {
		return "", err
	}
	// Zero padding keeps lexical order equal to assignment order, which the
	// general ledger relies on for same-date tie-breaks.
	return fmt.Sprintf("JE-%08d", last), nil
}

func (r *txRepository) InsertEntry(ctx context.Context, in CreateInput, number string) (ledger.JournalEntry, error) {
	entry := ledger.JournalEntry{
		TenantID:     in.TenantID,
		EntryNumber:  number,
		EntryDate:    in.EntryDate,
		Description:  in.Description,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Status:       ledger.EntryStatusDraft,
	}
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (tenant_id, entry_number, entry_date, description, source_module, source_id, status)
VALUES ($1,$2,$3,$4,$5,$6,'DRAFT') RETURNING id, created_at, updated_at`,
		in.TenantID, number, in.EntryDate, in.Description, in.SourceModule, in.SourceID).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return ledger.JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []LineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_code, debit, credit, description)
VALUES ($1,$2,$3,$4,$5)`, entryID, line.AccountCode, line.Debit.String(), line.Credit.String(), line.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO source_links (module, ref_id, entry_id) VALUES ($1,$2,$3)`, module, ref, entryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_source_links" {
			return ledger.ErrSourceAlreadyLinked
		}
		return err
	}
	return nil
}

func (r *txRepository) GetEntryForUpdate(ctx context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error) {
	var e ledger.JournalEntry
	err := r.tx.QueryRow(ctx, `SELECT id, tenant_id, entry_number, entry_date, description, source_module, source_id, status, posted_at, created_at, updated_at
FROM journal_entries WHERE tenant_id=$1 AND id=$2 FOR UPDATE`, tenantID, entryID).
		Scan(&e.ID, &e.TenantID, &e.EntryNumber, &e.EntryDate, &e.Description, &e.SourceModule, &e.SourceID, &e.Status, &e.PostedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.JournalEntry{}, ledger.ErrEntryNotFound
		}
		return ledger.JournalEntry{}, err
	}
	return e, nil
}

func (r *txRepository) GetLines(ctx context.Context, entryID int64) ([]ledger.JournalLine, error) {
	return scanLines(ctx, r.tx, entryID)
}

func (r *txRepository) PostableCodes(ctx context.Context, tenantID uuid.UUID) (map[string]bool, error) {
	rows, err := r.tx.Query(ctx, `SELECT code FROM accounts WHERE tenant_id=$1 AND is_detail AND is_active`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes[code] = true
	}
	return codes, rows.Err()
}

func (r *txRepository) MarkPosted(ctx context.Context, entryID int64, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET status='POSTED', posted_at=$2, updated_at=NOW()
WHERE id=$1 AND status='DRAFT'`, entryID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrInvalidStatus
	}
	return nil
}
