package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// ReportInvalidator drops derived report state after posting activity. The
// redis report cache satisfies this; a nil invalidator is a no-op.
type ReportInvalidator interface {
	Bump(ctx context.Context) error
}

// Service coordinates the journal entry lifecycle: create draft, then post
// exactly once. Posted entries are immutable.
type Service struct {
	repo  RepositoryPort
	cache ReportInvalidator
	now   func() time.Time
}

// NewService constructs the journal service.
func NewService(repo RepositoryPort, cache ReportInvalidator) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateEntry validates and persists a new draft entry with a
// server-assigned sequential entry number.
func (s *Service) CreateEntry(ctx context.Context, in CreateInput) (ledger.JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return ledger.JournalEntry{}, err
	}
	var entry ledger.JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextEntryNumber(ctx, in.TenantID)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertEntry(ctx, in, number)
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inserted.ID, in.Lines); err != nil {
			return err
		}
		if in.SourceModule != "" && in.SourceID != uuid.Nil {
			if err := tx.LinkSource(ctx, in.SourceModule, in.SourceID, inserted.ID); err != nil {
				return err
			}
		}
		entry = inserted
		return nil
	})
	if err != nil {
		return ledger.JournalEntry{}, err
	}
	return entry, nil
}

// PostEntry transitions a draft entry to POSTED. The double-entry invariant
// is re-checked here against the stored lines; this is the enforcement point
// the reporting core relies on.
func (s *Service) PostEntry(ctx context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error) {
	if entryID == 0 {
		return ledger.JournalEntry{}, errors.New("ledger: entry id required")
	}
	var entry ledger.JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if current.Status != ledger.EntryStatusDraft {
			return ledger.ErrInvalidStatus
		}
		lines, err := tx.GetLines(ctx, current.ID)
		if err != nil {
			return err
		}
		if err := checkBalanced(lines); err != nil {
			return err
		}
		postable, err := tx.PostableCodes(ctx, tenantID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if !postable[line.AccountCode] {
				return fmt.Errorf("%w: %s", ledger.ErrAccountNotPostable, line.AccountCode)
			}
		}
		at := s.now()
		if err := tx.MarkPosted(ctx, current.ID, at); err != nil {
			return err
		}
		current.Status = ledger.EntryStatusPosted
		current.PostedAt = &at
		current.Lines = lines
		entry = current
		return nil
	})
	if err != nil {
		return ledger.JournalEntry{}, err
	}
	if s.cache != nil {
		// Best effort: a failed bump only means reports may serve a stale
		// cache until its TTL expires.
		_ = s.cache.Bump(ctx)
	}
	return entry, nil
}

// GetEntry returns one entry with its lines.
func (s *Service) GetEntry(ctx context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error) {
	if entryID == 0 {
		return ledger.JournalEntry{}, ledger.ErrEntryNotFound
	}
	return s.repo.GetEntry(ctx, tenantID, entryID)
}

// ListEntries returns the tenant's entries matching the filter, newest
// first.
func (s *Service) ListEntries(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]ledger.JournalEntry, error) {
	return s.repo.ListEntries(ctx, tenantID, f)
}

func checkBalanced(lines []ledger.JournalLine) error {
	if len(lines) < 2 {
		return ledger.ErrTooFewLines
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, line := range lines {
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return fmt.Errorf("ledger: line %d must carry exactly one of debit or credit", line.ID)
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return ledger.ErrUnbalanced
	}
	return nil
}
