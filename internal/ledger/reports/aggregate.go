// Package reports derives financial statements from posted journal lines.
// Every builder is a pure function of its inputs; the Aggregator is the only
// piece that touches the journal store, and it only reads.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// ErrStoreUnavailable wraps journal store failures so callers can tell an
// infrastructure outage apart from bad input. An empty report that looks
// valid is worse than failing loudly, so store errors are never swallowed.
var ErrStoreUnavailable = errors.New("reports: journal store unavailable")

// LineQuery filters posted journal lines. From/To are inclusive calendar
// dates; Before is an exclusive upper bound used for opening balances. The
// same boundary convention is shared by every builder so cross-report totals
// agree.
type LineQuery struct {
	AccountCode   string
	AccountPrefix string
	From          *time.Time
	To            *time.Time
	Before        *time.Time
}

// LineReader is the journal store port. Implementations return only POSTED
// lines, ordered by (entry_date, entry_number).
type LineReader interface {
	QueryPostedLines(ctx context.Context, tenantID uuid.UUID, q LineQuery) ([]ledger.PostedLine, error)
}

// Balance carries the raw debit and credit sums for one account. The two
// sides are never netted here; netting is presentation and goes through
// SignedTotal.
type Balance struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Add returns the column-wise sum of two balances.
func (b Balance) Add(o Balance) Balance {
	return Balance{Debit: b.Debit.Add(o.Debit), Credit: b.Credit.Add(o.Credit)}
}

// IsZero reports whether both sides are zero.
func (b Balance) IsZero() bool {
	return b.Debit.IsZero() && b.Credit.IsZero()
}

// BalanceSet maps account code to its aggregated balance. Missing codes read
// as zero balances.
type BalanceSet map[string]Balance

// Get returns the balance for code, zero-valued when absent.
func (s BalanceSet) Get(code string) Balance {
	return s[code]
}

// Aggregate groups posted lines by account code, summing debit and credit
// independently.
func Aggregate(lines []ledger.PostedLine) BalanceSet {
	set := make(BalanceSet, len(lines))
	for _, line := range lines {
		b := set[line.AccountCode]
		b.Debit = b.Debit.Add(line.Debit)
		b.Credit = b.Credit.Add(line.Credit)
		set[line.AccountCode] = b
	}
	return set
}

// SignedTotal nets a balance according to the account's normal side. This is
// the single place sign convention is applied; builders must route through it
// rather than re-derive the netting.
func SignedTotal(b Balance, normal ledger.NormalBalance) decimal.Decimal {
	if normal == ledger.NormalCredit {
		return b.Credit.Sub(b.Debit)
	}
	return b.Debit.Sub(b.Credit)
}

// Aggregator computes opening and period balances from the journal store.
type Aggregator struct {
	lines LineReader
}

// NewAggregator constructs an Aggregator over the given store port.
func NewAggregator(lines LineReader) *Aggregator {
	return &Aggregator{lines: lines}
}

// OpeningBalances aggregates every posted line dated strictly before the
// given date, optionally restricted to an account code prefix.
func (a *Aggregator) OpeningBalances(ctx context.Context, tenantID uuid.UUID, prefix string, before time.Time) (BalanceSet, error) {
	lines, err := a.lines.QueryPostedLines(ctx, tenantID, LineQuery{AccountPrefix: prefix, Before: &before})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Aggregate(lines), nil
}

// PeriodMovements aggregates posted lines with from <= entry_date <= to,
// inclusive on both ends.
func (a *Aggregator) PeriodMovements(ctx context.Context, tenantID uuid.UUID, prefix string, from, to time.Time) (BalanceSet, error) {
	lines, err := a.lines.QueryPostedLines(ctx, tenantID, LineQuery{AccountPrefix: prefix, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Aggregate(lines), nil
}

// BalancesAsOf aggregates all history up to and including the given date.
// Used by the balance sheet, whose lower bound is unbounded.
func (a *Aggregator) BalancesAsOf(ctx context.Context, tenantID uuid.UUID, prefix string, asOf time.Time) (BalanceSet, error) {
	lines, err := a.lines.QueryPostedLines(ctx, tenantID, LineQuery{AccountPrefix: prefix, To: &asOf})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Aggregate(lines), nil
}

// AccountLines fetches the chronological register for one account within an
// inclusive date range. The store orders by (entry_date, entry_number); entry
// numbers are zero-padded per tenant so the lexical order is the posting
// order.
func (a *Aggregator) AccountLines(ctx context.Context, tenantID uuid.UUID, code string, from, to time.Time) ([]ledger.PostedLine, error) {
	lines, err := a.lines.QueryPostedLines(ctx, tenantID, LineQuery{AccountCode: code, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return lines, nil
}

// OpeningForAccount aggregates one account's history strictly before a date.
func (a *Aggregator) OpeningForAccount(ctx context.Context, tenantID uuid.UUID, code string, before time.Time) (Balance, error) {
	lines, err := a.lines.QueryPostedLines(ctx, tenantID, LineQuery{AccountCode: code, Before: &before})
	if err != nil {
		return Balance{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Aggregate(lines).Get(code), nil
}
