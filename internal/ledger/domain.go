// Package ledger holds the double-entry bookkeeping domain shared by the
// chart of accounts, journal, and reporting packages.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NormalBalance enumerates the side that increases an account.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// AccountClass is the single-digit SCF classification carried by every
// account code's first character.
type AccountClass int

const (
	ClassEquity      AccountClass = 1
	ClassFixedAssets AccountClass = 2
	ClassInventory   AccountClass = 3
	ClassThirdParty  AccountClass = 4
	ClassCash        AccountClass = 5
	ClassExpense     AccountClass = 6
	ClassRevenue     AccountClass = 7
)

// EntryStatus enumerates the journal entry lifecycle.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// Account models a chart of accounts node. Only detail accounts accept
// postings; header accounts exist for presentation grouping.
type Account struct {
	ID            int64
	TenantID      uuid.UUID
	Code          string
	Name          string
	Class         AccountClass
	NormalBalance NormalBalance
	IsDetail      bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// JournalEntry captures posting metadata. An entry transitions DRAFT to
// POSTED exactly once and is immutable thereafter; only posted entries are
// visible to reporting.
type JournalEntry struct {
	ID           int64
	TenantID     uuid.UUID
	EntryNumber  string
	EntryDate    time.Time
	Description  string
	Status       EntryStatus
	SourceModule string
	SourceID     uuid.UUID
	PostedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lines        []JournalLine
}

// JournalLine stores a debit or credit amount against one account. Exactly
// one of Debit/Credit is non-zero per line.
type JournalLine struct {
	ID          int64
	EntryID     int64
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// PostedLine is the read model served to reporting: one posted journal line
// joined with its entry's date and number.
type PostedLine struct {
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	EntryDate   time.Time       `json:"entry_date"`
	EntryNumber string          `json:"entry_number"`
	Description string          `json:"description"`
}

var (
	// ErrAccountNotFound indicates an account code that does not resolve in
	// the tenant's chart of accounts.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrEntryNotFound indicates a missing journal entry.
	ErrEntryNotFound = errors.New("ledger: journal entry not found")
	// ErrUnbalanced indicates total debit != total credit within one entry.
	ErrUnbalanced = errors.New("ledger: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("ledger: journal requires at least two lines")
	// ErrInvalidStatus indicates a lifecycle transition that cannot proceed.
	ErrInvalidStatus = errors.New("ledger: invalid status transition")
	// ErrAccountNotPostable indicates a line referencing a header or
	// inactive account.
	ErrAccountNotPostable = errors.New("ledger: account does not accept postings")
	// ErrSourceAlreadyLinked indicates an idempotency conflict on the
	// producer's source reference.
	ErrSourceAlreadyLinked = errors.New("ledger: source already linked")
)
