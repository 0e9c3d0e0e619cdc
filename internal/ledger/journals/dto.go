package journals

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// LineInput describes one journal line for an entry creation request.
type LineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// CreateInput groups fields required to create a journal entry. Entries are
// created as drafts; posting is a separate, one-way transition.
type CreateInput struct {
	TenantID     uuid.UUID
	EntryDate    time.Time
	Description  string
	SourceModule string
	SourceID     uuid.UUID
	Lines        []LineInput
}

// Validate ensures the input satisfies the double-entry constraints: at
// least two lines, every line one-sided and non-negative, and total debit
// equal to total credit.
func (in CreateInput) Validate() error {
	if in.TenantID == uuid.Nil {
		return errors.New("ledger: tenant required")
	}
	if in.EntryDate.IsZero() {
		return errors.New("ledger: entry date required")
	}
	if len(in.Lines) < 2 {
		return ledger.ErrTooFewLines
	}
	debit, credit := decimal.Zero, decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return fmt.Errorf("ledger: line %d missing account code", idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("ledger: line %d negative amount", idx)
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return fmt.Errorf("ledger: line %d must carry exactly one of debit or credit", idx)
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return ledger.ErrUnbalanced
	}
	return nil
}
