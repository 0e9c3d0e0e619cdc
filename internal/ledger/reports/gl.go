package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// GeneralLedgerRow is one posted line in the account's register with the
// balance after applying it.
type GeneralLedgerRow struct {
	EntryDate   time.Time       `json:"entry_date"`
	EntryNumber string          `json:"entry_number"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// GeneralLedger is the chronological register for a single account.
// TotalDebit/TotalCredit are unsigned column sums over the period's rows.
type GeneralLedger struct {
	AccountCode    string             `json:"account_code"`
	AccountName    string             `json:"account_name"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	Rows           []GeneralLedgerRow `json:"rows"`
	TotalDebit     decimal.Decimal    `json:"total_debit"`
	TotalCredit    decimal.Decimal    `json:"total_credit"`
	ClosingBalance decimal.Decimal    `json:"closing_balance"`
}

// BuildGeneralLedger folds the period's lines over the opening balance in
// chronological order. Same-date lines are ordered by entry number, which is
// assigned monotonically per tenant, so the register is reproducible.
func BuildGeneralLedger(account ledger.Account, opening Balance, lines []ledger.PostedLine) GeneralLedger {
	gl := GeneralLedger{
		AccountCode:    account.Code,
		AccountName:    account.Name,
		OpeningBalance: SignedTotal(opening, account.NormalBalance),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	sorted := make([]ledger.PostedLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EntryDate.Equal(sorted[j].EntryDate) {
			return sorted[i].EntryDate.Before(sorted[j].EntryDate)
		}
		return sorted[i].EntryNumber < sorted[j].EntryNumber
	})

	running := gl.OpeningBalance
	for _, line := range sorted {
		running = running.Add(SignedTotal(Balance{Debit: line.Debit, Credit: line.Credit}, account.NormalBalance))
		gl.Rows = append(gl.Rows, GeneralLedgerRow{
			EntryDate:   line.EntryDate,
			EntryNumber: line.EntryNumber,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Balance:     running,
		})
		gl.TotalDebit = gl.TotalDebit.Add(line.Debit)
		gl.TotalCredit = gl.TotalCredit.Add(line.Credit)
	}
	gl.ClosingBalance = running
	return gl
}
