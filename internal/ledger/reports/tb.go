package reports

import (
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// TrialBalanceRow is one detail account's opening, period, and closing
// debit/credit columns. Closing columns are column-wise sums, never
// sign-netted: a trial balance displays raw debits and credits.
type TrialBalanceRow struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	OpeningDebit  decimal.Decimal `json:"opening_debit"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
	PeriodDebit   decimal.Decimal `json:"period_debit"`
	PeriodCredit  decimal.Decimal `json:"period_credit"`
	ClosingDebit  decimal.Decimal `json:"closing_debit"`
	ClosingCredit decimal.Decimal `json:"closing_credit"`
}

// TrialBalanceTotals sums every column across the included rows.
type TrialBalanceTotals struct {
	OpeningDebit  decimal.Decimal `json:"opening_debit"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
	PeriodDebit   decimal.Decimal `json:"period_debit"`
	PeriodCredit  decimal.Decimal `json:"period_credit"`
	ClosingDebit  decimal.Decimal `json:"closing_debit"`
	ClosingCredit decimal.Decimal `json:"closing_credit"`
}

// TrialBalance is the rendered report. Balanced is advisory: when false, the
// posted data violates double-entry somewhere upstream; the report is still
// returned so the discrepancy can be inspected.
type TrialBalance struct {
	Rows     []TrialBalanceRow  `json:"rows"`
	Totals   TrialBalanceTotals `json:"totals"`
	Balanced bool               `json:"balanced"`
}

// BuildTrialBalance assembles rows for every detail account from the opening
// and period balance sets. Accounts where all four opening/period cells are
// zero are omitted. The accounts slice must already be ordered by code, which
// the chart of accounts guarantees.
func BuildTrialBalance(accounts []ledger.Account, opening, period BalanceSet) TrialBalance {
	tb := TrialBalance{
		Totals: TrialBalanceTotals{
			OpeningDebit:  decimal.Zero,
			OpeningCredit: decimal.Zero,
			PeriodDebit:   decimal.Zero,
			PeriodCredit:  decimal.Zero,
			ClosingDebit:  decimal.Zero,
			ClosingCredit: decimal.Zero,
		},
	}
	for _, acc := range accounts {
		open := opening.Get(acc.Code)
		move := period.Get(acc.Code)
		if open.IsZero() && move.IsZero() {
			continue
		}
		closing := open.Add(move)
		row := TrialBalanceRow{
			Code:          acc.Code,
			Name:          acc.Name,
			OpeningDebit:  open.Debit,
			OpeningCredit: open.Credit,
			PeriodDebit:   move.Debit,
			PeriodCredit:  move.Credit,
			ClosingDebit:  closing.Debit,
			ClosingCredit: closing.Credit,
		}
		tb.Rows = append(tb.Rows, row)
		tb.Totals.OpeningDebit = tb.Totals.OpeningDebit.Add(row.OpeningDebit)
		tb.Totals.OpeningCredit = tb.Totals.OpeningCredit.Add(row.OpeningCredit)
		tb.Totals.PeriodDebit = tb.Totals.PeriodDebit.Add(row.PeriodDebit)
		tb.Totals.PeriodCredit = tb.Totals.PeriodCredit.Add(row.PeriodCredit)
		tb.Totals.ClosingDebit = tb.Totals.ClosingDebit.Add(row.ClosingDebit)
		tb.Totals.ClosingCredit = tb.Totals.ClosingCredit.Add(row.ClosingCredit)
	}
	tb.Balanced = tb.Totals.ClosingDebit.Equal(tb.Totals.ClosingCredit)
	return tb
}
