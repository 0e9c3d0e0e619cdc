package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// BalanceSheetAssets carries the asset-side totals, each a debit-normal
// signed total over all history up to the as-of date.
type BalanceSheetAssets struct {
	FixedAssets decimal.Decimal `json:"fixed_assets"`
	Inventory   decimal.Decimal `json:"inventory"`
	Receivables decimal.Decimal `json:"receivables"`
	CashBank    decimal.Decimal `json:"cash_bank"`
	Total       decimal.Decimal `json:"total"`
}

// BalanceSheetLiabilities carries the financing side. Equity and payables are
// credit-normal: their debit-oriented signed totals come out negative and are
// negated here so liabilities present as positive figures.
type BalanceSheetLiabilities struct {
	Equity   decimal.Decimal `json:"equity"`
	Payables decimal.Decimal `json:"payables"`
	Total    decimal.Decimal `json:"total"`
}

// BalanceSheet is the as-of report. The accounting identity assets ==
// liabilities + equity is deliberately not asserted; a mismatch signals
// miscategorised accounts in the chart, which callers validate externally.
type BalanceSheet struct {
	Assets      BalanceSheetAssets      `json:"assets"`
	Liabilities BalanceSheetLiabilities `json:"liabilities"`
}

func sumPrefixes(set BalanceSet, prefixes ...string) decimal.Decimal {
	total := decimal.Zero
	for code, balance := range set {
		for _, prefix := range prefixes {
			if strings.HasPrefix(code, prefix) {
				total = total.Add(SignedTotal(balance, ledger.NormalDebit))
				break
			}
		}
	}
	return total
}

// BuildBalanceSheet derives the position from the cumulative balance set.
func BuildBalanceSheet(asOf BalanceSet) BalanceSheet {
	var bs BalanceSheet
	bs.Assets.FixedAssets = sumPrefixes(asOf, "2")
	bs.Assets.Inventory = sumPrefixes(asOf, "3")
	bs.Assets.Receivables = sumPrefixes(asOf, "411", "46")
	bs.Assets.CashBank = sumPrefixes(asOf, "5")
	bs.Assets.Total = bs.Assets.FixedAssets.
		Add(bs.Assets.Inventory).
		Add(bs.Assets.Receivables).
		Add(bs.Assets.CashBank)

	bs.Liabilities.Equity = sumPrefixes(asOf, "1").Neg()
	bs.Liabilities.Payables = sumPrefixes(asOf, "40", "43", "44").Neg()
	bs.Liabilities.Total = bs.Liabilities.Equity.Add(bs.Liabilities.Payables)
	return bs
}
