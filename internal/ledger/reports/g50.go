package reports

import (
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger/tax"
)

// TaxBucket splits one VAT direction by legal rate.
type TaxBucket struct {
	Rate19 decimal.Decimal `json:"rate_19"`
	Rate9  decimal.Decimal `json:"rate_9"`
	Total  decimal.Decimal `json:"total"`
}

// TaxSummary is the monthly G50 declaration figure. Exactly one of
// TVAADecaisser/CreditTVA is non-zero: a positive net is payable, a negative
// net carries forward as credit.
type TaxSummary struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Collectee     TaxBucket       `json:"tva_collectee"`
	Deductible    TaxBucket       `json:"tva_deductible"`
	Net           decimal.Decimal `json:"net"`
	TVAADecaisser decimal.Decimal `json:"tva_a_decaisser"`
	CreditTVA     decimal.Decimal `json:"credit_tva"`
}

// BuildTaxSummary folds the period's VAT entries into the declaration. A
// period with no entries yields all-zero figures, not an error.
func BuildTaxSummary(year, month int, entries []tax.Entry) TaxSummary {
	ts := TaxSummary{
		Year:  year,
		Month: month,
		Collectee: TaxBucket{
			Rate19: decimal.Zero,
			Rate9:  decimal.Zero,
		},
		Deductible: TaxBucket{
			Rate19: decimal.Zero,
			Rate9:  decimal.Zero,
		},
	}
	for _, e := range entries {
		switch e.Type {
		case tax.TypeCollectee:
			ts.Collectee.Rate19 = ts.Collectee.Rate19.Add(e.Amount19)
			ts.Collectee.Rate9 = ts.Collectee.Rate9.Add(e.Amount9)
		case tax.TypeDeductible:
			ts.Deductible.Rate19 = ts.Deductible.Rate19.Add(e.Amount19)
			ts.Deductible.Rate9 = ts.Deductible.Rate9.Add(e.Amount9)
		}
	}
	ts.Collectee.Total = ts.Collectee.Rate19.Add(ts.Collectee.Rate9)
	ts.Deductible.Total = ts.Deductible.Rate19.Add(ts.Deductible.Rate9)
	ts.Net = ts.Collectee.Total.Sub(ts.Deductible.Total)
	if ts.Net.IsPositive() {
		ts.TVAADecaisser = ts.Net
		ts.CreditTVA = decimal.Zero
	} else {
		ts.TVAADecaisser = decimal.Zero
		ts.CreditTVA = ts.Net.Abs()
	}
	return ts
}
