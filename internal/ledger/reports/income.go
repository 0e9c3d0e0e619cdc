package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// IncomeStatementRevenue groups the revenue buckets of the SCF chart.
type IncomeStatementRevenue struct {
	SalesMedications  decimal.Decimal `json:"sales_medications"`
	SalesParapharmacy decimal.Decimal `json:"sales_parapharmacy"`
	OtherRevenue      decimal.Decimal `json:"other_revenue"`
	FinancialIncome   decimal.Decimal `json:"financial_income"`
	Total             decimal.Decimal `json:"total"`
}

// IncomeStatementExpenses groups the expense buckets of the SCF chart.
// IncomeTax is reported separately because it enters the cascade after the
// financial result.
type IncomeStatementExpenses struct {
	Purchases        decimal.Decimal `json:"purchases"`
	StockVariation   decimal.Decimal `json:"stock_variation"`
	ExternalServices decimal.Decimal `json:"external_services"`
	Personnel        decimal.Decimal `json:"personnel"`
	Taxes            decimal.Decimal `json:"taxes"`
	Depreciation     decimal.Decimal `json:"depreciation"`
	FinancialCharges decimal.Decimal `json:"financial_charges"`
	OtherExpenses    decimal.Decimal `json:"other_expenses"`
	Total            decimal.Decimal `json:"total"`
}

// IncomeStatement is the rendered report with its derived subtotals.
type IncomeStatement struct {
	Revenue            IncomeStatementRevenue  `json:"revenue"`
	Expenses           IncomeStatementExpenses `json:"expenses"`
	GrossMargin        decimal.Decimal         `json:"gross_margin"`
	OperatingResult    decimal.Decimal         `json:"operating_result"`
	NetResultBeforeTax decimal.Decimal         `json:"net_result_before_tax"`
	IncomeTax          decimal.Decimal         `json:"income_tax"`
	NetResult          decimal.Decimal         `json:"net_result"`
}

// incomeBucket names one statement line and the code prefixes feeding it.
type incomeBucket struct {
	name     string
	prefixes []string
	normal   ledger.NormalBalance
}

const (
	bucketSalesMedications  = "sales_medications"
	bucketSalesParapharmacy = "sales_parapharmacy"
	bucketOtherRevenue      = "other_revenue"
	bucketFinancialIncome   = "financial_income"
	bucketPurchases         = "purchases"
	bucketStockVariation    = "stock_variation"
	bucketExternalServices  = "external_services"
	bucketPersonnel         = "personnel"
	bucketTaxes             = "taxes"
	bucketDepreciation      = "depreciation"
	bucketFinancialCharges  = "financial_charges"
	bucketOtherExpenses     = "other_expenses"
	bucketIncomeTax         = "income_tax"
)

var incomeBuckets = []incomeBucket{
	{bucketSalesMedications, []string{"7001"}, ledger.NormalCredit},
	{bucketSalesParapharmacy, []string{"7002"}, ledger.NormalCredit},
	{bucketOtherRevenue, []string{"75"}, ledger.NormalCredit},
	{bucketFinancialIncome, []string{"76"}, ledger.NormalCredit},
	{bucketPurchases, []string{"600"}, ledger.NormalDebit},
	{bucketStockVariation, []string{"603"}, ledger.NormalDebit},
	{bucketExternalServices, []string{"61", "62"}, ledger.NormalDebit},
	{bucketPersonnel, []string{"63"}, ledger.NormalDebit},
	{bucketTaxes, []string{"64"}, ledger.NormalDebit},
	{bucketDepreciation, []string{"68"}, ledger.NormalDebit},
	{bucketFinancialCharges, []string{"66"}, ledger.NormalDebit},
	{bucketOtherExpenses, []string{"65"}, ledger.NormalDebit},
	{bucketIncomeTax, []string{"695"}, ledger.NormalDebit},
}

// classifyIncomeAccount resolves the bucket for an account code. When a code
// matches several configured prefixes the longest prefix wins, so "695" beats
// a hypothetical "69" and "603" beats "60". Ties cannot occur because bucket
// prefixes are unique.
func classifyIncomeAccount(code string) (string, ledger.NormalBalance, bool) {
	bestLen := 0
	var bestName string
	var bestNormal ledger.NormalBalance
	for _, bucket := range incomeBuckets {
		for _, prefix := range bucket.prefixes {
			if strings.HasPrefix(code, prefix) && len(prefix) > bestLen {
				bestLen = len(prefix)
				bestName = bucket.name
				bestNormal = bucket.normal
			}
		}
	}
	return bestName, bestNormal, bestLen > 0
}

// BuildIncomeStatement computes the statement cascade from the period's
// movements. Each bucket is the signed total of the accounts it matched; the
// subtotals follow in order: gross margin, operating result, result before
// tax, net result.
func BuildIncomeStatement(period BalanceSet) IncomeStatement {
	sums := make(map[string]decimal.Decimal, len(incomeBuckets))
	for _, bucket := range incomeBuckets {
		sums[bucket.name] = decimal.Zero
	}
	for code, balance := range period {
		name, normal, ok := classifyIncomeAccount(code)
		if !ok {
			continue
		}
		sums[name] = sums[name].Add(SignedTotal(balance, normal))
	}

	var st IncomeStatement
	st.Revenue = IncomeStatementRevenue{
		SalesMedications:  sums[bucketSalesMedications],
		SalesParapharmacy: sums[bucketSalesParapharmacy],
		OtherRevenue:      sums[bucketOtherRevenue],
		FinancialIncome:   sums[bucketFinancialIncome],
	}
	st.Revenue.Total = st.Revenue.SalesMedications.
		Add(st.Revenue.SalesParapharmacy).
		Add(st.Revenue.OtherRevenue).
		Add(st.Revenue.FinancialIncome)

	st.Expenses = IncomeStatementExpenses{
		Purchases:        sums[bucketPurchases],
		StockVariation:   sums[bucketStockVariation],
		ExternalServices: sums[bucketExternalServices],
		Personnel:        sums[bucketPersonnel],
		Taxes:            sums[bucketTaxes],
		Depreciation:     sums[bucketDepreciation],
		FinancialCharges: sums[bucketFinancialCharges],
		OtherExpenses:    sums[bucketOtherExpenses],
	}
	st.Expenses.Total = st.Expenses.Purchases.
		Add(st.Expenses.StockVariation).
		Add(st.Expenses.ExternalServices).
		Add(st.Expenses.Personnel).
		Add(st.Expenses.Taxes).
		Add(st.Expenses.Depreciation).
		Add(st.Expenses.FinancialCharges).
		Add(st.Expenses.OtherExpenses)

	st.IncomeTax = sums[bucketIncomeTax]
	st.GrossMargin = st.Revenue.Total.
		Sub(st.Expenses.Purchases).
		Sub(st.Expenses.StockVariation)
	st.OperatingResult = st.GrossMargin.
		Sub(st.Expenses.ExternalServices).
		Sub(st.Expenses.Personnel).
		Sub(st.Expenses.Taxes).
		Sub(st.Expenses.Depreciation).
		Sub(st.Expenses.OtherExpenses)
	st.NetResultBeforeTax = st.OperatingResult.
		Add(st.Revenue.FinancialIncome).
		Sub(st.Expenses.FinancialCharges)
	st.NetResult = st.NetResultBeforeTax.Sub(st.IncomeTax)
	return st
}
