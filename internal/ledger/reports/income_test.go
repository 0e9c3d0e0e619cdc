package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

func TestBuildIncomeStatementCascade(t *testing.T) {
	period := Aggregate([]ledger.PostedLine{
		postedLine("7001", "0", "50000", "2025-01-10", "JE-00000001"),
		postedLine("7002", "0", "8000", "2025-01-11", "JE-00000002"),
		postedLine("758", "0", "1000", "2025-01-12", "JE-00000003"),
		postedLine("600100", "30000", "0", "2025-01-05", "JE-00000004"),
		postedLine("603", "2000", "0", "2025-01-31", "JE-00000005"),
		postedLine("613", "1500", "0", "2025-01-08", "JE-00000006"),
		postedLine("621", "2500", "0", "2025-01-09", "JE-00000007"),
		postedLine("631", "6000", "0", "2025-01-28", "JE-00000008"),
		postedLine("641", "700", "0", "2025-01-28", "JE-00000009"),
		postedLine("681", "1200", "0", "2025-01-31", "JE-00000010"),
		postedLine("656", "300", "0", "2025-01-20", "JE-00000011"),
		postedLine("695", "900", "0", "2025-01-31", "JE-00000012"),
	})

	st := BuildIncomeStatement(period)

	assert.True(t, st.Revenue.SalesMedications.Equal(dec("50000")))
	assert.True(t, st.Revenue.SalesParapharmacy.Equal(dec("8000")))
	assert.True(t, st.Revenue.OtherRevenue.Equal(dec("1000")))
	assert.True(t, st.Revenue.FinancialIncome.IsZero())
	assert.True(t, st.Revenue.Total.Equal(dec("59000")))

	assert.True(t, st.Expenses.Purchases.Equal(dec("30000")))
	assert.True(t, st.Expenses.StockVariation.Equal(dec("2000")))
	assert.True(t, st.Expenses.ExternalServices.Equal(dec("4000")), "61 and 62 feed one bucket")
	assert.True(t, st.Expenses.Personnel.Equal(dec("6000")))
	assert.True(t, st.Expenses.Taxes.Equal(dec("700")))
	assert.True(t, st.Expenses.Depreciation.Equal(dec("1200")))
	assert.True(t, st.Expenses.OtherExpenses.Equal(dec("300")))
	assert.True(t, st.Expenses.Total.Equal(dec("44200")))
	assert.True(t, st.IncomeTax.Equal(dec("900")))

	assert.True(t, st.GrossMargin.Equal(dec("27000")))
	assert.True(t, st.OperatingResult.Equal(dec("14800")))
	assert.True(t, st.NetResultBeforeTax.Equal(dec("14800")))
	assert.True(t, st.NetResult.Equal(dec("13900")))
	assert.True(t, st.NetResult.Equal(st.Revenue.Total.Sub(st.Expenses.Total).Sub(st.IncomeTax)))
}

func TestBuildIncomeStatementFinancialResult(t *testing.T) {
	period := Aggregate([]ledger.PostedLine{
		postedLine("7001", "0", "10000", "2025-01-10", "JE-00000001"),
		postedLine("768", "0", "500", "2025-01-15", "JE-00000002"),
		postedLine("661", "200", "0", "2025-01-20", "JE-00000003"),
	})

	st := BuildIncomeStatement(period)
	assert.True(t, st.Revenue.FinancialIncome.Equal(dec("500")))
	assert.True(t, st.Expenses.FinancialCharges.Equal(dec("200")))
	assert.True(t, st.OperatingResult.Equal(dec("10500")), "financial income enters revenue total")
	assert.True(t, st.NetResultBeforeTax.Equal(dec("10800")))
}

func TestBuildIncomeStatementReturnsAndReversals(t *testing.T) {
	// A sales return posts a debit on 7001; the bucket nets, it does not
	// count the return as revenue.
	period := Aggregate([]ledger.PostedLine{
		postedLine("7001", "0", "10000", "2025-01-10", "JE-00000001"),
		postedLine("7001", "1500", "0", "2025-01-12", "JE-00000002"),
	})
	st := BuildIncomeStatement(period)
	assert.True(t, st.Revenue.SalesMedications.Equal(dec("8500")))
}

func TestBuildIncomeStatementEmpty(t *testing.T) {
	st := BuildIncomeStatement(BalanceSet{})
	assert.True(t, st.Revenue.Total.IsZero())
	assert.True(t, st.Expenses.Total.IsZero())
	assert.True(t, st.GrossMargin.IsZero())
	assert.True(t, st.NetResult.IsZero())
}

func TestClassifyIncomeAccountLongestPrefixWins(t *testing.T) {
	name, normal, ok := classifyIncomeAccount("603100")
	assert.True(t, ok)
	assert.Equal(t, bucketStockVariation, name)
	assert.Equal(t, ledger.NormalDebit, normal)

	name, _, ok = classifyIncomeAccount("600500")
	assert.True(t, ok)
	assert.Equal(t, bucketPurchases, name)

	name, _, ok = classifyIncomeAccount("695")
	assert.True(t, ok)
	assert.Equal(t, bucketIncomeTax, name)

	// 7009 shares only "700" with the sales prefixes and matches nothing.
	_, _, ok = classifyIncomeAccount("7009")
	assert.False(t, ok)

	// Balance sheet classes never land in the statement.
	_, _, ok = classifyIncomeAccount("411")
	assert.False(t, ok)
}
