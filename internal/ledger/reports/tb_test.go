package reports

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

func TestBuildTrialBalanceSingleEntry(t *testing.T) {
	tenantID := uuid.New()
	store := &fakeLines{
		tenantID: tenantID,
		lines: []ledger.PostedLine{
			postedLine("411", "10000", "0", "2025-01-15", "JE-00000001"),
			postedLine("7001", "0", "10000", "2025-01-15", "JE-00000001"),
		},
	}
	accounts := []ledger.Account{
		detailAccount("411", "Clients", ledger.NormalDebit),
		detailAccount("530", "Caisse", ledger.NormalDebit),
		detailAccount("7001", "Ventes medicaments", ledger.NormalCredit),
	}
	agg := NewAggregator(store)
	ctx := context.Background()

	opening, err := agg.OpeningBalances(ctx, tenantID, "", day("2025-01-01"))
	require.NoError(t, err)
	period, err := agg.PeriodMovements(ctx, tenantID, "", day("2025-01-01"), day("2025-01-31"))
	require.NoError(t, err)

	tb := BuildTrialBalance(accounts, opening, period)

	require.Len(t, tb.Rows, 2, "all-zero accounts are omitted")
	assert.Equal(t, "411", tb.Rows[0].Code)
	assert.True(t, tb.Rows[0].OpeningDebit.IsZero())
	assert.True(t, tb.Rows[0].PeriodDebit.Equal(dec("10000")))
	assert.True(t, tb.Rows[0].PeriodCredit.IsZero())
	assert.True(t, tb.Rows[0].ClosingDebit.Equal(dec("10000")))

	assert.Equal(t, "7001", tb.Rows[1].Code)
	assert.True(t, tb.Rows[1].PeriodCredit.Equal(dec("10000")))
	assert.True(t, tb.Rows[1].ClosingCredit.Equal(dec("10000")))

	assert.True(t, tb.Totals.PeriodDebit.Equal(dec("10000")))
	assert.True(t, tb.Totals.PeriodCredit.Equal(dec("10000")))
	assert.True(t, tb.Totals.ClosingDebit.Equal(tb.Totals.ClosingCredit))
	assert.True(t, tb.Balanced)
}

// Closing balances must not depend on where the reporting period is cut:
// opening(mid) + period(mid..end) equals period(start..end) when history
// starts at start.
func TestTrialBalanceRangeSplitting(t *testing.T) {
	tenantID := uuid.New()
	store := &fakeLines{
		tenantID: tenantID,
		lines: []ledger.PostedLine{
			postedLine("411", "10000", "0", "2025-01-15", "JE-00000001"),
			postedLine("7001", "0", "10000", "2025-01-15", "JE-00000001"),
			postedLine("530", "4000", "0", "2025-02-10", "JE-00000002"),
			postedLine("411", "0", "4000", "2025-02-10", "JE-00000002"),
		},
	}
	accounts := []ledger.Account{
		detailAccount("411", "Clients", ledger.NormalDebit),
		detailAccount("530", "Caisse", ledger.NormalDebit),
		detailAccount("7001", "Ventes medicaments", ledger.NormalCredit),
	}
	agg := NewAggregator(store)
	ctx := context.Background()

	wholeOpen, err := agg.OpeningBalances(ctx, tenantID, "", day("2025-01-01"))
	require.NoError(t, err)
	wholeMove, err := agg.PeriodMovements(ctx, tenantID, "", day("2025-01-01"), day("2025-02-28"))
	require.NoError(t, err)
	whole := BuildTrialBalance(accounts, wholeOpen, wholeMove)

	splitOpen, err := agg.OpeningBalances(ctx, tenantID, "", day("2025-02-01"))
	require.NoError(t, err)
	splitMove, err := agg.PeriodMovements(ctx, tenantID, "", day("2025-02-01"), day("2025-02-28"))
	require.NoError(t, err)
	split := BuildTrialBalance(accounts, splitOpen, splitMove)

	require.Len(t, whole.Rows, 3)
	require.Len(t, split.Rows, 3)
	for i := range whole.Rows {
		assert.Equal(t, whole.Rows[i].Code, split.Rows[i].Code)
		assert.True(t, whole.Rows[i].ClosingDebit.Equal(split.Rows[i].ClosingDebit),
			"closing debit of %s differs across period cuts", whole.Rows[i].Code)
		assert.True(t, whole.Rows[i].ClosingCredit.Equal(split.Rows[i].ClosingCredit),
			"closing credit of %s differs across period cuts", whole.Rows[i].Code)
	}
	assert.True(t, split.Rows[0].OpeningDebit.Equal(dec("10000")))
	assert.True(t, whole.Balanced)
	assert.True(t, split.Balanced)
}

func TestTrialBalanceFlagsImbalance(t *testing.T) {
	accounts := []ledger.Account{
		detailAccount("411", "Clients", ledger.NormalDebit),
		detailAccount("7001", "Ventes medicaments", ledger.NormalCredit),
	}
	period := Aggregate([]ledger.PostedLine{
		postedLine("411", "10000", "0", "2025-01-15", "JE-00000001"),
		postedLine("7001", "0", "9000", "2025-01-15", "JE-00000001"),
	})

	tb := BuildTrialBalance(accounts, BalanceSet{}, period)
	assert.False(t, tb.Balanced)
	assert.True(t, tb.Totals.ClosingDebit.Equal(dec("10000")))
	assert.True(t, tb.Totals.ClosingCredit.Equal(dec("9000")))
}

func TestTrialBalanceEmptyLedger(t *testing.T) {
	accounts := []ledger.Account{
		detailAccount("411", "Clients", ledger.NormalDebit),
	}
	tb := BuildTrialBalance(accounts, BalanceSet{}, BalanceSet{})
	assert.Empty(t, tb.Rows)
	assert.True(t, tb.Totals.ClosingDebit.IsZero())
	assert.True(t, tb.Balanced, "an empty ledger balances trivially")
}
