package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// seedScenario posts a week of typical platform activity:
// collections through the gateway clearing account, one internal
// transfer, and distributions out of the operational bank account.
func seedScenario(t *testing.T, env *testEnv) {
	t.Helper()
	env.submit(t, "cd-1", "campaign", "donation", 100_000, 0, "mitra-a", day(1))
	env.submit(t, "zk-1", "zakat", "maal", 500_000, 0, "mitra-b", day(1))
	env.submit(t, "qb-1", "qurban", "purchase", 1_000_000, 50_000, "mitra-a", day(2))
	env.submit(t, "tr-1", "internal", "transfer", 300_000, 0, "", day(2))
	env.submit(t, "db-1", "campaign", "disbursement", 80_000, 0, "mitra-a", day(3))
	env.submit(t, "zd-1", "zakat", "distribution", 200_000, 0, "mitra-b", day(3))
}

func TestBalanceSingleAccount(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	balance, err := env.reporter.Balance(context.Background(), BalanceQuery{Code: "4010"})
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), balance)
}

func TestBalanceRollupPrefix(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	cash, err := env.reporter.Balance(context.Background(), BalanceQuery{Prefix: "10"})
	require.NoError(t, err)
	assert.Equal(t, int64(1_320_000), cash)

	_, err = env.reporter.Balance(context.Background(), BalanceQuery{})
	var verr domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCashFlowExcludesTransfersAndReconciles(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	report, err := env.reporter.CashFlow(context.Background(), day(1), day(3), "")
	require.NoError(t, err)

	assert.Equal(t, int64(1_600_000), report.Inflow)
	assert.Equal(t, int64(280_000), report.Outflow)
	assert.Equal(t, int64(1_320_000), report.Net)
	assert.Empty(t, report.Issues)
}

func TestCashFlowWindowFilter(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	report, err := env.reporter.CashFlow(context.Background(), day(1), day(1), "")
	require.NoError(t, err)

	assert.Equal(t, int64(600_000), report.Inflow)
	assert.Equal(t, int64(0), report.Outflow)
}

func TestCashFlowEntityFilter(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	report, err := env.reporter.CashFlow(context.Background(), day(1), day(3), "mitra-b")
	require.NoError(t, err)

	assert.Equal(t, int64(500_000), report.Inflow)
	assert.Equal(t, int64(200_000), report.Outflow)
}

func TestBalanceSheetTrialBalanceIsZero(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	report, err := env.reporter.BalanceSheet(context.Background(), day(5))
	require.NoError(t, err)

	assert.Equal(t, int64(1_320_000), report.Assets)
	assert.Equal(t, int64(300_000), report.Liabilities)
	assert.Equal(t, int64(1_020_000), report.NetIncome)
	assert.Equal(t, int64(1_020_000), report.Equity)
	assert.Zero(t, report.TrialBalance)
	assert.Empty(t, report.Issues)
}

func TestBalanceSheetFlagsCorruptData(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	// A one-sided entry can only exist if the posting gate was
	// bypassed; the report must surface it, not hide it.
	account, err := env.store.Accounts().FindByCode(context.Background(), "1010")
	require.NoError(t, err)
	env.store.InsertRaw(&domain.Entry{
		RefType:  "legacy",
		RefID:    "corrupt-1",
		PostedAt: day(4),
		Lines: []domain.Line{
			{AccountID: account.ID, Side: domain.Debit, Amount: 77_000},
		},
	})

	report, err := env.reporter.BalanceSheet(context.Background(), day(5))
	require.NoError(t, err)
	assert.NotZero(t, report.TrialBalance)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.IssueTrialImbalance, report.Issues[0].Kind)
}

func TestLiabilityBalanceStaysNonNegative(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	report, err := env.reporter.LiabilityBalance(context.Background(), day(5))
	require.NoError(t, err)

	require.Len(t, report.Accounts, 1)
	assert.Equal(t, "2010", report.Accounts[0].Code)
	assert.Equal(t, int64(300_000), report.Accounts[0].Balance)
	assert.Equal(t, int64(300_000), report.Total)
	assert.Empty(t, report.Issues)
}

func TestLiabilityBalanceFlagsOverdistribution(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	// Distribute more than was ever collected for zakat.
	env.submit(t, "zd-2", "zakat", "distribution", 400_000, 0, "mitra-b", day(4))

	report, err := env.reporter.LiabilityBalance(context.Background(), day(5))
	require.NoError(t, err)

	require.Len(t, report.Accounts, 1)
	assert.Equal(t, int64(-100_000), report.Accounts[0].Balance)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.IssueNegativeHeld, report.Issues[0].Kind)
	assert.Equal(t, "2010", report.Issues[0].AccountCode)
}

func TestEntityBreakdown(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)

	report, err := env.reporter.EntityBreakdown(context.Background(), day(1), day(3))
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, EntityFlowRow{Entity: "mitra-a", Inflow: 1_100_000, Outflow: 80_000, Net: 1_020_000}, report.Rows[0])
	assert.Equal(t, EntityFlowRow{Entity: "mitra-b", Inflow: 500_000, Outflow: 200_000, Net: 300_000}, report.Rows[1])
}

func TestDeactivationDoesNotChangeHistory(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)
	ctx := context.Background()

	before, err := env.reporter.Balance(ctx, BalanceQuery{Code: "4010"})
	require.NoError(t, err)

	require.NoError(t, env.registry.Deactivate(ctx, "4010"))

	after, err := env.reporter.Balance(ctx, BalanceQuery{Code: "4010"})
	require.NoError(t, err)
	assert.Equal(t, before, after)

	sheet, err := env.reporter.BalanceSheet(ctx, day(5))
	require.NoError(t, err)
	assert.Zero(t, sheet.TrialBalance)
}

func TestReportsAreDeterministic(t *testing.T) {
	env := newTestEnv(t)
	seedScenario(t, env)
	ctx := context.Background()

	first, err := env.reporter.CashFlow(ctx, day(1), day(3), "")
	require.NoError(t, err)
	second, err := env.reporter.CashFlow(ctx, day(1), day(3), "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
