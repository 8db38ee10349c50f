package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
	"github.com/amanahq/amanah/backend/internal/platform/metrics"
)

// BalanceQuery selects the lines one balance aggregates over. Exactly
// one of Code or Prefix should be set; a zero End means "to date".
type BalanceQuery struct {
	Code   string
	Prefix string
	Start  time.Time
	End    time.Time
	Entity string
}

// CashFlowReport summarizes money moving through the cash & bank
// accounts over a window, excluding internal transfers.
type CashFlowReport struct {
	Start   time.Time               `json:"start"`
	End     time.Time               `json:"end"`
	Entity  string                  `json:"entity,omitempty"`
	Inflow  int64                   `json:"inflow"`
	Outflow int64                   `json:"outflow"`
	Net     int64                   `json:"net"`
	Issues  []domain.IntegrityIssue `json:"issues,omitempty"`
}

// BalanceSheetReport is the position as of a date. Equity folds in the
// net income accumulated through posted entries, so for any data built
// purely from balanced entries TrialBalance is zero.
type BalanceSheetReport struct {
	AsOf         time.Time               `json:"as_of"`
	Assets       int64                   `json:"assets"`
	Liabilities  int64                   `json:"liabilities"`
	Equity       int64                   `json:"equity"`
	NetIncome    int64                   `json:"net_income"`
	TrialBalance int64                   `json:"trial_balance"`
	Issues       []domain.IntegrityIssue `json:"issues,omitempty"`
}

// AccountBalanceRow is one account's balance inside a report.
type AccountBalanceRow struct {
	Code    string `json:"code"`
	Balance int64  `json:"balance"`
}

// LiabilityReport is the restricted-funds position: what is still held
// for each purpose. A negative balance is an integrity fault, reported
// alongside the numbers.
type LiabilityReport struct {
	AsOf     time.Time               `json:"as_of"`
	Accounts []AccountBalanceRow     `json:"accounts"`
	Total    int64                   `json:"total"`
	Issues   []domain.IntegrityIssue `json:"issues,omitempty"`
}

// EntityFlowRow is one entity's cash movement inside a breakdown.
type EntityFlowRow struct {
	Entity  string `json:"entity"`
	Inflow  int64  `json:"inflow"`
	Outflow int64  `json:"outflow"`
	Net     int64  `json:"net"`
}

// EntityBreakdownReport groups cash movement by the entity tag carried
// on each entry (partner organization, program).
type EntityBreakdownReport struct {
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Rows  []EntityFlowRow `json:"rows"`
}

// Reporter derives every view by re-aggregating line-level facts; no
// balance is ever cached, so reads and retries are always consistent
// with posted data. All methods are read-only and deterministic.
type Reporter struct {
	entries          domain.EntryRepository
	cashPrefix       string
	restrictedPrefix string
	metrics          *metrics.Metrics
}

func NewReporter(entries domain.EntryRepository, m *metrics.Metrics) *Reporter {
	return &Reporter{
		entries:          entries,
		cashPrefix:       CashPrefix,
		restrictedPrefix: RestrictedPrefix,
		metrics:          m,
	}
}

// Balance returns the signed balance of one account or a rollup
// prefix: positive when the accounts hold their normal-balance side.
func (r *Reporter) Balance(ctx context.Context, q BalanceQuery) (int64, error) {
	if q.Code == "" && q.Prefix == "" {
		return 0, domain.ValidationError{Field: "account", Reason: "code or prefix is required"}
	}
	facts, err := r.entries.ListLines(ctx, domain.LineFilter{
		Start:         q.Start,
		End:           q.End,
		AccountCode:   q.Code,
		AccountPrefix: q.Prefix,
		Entity:        q.Entity,
	})
	if err != nil {
		return 0, err
	}
	var balance int64
	for _, f := range facts {
		balance += f.SignedAmount()
	}
	return balance, nil
}

// CashFlow computes inflow and outflow on the cash & bank group over a
// window, excluding internal transfers, and cross-checks the net
// against the change in cash balance over the same window.
func (r *Reporter) CashFlow(ctx context.Context, start, end time.Time, entity string) (CashFlowReport, error) {
	defer r.observe("cash_flow", time.Now())

	facts, err := r.entries.ListLines(ctx, domain.LineFilter{
		Start:         start,
		End:           end,
		AccountPrefix: r.cashPrefix,
		Entity:        entity,
	})
	if err != nil {
		return CashFlowReport{}, err
	}

	report := CashFlowReport{Start: start, End: end, Entity: entity}
	var cashDelta int64
	for _, f := range facts {
		cashDelta += f.SignedAmount()
		if f.ProductType == ProductInternal {
			continue
		}
		if f.Side == domain.Debit {
			report.Inflow += f.Amount
		} else {
			report.Outflow += f.Amount
		}
	}
	report.Net = report.Inflow - report.Outflow

	// Transfers move money between cash accounts, so they cancel inside
	// cashDelta and the reconciliation still has to hold.
	if report.Net != cashDelta {
		report.Issues = append(report.Issues, domain.IntegrityIssue{
			Kind:   domain.IssueCashFlowMismatch,
			Detail: fmt.Sprintf("net flow %d does not match cash balance change %d", report.Net, cashDelta),
		})
	}
	return report, nil
}

// BalanceSheet computes the position as of end from every entry posted
// up to it. A nonzero trial balance means corrupted data and is
// reported, never silently tolerated.
func (r *Reporter) BalanceSheet(ctx context.Context, asOf time.Time) (BalanceSheetReport, error) {
	defer r.observe("balance_sheet", time.Now())

	facts, err := r.entries.ListLines(ctx, domain.LineFilter{End: asOf})
	if err != nil {
		return BalanceSheetReport{}, err
	}

	totals := make(map[domain.AccountType]int64, 5)
	for _, f := range facts {
		totals[f.AccountType] += f.SignedAmount()
	}

	report := BalanceSheetReport{
		AsOf:        asOf,
		Assets:      totals[domain.Asset],
		Liabilities: totals[domain.Liability],
		NetIncome:   totals[domain.Income] - totals[domain.Expense],
	}
	report.Equity = totals[domain.Equity] + report.NetIncome
	report.TrialBalance = report.Assets - report.Liabilities - report.Equity
	if report.TrialBalance != 0 {
		report.Issues = append(report.Issues, domain.IntegrityIssue{
			Kind:   domain.IssueTrialImbalance,
			Detail: fmt.Sprintf("assets - liabilities - equity = %d, want 0", report.TrialBalance),
		})
	}
	return report, nil
}

// LiabilityBalance reports the restricted funds still held per purpose
// as of a date. Negative balances mean more was distributed than ever
// collected for that purpose.
func (r *Reporter) LiabilityBalance(ctx context.Context, asOf time.Time) (LiabilityReport, error) {
	defer r.observe("liability", time.Now())

	facts, err := r.entries.ListLines(ctx, domain.LineFilter{
		End:           asOf,
		AccountPrefix: r.restrictedPrefix,
	})
	if err != nil {
		return LiabilityReport{}, err
	}

	byAccount := make(map[string]int64)
	for _, f := range facts {
		byAccount[f.AccountCode] += f.SignedAmount()
	}

	report := LiabilityReport{AsOf: asOf}
	codes := make([]string, 0, len(byAccount))
	for code := range byAccount {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		balance := byAccount[code]
		report.Accounts = append(report.Accounts, AccountBalanceRow{Code: code, Balance: balance})
		report.Total += balance
		if balance < 0 {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Kind:        domain.IssueNegativeHeld,
				AccountCode: code,
				Detail:      fmt.Sprintf("restricted balance %d is negative", balance),
			})
		}
	}
	return report, nil
}

// EntityBreakdown groups the cash-flow aggregation by entity tag.
// Entries without a tag are grouped under an empty entity.
func (r *Reporter) EntityBreakdown(ctx context.Context, start, end time.Time) (EntityBreakdownReport, error) {
	defer r.observe("entity_breakdown", time.Now())

	facts, err := r.entries.ListLines(ctx, domain.LineFilter{
		Start:         start,
		End:           end,
		AccountPrefix: r.cashPrefix,
	})
	if err != nil {
		return EntityBreakdownReport{}, err
	}

	byEntity := make(map[string]*EntityFlowRow)
	for _, f := range facts {
		if f.ProductType == ProductInternal {
			continue
		}
		row, ok := byEntity[f.Entity]
		if !ok {
			row = &EntityFlowRow{Entity: f.Entity}
			byEntity[f.Entity] = row
		}
		if f.Side == domain.Debit {
			row.Inflow += f.Amount
		} else {
			row.Outflow += f.Amount
		}
	}

	report := EntityBreakdownReport{Start: start, End: end}
	entities := make([]string, 0, len(byEntity))
	for entity := range byEntity {
		entities = append(entities, entity)
	}
	sort.Strings(entities)
	for _, entity := range entities {
		row := byEntity[entity]
		row.Net = row.Inflow - row.Outflow
		report.Rows = append(report.Rows, *row)
	}
	return report, nil
}

func (r *Reporter) observe(report string, start time.Time) {
	r.metrics.ObserveReport(report, time.Since(start))
}
