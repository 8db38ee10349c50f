package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// AccountUsage is the posted-line count for one account, used to judge
// whether an account is safe to deactivate.
type AccountUsage struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	LineCount int64  `json:"line_count"`
}

// AuditReport is the outcome of one read-only consistency scan.
type AuditReport struct {
	RunID  string                  `json:"run_id"`
	RanAt  time.Time               `json:"ran_at"`
	Issues []domain.IntegrityIssue `json:"issues"`
	Usage  []AccountUsage          `json:"usage"`
}

// Auditor scans posted data for anomalies the write path should make
// impossible: unbalanced entries, lines pointing at missing accounts,
// duplicated references. It never corrects anything; any fix is a new
// reversing entry through the posting engine.
type Auditor struct {
	accounts domain.AccountRepository
	entries  domain.EntryRepository
	log      *zap.Logger
}

func NewAuditor(accounts domain.AccountRepository, entries domain.EntryRepository, log *zap.Logger) *Auditor {
	return &Auditor{accounts: accounts, entries: entries, log: log}
}

// Run walks every posted entry once and reports structural anomalies
// plus per-account usage statistics.
func (a *Auditor) Run(ctx context.Context) (AuditReport, error) {
	report := AuditReport{
		RunID: uuid.NewString(),
		RanAt: time.Now(),
	}

	accounts, err := a.accounts.ListByPrefix(ctx, "")
	if err != nil {
		return report, err
	}
	entries, err := a.entries.ListEntries(ctx)
	if err != nil {
		return report, err
	}

	byID := make(map[int64]domain.Account, len(accounts))
	usage := make(map[int64]int64, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
		usage[account.ID] = 0
	}

	seenRefs := make(map[string]int64, len(entries))
	for _, entry := range entries {
		refKey := entry.RefType + "/" + entry.RefID
		if firstID, seen := seenRefs[refKey]; seen {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Kind:    domain.IssueDuplicateRef,
				EntryID: entry.ID,
				Detail:  fmt.Sprintf("reference %s already used by entry %d", refKey, firstID),
			})
		} else {
			seenRefs[refKey] = entry.ID
		}

		var totalDebit, totalCredit int64
		for _, line := range entry.Lines {
			if line.Side == domain.Debit {
				totalDebit += line.Amount
			} else {
				totalCredit += line.Amount
			}
			account, ok := byID[line.AccountID]
			if !ok {
				report.Issues = append(report.Issues, domain.IntegrityIssue{
					Kind:    domain.IssueOrphanedLine,
					EntryID: entry.ID,
					Detail:  fmt.Sprintf("line %d references missing account %d", line.ID, line.AccountID),
				})
				continue
			}
			usage[account.ID]++
		}

		if totalDebit != totalCredit {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Kind:    domain.IssueUnbalancedEntry,
				EntryID: entry.ID,
				Detail:  fmt.Sprintf("debit=%d credit=%d", totalDebit, totalCredit),
			})
		}
		if len(entry.Lines) < 2 {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Kind:    domain.IssueUnbalancedEntry,
				EntryID: entry.ID,
				Detail:  fmt.Sprintf("entry has %d lines, want at least 2", len(entry.Lines)),
			})
		}
	}

	report.Usage = make([]AccountUsage, 0, len(accounts))
	for _, account := range accounts {
		report.Usage = append(report.Usage, AccountUsage{
			Code:      account.Code,
			Name:      account.Name,
			IsActive:  account.IsActive,
			LineCount: usage[account.ID],
		})
	}

	a.log.Info("audit scan complete",
		zap.String("run_id", report.RunID),
		zap.Int("entries", len(entries)),
		zap.Int("issues", len(report.Issues)),
	)
	return report, nil
}
