package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
	"github.com/amanahq/amanah/backend/internal/platform/metrics"
)

// PostRequest asks the posting engine to commit one classified plan as
// a ledger entry. (RefType, RefID) identifies the originating domain
// event and is the idempotency key.
type PostRequest struct {
	RefType     string
	RefID       string
	ProductType string
	Category    string
	Entity      string
	Memo        string
	PostedAt    time.Time
	Plan        PostingPlan
}

// Posting commits posting plans atomically. It is the only write path
// into the ledger, and the balance gate here is the one correctness
// check nothing may bypass.
type Posting struct {
	accounts domain.AccountRepository
	entries  domain.EntryRepository
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewPosting(accounts domain.AccountRepository, entries domain.EntryRepository, log *zap.Logger, m *metrics.Metrics) *Posting {
	return &Posting{accounts: accounts, entries: entries, log: log, metrics: m}
}

// Post validates the plan and writes the entry with all its lines in
// one transaction. A retry for the same (RefType, RefID) returns
// ErrDuplicatePosting with nothing written; callers treat that as
// "already applied". Nothing is ever written for an invalid plan.
func (p *Posting) Post(ctx context.Context, req PostRequest) (*domain.Entry, error) {
	start := time.Now()
	entry, err := p.post(ctx, req)
	p.metrics.ObservePosting(time.Since(start))
	switch {
	case err == nil:
		p.metrics.IncrementPosting(req.ProductType, "posted")
	case errors.Is(err, domain.ErrDuplicatePosting):
		p.metrics.IncrementPosting(req.ProductType, "duplicate")
	default:
		p.metrics.IncrementPosting(req.ProductType, "rejected")
	}
	return entry, err
}

func (p *Posting) post(ctx context.Context, req PostRequest) (*domain.Entry, error) {
	if req.RefType == "" || req.RefID == "" {
		return nil, domain.ValidationError{Field: "reference", Reason: "refType and refId are required"}
	}
	if len(req.Plan.Lines) < 2 {
		return nil, domain.ValidationError{Field: "plan", Reason: "entry must have at least 2 lines"}
	}

	var totalDebit, totalCredit int64
	lines := make([]domain.Line, 0, len(req.Plan.Lines))
	for _, leg := range req.Plan.Lines {
		if !leg.Side.IsValid() {
			return nil, domain.ValidationError{Field: "plan", Reason: fmt.Sprintf("invalid side %q", leg.Side)}
		}
		if leg.Amount <= 0 {
			return nil, domain.ValidationError{Field: "plan", Reason: "line amount must be positive"}
		}
		if leg.Side == domain.Debit {
			totalDebit += leg.Amount
		} else {
			totalCredit += leg.Amount
		}

		account, err := p.accounts.FindByCode(ctx, leg.AccountCode)
		if err != nil {
			return nil, fmt.Errorf("plan account %s: %w", leg.AccountCode, err)
		}
		lines = append(lines, domain.Line{
			AccountID: account.ID,
			Side:      leg.Side,
			Amount:    leg.Amount,
		})
	}

	if totalDebit != totalCredit {
		return nil, fmt.Errorf("debit=%d credit=%d: %w", totalDebit, totalCredit, domain.ErrUnbalancedEntry)
	}

	postedAt := req.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}

	entry := &domain.Entry{
		RefType:     req.RefType,
		RefID:       req.RefID,
		ProductType: req.ProductType,
		Category:    req.Category,
		Entity:      req.Entity,
		Memo:        req.Memo,
		PostedAt:    postedAt,
		Lines:       lines,
	}
	if err := p.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	p.log.Info("entry posted",
		zap.Int64("entry_id", entry.ID),
		zap.String("ref_type", req.RefType),
		zap.String("ref_id", req.RefID),
		zap.Int64("amount", totalDebit),
	)
	return entry, nil
}
