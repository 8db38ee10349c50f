package service

import (
	"context"
	"errors"
	"time"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// PostingRequest is the upstream-facing submission: one settled
// financial event as delivered by the payment, disbursement or
// reclassification layer. Delivery is at-least-once; duplicates are
// absorbed by the posting engine's idempotency key.
type PostingRequest struct {
	RefType     string
	RefID       string
	ProductType string
	Category    string
	Amount      int64
	FeeAmount   int64
	Entity      string
	Memo        string
	OccurredAt  time.Time
}

// Receipt reports the outcome of a submission. AlreadyApplied is true
// when the same reference was posted before; the caller may mark the
// event settled either way.
type Receipt struct {
	EntryID        int64
	RefType        string
	RefID          string
	PostedAt       time.Time
	AlreadyApplied bool
}

// Ledger is the transaction-processing facade: classify the event,
// then commit the resulting plan.
type Ledger struct {
	classifier *Classifier
	posting    *Posting
}

func NewLedger(classifier *Classifier, posting *Posting) *Ledger {
	return &Ledger{classifier: classifier, posting: posting}
}

// Submit classifies and posts one event. Classification failures and
// unbalanced plans abort with nothing written; a duplicate reference
// returns a Receipt with AlreadyApplied set instead of an error.
func (l *Ledger) Submit(ctx context.Context, req PostingRequest) (Receipt, error) {
	plan, err := l.classifier.Classify(ctx, Event{
		ProductType: req.ProductType,
		Category:    req.Category,
		Amount:      req.Amount,
		FeeAmount:   req.FeeAmount,
	})
	if err != nil {
		return Receipt{}, err
	}

	entry, err := l.posting.Post(ctx, PostRequest{
		RefType:     req.RefType,
		RefID:       req.RefID,
		ProductType: req.ProductType,
		Category:    req.Category,
		Entity:      req.Entity,
		Memo:        req.Memo,
		PostedAt:    req.OccurredAt,
		Plan:        plan,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePosting) {
			return Receipt{RefType: req.RefType, RefID: req.RefID, AlreadyApplied: true}, nil
		}
		return Receipt{}, err
	}

	return Receipt{
		EntryID:  entry.ID,
		RefType:  entry.RefType,
		RefID:    entry.RefID,
		PostedAt: entry.PostedAt,
	}, nil
}

// Classifier exposes the classification engine for read-only callers.
func (l *Ledger) Classifier() *Classifier {
	return l.classifier
}
