package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/adapter/repo"
)

// testEnv wires every service against one shared in-memory store with
// the system chart of accounts seeded.
type testEnv struct {
	store      *repo.MemoryStore
	registry   *Registry
	classifier *Classifier
	posting    *Posting
	ledger     *Ledger
	reporter   *Reporter
	auditor    *Auditor
	reclass    *Reclassifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repo.NewMemoryStore()
	log := zap.NewNop()

	registry := NewRegistry(store.Accounts(), store.Mappings(), log)
	require.NoError(t, registry.Seed(context.Background()))

	valuation := ValuationConfig{
		GoldPricePerGram: decimal.NewFromInt(1_000_000),
		NisabGrams:       decimal.NewFromInt(85),
	}
	classifier := NewClassifier(store.Accounts(), store.Mappings(), valuation, log)
	posting := NewPosting(store.Accounts(), store.Entries(), log, nil)

	return &testEnv{
		store:      store,
		registry:   registry,
		classifier: classifier,
		posting:    posting,
		ledger:     NewLedger(classifier, posting),
		reporter:   NewReporter(store.Entries(), nil),
		auditor:    NewAuditor(store.Accounts(), store.Entries(), log),
		reclass:    NewReclassifier(store.Entries(), log),
	}
}

// submit classifies and posts one event, failing the test on error.
func (e *testEnv) submit(t *testing.T, refID, productType, category string, amount, fee int64, entity string, at time.Time) Receipt {
	t.Helper()
	receipt, err := e.ledger.Submit(context.Background(), PostingRequest{
		RefType:     "donation",
		RefID:       refID,
		ProductType: productType,
		Category:    category,
		Amount:      amount,
		FeeAmount:   fee,
		Entity:      entity,
		OccurredAt:  at,
	})
	require.NoError(t, err)
	require.False(t, receipt.AlreadyApplied)
	return receipt
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
}
