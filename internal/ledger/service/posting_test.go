package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

func TestPostCommitsBalancedEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plan, err := env.classifier.Classify(ctx, Event{
		ProductType: "campaign",
		Category:    "donation",
		Amount:      100_000,
	})
	require.NoError(t, err)

	entry, err := env.posting.Post(ctx, PostRequest{
		RefType:     "donation",
		RefID:       "don-001",
		ProductType: "campaign",
		Category:    "donation",
		Memo:        "first donation",
		PostedAt:    day(1),
		Plan:        plan,
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Len(t, entry.Lines, 2)

	stored, err := env.store.Entries().ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "don-001", stored[0].RefID)
	assert.Len(t, stored[0].Lines, 2)
}

func TestPostRejectsUnbalancedPlanWithNothingWritten(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posting.Post(ctx, PostRequest{
		RefType: "donation",
		RefID:   "don-bad",
		Plan: PostingPlan{Lines: []PlanLine{
			{AccountCode: "1020", Side: domain.Debit, Amount: 100},
			{AccountCode: "4010", Side: domain.Credit, Amount: 90},
		}},
	})
	assert.ErrorIs(t, err, domain.ErrUnbalancedEntry)

	stored, err := env.store.Entries().ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPostIsIdempotentPerReference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plan := PostingPlan{Lines: []PlanLine{
		{AccountCode: "1020", Side: domain.Debit, Amount: 100_000},
		{AccountCode: "4010", Side: domain.Credit, Amount: 100_000},
	}}
	req := PostRequest{RefType: "donation", RefID: "don-042", Plan: plan, PostedAt: day(1)}

	_, err := env.posting.Post(ctx, req)
	require.NoError(t, err)

	_, err = env.posting.Post(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicatePosting)

	stored, err := env.store.Entries().ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmitTreatsDuplicateAsApplied(t *testing.T) {
	env := newTestEnv(t)

	env.submit(t, "don-007", "campaign", "donation", 100_000, 0, "", day(1))

	receipt, err := env.ledger.Submit(context.Background(), PostingRequest{
		RefType:     "donation",
		RefID:       "don-007",
		ProductType: "campaign",
		Category:    "donation",
		Amount:      100_000,
		OccurredAt:  day(1),
	})
	require.NoError(t, err)
	assert.True(t, receipt.AlreadyApplied)

	stored, err := env.store.Entries().ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestPostRequiresTwoLines(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.posting.Post(context.Background(), PostRequest{
		RefType: "donation",
		RefID:   "don-one-line",
		Plan: PostingPlan{Lines: []PlanLine{
			{AccountCode: "1020", Side: domain.Debit, Amount: 100},
		}},
	})
	var verr domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPostRejectsUnknownAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.posting.Post(context.Background(), PostRequest{
		RefType: "donation",
		RefID:   "don-ghost",
		Plan: PostingPlan{Lines: []PlanLine{
			{AccountCode: "9999", Side: domain.Debit, Amount: 100},
			{AccountCode: "4010", Side: domain.Credit, Amount: 100},
		}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestPostLineValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posting.Post(ctx, PostRequest{
		RefType: "donation",
		RefID:   "don-zero",
		Plan: PostingPlan{Lines: []PlanLine{
			{AccountCode: "1020", Side: domain.Debit, Amount: 0},
			{AccountCode: "4010", Side: domain.Credit, Amount: 0},
		}},
	})
	var verr domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = env.posting.Post(ctx, PostRequest{
		RefType: "donation",
		RefID:   "don-side",
		Plan: PostingPlan{Lines: []PlanLine{
			{AccountCode: "1020", Side: domain.Side("X"), Amount: 100},
			{AccountCode: "4010", Side: domain.Credit, Amount: 100},
		}},
	})
	assert.ErrorAs(t, err, &verr)

	_, err = env.posting.Post(ctx, PostRequest{
		RefID: "missing-type",
		Plan:  PostingPlan{},
	})
	assert.ErrorAs(t, err, &verr)
}

func TestPostDefaultsPostedAt(t *testing.T) {
	env := newTestEnv(t)

	before := time.Now()
	entry, err := env.posting.Post(context.Background(), PostRequest{
		RefType: "donation",
		RefID:   "don-now",
		Plan: PostingPlan{Lines: []PlanLine{
			{AccountCode: "1020", Side: domain.Debit, Amount: 100},
			{AccountCode: "4010", Side: domain.Credit, Amount: 100},
		}},
	})
	require.NoError(t, err)
	assert.False(t, entry.PostedAt.Before(before))
}
