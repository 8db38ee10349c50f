package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// Event describes one settled domain financial event before it has an
// accounting shape: who paid for what, and how much.
type Event struct {
	ProductType string
	Category    string
	Amount      int64 // total received, smallest currency unit
	FeeAmount   int64 // administration fee portion of Amount, 0 if none
}

// PlanLine is one leg of a posting plan.
type PlanLine struct {
	AccountCode string
	Side        domain.Side
	Amount      int64
}

// PostingPlan is the in-memory output of classification: an ordered set
// of legs that must balance before the posting engine will accept it.
type PostingPlan struct {
	Lines []PlanLine
}

// TotalDebit sums the debit legs.
func (p PostingPlan) TotalDebit() int64 {
	var total int64
	for _, l := range p.Lines {
		if l.Side == domain.Debit {
			total += l.Amount
		}
	}
	return total
}

// TotalCredit sums the credit legs.
func (p PostingPlan) TotalCredit() int64 {
	var total int64
	for _, l := range p.Lines {
		if l.Side == domain.Credit {
			total += l.Amount
		}
	}
	return total
}

// Balanced reports whether debits equal credits.
func (p PostingPlan) Balanced() bool {
	return p.TotalDebit() == p.TotalCredit()
}

// ValuationConfig carries the commodity reference prices the
// classification layer needs for zakat valuation. Passed in explicitly
// at wiring time; never read from ambient global state.
type ValuationConfig struct {
	GoldPricePerGram decimal.Decimal // smallest currency unit per gram
	NisabGrams       decimal.Decimal // wealth threshold in grams of gold
}

// zakatRate is the fixed 2.5% zakat maal rate.
var zakatRate = decimal.NewFromFloat(0.025)

// ZakatMaalDue returns the zakat owed on a wealth amount: 2.5% of the
// wealth when it reaches the nisab threshold, zero below it. Rounded to
// the nearest smallest currency unit.
func (v ValuationConfig) ZakatMaalDue(wealth int64) int64 {
	if wealth <= 0 {
		return 0
	}
	nisabValue := v.GoldPricePerGram.Mul(v.NisabGrams)
	wealthValue := decimal.NewFromInt(wealth)
	if wealthValue.LessThan(nisabValue) {
		return 0
	}
	return wealthValue.Mul(zakatRate).Round(0).IntPart()
}

// Classifier turns a domain event into a balanced posting plan using
// the category mapping table. Classification never writes anything.
type Classifier struct {
	accounts  domain.AccountRepository
	mappings  domain.MappingRepository
	valuation ValuationConfig
	log       *zap.Logger
}

func NewClassifier(accounts domain.AccountRepository, mappings domain.MappingRepository, valuation ValuationConfig, log *zap.Logger) *Classifier {
	return &Classifier{accounts: accounts, mappings: mappings, valuation: valuation, log: log}
}

// Valuation exposes the classifier's commodity configuration for
// callers that pre-compute obligations (zakat calculators).
func (c *Classifier) Valuation() ValuationConfig {
	return c.valuation
}

// Classify maps the event to its accounts: one debit leg for the full
// amount received, one credit leg for the principal, and a second
// credit leg for the fee when the category declares a fee account.
func (c *Classifier) Classify(ctx context.Context, ev Event) (PostingPlan, error) {
	if ev.Amount <= 0 {
		return PostingPlan{}, domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if ev.FeeAmount < 0 {
		return PostingPlan{}, domain.ValidationError{Field: "fee_amount", Reason: "must not be negative"}
	}
	if ev.FeeAmount >= ev.Amount {
		return PostingPlan{}, domain.ValidationError{Field: "fee_amount", Reason: "must be less than amount"}
	}

	mapping, err := c.mappings.FindActive(ctx, ev.ProductType, ev.Category)
	if err != nil {
		return PostingPlan{}, err
	}
	if ev.FeeAmount > 0 && mapping.FeeAccountCode == "" {
		return PostingPlan{}, domain.ValidationError{
			Field:  "fee_amount",
			Reason: fmt.Sprintf("category %s/%s has no fee account", ev.ProductType, ev.Category),
		}
	}

	if err := c.requireActive(ctx, mapping.DebitAccountCode); err != nil {
		return PostingPlan{}, err
	}
	if err := c.requireActive(ctx, mapping.CreditAccountCode); err != nil {
		return PostingPlan{}, err
	}

	plan := PostingPlan{Lines: []PlanLine{
		{AccountCode: mapping.DebitAccountCode, Side: domain.Debit, Amount: ev.Amount},
		{AccountCode: mapping.CreditAccountCode, Side: domain.Credit, Amount: ev.Amount - ev.FeeAmount},
	}}
	if ev.FeeAmount > 0 {
		if err := c.requireActive(ctx, mapping.FeeAccountCode); err != nil {
			return PostingPlan{}, err
		}
		plan.Lines = append(plan.Lines, PlanLine{
			AccountCode: mapping.FeeAccountCode,
			Side:        domain.Credit,
			Amount:      ev.FeeAmount,
		})
	}
	return plan, nil
}

func (c *Classifier) requireActive(ctx context.Context, code string) error {
	account, err := c.accounts.FindByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("mapped account %s: %w", code, err)
	}
	if !account.IsActive {
		return fmt.Errorf("account %s: %w", code, domain.ErrInactiveAccount)
	}
	return nil
}
