package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// Registry owns the chart of accounts: registration, activation state
// and hierarchy lookups. Account codes are immutable once created and
// accounts are never deleted; deactivation is the only lifecycle change.
type Registry struct {
	accounts domain.AccountRepository
	mappings domain.MappingRepository
	log      *zap.Logger
}

func NewRegistry(accounts domain.AccountRepository, mappings domain.MappingRepository, log *zap.Logger) *Registry {
	return &Registry{accounts: accounts, mappings: mappings, log: log}
}

// Register creates a new account with its normal balance derived from
// the account type.
func (r *Registry) Register(ctx context.Context, code, name string, t domain.AccountType, parentCode string) (*domain.Account, error) {
	if code == "" {
		return nil, domain.ValidationError{Field: "code", Reason: "must not be empty"}
	}
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !t.IsValid() {
		return nil, domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", t)}
	}

	account := &domain.Account{
		Code:          code,
		Name:          name,
		Type:          t,
		NormalBalance: t.NormalBalance(),
		ParentCode:    parentCode,
		IsActive:      true,
	}
	if err := r.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	r.log.Info("account registered",
		zap.String("code", code),
		zap.String("type", string(t)),
	)
	return account, nil
}

// Deactivate marks an account inactive. Historical postings against it
// remain valid and queryable; only new classification is blocked.
func (r *Registry) Deactivate(ctx context.Context, code string) error {
	return r.accounts.SetActive(ctx, code, false)
}

// Activate marks an account active again.
func (r *Registry) Activate(ctx context.Context, code string) error {
	return r.accounts.SetActive(ctx, code, true)
}

func (r *Registry) Get(ctx context.Context, code string) (*domain.Account, error) {
	return r.accounts.FindByCode(ctx, code)
}

func (r *Registry) ListByType(ctx context.Context, t domain.AccountType) ([]domain.Account, error) {
	if !t.IsValid() {
		return nil, domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", t)}
	}
	return r.accounts.ListByType(ctx, t)
}

// ResolveRollup returns every account under a hierarchical code prefix,
// e.g. "10" for all cash & bank sub-accounts.
func (r *Registry) ResolveRollup(ctx context.Context, codePrefix string) ([]domain.Account, error) {
	if codePrefix == "" {
		return nil, domain.ValidationError{Field: "codePrefix", Reason: "must not be empty"}
	}
	return r.accounts.ListByPrefix(ctx, codePrefix)
}

// Seed installs the system chart of accounts and the category mapping
// table. Idempotent: rows that already exist are left untouched, so it
// is safe to run on every startup.
func (r *Registry) Seed(ctx context.Context) error {
	var created int
	for _, seed := range DefaultChart() {
		_, err := r.accounts.FindByCode(ctx, seed.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUnknownAccount) {
			return fmt.Errorf("seed: lookup %s: %w", seed.Code, err)
		}
		account := seed
		if err := r.accounts.Create(ctx, &account); err != nil {
			// A concurrent seeder may have won the insert.
			if errors.Is(err, domain.ErrDuplicateAccountCode) {
				continue
			}
			return fmt.Errorf("seed: create %s: %w", seed.Code, err)
		}
		created++
	}

	var mapped int
	for _, seed := range DefaultMappings() {
		_, err := r.mappings.FindActive(ctx, seed.ProductType, seed.Category)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUnknownCategory) {
			return fmt.Errorf("seed: lookup mapping %s/%s: %w", seed.ProductType, seed.Category, err)
		}
		mapping := seed
		if err := r.mappings.Create(ctx, &mapping); err != nil {
			return fmt.Errorf("seed: create mapping %s/%s: %w", seed.ProductType, seed.Category, err)
		}
		mapped++
	}

	if created > 0 || mapped > 0 {
		r.log.Info("chart of accounts seeded",
			zap.Int("accounts_created", created),
			zap.Int("mappings_created", mapped),
		)
	}
	return nil
}
