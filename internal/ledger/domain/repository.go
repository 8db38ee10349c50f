package domain

import (
	"context"
	"time"
)

// LineFilter narrows the line facts a report aggregates over. Zero
// times mean an open bound; empty strings mean no filter.
type LineFilter struct {
	Start         time.Time
	End           time.Time
	AccountCode   string
	AccountPrefix string
	Entity        string
	ProductType   string
}

// AccountRepository is the port for the chart of accounts.
type AccountRepository interface {
	// Create persists a new account, or ErrDuplicateAccountCode.
	Create(ctx context.Context, account *Account) error

	// FindByCode resolves a business code, or ErrUnknownAccount.
	FindByCode(ctx context.Context, code string) (*Account, error)

	// FindByID resolves a surrogate id, or ErrUnknownAccount.
	FindByID(ctx context.Context, id int64) (*Account, error)

	// ListByType returns accounts of one class, ordered by code.
	ListByType(ctx context.Context, t AccountType) ([]Account, error)

	// ListByPrefix returns accounts whose code starts with prefix,
	// ordered by code. An empty prefix returns every account.
	ListByPrefix(ctx context.Context, prefix string) ([]Account, error)

	// SetActive toggles activation, or ErrUnknownAccount.
	SetActive(ctx context.Context, code string, active bool) error
}

// EntryRepository is the port for posted entries and their lines.
type EntryRepository interface {
	// Create persists the entry and all its lines atomically: either
	// everything is written or nothing is. A (RefType, RefID) collision
	// yields ErrDuplicatePosting with no state change.
	Create(ctx context.Context, entry *Entry) error

	// ListLines returns denormalized line facts matching the filter,
	// from a consistent snapshot.
	ListLines(ctx context.Context, f LineFilter) ([]LineFact, error)

	// ListEntries returns entries with their lines preloaded, for the
	// audit scan. Filtering is intentionally absent; audit reads all.
	ListEntries(ctx context.Context) ([]Entry, error)

	// UpdateCategory rewrites the stored category for every entry
	// currently carrying oldCategory, returning the number of rows
	// changed. An empty productType applies across all product types.
	// Rerunning with the same arguments changes zero rows.
	UpdateCategory(ctx context.Context, productType, oldCategory, newCategory string) (int64, error)
}

// MappingRepository is the port for the category-to-account table.
type MappingRepository interface {
	// Create persists a mapping row; duplicate (ProductType, Category)
	// is an error.
	Create(ctx context.Context, m *CategoryMapping) error

	// FindActive resolves the active mapping for the pair, or
	// ErrUnknownCategory.
	FindActive(ctx context.Context, productType, category string) (*CategoryMapping, error)

	// List returns every mapping row, ordered by product type then
	// category.
	List(ctx context.Context) ([]CategoryMapping, error)
}
