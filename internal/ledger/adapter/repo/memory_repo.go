package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// MemoryStore holds the three in-memory repositories over one shared
// dataset, so line facts can join entries with accounts the same way
// the SQL adapter does. Used by unit tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account // by code
	entries  []*domain.Entry
	mappings map[string]*domain.CategoryMapping // by productType+"/"+category

	nextAccountID int64
	nextEntryID   int64
	nextLineID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*domain.Account),
		mappings: make(map[string]*domain.CategoryMapping),
	}
}

func (s *MemoryStore) Accounts() domain.AccountRepository { return (*memoryAccounts)(s) }

// InsertRaw appends an entry without any invariant or uniqueness
// checks. Test hook for exercising the audit scan against data the
// posting engine would never produce.
func (s *MemoryStore) InsertRaw(entry *domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == 0 {
		s.nextEntryID++
		entry.ID = s.nextEntryID
	}
	for i := range entry.Lines {
		if entry.Lines[i].ID == 0 {
			s.nextLineID++
			entry.Lines[i].ID = s.nextLineID
		}
		entry.Lines[i].EntryID = entry.ID
	}
	copied := *entry
	copied.Lines = append([]domain.Line(nil), entry.Lines...)
	s.entries = append(s.entries, &copied)
}
func (s *MemoryStore) Entries() domain.EntryRepository    { return (*memoryEntries)(s) }
func (s *MemoryStore) Mappings() domain.MappingRepository { return (*memoryMappings)(s) }

type memoryAccounts MemoryStore

func (s *memoryAccounts) Create(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.Code]; exists {
		return domain.ErrDuplicateAccountCode
	}
	s.nextAccountID++
	account.ID = s.nextAccountID
	copied := *account
	s.accounts[account.Code] = &copied
	return nil
}

func (s *memoryAccounts) FindByCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[code]
	if !ok {
		return nil, domain.ErrUnknownAccount
	}
	copied := *account
	return &copied, nil
}

func (s *memoryAccounts) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, domain.ErrUnknownAccount
}

func (s *memoryAccounts) ListByType(_ context.Context, t domain.AccountType) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Account
	for _, account := range s.accounts {
		if account.Type == t {
			out = append(out, *account)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *memoryAccounts) ListByPrefix(_ context.Context, prefix string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Account
	for _, account := range s.accounts {
		if strings.HasPrefix(account.Code, prefix) {
			out = append(out, *account)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *memoryAccounts) SetActive(_ context.Context, code string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[code]
	if !ok {
		return domain.ErrUnknownAccount
	}
	account.IsActive = active
	return nil
}

func sortAccounts(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Code < accounts[j].Code
	})
}

type memoryEntries MemoryStore

func (s *memoryEntries) Create(_ context.Context, entry *domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.RefType == entry.RefType && existing.RefID == entry.RefID {
			return domain.ErrDuplicatePosting
		}
	}
	s.nextEntryID++
	entry.ID = s.nextEntryID
	for i := range entry.Lines {
		s.nextLineID++
		entry.Lines[i].ID = s.nextLineID
		entry.Lines[i].EntryID = entry.ID
	}
	copied := *entry
	copied.Lines = append([]domain.Line(nil), entry.Lines...)
	s.entries = append(s.entries, &copied)
	return nil
}

func (s *memoryEntries) ListLines(_ context.Context, f domain.LineFilter) ([]domain.LineFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[int64]*domain.Account, len(s.accounts))
	for _, account := range s.accounts {
		byID[account.ID] = account
	}

	var facts []domain.LineFact
	for _, entry := range s.entries {
		if !f.Start.IsZero() && entry.PostedAt.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && entry.PostedAt.After(f.End) {
			continue
		}
		if f.Entity != "" && entry.Entity != f.Entity {
			continue
		}
		if f.ProductType != "" && entry.ProductType != f.ProductType {
			continue
		}
		for _, line := range entry.Lines {
			account, ok := byID[line.AccountID]
			if !ok {
				continue // orphaned lines are the audit scan's concern
			}
			if f.AccountCode != "" && account.Code != f.AccountCode {
				continue
			}
			if f.AccountPrefix != "" && !strings.HasPrefix(account.Code, f.AccountPrefix) {
				continue
			}
			facts = append(facts, domain.LineFact{
				EntryID:       entry.ID,
				RefType:       entry.RefType,
				RefID:         entry.RefID,
				ProductType:   entry.ProductType,
				Category:      entry.Category,
				Entity:        entry.Entity,
				PostedAt:      entry.PostedAt,
				AccountID:     line.AccountID,
				AccountCode:   account.Code,
				AccountType:   account.Type,
				NormalBalance: account.NormalBalance,
				Side:          line.Side,
				Amount:        line.Amount,
			})
		}
	}
	return facts, nil
}

func (s *memoryEntries) ListEntries(_ context.Context) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		copied := *entry
		copied.Lines = append([]domain.Line(nil), entry.Lines...)
		out = append(out, copied)
	}
	return out, nil
}

func (s *memoryEntries) UpdateCategory(_ context.Context, productType, oldCategory, newCategory string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for _, entry := range s.entries {
		if productType != "" && entry.ProductType != productType {
			continue
		}
		if entry.Category == oldCategory {
			entry.Category = newCategory
			changed++
		}
	}
	return changed, nil
}

type memoryMappings MemoryStore

func mappingKey(productType, category string) string {
	return productType + "/" + category
}

func (s *memoryMappings) Create(_ context.Context, m *domain.CategoryMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mappingKey(m.ProductType, m.Category)
	if _, exists := s.mappings[key]; exists {
		return domain.ValidationError{Field: "mapping", Reason: "duplicate " + key}
	}
	copied := *m
	s.mappings[key] = &copied
	return nil
}

func (s *memoryMappings) FindActive(_ context.Context, productType, category string) (*domain.CategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[mappingKey(productType, category)]
	if !ok || !m.IsActive {
		return nil, domain.ErrUnknownCategory
	}
	copied := *m
	return &copied, nil
}

func (s *memoryMappings) List(_ context.Context) ([]domain.CategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CategoryMapping, 0, len(s.mappings))
	for _, m := range s.mappings {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductType != out[j].ProductType {
			return out[i].ProductType < out[j].ProductType
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
