package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// PostgresAccountRepo implements domain.AccountRepository on gorm.
type PostgresAccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

func (r *PostgresAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateAccountCode
		}
		return fmt.Errorf("create account %s: %w", account.Code, err)
	}
	return nil
}

func (r *PostgresAccountRepo) FindByCode(ctx context.Context, code string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, fmt.Errorf("find account %s: %w", code, err)
	}
	return &account, nil
}

func (r *PostgresAccountRepo) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, fmt.Errorf("find account %d: %w", id, err)
	}
	return &account, nil
}

func (r *PostgresAccountRepo) ListByType(ctx context.Context, t domain.AccountType) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).
		Where("type = ?", t).
		Order("code").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts by type %s: %w", t, err)
	}
	return accounts, nil
}

func (r *PostgresAccountRepo) ListByPrefix(ctx context.Context, prefix string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).
		Where("code LIKE ?", prefix+"%").
		Order("code").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts by prefix %s: %w", prefix, err)
	}
	return accounts, nil
}

func (r *PostgresAccountRepo) SetActive(ctx context.Context, code string, active bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Account{}).
		Where("code = ?", code).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("set account %s active=%t: %w", code, active, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUnknownAccount
	}
	return nil
}

// ---------------------------------------------------------

// PostgresEntryRepo implements domain.EntryRepository on gorm.
type PostgresEntryRepo struct {
	db *gorm.DB
}

func NewEntryRepo(db *gorm.DB) *PostgresEntryRepo {
	return &PostgresEntryRepo{db: db}
}

// Create writes the entry and its lines in one transaction. The unique
// index on (ref_type, ref_id) serializes concurrent calls for the same
// reference: exactly one insert wins, the rest see ErrDuplicatePosting.
func (r *PostgresEntryRepo) Create(ctx context.Context, entry *domain.Entry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicatePosting
		}
		return fmt.Errorf("create entry %s/%s: %w", entry.RefType, entry.RefID, err)
	}
	return nil
}

func (r *PostgresEntryRepo) ListLines(ctx context.Context, f domain.LineFilter) ([]domain.LineFact, error) {
	q := r.db.WithContext(ctx).
		Table("ledger.lines AS l").
		Select(`l.entry_id, e.ref_type, e.ref_id, e.product_type, e.category,
			e.entity, e.posted_at, l.account_id, a.code AS account_code,
			a.type AS account_type, a.normal_balance, l.side, l.amount`).
		Joins("JOIN ledger.entries e ON e.id = l.entry_id").
		Joins("JOIN ledger.accounts a ON a.id = l.account_id")

	if !f.Start.IsZero() {
		q = q.Where("e.posted_at >= ?", f.Start)
	}
	if !f.End.IsZero() {
		q = q.Where("e.posted_at <= ?", f.End)
	}
	if f.AccountCode != "" {
		q = q.Where("a.code = ?", f.AccountCode)
	}
	if f.AccountPrefix != "" {
		q = q.Where("a.code LIKE ?", f.AccountPrefix+"%")
	}
	if f.Entity != "" {
		q = q.Where("e.entity = ?", f.Entity)
	}
	if f.ProductType != "" {
		q = q.Where("e.product_type = ?", f.ProductType)
	}

	var facts []domain.LineFact
	if err := q.Order("e.posted_at, l.entry_id, l.id").Scan(&facts).Error; err != nil {
		return nil, fmt.Errorf("list line facts: %w", err)
	}
	return facts, nil
}

func (r *PostgresEntryRepo) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("posted_at, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (r *PostgresEntryRepo) UpdateCategory(ctx context.Context, productType, oldCategory, newCategory string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Entry{}).
		Where("category = ?", oldCategory)
	if productType != "" {
		q = q.Where("product_type = ?", productType)
	}
	result := q.Update("category", newCategory)
	if result.Error != nil {
		return 0, fmt.Errorf("reclassify %s/%s: %w", productType, oldCategory, result.Error)
	}
	return result.RowsAffected, nil
}

// ---------------------------------------------------------

// PostgresMappingRepo implements domain.MappingRepository on gorm.
type PostgresMappingRepo struct {
	db *gorm.DB
}

func NewMappingRepo(db *gorm.DB) *PostgresMappingRepo {
	return &PostgresMappingRepo{db: db}
}

func (r *PostgresMappingRepo) Create(ctx context.Context, m *domain.CategoryMapping) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create mapping %s/%s: %w", m.ProductType, m.Category, err)
	}
	return nil
}

func (r *PostgresMappingRepo) FindActive(ctx context.Context, productType, category string) (*domain.CategoryMapping, error) {
	var m domain.CategoryMapping
	err := r.db.WithContext(ctx).
		Where("product_type = ? AND category = ? AND is_active = true", productType, category).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownCategory
		}
		return nil, fmt.Errorf("find mapping %s/%s: %w", productType, category, err)
	}
	return &m, nil
}

func (r *PostgresMappingRepo) List(ctx context.Context) ([]domain.CategoryMapping, error) {
	var mappings []domain.CategoryMapping
	err := r.db.WithContext(ctx).
		Order("product_type, category").
		Find(&mappings).Error
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return mappings, nil
}
