package domain

import (
	"time"
)

// Account is one node of the chart of accounts.
// Table: ledger.accounts
type Account struct {
	ID            int64       `gorm:"primaryKey;autoIncrement"`
	Code          string      `gorm:"uniqueIndex;type:varchar(32);not null"`
	Name          string      `gorm:"type:varchar(100);not null"`
	Type          AccountType `gorm:"type:varchar(16);not null"`
	NormalBalance Side        `gorm:"type:char(1);not null"`
	ParentCode    string      `gorm:"type:varchar(32);index"`
	IsSystem      bool        `gorm:"not null;default:false"`
	IsActive      bool        `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Account) TableName() string {
	return "ledger.accounts"
}

// Entry is one atomic financial event. Its (RefType, RefID) pair is
// the idempotency key: at most one entry per originating domain event.
// Table: ledger.entries
type Entry struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	RefType     string    `gorm:"uniqueIndex:idx_entries_ref;type:varchar(32);not null"`
	RefID       string    `gorm:"uniqueIndex:idx_entries_ref;type:varchar(64);not null"`
	ProductType string    `gorm:"type:varchar(32);not null;index"`
	Category    string    `gorm:"type:varchar(64);not null;index"`
	Entity      string    `gorm:"type:varchar(64);index"`
	Memo        string    `gorm:"type:text"`
	PostedAt    time.Time `gorm:"not null;index"`
	CreatedAt   time.Time

	Lines []Line `gorm:"foreignKey:EntryID"`
}

func (Entry) TableName() string {
	return "ledger.entries"
}

// Line is one side of an entry. Amount is a positive integer in the
// smallest currency unit; exactly one side is carried per line.
// Table: ledger.lines
type Line struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	EntryID   int64  `gorm:"not null;index"`
	AccountID int64  `gorm:"not null;index"`
	Side      Side   `gorm:"type:char(1);not null"`
	Amount    int64  `gorm:"not null"`
}

func (Line) TableName() string {
	return "ledger.lines"
}

// CategoryMapping declares which accounts a (productType, category)
// pair posts to. The mapping is data, versioned, and seeded once;
// FeeAccountCode is set only for categories whose total splits into a
// principal line and a separate fee line.
// Table: ledger.category_mappings
type CategoryMapping struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	ProductType       string `gorm:"uniqueIndex:idx_mappings_key;type:varchar(32);not null"`
	Category          string `gorm:"uniqueIndex:idx_mappings_key;type:varchar(64);not null"`
	DebitAccountCode  string `gorm:"type:varchar(32);not null"`
	CreditAccountCode string `gorm:"type:varchar(32);not null"`
	FeeAccountCode    string `gorm:"type:varchar(32)"`
	Version           int    `gorm:"not null;default:1"`
	IsActive          bool   `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (CategoryMapping) TableName() string {
	return "ledger.category_mappings"
}

// LineFact is a denormalized line row joined with its entry and
// account, the unit the report and audit engines aggregate over.
// It is never persisted as such.
type LineFact struct {
	EntryID       int64
	RefType       string
	RefID         string
	ProductType   string
	Category      string
	Entity        string
	PostedAt      time.Time
	AccountID     int64
	AccountCode   string
	AccountType   AccountType
	NormalBalance Side
	Side          Side
	Amount        int64
}

// SignedAmount returns the line amount signed by the account's normal
// balance: positive when the line increases the account.
func (f LineFact) SignedAmount() int64 {
	if f.Side == f.NormalBalance {
		return f.Amount
	}
	return -f.Amount
}
