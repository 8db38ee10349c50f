package domain

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Income    AccountType = "income"
	Expense   AccountType = "expense"
)

// IsValid reports whether t is one of the five account classes.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// NormalBalance returns the side on which accounts of this type
// naturally increase: assets and expenses on the debit side,
// liabilities, equity and income on the credit side.
func (t AccountType) NormalBalance() Side {
	if t == Asset || t == Expense {
		return Debit
	}
	return Credit
}

// Side is one side of a double-entry posting (D/C).
type Side string

const (
	Debit  Side = "D"
	Credit Side = "C"
)

// IsValid reports whether s is a legal posting side.
func (s Side) IsValid() bool {
	return s == Debit || s == Credit
}
