package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalBalance(t *testing.T) {
	assert.Equal(t, Debit, Asset.NormalBalance())
	assert.Equal(t, Debit, Expense.NormalBalance())
	assert.Equal(t, Credit, Liability.NormalBalance())
	assert.Equal(t, Credit, Equity.NormalBalance())
	assert.Equal(t, Credit, Income.NormalBalance())
}

func TestAccountTypeIsValid(t *testing.T) {
	for _, valid := range []AccountType{Asset, Liability, Equity, Income, Expense} {
		assert.True(t, valid.IsValid(), string(valid))
	}
	assert.False(t, AccountType("revenue").IsValid())
	assert.False(t, AccountType("").IsValid())
}

func TestSideIsValid(t *testing.T) {
	assert.True(t, Debit.IsValid())
	assert.True(t, Credit.IsValid())
	assert.False(t, Side("X").IsValid())
	assert.False(t, Side("").IsValid())
}

func TestLineFactSignedAmount(t *testing.T) {
	debitToAsset := LineFact{NormalBalance: Debit, Side: Debit, Amount: 100}
	creditToAsset := LineFact{NormalBalance: Debit, Side: Credit, Amount: 100}
	creditToIncome := LineFact{NormalBalance: Credit, Side: Credit, Amount: 100}
	debitToIncome := LineFact{NormalBalance: Credit, Side: Debit, Amount: 100}

	assert.Equal(t, int64(100), debitToAsset.SignedAmount())
	assert.Equal(t, int64(-100), creditToAsset.SignedAmount())
	assert.Equal(t, int64(100), creditToIncome.SignedAmount())
	assert.Equal(t, int64(-100), debitToIncome.SignedAmount())
}
