package service

import (
	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// Hierarchy roots used by the report engine. The leading digit of an
// account code is its class; the two-digit prefixes below group the
// sub-accounts reports roll up over.
const (
	CashPrefix       = "10" // bank and payment-gateway clearing accounts
	RestrictedPrefix = "20" // funds held for a purpose, not yet distributed
)

// ProductInternal tags bank-to-bank movements that must not count as
// donation inflow or distribution outflow in cash-flow reports.
const ProductInternal = "internal"

// DefaultChart returns the system chart of accounts seeded at setup.
func DefaultChart() []domain.Account {
	return []domain.Account{
		{Code: "1000", Name: "Cash & Bank", Type: domain.Asset, NormalBalance: domain.Debit, IsSystem: true, IsActive: true},
		{Code: "1010", Name: "Bank Operational", Type: domain.Asset, NormalBalance: domain.Debit, ParentCode: "1000", IsSystem: true, IsActive: true},
		{Code: "1020", Name: "Payment Gateway Clearing", Type: domain.Asset, NormalBalance: domain.Debit, ParentCode: "1000", IsSystem: true, IsActive: true},
		{Code: "2000", Name: "Restricted Funds", Type: domain.Liability, NormalBalance: domain.Credit, IsSystem: true, IsActive: true},
		{Code: "2010", Name: "Zakat Funds Held", Type: domain.Liability, NormalBalance: domain.Credit, ParentCode: "2000", IsSystem: true, IsActive: true},
		{Code: "2020", Name: "Wakaf Funds Held", Type: domain.Liability, NormalBalance: domain.Credit, ParentCode: "2000", IsSystem: true, IsActive: true},
		{Code: "3010", Name: "Opening Equity", Type: domain.Equity, NormalBalance: domain.Credit, IsSystem: true, IsActive: true},
		{Code: "4000", Name: "Income", Type: domain.Income, NormalBalance: domain.Credit, IsSystem: true, IsActive: true},
		{Code: "4010", Name: "Campaign Donation Income", Type: domain.Income, NormalBalance: domain.Credit, ParentCode: "4000", IsSystem: true, IsActive: true},
		{Code: "4020", Name: "Qurban Sales Income", Type: domain.Income, NormalBalance: domain.Credit, ParentCode: "4000", IsSystem: true, IsActive: true},
		{Code: "4030", Name: "Administration Fee Income", Type: domain.Income, NormalBalance: domain.Credit, ParentCode: "4000", IsSystem: true, IsActive: true},
		{Code: "4040", Name: "Zakat Distribution Income", Type: domain.Income, NormalBalance: domain.Credit, ParentCode: "4000", IsSystem: true, IsActive: true},
		{Code: "5010", Name: "Program Distribution Expense", Type: domain.Expense, NormalBalance: domain.Debit, IsSystem: true, IsActive: true},
		{Code: "5020", Name: "Operational Expense", Type: domain.Expense, NormalBalance: domain.Debit, IsSystem: true, IsActive: true},
	}
}

// DefaultMappings returns the category-to-account table. Collections
// for a specific purpose (zakat, wakaf) credit a liability account and
// stay there until a distribution event debits it back out; general
// campaign donations are recognized as income immediately.
func DefaultMappings() []domain.CategoryMapping {
	return []domain.CategoryMapping{
		{ProductType: "campaign", Category: "donation", DebitAccountCode: "1020", CreditAccountCode: "4010", Version: 1, IsActive: true},
		{ProductType: "campaign", Category: "disbursement", DebitAccountCode: "5010", CreditAccountCode: "1010", Version: 1, IsActive: true},
		{ProductType: "qurban", Category: "purchase", DebitAccountCode: "1020", CreditAccountCode: "4020", FeeAccountCode: "4030", Version: 1, IsActive: true},
		{ProductType: "zakat", Category: "maal", DebitAccountCode: "1020", CreditAccountCode: "2010", Version: 1, IsActive: true},
		{ProductType: "zakat", Category: "fitrah", DebitAccountCode: "1020", CreditAccountCode: "2010", Version: 1, IsActive: true},
		{ProductType: "zakat", Category: "distribution", DebitAccountCode: "2010", CreditAccountCode: "1010", Version: 1, IsActive: true},
		{ProductType: "wakaf", Category: "donation", DebitAccountCode: "1020", CreditAccountCode: "2020", Version: 1, IsActive: true},
		{ProductType: "wakaf", Category: "distribution", DebitAccountCode: "2020", CreditAccountCode: "1010", Version: 1, IsActive: true},
		{ProductType: ProductInternal, Category: "transfer", DebitAccountCode: "1010", CreditAccountCode: "1020", Version: 1, IsActive: true},
	}
}
