package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType discriminates the balance-mutation rules that apply to an account
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeCard     AccountType = "CARD"
)

// Valid reports whether t is one of the known account types
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCard:
		return true
	}
	return false
}

// AccountTerms holds the per-type limits consulted by the money policy.
// Only the fields relevant to the account's type are meaningful: checking uses
// OverdraftLimit, MinBalance and MonthlyFee; savings uses MinimumBalance and
// InterestRate; card uses CreditLimit and InterestRate.
type AccountTerms struct {
	OverdraftLimit decimal.Decimal `db:"overdraft_limit"`
	MinBalance     decimal.Decimal `db:"min_balance"`
	MonthlyFee     decimal.Decimal `db:"monthly_fee"`
	MinimumBalance decimal.Decimal `db:"minimum_balance"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	CreditLimit    decimal.Decimal `db:"credit_limit"`
}

// Account represents a balance-bearing account owned by exactly one Owner.
// For card accounts the balance is the amount drawn against the credit limit.
type Account struct {
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
	OwnerID   string          `db:"owner_id"`
	ID        string          `db:"id"`
	Type      AccountType     `db:"type"`
	Balance   decimal.Decimal `db:"balance"`
	Terms     AccountTerms
	History   []*Transaction
}

// AccountID forms the conventional account identifier, "{ownerID}-{type}".
func AccountID(ownerID string, accountType AccountType) string {
	return ownerID + "-" + string(accountType)
}

// Clone returns a deep copy of the account. History entries are copied so the
// caller can mutate them without aliasing the receiver's records.
func (a *Account) Clone() *Account {
	dup := *a
	dup.History = make([]*Transaction, len(a.History))
	for i, txn := range a.History {
		cp := *txn
		dup.History[i] = &cp
	}
	return &dup
}
