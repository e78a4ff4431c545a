// Package policy implements the per-account-type money policy: the pure rules
// deciding whether a balance mutation is permitted. Policies have no side
// effects and no I/O; they are resolved from the account's type tag.
package policy

import (
	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/models"
)

// Policy decides whether a withdraw or deposit of amount is permitted given
// the current balance. Amounts must be strictly positive for any mutation.
type Policy interface {
	CanWithdraw(balance, amount decimal.Decimal) bool
	CanDeposit(balance, amount decimal.Decimal) bool
}

// For resolves the policy for an account type. The second return value is
// false for unknown types.
func For(accountType models.AccountType, terms models.AccountTerms) (Policy, bool) {
	switch accountType {
	case models.AccountTypeChecking:
		return checkingPolicy{terms: terms}, true
	case models.AccountTypeSavings:
		return savingsPolicy{terms: terms}, true
	case models.AccountTypeCard:
		return cardPolicy{terms: terms}, true
	}
	return nil, false
}

// ForAccount resolves the policy for an account.
func ForAccount(acct *models.Account) (Policy, bool) {
	return For(acct.Type, acct.Terms)
}

// checkingPolicy enforces the overdraft limit and the minimum balance floor on
// withdrawals. Deposits are unconstrained.
type checkingPolicy struct {
	terms models.AccountTerms
}

func (p checkingPolicy) CanWithdraw(balance, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	remaining := balance.Sub(amount)
	if remaining.LessThan(p.terms.OverdraftLimit.Neg()) {
		return false
	}
	return remaining.GreaterThanOrEqual(p.terms.MinBalance)
}

func (p checkingPolicy) CanDeposit(balance, amount decimal.Decimal) bool {
	return amount.IsPositive()
}

// savingsPolicy enforces the minimum balance floor on withdrawals. Deposits
// are unconstrained.
type savingsPolicy struct {
	terms models.AccountTerms
}

func (p savingsPolicy) CanWithdraw(balance, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return balance.Sub(amount).GreaterThanOrEqual(p.terms.MinimumBalance)
}

func (p savingsPolicy) CanDeposit(balance, amount decimal.Decimal) bool {
	return amount.IsPositive()
}

// cardPolicy enforces the credit limit ceiling on deposits; the balance is the
// amount drawn against the limit. A withdraw is a charge and is always
// permitted for positive amounts.
type cardPolicy struct {
	terms models.AccountTerms
}

func (p cardPolicy) CanWithdraw(balance, amount decimal.Decimal) bool {
	return amount.IsPositive()
}

func (p cardPolicy) CanDeposit(balance, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return balance.Add(amount).LessThanOrEqual(p.terms.CreditLimit)
}

// SavingsInterest computes the interest accrued on a savings balance,
// balance × interestRate. It is applied as a policy-checked deposit.
func SavingsInterest(balance, interestRate decimal.Decimal) decimal.Decimal {
	return balance.Mul(interestRate)
}

// CardMinimumPayment computes the derived monthly minimum payment for a card,
// (creditLimit − balance) × interestRate. It is applied as a policy-checked
// withdraw (a charge against the card).
func CardMinimumPayment(creditLimit, balance, interestRate decimal.Decimal) decimal.Decimal {
	return creditLimit.Sub(balance).Mul(interestRate)
}
