package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/policy"
)

// Scheduled mutations are derived amounts applied through the same
// policy-checked deposit/withdraw paths as caller-initiated transactions, so
// they inherit every balance invariant. The account lock is held across both
// the computation and the application: the amount is always derived from the
// balance the mutation will apply to, never from an earlier read.

// ApplySavingsInterest computes balance × interestRate for a savings account
// and deposits it. The computed interest is returned alongside the
// transaction.
func (s *LedgerService) ApplySavingsInterest(ctx context.Context, accountID string) (decimal.Decimal, *models.Transaction, error) {
	unlock := s.locks.acquire(accountID)
	defer unlock()

	acct, err := s.requireAccountType(ctx, accountID, models.AccountTypeSavings)
	if err != nil {
		return decimal.Zero, nil, err
	}

	interest := policy.SavingsInterest(acct.Balance, acct.Terms.InterestRate)
	txn := s.newTransaction(models.TransactionTypeDeposit, accountID, "", interest)
	err = s.performExecute(ctx, s.gw, txn)
	return interest, txn, err
}

// ApplyCardFee recomputes the card's derived minimum payment,
// (creditLimit − balance) × interestRate, and charges it as a withdraw.
func (s *LedgerService) ApplyCardFee(ctx context.Context, accountID string) (decimal.Decimal, *models.Transaction, error) {
	unlock := s.locks.acquire(accountID)
	defer unlock()

	acct, err := s.requireAccountType(ctx, accountID, models.AccountTypeCard)
	if err != nil {
		return decimal.Zero, nil, err
	}

	minimumPayment := policy.CardMinimumPayment(acct.Terms.CreditLimit, acct.Balance, acct.Terms.InterestRate)
	txn := s.newTransaction(models.TransactionTypeWithdraw, accountID, "", minimumPayment)
	err = s.performExecute(ctx, s.gw, txn)
	return minimumPayment, txn, err
}

// ApplyCheckingFee withdraws the checking account's fixed monthly maintenance
// fee.
func (s *LedgerService) ApplyCheckingFee(ctx context.Context, accountID string) (*models.Transaction, error) {
	unlock := s.locks.acquire(accountID)
	defer unlock()

	acct, err := s.requireAccountType(ctx, accountID, models.AccountTypeChecking)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(models.TransactionTypeWithdraw, accountID, "", acct.Terms.MonthlyFee)
	err = s.performExecute(ctx, s.gw, txn)
	return txn, err
}

func (s *LedgerService) requireAccountType(ctx context.Context, accountID string, want models.AccountType) (*models.Account, error) {
	_, acct, err := resolveAccount(ctx, s.gw, accountID)
	if err != nil {
		return nil, err
	}

	if acct.Type != want {
		return nil, &ServiceError{
			Code:    ErrCodeWrongAccountType,
			Message: fmt.Sprintf("account %s has type %s, want %s", accountID, acct.Type, want),
		}
	}

	return acct, nil
}
