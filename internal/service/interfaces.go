package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/models"
)

// Transactor executes the caller-facing balance mutations.
type Transactor interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Transaction, error)
	Transfer(ctx context.Context, sourceAccountID, receiverAccountID string, amount decimal.Decimal) (*models.Transaction, error)
}

// Reverser undoes completed transactions.
type Reverser interface {
	Reverse(ctx context.Context, transactionID string) (*models.Transaction, error)
}

// Directory resolves accounts and transactions for read access.
type Directory interface {
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	AccountHistory(ctx context.Context, accountID string) ([]*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
}

// Scheduler applies the derived periodic mutations.
type Scheduler interface {
	ApplySavingsInterest(ctx context.Context, accountID string) (decimal.Decimal, *models.Transaction, error)
	ApplyCardFee(ctx context.Context, accountID string) (decimal.Decimal, *models.Transaction, error)
	ApplyCheckingFee(ctx context.Context, accountID string) (*models.Transaction, error)
}

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Ensure the concrete service implements the interfaces
var (
	_ Transactor = (*LedgerService)(nil)
	_ Reverser   = (*LedgerService)(nil)
	_ Directory  = (*LedgerService)(nil)
	_ Scheduler  = (*LedgerService)(nil)
)
