// Package service implements the ledger core: the transaction state machine,
// account resolution and the scheduled interest and fee mutations.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/config"
	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/repository"
)

// LedgerService drives transactions through their validate/execute/reverse
// lifecycle. All balance mutations pass through here; execute and reverse are
// the only critical sections and are serialized per account.
type LedgerService struct {
	gw             repository.Gateway
	locks          *accountLocks
	reversalPolicy config.ReversalPolicy
	logger         *slog.Logger
}

// NewLedgerService creates a new LedgerService. Gateway calls are bounded by
// the configured timeout.
func NewLedgerService(gw repository.Gateway, cfg *config.LedgerConfig, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		gw:             newTimedGateway(gw, cfg.GatewayTimeout),
		locks:          newAccountLocks(),
		reversalPolicy: cfg.ReversalPolicy,
		logger:         logger,
	}
}

// Deposit credits amount to the account through a DEPOSIT transaction.
func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Transaction, error) {
	return s.Execute(ctx, s.newTransaction(models.TransactionTypeDeposit, accountID, "", amount))
}

// Withdraw debits amount from the account through a WITHDRAW transaction.
func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Transaction, error) {
	return s.Execute(ctx, s.newTransaction(models.TransactionTypeWithdraw, accountID, "", amount))
}

// Transfer moves amount between two accounts through a single TRANSFER
// transaction shared by both histories.
func (s *LedgerService) Transfer(ctx context.Context, sourceAccountID, receiverAccountID string, amount decimal.Decimal) (*models.Transaction, error) {
	if sourceAccountID == receiverAccountID {
		return nil, &ServiceError{
			Code:    ErrCodeSameAccount,
			Message: "source and receiver accounts are the same",
		}
	}
	return s.Execute(ctx, s.newTransaction(models.TransactionTypeTransfer, sourceAccountID, receiverAccountID, amount))
}

// Execute runs a transaction through validation and execution under the
// per-account locks. The transaction is returned with its final status; on
// failure the status is FAILED and no balance or history changed.
func (s *LedgerService) Execute(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	unlock := s.locks.acquire(txn.SourceAccountID, txn.ReceiverAccountID)
	defer unlock()

	err := s.performExecute(ctx, s.gw, txn)
	return txn, err
}

// Reverse undoes a completed transaction, applying the inverse balance deltas
// under the same policy checks as execution. A second reversal is rejected or
// treated as a no-op depending on the configured reversal policy.
func (s *LedgerService) Reverse(ctx context.Context, transactionID string) (*models.Transaction, error) {
	// Load once to learn the account ids, then re-load the status under the
	// locks so concurrent reversals observe each other.
	txn, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(txn.SourceAccountID, txn.ReceiverAccountID)
	defer unlock()

	txn, err = s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	err = s.performReverse(ctx, s.gw, txn)
	return txn, err
}

func (s *LedgerService) newTransaction(t models.TransactionType, sourceAccountID, receiverAccountID string, amount decimal.Decimal) *models.Transaction {
	txn := &models.Transaction{
		ID:                models.NewTransactionID(),
		SourceAccountID:   sourceAccountID,
		ReceiverAccountID: receiverAccountID,
		Amount:            amount,
		Type:              t,
		Status:            models.TransactionStatusPending,
		CreatedAt:         time.Now(),
	}

	// Resolution failures surface during execution.
	if ownerID, err := ownerIDFromAccountID(sourceAccountID); err == nil {
		txn.SourceOwnerID = ownerID
	}
	if receiverAccountID != "" {
		if ownerID, err := ownerIDFromAccountID(receiverAccountID); err == nil {
			txn.ReceiverOwnerID = ownerID
		}
	}

	return txn
}
