package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/repository"
)

// ownerIDFromAccountID derives the owning record's id from an account id
// formed as "{ownerID}-{accountType}". The owner id may itself contain
// hyphens, so the type suffix is stripped from the right.
func ownerIDFromAccountID(accountID string) (string, error) {
	i := strings.LastIndex(accountID, "-")
	if i <= 0 {
		return "", fmt.Errorf("malformed account id %q", accountID)
	}

	if !models.AccountType(accountID[i+1:]).Valid() {
		return "", fmt.Errorf("malformed account id %q: unknown type suffix", accountID)
	}

	return accountID[:i], nil
}

// resolveAccount looks an account id up through the gateway: it derives the
// owner id, loads the owner record and searches its account list. The returned
// account is part of the returned owner.
func resolveAccount(ctx context.Context, gw repository.Gateway, accountID string) (*models.Owner, *models.Account, error) {
	ownerID, err := ownerIDFromAccountID(accountID)
	if err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: err.Error(),
		}
	}

	owner, err := gw.LoadOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: fmt.Sprintf("account %s not found", accountID),
			}
		}
		return nil, nil, &ServiceError{
			Code:    ErrCodePersistenceFailure,
			Message: fmt.Sprintf("failed to load owner %s", ownerID),
			Err:     err,
		}
	}

	acct := owner.Account(accountID)
	if acct == nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: fmt.Sprintf("account %s not found", accountID),
		}
	}

	return owner, acct, nil
}

// GetAccount returns a fresh copy of the account with its hydrated history.
func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	_, acct, err := resolveAccount(ctx, s.gw, accountID)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// AccountHistory returns the account's transactions in execution order.
func (s *LedgerService) AccountHistory(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	_, acct, err := resolveAccount(ctx, s.gw, accountID)
	if err != nil {
		return nil, err
	}
	return acct.History, nil
}

// GetTransaction returns the transaction with the given id.
func (s *LedgerService) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, err := s.gw.LoadTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeTransactionNotFound,
				Message: fmt.Sprintf("transaction %s not found", transactionID),
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodePersistenceFailure,
			Message: fmt.Sprintf("failed to load transaction %s", transactionID),
			Err:     err,
		}
	}
	return txn, nil
}
