package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/config"
	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/policy"
	"github.com/mockbank/bank/internal/repository"
)

// balanceChange stages one account's balance mutation so a multi-account
// operation can be checked fully before anything moves, and rolled back if a
// later persistence write fails.
type balanceChange struct {
	owner *models.Owner
	acct  *models.Account
	prev  decimal.Decimal
	next  decimal.Decimal
}

// performExecute contains the core state machine: validate, apply the
// policy-checked deltas, persist the owning records and append the transaction
// record. Any rejection leaves every balance and history untouched and the
// transaction FAILED.
func (s *LedgerService) performExecute(ctx context.Context, gw repository.Gateway, txn *models.Transaction) error {
	if !txn.Amount.IsPositive() {
		return s.failTransaction(ctx, gw, txn, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "amount must be greater than 0",
		})
	}

	switch txn.Type {
	case models.TransactionTypeDeposit, models.TransactionTypeWithdraw, models.TransactionTypeTransfer:
	default:
		return s.failTransaction(ctx, gw, txn, &ServiceError{
			Code:    ErrCodeUnknownTransactionType,
			Message: fmt.Sprintf("unknown transaction type %q", txn.Type),
		})
	}

	srcOwner, src, err := resolveAccount(ctx, gw, txn.SourceAccountID)
	if err != nil {
		return s.failTransaction(ctx, gw, txn, err)
	}
	txn.SourceOwnerID = srcOwner.ID

	// Cheap pre-check; the authoritative check is the money policy below.
	if txn.Type != models.TransactionTypeDeposit && src.Balance.LessThan(txn.Amount) {
		return s.failTransaction(ctx, gw, txn, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: fmt.Sprintf("balance %s is less than amount %s", src.Balance, txn.Amount),
		})
	}

	changes, err := s.stageExecute(ctx, gw, txn, srcOwner, src)
	if err != nil {
		return s.failTransaction(ctx, gw, txn, err)
	}

	if err := s.commit(ctx, gw, txn, changes, models.TransactionStatusCompleted); err != nil {
		return s.failTransaction(ctx, gw, txn, err)
	}

	return nil
}

// stageExecute runs the policy checks for the transaction type and returns the
// staged balance changes. Nothing is mutated yet.
func (s *LedgerService) stageExecute(
	ctx context.Context,
	gw repository.Gateway,
	txn *models.Transaction,
	srcOwner *models.Owner,
	src *models.Account,
) ([]balanceChange, error) {
	srcPolicy, ok := policy.ForAccount(src)
	if !ok {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("account %s has unknown type %q", src.ID, src.Type),
		}
	}

	switch txn.Type {
	case models.TransactionTypeDeposit:
		if !srcPolicy.CanDeposit(src.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("deposit of %s not permitted on account %s", txn.Amount, src.ID),
			}
		}
		return []balanceChange{
			{owner: srcOwner, acct: src, prev: src.Balance, next: src.Balance.Add(txn.Amount)},
		}, nil

	case models.TransactionTypeWithdraw:
		if !srcPolicy.CanWithdraw(src.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("withdraw of %s not permitted on account %s", txn.Amount, src.ID),
			}
		}
		return []balanceChange{
			{owner: srcOwner, acct: src, prev: src.Balance, next: src.Balance.Sub(txn.Amount)},
		}, nil

	case models.TransactionTypeTransfer:
		// Staging both deltas against one account would net to a credit of
		// the amount, so the check cannot live only in the Transfer helper.
		if txn.ReceiverAccountID == txn.SourceAccountID {
			return nil, &ServiceError{
				Code:    ErrCodeSameAccount,
				Message: "source and receiver accounts are the same",
			}
		}

		recvOwner, recv, err := s.resolveReceiver(ctx, gw, txn, srcOwner)
		if err != nil {
			return nil, err
		}
		txn.ReceiverOwnerID = recvOwner.ID

		recvPolicy, ok := policy.ForAccount(recv)
		if !ok {
			return nil, &ServiceError{
				Code:    ErrCodeInternalError,
				Message: fmt.Sprintf("account %s has unknown type %q", recv.ID, recv.Type),
			}
		}

		// Both sides are checked before either side moves.
		if !srcPolicy.CanWithdraw(src.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("withdraw of %s not permitted on account %s", txn.Amount, src.ID),
			}
		}
		if !recvPolicy.CanDeposit(recv.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("deposit of %s not permitted on account %s", txn.Amount, recv.ID),
			}
		}

		return []balanceChange{
			{owner: srcOwner, acct: src, prev: src.Balance, next: src.Balance.Sub(txn.Amount)},
			{owner: recvOwner, acct: recv, prev: recv.Balance, next: recv.Balance.Add(txn.Amount)},
		}, nil
	}

	return nil, &ServiceError{
		Code:    ErrCodeUnknownTransactionType,
		Message: fmt.Sprintf("unknown transaction type %q", txn.Type),
	}
}

// resolveReceiver loads the transfer receiver. When both accounts belong to
// the same owner the already-loaded record is reused, so both mutations land
// on one copy and one save.
func (s *LedgerService) resolveReceiver(
	ctx context.Context,
	gw repository.Gateway,
	txn *models.Transaction,
	srcOwner *models.Owner,
) (*models.Owner, *models.Account, error) {
	receiverOwnerID, err := ownerIDFromAccountID(txn.ReceiverAccountID)
	if err == nil && receiverOwnerID == srcOwner.ID {
		recv := srcOwner.Account(txn.ReceiverAccountID)
		if recv == nil {
			return nil, nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: fmt.Sprintf("account %s not found", txn.ReceiverAccountID),
			}
		}
		return srcOwner, recv, nil
	}

	return resolveAccount(ctx, gw, txn.ReceiverAccountID)
}

// performReverse applies the inverse balance deltas of a completed
// transaction under the same policy checks as execution, flipping its status
// to REVERSED in place. A reversal that can no longer satisfy the money policy
// fails the transaction.
func (s *LedgerService) performReverse(ctx context.Context, gw repository.Gateway, txn *models.Transaction) error {
	switch txn.Status {
	case models.TransactionStatusCompleted:
	case models.TransactionStatusReversed:
		// idempotent policy: a second reversal is a no-op success
		if s.reversalPolicy == config.ReversalPolicyIdempotent {
			return nil
		}
		return &ServiceError{
			Code:    ErrCodeAlreadyReversed,
			Message: fmt.Sprintf("transaction %s is already reversed", txn.ID),
		}
	default:
		return &ServiceError{
			Code:    ErrCodeNotReversible,
			Message: fmt.Sprintf("transaction %s has status %s and cannot be reversed", txn.ID, txn.Status),
		}
	}

	srcOwner, src, err := resolveAccount(ctx, gw, txn.SourceAccountID)
	if err != nil {
		return s.failTransaction(ctx, gw, txn, err)
	}

	changes, err := s.stageReverse(ctx, gw, txn, srcOwner, src)
	if err != nil {
		return s.failTransaction(ctx, gw, txn, err)
	}

	if err := s.commit(ctx, gw, txn, changes, models.TransactionStatusReversed); err != nil {
		return s.failTransaction(ctx, gw, txn, err)
	}

	return nil
}

// stageReverse stages the inverse deltas against the current balances.
func (s *LedgerService) stageReverse(
	ctx context.Context,
	gw repository.Gateway,
	txn *models.Transaction,
	srcOwner *models.Owner,
	src *models.Account,
) ([]balanceChange, error) {
	srcPolicy, ok := policy.ForAccount(src)
	if !ok {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("account %s has unknown type %q", src.ID, src.Type),
		}
	}

	switch txn.Type {
	case models.TransactionTypeDeposit:
		if !srcPolicy.CanWithdraw(src.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("reversing deposit would breach the policy of account %s", src.ID),
			}
		}
		return []balanceChange{
			{owner: srcOwner, acct: src, prev: src.Balance, next: src.Balance.Sub(txn.Amount)},
		}, nil

	case models.TransactionTypeWithdraw:
		if !srcPolicy.CanDeposit(src.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("reversing withdraw would breach the policy of account %s", src.ID),
			}
		}
		return []balanceChange{
			{owner: srcOwner, acct: src, prev: src.Balance, next: src.Balance.Add(txn.Amount)},
		}, nil

	case models.TransactionTypeTransfer:
		if txn.ReceiverAccountID == txn.SourceAccountID {
			return nil, &ServiceError{
				Code:    ErrCodeSameAccount,
				Message: "source and receiver accounts are the same",
			}
		}

		recvOwner, recv, err := s.resolveReceiver(ctx, gw, txn, srcOwner)
		if err != nil {
			return nil, err
		}

		recvPolicy, ok := policy.ForAccount(recv)
		if !ok {
			return nil, &ServiceError{
				Code:    ErrCodeInternalError,
				Message: fmt.Sprintf("account %s has unknown type %q", recv.ID, recv.Type),
			}
		}

		// The reversal swaps direction: the receiver pays the amount back.
		if !recvPolicy.CanWithdraw(recv.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("reversing transfer would breach the policy of account %s", recv.ID),
			}
		}
		if !srcPolicy.CanDeposit(src.Balance, txn.Amount) {
			return nil, &ServiceError{
				Code:    ErrCodePolicyViolation,
				Message: fmt.Sprintf("reversing transfer would breach the policy of account %s", src.ID),
			}
		}

		return []balanceChange{
			{owner: recvOwner, acct: recv, prev: recv.Balance, next: recv.Balance.Sub(txn.Amount)},
			{owner: srcOwner, acct: src, prev: src.Balance, next: src.Balance.Add(txn.Amount)},
		}, nil
	}

	return nil, &ServiceError{
		Code:    ErrCodeUnknownTransactionType,
		Message: fmt.Sprintf("unknown transaction type %q", txn.Type),
	}
}

// commit applies the staged changes, persists every touched owner and appends
// the transaction record with the given final status. If any write fails, the
// already-persisted owners are compensated back to their previous balances so
// the operation stays all-or-nothing.
func (s *LedgerService) commit(
	ctx context.Context,
	gw repository.Gateway,
	txn *models.Transaction,
	changes []balanceChange,
	finalStatus models.TransactionStatus,
) error {
	for _, ch := range changes {
		ch.acct.Balance = ch.next
	}

	owners := uniqueOwners(changes)
	saved := 0
	for _, owner := range owners {
		if err := gw.SaveOwner(ctx, owner); err != nil {
			s.rollback(ctx, gw, changes, owners[:saved])
			return &ServiceError{
				Code:    ErrCodePersistenceFailure,
				Message: fmt.Sprintf("failed to save owner %s", owner.ID),
				Err:     err,
			}
		}
		saved++
	}

	prevStatus := txn.Status
	txn.Status = finalStatus
	for _, ch := range changes {
		ch.acct.History = append(ch.acct.History, txn)
	}

	if err := gw.AppendTransaction(ctx, txn); err != nil {
		txn.Status = prevStatus
		s.rollback(ctx, gw, changes, owners)
		return &ServiceError{
			Code:    ErrCodePersistenceFailure,
			Message: fmt.Sprintf("failed to append transaction %s", txn.ID),
			Err:     err,
		}
	}

	return nil
}

// rollback restores the previous balances and best-effort re-saves the owners
// that were already persisted.
func (s *LedgerService) rollback(ctx context.Context, gw repository.Gateway, changes []balanceChange, savedOwners []*models.Owner) {
	for _, ch := range changes {
		ch.acct.Balance = ch.prev
	}
	for _, owner := range savedOwners {
		if err := gw.SaveOwner(ctx, owner); err != nil {
			s.logger.Error("failed to compensate owner after partial write",
				"owner_id", owner.ID,
				"error", err,
			)
		}
	}
}

// failTransaction marks the transaction FAILED and, if it was already durably
// stored, rewrites the stored status.
func (s *LedgerService) failTransaction(ctx context.Context, gw repository.Gateway, txn *models.Transaction, cause error) error {
	txn.Status = models.TransactionStatusFailed

	if txn.Seq > 0 {
		if err := gw.AppendTransaction(ctx, txn); err != nil {
			s.logger.Error("failed to persist FAILED status",
				"transaction_id", txn.ID,
				"error", err,
			)
		}
	}

	return cause
}

func uniqueOwners(changes []balanceChange) []*models.Owner {
	var owners []*models.Owner
	seen := make(map[string]bool, len(changes))
	for _, ch := range changes {
		if seen[ch.owner.ID] {
			continue
		}
		seen[ch.owner.ID] = true
		owners = append(owners, ch.owner)
	}
	return owners
}
