package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/repository/mocks"
)

func TestPerformExecute_Deposit(t *testing.T) {
	t.Run("successful deposit", func(t *testing.T) {
		mockGw := mocks.NewMockGateway(t)
		svc := newTestService(nil)
		ctx := context.Background()

		owner := savingsOwner("alice", "250", "100", "0.05")
		mockGw.On("LoadOwner", ctx, "alice").Return(owner, nil)
		mockGw.On("SaveOwner", ctx, owner).Return(nil)
		mockGw.On("AppendTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		txn := &models.Transaction{
			ID:              models.NewTransactionID(),
			SourceOwnerID:   "alice",
			SourceAccountID: "alice-SAVINGS",
			Amount:          dec("50"),
			Type:            models.TransactionTypeDeposit,
			Status:          models.TransactionStatusPending,
			CreatedAt:       time.Now(),
		}

		err := svc.performExecute(ctx, mockGw, txn)

		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
		assert.True(t, owner.Accounts[0].Balance.Equal(dec("300")))
		require.Len(t, owner.Accounts[0].History, 1)
		assert.Same(t, txn, owner.Accounts[0].History[0])
	})

	t.Run("owner load failure is a persistence failure", func(t *testing.T) {
		mockGw := mocks.NewMockGateway(t)
		svc := newTestService(nil)
		ctx := context.Background()

		mockGw.On("LoadOwner", ctx, "alice").Return(nil, assert.AnError)

		txn := &models.Transaction{
			ID:              models.NewTransactionID(),
			SourceAccountID: "alice-SAVINGS",
			Amount:          dec("50"),
			Type:            models.TransactionTypeDeposit,
			Status:          models.TransactionStatusPending,
		}

		err := svc.performExecute(ctx, mockGw, txn)

		assertServiceErrorCode(t, err, ErrCodePersistenceFailure)
		assert.Equal(t, models.TransactionStatusFailed, txn.Status)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.True(t, svcErr.Retryable())
	})

	t.Run("policy violation is not retryable", func(t *testing.T) {
		mockGw := mocks.NewMockGateway(t)
		svc := newTestService(nil)
		ctx := context.Background()

		owner := cardOwner("carol", "100", "500", "0.05")
		mockGw.On("LoadOwner", ctx, "carol").Return(owner, nil)

		txn := &models.Transaction{
			ID:              models.NewTransactionID(),
			SourceAccountID: "carol-CARD",
			Amount:          dec("450"),
			Type:            models.TransactionTypeDeposit,
			Status:          models.TransactionStatusPending,
		}

		err := svc.performExecute(ctx, mockGw, txn)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodePolicyViolation, svcErr.Code)
		assert.False(t, svcErr.Retryable())
		assert.True(t, owner.Accounts[0].Balance.Equal(dec("100")))
	})
}

func TestOwnerIDFromAccountID(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		want      string
		wantErr   bool
	}{
		{"simple", "alice-SAVINGS", "alice", false},
		{"owner id containing hyphens", "cust-42-CHECKING", "cust-42", false},
		{"card suffix", "bob-CARD", "bob", false},
		{"no separator", "alice", "", true},
		{"unknown suffix", "alice-LOAN", "", true},
		{"empty owner", "-SAVINGS", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ownerIDFromAccountID(tt.accountID)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountID(t *testing.T) {
	assert.Equal(t, "alice-SAVINGS", models.AccountID("alice", models.AccountTypeSavings))
	assert.Equal(t, "cust-42-CHECKING", models.AccountID("cust-42", models.AccountTypeChecking))
}
