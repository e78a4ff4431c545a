package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/models"
)

type transactionResponse struct {
	TransactionID     string          `json:"transaction_id"`
	SourceAccountID   string          `json:"source_account_id"`
	ReceiverAccountID string          `json:"receiver_account_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

type accountResponse struct {
	AccountID string          `json:"account_id"`
	OwnerID   string          `json:"owner_id"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type historyResponse struct {
	AccountID    string                `json:"account_id"`
	Transactions []transactionResponse `json:"transactions"`
}

func newTransactionResponse(txn *models.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID:     txn.ID,
		SourceAccountID:   txn.SourceAccountID,
		ReceiverAccountID: txn.ReceiverAccountID,
		Amount:            txn.Amount,
		Type:              string(txn.Type),
		Status:            string(txn.Status),
		CreatedAt:         txn.CreatedAt,
	}
}

func newAccountResponse(acct *models.Account) accountResponse {
	return accountResponse{
		AccountID: acct.ID,
		OwnerID:   acct.OwnerID,
		Type:      string(acct.Type),
		Balance:   acct.Balance,
		UpdatedAt: acct.UpdatedAt,
	}
}
