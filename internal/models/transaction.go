package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of balance mutation a transaction carries
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus represents the lifecycle state of a transaction.
// FAILED and REVERSED are terminal.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

// Transaction is a single deposit, withdraw or transfer and its lifecycle
// status. Receiver fields are empty except for transfers. Seq is assigned by
// the gateway on first append and orders an account's history by execution
// order, independent of timestamps.
type Transaction struct {
	CreatedAt         time.Time         `db:"created_at"`
	ID                string            `db:"id"`
	SourceOwnerID     string            `db:"source_owner_id"`
	SourceAccountID   string            `db:"source_account_id"`
	ReceiverOwnerID   string            `db:"receiver_owner_id"`
	ReceiverAccountID string            `db:"receiver_account_id"`
	Amount            decimal.Decimal   `db:"amount"`
	Type              TransactionType   `db:"type"`
	Status            TransactionStatus `db:"status"`
	Seq               int64             `db:"seq"`
}

// NewTransactionID returns a fresh globally unique transaction id. Callers may
// supply their own ids instead, as long as they are unique.
func NewTransactionID() string {
	return "TXN_" + uuid.NewString()
}

// Terminal reports whether the status admits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusFailed || s == TransactionStatusReversed
}

// IdempotencyKey tracks processed requests to prevent duplicate transactions
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
