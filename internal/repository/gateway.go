// Package repository provides the persistence gateway for the ledger core.
package repository

import (
	"context"

	"github.com/mockbank/bank/internal/models"
)

// Gateway is the thin boundary to durable storage. The ledger consults it at
// the start of every operation; no in-memory balance is trusted across calls.
type Gateway interface {
	// LoadOwner returns the owner record with hydrated accounts and account
	// histories, or models.ErrNotFound.
	LoadOwner(ctx context.Context, ownerID string) (*models.Owner, error)

	// SaveOwner durably stores the owner record and its account balances.
	SaveOwner(ctx context.Context, owner *models.Owner) error

	// AppendTransaction durably stores a transaction record, assigning its
	// history sequence on first append. Re-appending an existing id rewrites
	// its status in place: a reversal mutates the stored record rather than
	// creating a second entity.
	AppendTransaction(ctx context.Context, txn *models.Transaction) error

	// LoadTransaction returns the transaction with the given id, or
	// models.ErrNotFound.
	LoadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
}
