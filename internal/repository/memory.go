package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/mockbank/bank/internal/models"
)

// MemoryGateway is an in-process Gateway used in tests and for local
// development without a database. It mirrors PostgresGateway semantics:
// loads return independent copies, histories are hydrated in sequence order,
// and re-appending a transaction id rewrites its stored status.
type MemoryGateway struct {
	mu      sync.Mutex
	owners  map[string]*models.Owner
	txns    map[string]*models.Transaction
	nextSeq int64
}

// NewMemoryGateway creates an empty MemoryGateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		owners:  make(map[string]*models.Owner),
		txns:    make(map[string]*models.Transaction),
		nextSeq: 1,
	}
}

var _ Gateway = (*MemoryGateway)(nil)

// LoadOwner returns a deep copy of the stored owner with hydrated histories.
func (g *MemoryGateway) LoadOwner(ctx context.Context, ownerID string) (*models.Owner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored, ok := g.owners[ownerID]
	if !ok {
		return nil, fmt.Errorf("owner %s: %w", ownerID, models.ErrNotFound)
	}

	owner := stored.Clone()
	g.hydrateHistories(owner)
	return owner, nil
}

// hydrateHistories rebuilds account histories from the transaction store in
// sequence order. A transfer between two accounts of the same owner is
// attached to both histories as one shared record.
func (g *MemoryGateway) hydrateHistories(owner *models.Owner) {
	byID := make(map[string]*models.Account, len(owner.Accounts))
	for _, acct := range owner.Accounts {
		acct.History = nil
		byID[acct.ID] = acct
	}

	for _, txn := range g.sortedTxns() {
		cp := *txn
		if acct, ok := byID[cp.SourceAccountID]; ok {
			acct.History = append(acct.History, &cp)
		}
		if acct, ok := byID[cp.ReceiverAccountID]; ok && cp.ReceiverAccountID != cp.SourceAccountID {
			acct.History = append(acct.History, &cp)
		}
	}
}

func (g *MemoryGateway) sortedTxns() []*models.Transaction {
	out := make([]*models.Transaction, 0, len(g.txns))
	for _, txn := range g.txns {
		out = append(out, txn)
	}
	// insertion sort by seq; stores stay small in tests
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Seq < out[j-1].Seq; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// SaveOwner stores a deep copy of the owner. Histories live in the
// transaction store and are not persisted with the owner record.
func (g *MemoryGateway) SaveOwner(ctx context.Context, owner *models.Owner) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored := owner.Clone()
	for _, acct := range stored.Accounts {
		acct.History = nil
	}
	g.owners[stored.ID] = stored
	return nil
}

// AppendTransaction stores a copy of the transaction, assigning a sequence on
// first append. Re-appending an existing id keeps the sequence and rewrites
// the stored status.
func (g *MemoryGateway) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.txns[txn.ID]; ok {
		existing.Status = txn.Status
		txn.Seq = existing.Seq
		return nil
	}

	cp := *txn
	cp.Seq = g.nextSeq
	g.nextSeq++
	g.txns[cp.ID] = &cp
	txn.Seq = cp.Seq
	return nil
}

// LoadTransaction returns a copy of the stored transaction.
func (g *MemoryGateway) LoadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	txn, ok := g.txns[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, models.ErrNotFound)
	}

	cp := *txn
	return &cp, nil
}
