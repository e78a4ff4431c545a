package repository

import (
	"context"
	"sync"

	"github.com/mockbank/bank/internal/models"
)

// FaultGateway wraps a Gateway and fails selected calls. It exists to prove
// that a transfer stays all-or-nothing when persistence fails partway through,
// and to exercise retry behavior against a flaky store.
type FaultGateway struct {
	inner Gateway

	mu          sync.Mutex
	saveCalls   int
	failSaveAt  int // 1-based SaveOwner call index to fail at; 0 disables
	saveErr     error
	appendErr   error
	failAppends bool
}

// NewFaultGateway wraps inner with no faults armed.
func NewFaultGateway(inner Gateway) *FaultGateway {
	return &FaultGateway{inner: inner}
}

var _ Gateway = (*FaultGateway)(nil)

// FailSaveOwnerCall arms a failure for the n-th SaveOwner call (1-based).
// Earlier and later calls pass through.
func (g *FaultGateway) FailSaveOwnerCall(n int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failSaveAt = n
	g.saveErr = err
	g.saveCalls = 0
}

// FailAppends makes every AppendTransaction call return err.
func (g *FaultGateway) FailAppends(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failAppends = true
	g.appendErr = err
}

// Reset disarms all faults.
func (g *FaultGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failSaveAt = 0
	g.saveErr = nil
	g.saveCalls = 0
	g.failAppends = false
	g.appendErr = nil
}

func (g *FaultGateway) LoadOwner(ctx context.Context, ownerID string) (*models.Owner, error) {
	return g.inner.LoadOwner(ctx, ownerID)
}

func (g *FaultGateway) SaveOwner(ctx context.Context, owner *models.Owner) error {
	g.mu.Lock()
	g.saveCalls++
	fail := g.failSaveAt > 0 && g.saveCalls == g.failSaveAt
	err := g.saveErr
	g.mu.Unlock()

	if fail {
		return err
	}
	return g.inner.SaveOwner(ctx, owner)
}

func (g *FaultGateway) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	g.mu.Lock()
	fail := g.failAppends
	err := g.appendErr
	g.mu.Unlock()

	if fail {
		return err
	}
	return g.inner.AppendTransaction(ctx, txn)
}

func (g *FaultGateway) LoadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return g.inner.LoadTransaction(ctx, transactionID)
}
