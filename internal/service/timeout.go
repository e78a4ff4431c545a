package service

import (
	"context"
	"time"

	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/repository"
)

// timedGateway bounds every gateway call with a timeout. A call that runs out
// of time fails the surrounding transaction; it is never reported as a partial
// success.
type timedGateway struct {
	inner   repository.Gateway
	timeout time.Duration
}

func newTimedGateway(inner repository.Gateway, timeout time.Duration) repository.Gateway {
	if timeout <= 0 {
		return inner
	}
	return &timedGateway{inner: inner, timeout: timeout}
}

func (g *timedGateway) LoadOwner(ctx context.Context, ownerID string) (*models.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.LoadOwner(ctx, ownerID)
}

func (g *timedGateway) SaveOwner(ctx context.Context, owner *models.Owner) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.SaveOwner(ctx, owner)
}

func (g *timedGateway) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.AppendTransaction(ctx, txn)
}

func (g *timedGateway) LoadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.LoadTransaction(ctx, transactionID)
}
