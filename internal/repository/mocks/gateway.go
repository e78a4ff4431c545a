// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mockbank/bank/internal/models"
)

// MockGateway is a mock implementation of repository.Gateway.
type MockGateway struct {
	mock.Mock
}

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// NewMockGateway creates a new MockGateway tied to the test's lifecycle.
// Expectations are asserted automatically at cleanup.
func NewMockGateway(t mockConstructorTestingT) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockGateway) LoadOwner(ctx context.Context, ownerID string) (*models.Owner, error) {
	ret := m.Called(ctx, ownerID)

	var r0 *models.Owner
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Owner)
	}
	return r0, ret.Error(1)
}

func (m *MockGateway) SaveOwner(ctx context.Context, owner *models.Owner) error {
	ret := m.Called(ctx, owner)
	return ret.Error(0)
}

func (m *MockGateway) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	ret := m.Called(ctx, txn)
	return ret.Error(0)
}

func (m *MockGateway) LoadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	ret := m.Called(ctx, transactionID)

	var r0 *models.Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Transaction)
	}
	return r0, ret.Error(1)
}
