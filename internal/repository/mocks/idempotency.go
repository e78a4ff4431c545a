package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mockbank/bank/internal/models"
)

// MockIdempotencyRepository is a mock implementation of
// repository.IdempotencyRepository.
type MockIdempotencyRepository struct {
	mock.Mock
}

// NewMockIdempotencyRepository creates a new MockIdempotencyRepository tied to
// the test's lifecycle. Expectations are asserted automatically at cleanup.
func NewMockIdempotencyRepository(t mockConstructorTestingT) *MockIdempotencyRepository {
	m := &MockIdempotencyRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockIdempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	ret := m.Called(ctx, key, requestPath)

	var r0 *models.IdempotencyKey
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.IdempotencyKey)
	}
	return r0, ret.Error(1)
}

func (m *MockIdempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	ret := m.Called(ctx, idemKey)
	return ret.Error(0)
}
