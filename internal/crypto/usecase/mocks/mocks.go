// Package mocks provides mock implementations of the crypto use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// MockKekRepository is a mock implementation of KekRepository.
type MockKekRepository struct {
	mock.Mock
}

// FindOrCreate mocks the FindOrCreate method of KekRepository.
func (m *MockKekRepository) FindOrCreate(
	ctx context.Context,
	kek *cryptoDomain.KEKDatum,
) (*cryptoDomain.KEKDatum, error) {
	args := m.Called(ctx, kek)
	if rf, ok := args.Get(0).(func(context.Context, *cryptoDomain.KEKDatum) *cryptoDomain.KEKDatum); ok {
		return rf(ctx, kek), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KEKDatum), args.Error(1)
}

// Get mocks the Get method of KekRepository.
func (m *MockKekRepository) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KEKDatum), args.Error(1)
}

// Save mocks the Save method of KekRepository.
func (m *MockKekRepository) Save(ctx context.Context, kek *cryptoDomain.KEKDatum) error {
	args := m.Called(ctx, kek)
	return args.Error(0)
}

// MockKekUseCase is a mock implementation of KekUseCase.
type MockKekUseCase struct {
	mock.Mock
}

// FindOrCreate mocks the FindOrCreate method of KekUseCase.
func (m *MockKekUseCase) FindOrCreate(
	ctx context.Context,
	plugin cryptoService.Plugin,
	tenant *secretsDomain.Tenant,
) (*cryptoDomain.KEKDatum, cryptoDomain.KEKMeta, error) {
	args := m.Called(ctx, plugin, tenant)
	if args.Get(0) == nil {
		return nil, cryptoDomain.KEKMeta{}, args.Error(2)
	}
	return args.Get(0).(*cryptoDomain.KEKDatum), args.Get(1).(cryptoDomain.KEKMeta), args.Error(2)
}

// Get mocks the Get method of KekUseCase.
func (m *MockKekUseCase) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KEKDatum), args.Error(1)
}
