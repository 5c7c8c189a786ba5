// Package mocks provides mock implementations of the secrets use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// Get mocks the Get method of SecretRepository.
func (m *MockSecretRepository) Get(
	ctx context.Context,
	tenantID, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, tenantID, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// List mocks the List method of SecretRepository.
func (m *MockSecretRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// MockTenantSecretRepository is a mock implementation of TenantSecretRepository.
type MockTenantSecretRepository struct {
	mock.Mock
}

// Create mocks the Create method of TenantSecretRepository.
func (m *MockTenantSecretRepository) Create(ctx context.Context, tenantSecret *secretsDomain.TenantSecret) error {
	args := m.Called(ctx, tenantSecret)
	return args.Error(0)
}

// MockEncryptedDatumRepository is a mock implementation of EncryptedDatumRepository.
type MockEncryptedDatumRepository struct {
	mock.Mock
}

// Create mocks the Create method of EncryptedDatumRepository.
func (m *MockEncryptedDatumRepository) Create(ctx context.Context, datum *secretsDomain.EncryptedDatum) error {
	args := m.Called(ctx, datum)
	return args.Error(0)
}

// MockTenantRepository is a mock implementation of TenantRepository.
type MockTenantRepository struct {
	mock.Mock
}

// FindOrCreate mocks the FindOrCreate method of TenantRepository.
func (m *MockTenantRepository) FindOrCreate(ctx context.Context, externalID string) (*secretsDomain.Tenant, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Tenant), args.Error(1)
}

// MockPluginSelector is a mock implementation of PluginSelector.
type MockPluginSelector struct {
	mock.Mock
}

// StoreGenerate mocks the StoreGenerate method of PluginSelector.
func (m *MockPluginSelector) StoreGenerate(
	supportType cryptoDomain.SupportType,
	keySpec *cryptoDomain.KeySpec,
) (cryptoService.Plugin, error) {
	args := m.Called(supportType, keySpec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.Plugin), args.Error(1)
}

// Retrieve mocks the Retrieve method of PluginSelector.
func (m *MockPluginSelector) Retrieve(name string) (cryptoService.Plugin, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.Plugin), args.Error(1)
}

// MockSecretUseCase is a mock implementation of SecretUseCase.
type MockSecretUseCase struct {
	mock.Mock
}

// Store mocks the Store method of SecretUseCase.
func (m *MockSecretUseCase) Store(
	ctx context.Context,
	projectID string,
	input secretsDomain.StoreSecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, projectID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Get mocks the Get method of SecretUseCase.
func (m *MockSecretUseCase) Get(
	ctx context.Context,
	projectID string,
	secretID uuid.UUID,
) (*secretsDomain.SecretDTO, error) {
	args := m.Called(ctx, projectID, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SecretDTO), args.Error(1)
}

// List mocks the List method of SecretUseCase.
func (m *MockSecretUseCase) List(
	ctx context.Context,
	projectID string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, projectID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// GenerateSymmetricKey mocks the GenerateSymmetricKey method of SecretUseCase.
func (m *MockSecretUseCase) GenerateSymmetricKey(
	ctx context.Context,
	projectID, name string,
	keySpec cryptoDomain.KeySpec,
) (*secretsDomain.SecretMetadata, error) {
	args := m.Called(ctx, projectID, name, keySpec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SecretMetadata), args.Error(1)
}

// GenerateAsymmetricKey mocks the GenerateAsymmetricKey method of SecretUseCase.
func (m *MockSecretUseCase) GenerateAsymmetricKey(
	ctx context.Context,
	projectID, name string,
	keySpec cryptoDomain.KeySpec,
) (*secretsDomain.AsymmetricKeyMetadata, error) {
	args := m.Called(ctx, projectID, name, keySpec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.AsymmetricKeyMetadata), args.Error(1)
}
