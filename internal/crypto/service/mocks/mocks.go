// Package mocks provides mock implementations of the crypto service interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// MockPlugin is a mock implementation of Plugin.
type MockPlugin struct {
	mock.Mock
}

// Name mocks the Name method of Plugin.
func (m *MockPlugin) Name() string {
	args := m.Called()
	return args.String(0)
}

// Encrypt mocks the Encrypt method of Plugin.
func (m *MockPlugin) Encrypt(
	ctx context.Context,
	req cryptoDomain.EncryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	args := m.Called(ctx, req, kekMeta, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Response), args.Error(1)
}

// Decrypt mocks the Decrypt method of Plugin.
func (m *MockPlugin) Decrypt(
	ctx context.Context,
	req cryptoDomain.DecryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	kekMetaExtended string,
	tenantID string,
) ([]byte, error) {
	args := m.Called(ctx, req, kekMeta, kekMetaExtended, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// GenerateSymmetric mocks the GenerateSymmetric method of Plugin.
func (m *MockPlugin) GenerateSymmetric(
	ctx context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	args := m.Called(ctx, req, kekMeta, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Response), args.Error(1)
}

// GenerateAsymmetric mocks the GenerateAsymmetric method of Plugin.
func (m *MockPlugin) GenerateAsymmetric(
	ctx context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (private, public, passphrase *cryptoDomain.Response, err error) {
	args := m.Called(ctx, req, kekMeta, tenantID)
	if v := args.Get(0); v != nil {
		private = v.(*cryptoDomain.Response)
	}
	if v := args.Get(1); v != nil {
		public = v.(*cryptoDomain.Response)
	}
	if v := args.Get(2); v != nil {
		passphrase = v.(*cryptoDomain.Response)
	}
	return private, public, passphrase, args.Error(3)
}

// BindKEKMetadata mocks the BindKEKMetadata method of Plugin.
func (m *MockPlugin) BindKEKMetadata(
	ctx context.Context,
	kekMeta cryptoDomain.KEKMeta,
) (*cryptoDomain.KEKMeta, error) {
	args := m.Called(ctx, kekMeta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KEKMeta), args.Error(1)
}

// GenerateSupports mocks the GenerateSupports method of Plugin.
func (m *MockPlugin) GenerateSupports(keySpec *cryptoDomain.KeySpec) bool {
	args := m.Called(keySpec)
	return args.Bool(0)
}

// StoreSecretSupports mocks the StoreSecretSupports method of Plugin.
func (m *MockPlugin) StoreSecretSupports(keySpec *cryptoDomain.KeySpec) bool {
	args := m.Called(keySpec)
	return args.Bool(0)
}
