// Package usecase orchestrates secret storage across crypto plugins: it resolves
// the project's KEK, picks a plugin, runs the crypto operation and persists the
// resulting cipher text.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// SecretRepository persists secrets.
type SecretRepository interface {
	// Create inserts a secret with a populated ID.
	Create(ctx context.Context, secret *secretsDomain.Secret) error

	// Get returns the secret owned by tenantID with its encrypted data, or
	// secretsDomain.ErrSecretNotFound.
	Get(ctx context.Context, tenantID, secretID uuid.UUID) (*secretsDomain.Secret, error)

	// List returns the tenant's secrets, newest first, without encrypted data.
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]*secretsDomain.Secret, error)
}

// TenantSecretRepository persists project ownership of secrets.
type TenantSecretRepository interface {
	Create(ctx context.Context, tenantSecret *secretsDomain.TenantSecret) error
}

// EncryptedDatumRepository persists cipher text.
type EncryptedDatumRepository interface {
	Create(ctx context.Context, datum *secretsDomain.EncryptedDatum) error
}

// TenantRepository resolves projects by external id.
type TenantRepository interface {
	// FindOrCreate returns the tenant for externalID, creating it on first use.
	FindOrCreate(ctx context.Context, externalID string) (*secretsDomain.Tenant, error)
}

// PluginSelector chooses crypto plugins. Implemented by *service.PluginManager.
type PluginSelector interface {
	StoreGenerate(supportType cryptoDomain.SupportType, keySpec *cryptoDomain.KeySpec) (cryptoService.Plugin, error)
	Retrieve(name string) (cryptoService.Plugin, error)
}

// StoreCryptoUseCase is the store adapter between the secret API and the crypto plugins.
type StoreCryptoUseCase interface {
	// StoreSecret encrypts secretDTO.Secret and persists it on storeCtx.Secret.
	// An empty storeCtx.ContentType is replaced by the default content type.
	StoreSecret(ctx context.Context, secretDTO *secretsDomain.SecretDTO, storeCtx *secretsDomain.StoreContext) error

	// GetSecret decrypts the first encrypted datum of storeCtx.Secret.
	GetSecret(
		ctx context.Context,
		meta *secretsDomain.SecretMetadata,
		storeCtx *secretsDomain.StoreContext,
	) (*secretsDomain.SecretDTO, error)

	// GenerateSymmetricKey generates a symmetric key and persists it on storeCtx.Secret.
	GenerateSymmetricKey(
		ctx context.Context,
		keySpec *cryptoDomain.KeySpec,
		storeCtx *secretsDomain.StoreContext,
	) (*secretsDomain.SecretMetadata, error)

	// GenerateAsymmetricKey generates a key pair and persists the private key, the
	// public key and, when requested, the passphrase as separate secrets.
	GenerateAsymmetricKey(
		ctx context.Context,
		keySpec *cryptoDomain.KeySpec,
		storeCtx *secretsDomain.StoreContext,
	) (*secretsDomain.AsymmetricKeyMetadata, error)

	// GenerateSupports reports whether keySpec names a known algorithm.
	GenerateSupports(keySpec *cryptoDomain.KeySpec) bool

	// StoreSecretSupports is always true.
	StoreSecretSupports(keySpec *cryptoDomain.KeySpec) bool

	// DeleteSecret is a no-op. Cipher text is removed with its secret by the repositories.
	DeleteSecret(ctx context.Context, meta *secretsDomain.SecretMetadata) error
}

// SecretUseCase serves project-scoped secret requests on top of StoreCryptoUseCase.
type SecretUseCase interface {
	// Store encrypts and persists a new secret for projectID.
	Store(ctx context.Context, projectID string, input secretsDomain.StoreSecretInput) (*secretsDomain.Secret, error)

	// Get decrypts a secret owned by projectID.
	Get(ctx context.Context, projectID string, secretID uuid.UUID) (*secretsDomain.SecretDTO, error)

	// List returns secret metadata owned by projectID.
	List(ctx context.Context, projectID string, offset, limit int) ([]*secretsDomain.Secret, error)

	// GenerateSymmetricKey generates and persists a symmetric key for projectID.
	GenerateSymmetricKey(
		ctx context.Context,
		projectID, name string,
		keySpec cryptoDomain.KeySpec,
	) (*secretsDomain.SecretMetadata, error)

	// GenerateAsymmetricKey generates and persists a key pair for projectID.
	GenerateAsymmetricKey(
		ctx context.Context,
		projectID, name string,
		keySpec cryptoDomain.KeySpec,
	) (*secretsDomain.AsymmetricKeyMetadata, error)
}
