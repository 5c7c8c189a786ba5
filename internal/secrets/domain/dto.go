package domain

import (
	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// SecretType classifies the plaintext carried by a SecretDTO.
type SecretType string

const (
	SecretTypeSymmetric  SecretType = "symmetric"
	SecretTypePrivate    SecretType = "private"
	SecretTypePublic     SecretType = "public"
	SecretTypePassphrase SecretType = "passphrase"
	SecretTypeOpaque     SecretType = "opaque"
)

// SecretDTO carries plaintext in and out of the store adapter.
type SecretDTO struct {
	Type        SecretType
	Secret      []byte `json:"-"`
	KeySpec     cryptoDomain.KeySpec
	ContentType string
}

// StoreSecretInput is a caller-supplied secret to protect.
type StoreSecretInput struct {
	Name        string
	Algorithm   string
	BitLength   int
	Mode        string
	Payload     []byte
	ContentType string
}

// SecretMetadata identifies what a single store call persisted.
type SecretMetadata struct {
	SecretID         uuid.UUID
	EncryptedDatumID uuid.UUID
}

// AsymmetricKeyMetadata aggregates the legs persisted by a key pair generation.
// Passphrase is nil when no passphrase was requested.
type AsymmetricKeyMetadata struct {
	PrivateKey *SecretMetadata
	PublicKey  *SecretMetadata
	Passphrase *SecretMetadata
}

// StoreContext is the per-request state handed to the store adapter.
//
// ContentType is written back when the adapter applies the default. The three
// key pair legs are only used by asymmetric generation; unset legs are created
// as fresh secrets.
type StoreContext struct {
	Tenant           *Tenant
	Secret           *Secret
	ContentType      string
	PrivateKeySecret *Secret
	PublicKeySecret  *Secret
	PassphraseSecret *Secret
}

// NewStoreContext creates a StoreContext for tenant and secret.
func NewStoreContext(tenant *Tenant, secret *Secret, contentType string) *StoreContext {
	return &StoreContext{Tenant: tenant, Secret: secret, ContentType: contentType}
}
