// Package service provides the crypto plugins that protect secret material and the
// manager that selects between them. Plugins share the AEAD ciphers defined here.
package service

import (
	"context"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Plugin is the capability contract every crypto backend satisfies.
//
// Plugins receive KEK metadata by value and must not keep references to it.
// tenantID is the external project identifier the request acts for.
type Plugin interface {
	// Name identifies the plugin. It is persisted on every KEK the plugin binds.
	Name() string

	// Encrypt protects caller-supplied plaintext with the tenant's KEK.
	Encrypt(
		ctx context.Context,
		req cryptoDomain.EncryptRequest,
		kekMeta cryptoDomain.KEKMeta,
		tenantID string,
	) (*cryptoDomain.Response, error)

	// Decrypt reverses Encrypt. kekMetaExtended is the value the plugin returned
	// alongside the cipher text.
	Decrypt(
		ctx context.Context,
		req cryptoDomain.DecryptRequest,
		kekMeta cryptoDomain.KEKMeta,
		kekMetaExtended string,
		tenantID string,
	) ([]byte, error)

	// GenerateSymmetric creates a symmetric key and returns it protected by the KEK.
	GenerateSymmetric(
		ctx context.Context,
		req cryptoDomain.GenerateRequest,
		kekMeta cryptoDomain.KEKMeta,
		tenantID string,
	) (*cryptoDomain.Response, error)

	// GenerateAsymmetric creates a key pair. passphrase is nil unless req.Passphrase is set.
	GenerateAsymmetric(
		ctx context.Context,
		req cryptoDomain.GenerateRequest,
		kekMeta cryptoDomain.KEKMeta,
		tenantID string,
	) (private, public, passphrase *cryptoDomain.Response, err error)

	// BindKEKMetadata establishes the tenant's KEK with the backend. A nil result
	// without error means the plugin refuses to bind.
	BindKEKMetadata(ctx context.Context, kekMeta cryptoDomain.KEKMeta) (*cryptoDomain.KEKMeta, error)

	// GenerateSupports reports whether the plugin can generate keys matching keySpec.
	GenerateSupports(keySpec *cryptoDomain.KeySpec) bool

	// StoreSecretSupports reports whether the plugin can encrypt secrets matching keySpec.
	StoreSecretSupports(keySpec *cryptoDomain.KeySpec) bool
}
