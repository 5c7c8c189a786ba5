package domain

import (
	"fmt"

	"github.com/chadlung/barbican/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the
// HTTP layer can map them to status codes while callers still match them precisely.
var (
	// ErrAlgorithmNotSupported indicates the requested algorithm is absent, unknown,
	// or belongs to the wrong generation family for the requested operation.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrAlgorithmNotSupported = errors.Wrap(errors.ErrInvalidInput, "secret algorithm not supported")

	// ErrKEKBinding indicates a plugin refused to bind KEK metadata for a tenant.
	// The KEK record stays unbound and binding is attempted again on the next use.
	//
	// HTTP Status: 503 Service Unavailable
	ErrKEKBinding = errors.Wrap(errors.ErrUnavailable, "crypto plugin failed to bind KEK metadata")

	// ErrPluginNotFound is the parent of ErrNoCapablePlugin and ErrPluginNotConfigured.
	// It carries no HTTP category of its own.
	ErrPluginNotFound = errors.New("crypto plugin not found")

	// ErrNoCapablePlugin indicates no configured plugin accepts the key spec on the write path.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrNoCapablePlugin = fmt.Errorf("%w: no plugin supports the key spec: %w", ErrPluginNotFound, errors.ErrInvalidInput)

	// ErrPluginNotConfigured indicates the plugin named by a KEK record is no longer
	// configured, so data it protects cannot be read until it is enabled again.
	//
	// HTTP Status: 503 Service Unavailable
	ErrPluginNotConfigured = fmt.Errorf("%w: plugin not configured: %w", ErrPluginNotFound, errors.ErrUnavailable)

	// ErrKEKNotFound indicates the KEK record referenced by encrypted data does not exist.
	ErrKEKNotFound = errors.Wrap(errors.ErrNotFound, "kek not found")

	// ErrUnsupportedAlgorithm indicates the configured AEAD cipher is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// Master keys and plugin KEKs must be exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// The specific cause (wrong key, tampered cipher text, bad nonce) is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMasterKeysNotSet indicates no master keys were configured for the software plugin.
	ErrMasterKeysNotSet = errors.New("MASTER_KEYS not set")

	// ErrActiveMasterKeyIDNotSet indicates ACTIVE_MASTER_KEY_ID was not configured.
	ErrActiveMasterKeyIDNotSet = errors.New("ACTIVE_MASTER_KEY_ID not set")

	// ErrInvalidMasterKeysFormat indicates a MASTER_KEYS entry is not "id:base64key".
	ErrInvalidMasterKeysFormat = errors.New("invalid MASTER_KEYS format")

	// ErrInvalidMasterKeyBase64 indicates a master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("invalid master key base64")

	// ErrActiveMasterKeyNotFound indicates the active master key id is not in the chain.
	ErrActiveMasterKeyNotFound = errors.New("active master key not found")

	// ErrMasterKeyNotFound indicates a master key referenced by a KEK is not loaded.
	ErrMasterKeyNotFound = errors.Wrap(errors.ErrNotFound, "master key not found")
)
