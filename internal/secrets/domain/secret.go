// Package domain defines the secret storage models: secrets, their encrypted
// material, project (tenant) ownership and the context passed through a store
// or generate request.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultContentType is applied to stored material when the request names none.
const DefaultContentType = "application/octet-stream"

// Secret is the logical secret record. A Secret with ID == uuid.Nil has not been
// persisted yet and gets an identity the first time its material is stored.
type Secret struct {
	ID            uuid.UUID
	Name          string
	Algorithm     string
	BitLength     int
	Mode          string
	EncryptedData []*EncryptedDatum
	CreatedAt     time.Time
}

// HasIdentity reports whether the secret has been persisted.
func (s *Secret) HasIdentity() bool {
	return s.ID != uuid.Nil
}

// EncryptedDatum is one piece of cipher text protecting a secret.
// CipherText holds the storage (base64) encoding of the plugin output.
type EncryptedDatum struct {
	ID              uuid.UUID
	SecretID        uuid.UUID
	KEKID           uuid.UUID
	CipherText      string
	ContentType     string
	KEKMetaExtended string
	CreatedAt       time.Time
}

// TenantSecretStatus is the state of a project's association with a secret.
type TenantSecretStatus string

// TenantSecretActive marks a live association.
const TenantSecretActive TenantSecretStatus = "ACTIVE"

// TenantSecret associates a secret with the project that owns it.
type TenantSecret struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	SecretID  uuid.UUID
	Status    TenantSecretStatus
	CreatedAt time.Time
}

// Tenant is the project a request acts for. ExternalID is the identifier callers
// use (the X-Project-Id header); ID is the internal key for ownership rows.
type Tenant struct {
	ID         uuid.UUID
	ExternalID string
	CreatedAt  time.Time
}
