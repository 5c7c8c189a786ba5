package dto

import (
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// SecretRef returns the API reference of a stored secret.
func SecretRef(id uuid.UUID) string {
	return "/v1/secrets/" + id.String()
}

// SecretRefResponse is returned after a secret is stored.
type SecretRefResponse struct {
	SecretRef string `json:"secret_ref"`
}

// SecretResponse is secret metadata, without any payload.
type SecretResponse struct {
	ID        string    `json:"id"`
	SecretRef string    `json:"secret_ref"`
	Name      string    `json:"name"`
	Algorithm string    `json:"algorithm,omitempty"`
	BitLength int       `json:"bit_length,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SecretPayloadResponse carries a decrypted secret.
// SECURITY: Payload is plaintext and must only travel over TLS.
type SecretPayloadResponse struct {
	Payload     []byte `json:"payload"`
	ContentType string `json:"content_type"`
	Algorithm   string `json:"algorithm,omitempty"`
	BitLength   int    `json:"bit_length,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

// OrderResponse references the secrets produced by a key order.
// Symmetric orders fill SecretRef; asymmetric orders fill the key pair refs.
type OrderResponse struct {
	Type          string `json:"type"`
	SecretRef     string `json:"secret_ref,omitempty"`
	PrivateKeyRef string `json:"private_key_ref,omitempty"`
	PublicKeyRef  string `json:"public_key_ref,omitempty"`
	PassphraseRef string `json:"passphrase_ref,omitempty"`
}

// MapSecretToRefResponse converts a stored secret to its reference.
func MapSecretToRefResponse(secret *secretsDomain.Secret) SecretRefResponse {
	return SecretRefResponse{SecretRef: SecretRef(secret.ID)}
}

// MapSecretToResponse converts a domain secret to its metadata response.
func MapSecretToResponse(secret *secretsDomain.Secret) SecretResponse {
	return SecretResponse{
		ID:        secret.ID.String(),
		SecretRef: SecretRef(secret.ID),
		Name:      secret.Name,
		Algorithm: secret.Algorithm,
		BitLength: secret.BitLength,
		Mode:      secret.Mode,
		CreatedAt: secret.CreatedAt,
	}
}

// MapSecretDTOToPayloadResponse converts decrypted material to a response.
// The caller must zero secretDTO.Secret once the response is written.
func MapSecretDTOToPayloadResponse(secretDTO *secretsDomain.SecretDTO) SecretPayloadResponse {
	return SecretPayloadResponse{
		Payload:     secretDTO.Secret,
		ContentType: secretDTO.ContentType,
		Algorithm:   secretDTO.KeySpec.Algorithm,
		BitLength:   secretDTO.KeySpec.BitLength,
		Mode:        secretDTO.KeySpec.Mode,
	}
}

// MapSymmetricOrderResponse converts a generated symmetric key to an order response.
func MapSymmetricOrderResponse(meta *secretsDomain.SecretMetadata) OrderResponse {
	return OrderResponse{Type: OrderTypeKey, SecretRef: SecretRef(meta.SecretID)}
}

// MapAsymmetricOrderResponse converts a generated key pair to an order response.
func MapAsymmetricOrderResponse(meta *secretsDomain.AsymmetricKeyMetadata) OrderResponse {
	response := OrderResponse{
		Type:          OrderTypeAsymmetric,
		PrivateKeyRef: SecretRef(meta.PrivateKey.SecretID),
		PublicKeyRef:  SecretRef(meta.PublicKey.SecretID),
	}
	if meta.Passphrase != nil {
		response.PassphraseRef = SecretRef(meta.Passphrase.SecretID)
	}
	return response
}
