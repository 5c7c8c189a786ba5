// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	customValidation "github.com/chadlung/barbican/internal/validation"
)

// Order types accepted by POST /v1/orders.
const (
	OrderTypeKey        = "key"
	OrderTypeAsymmetric = "asymmetric"
)

// StoreSecretRequest contains a caller-supplied secret to encrypt and store.
// Payload is standard base64 encoded.
type StoreSecretRequest struct {
	Name               string `json:"name"`
	Payload            string `json:"payload"`
	PayloadContentType string `json:"payload_content_type"`
	Algorithm          string `json:"algorithm"`
	BitLength          int    `json:"bit_length"`
	Mode               string `json:"mode"`
}

// Validate checks if the store secret request is valid.
func (r *StoreSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(0, 255), customValidation.NoWhitespace),
		validation.Field(&r.Payload, validation.Required, customValidation.Base64),
		validation.Field(&r.PayloadContentType, customValidation.ContentType),
		validation.Field(&r.Algorithm, validation.Length(0, 255)),
		validation.Field(&r.BitLength, validation.Min(0)),
		validation.Field(&r.Mode, validation.Length(0, 255)),
	)
}

// CreateOrderRequest asks the service to generate key material.
// Type "key" generates a symmetric key, "asymmetric" a key pair.
type CreateOrderRequest struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Algorithm  string `json:"algorithm"`
	BitLength  int    `json:"bit_length"`
	Mode       string `json:"mode"`
	Passphrase string `json:"passphrase"`
}

// Validate checks if the order request is valid.
func (r *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type,
			validation.Required,
			validation.In(OrderTypeKey, OrderTypeAsymmetric),
		),
		validation.Field(&r.Name, validation.Length(0, 255), customValidation.NoWhitespace),
		validation.Field(&r.Algorithm,
			validation.Required,
			customValidation.NotBlank,
			customValidation.KnownAlgorithm,
		),
		validation.Field(&r.BitLength, validation.Required, validation.Min(1)),
		validation.Field(&r.Mode, validation.Length(0, 255)),
		validation.Field(&r.Passphrase,
			validation.When(r.Type == OrderTypeKey, validation.Empty.Error("only allowed for asymmetric orders")),
		),
	)
}

// KeySpec converts the order into a key spec.
func (r *CreateOrderRequest) KeySpec() cryptoDomain.KeySpec {
	spec := cryptoDomain.NewKeySpec(r.Algorithm, r.BitLength, r.Mode)
	spec.Passphrase = r.Passphrase
	return spec
}
