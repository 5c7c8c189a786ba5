package dto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSecretRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := StoreSecretRequest{
			Name:               "db-password",
			Payload:            base64.StdEncoding.EncodeToString([]byte("my-secret-value")),
			PayloadContentType: "text/plain",
		}

		assert.NoError(t, req.Validate())
	})

	t.Run("Success_PayloadOnly", func(t *testing.T) {
		req := StoreSecretRequest{
			Payload: base64.StdEncoding.EncodeToString([]byte{0x00, 0x01, 0xFF}),
		}

		assert.NoError(t, req.Validate())
	})

	t.Run("Error_EmptyPayload", func(t *testing.T) {
		req := StoreSecretRequest{Name: "db-password"}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "payload")
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		req := StoreSecretRequest{Payload: "not-valid-base64!@#$%"}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "base64")
	})

	t.Run("Error_InvalidContentType", func(t *testing.T) {
		req := StoreSecretRequest{
			Payload:            base64.StdEncoding.EncodeToString([]byte("value")),
			PayloadContentType: "plain",
		}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "payload_content_type")
	})

	t.Run("Error_NameWithWhitespace", func(t *testing.T) {
		req := StoreSecretRequest{
			Name:    " padded ",
			Payload: base64.StdEncoding.EncodeToString([]byte("value")),
		}

		assert.Error(t, req.Validate())
	})

	t.Run("Error_NegativeBitLength", func(t *testing.T) {
		req := StoreSecretRequest{
			Payload:   base64.StdEncoding.EncodeToString([]byte("value")),
			BitLength: -1,
		}

		assert.Error(t, req.Validate())
	})
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateOrderRequest
		shouldErr bool
		errField  string
	}{
		{
			name: "symmetric key",
			req:  CreateOrderRequest{Type: OrderTypeKey, Algorithm: "aes", BitLength: 256, Mode: "cbc"},
		},
		{
			name: "asymmetric with passphrase",
			req:  CreateOrderRequest{Type: OrderTypeAsymmetric, Algorithm: "rsa", BitLength: 2048, Passphrase: "changeme"},
		},
		{
			name:      "missing type",
			req:       CreateOrderRequest{Algorithm: "aes", BitLength: 256},
			shouldErr: true,
			errField:  "type",
		},
		{
			name:      "unknown type",
			req:       CreateOrderRequest{Type: "certificate", Algorithm: "aes", BitLength: 256},
			shouldErr: true,
			errField:  "type",
		},
		{
			name:      "unknown algorithm",
			req:       CreateOrderRequest{Type: OrderTypeKey, Algorithm: "camellia", BitLength: 256},
			shouldErr: true,
			errField:  "algorithm",
		},
		{
			name:      "missing bit length",
			req:       CreateOrderRequest{Type: OrderTypeKey, Algorithm: "aes"},
			shouldErr: true,
			errField:  "bit_length",
		},
		{
			name:      "passphrase on symmetric order",
			req:       CreateOrderRequest{Type: OrderTypeKey, Algorithm: "aes", BitLength: 256, Passphrase: "changeme"},
			shouldErr: true,
			errField:  "passphrase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errField)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateOrderRequest_KeySpec(t *testing.T) {
	req := CreateOrderRequest{
		Type:       OrderTypeAsymmetric,
		Algorithm:  "rsa",
		BitLength:  2048,
		Mode:       "",
		Passphrase: "changeme",
	}

	spec := req.KeySpec()

	assert.Equal(t, "rsa", spec.Algorithm)
	assert.Equal(t, 2048, spec.BitLength)
	assert.True(t, spec.HasPassphrase())
}
