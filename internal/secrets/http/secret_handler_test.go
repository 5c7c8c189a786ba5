package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	apperrors "github.com/chadlung/barbican/internal/errors"
	"github.com/chadlung/barbican/internal/httputil"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
	"github.com/chadlung/barbican/internal/secrets/http/dto"
	"github.com/chadlung/barbican/internal/secrets/usecase/mocks"
)

const testProjectID = "project-1"

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*SecretHandler, *mocks.MockSecretUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockSecretUseCase := &mocks.MockSecretUseCase{}
	t.Cleanup(func() { mockSecretUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewSecretHandler(mockSecretUseCase, logger), mockSecretUseCase
}

// createTestContext creates a test Gin context acting for testProjectID.
func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req.WithContext(httputil.WithProjectID(context.Background(), testProjectID))

	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestSecretHandler_StoreHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		secretID := uuid.Must(uuid.NewV7())
		input := secretsDomain.StoreSecretInput{
			Name:        "db-password",
			Payload:     []byte("super-secret-password"),
			ContentType: "text/plain",
		}

		mockUseCase.On("Store", mock.Anything, testProjectID, input).
			Return(&secretsDomain.Secret{ID: secretID, Name: "db-password"}, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets", dto.StoreSecretRequest{
			Name:               "db-password",
			Payload:            base64.StdEncoding.EncodeToString([]byte("super-secret-password")),
			PayloadContentType: "text/plain",
		})

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.SecretRefResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "/v1/secrets/"+secretID.String(), response.SecretRef)
		assert.NotContains(t, w.Body.String(), "payload")
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/secrets", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeBody(t, w)["error"])
	})

	t.Run("Error_MissingPayload", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/secrets", dto.StoreSecretRequest{Name: "empty"})

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "validation_error", response["error"])
		assert.Contains(t, response["message"], "payload")
	})

	t.Run("Error_MissingProject", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/secrets", nil)
		c.Request = c.Request.WithContext(context.Background())

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", decodeBody(t, w)["error"])
	})

	t.Run("Error_BackendUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Store", mock.Anything, testProjectID, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrUnavailable, "kms keeper unreachable")).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets", dto.StoreSecretRequest{
			Payload: base64.StdEncoding.EncodeToString([]byte("value")),
		})

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "crypto_unavailable", decodeBody(t, w)["error"])
	})
}

func TestSecretHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		secretID := uuid.Must(uuid.NewV7())
		secretDTO := &secretsDomain.SecretDTO{
			Type:        secretsDomain.SecretTypeSymmetric,
			Secret:      []byte("super-secret-value"),
			KeySpec:     cryptoDomain.NewKeySpec("aes", 64, "cbc"),
			ContentType: "text/plain",
		}

		mockUseCase.On("Get", mock.Anything, testProjectID, secretID).Return(secretDTO, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/"+secretID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.SecretPayloadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []byte("super-secret-value"), response.Payload)
		assert.Equal(t, "text/plain", response.ContentType)
		assert.Equal(t, "aes", response.Algorithm)
		assert.Equal(t, 64, response.BitLength)

		// Plaintext is zeroed once written.
		assert.Equal(t, make([]byte, len("super-secret-value")), secretDTO.Secret)
	})

	t.Run("Error_OwningPluginNotConfigured", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		secretID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, testProjectID, secretID).
			Return(nil, fmt.Errorf("%w: %q", cryptoDomain.ErrPluginNotConfigured, "kms")).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/"+secretID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Error_MalformedID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/secrets/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeBody(t, w)["error"])
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		secretID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, testProjectID, secretID).
			Return(nil, secretsDomain.ErrSecretNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/"+secretID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSecretHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		secrets := []*secretsDomain.Secret{
			{ID: uuid.Must(uuid.NewV7()), Name: "newest", CreatedAt: time.Now().UTC()},
			{ID: uuid.Must(uuid.NewV7()), Name: "oldest", CreatedAt: time.Now().UTC().Add(-time.Hour)},
		}

		mockUseCase.On("List", mock.Anything, testProjectID, 0, httputil.DefaultLimit).
			Return(secrets, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListSecretsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, "newest", response.Data[0].Name)
		assert.Equal(t, "oldest", response.Data[1].Name)
	})

	t.Run("Success_CustomPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, testProjectID, 10, 5).
			Return([]*secretsDomain.Secret{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets?offset=10&limit=5", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/secrets?limit=1000", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", decodeBody(t, w)["error"])
	})
}

func TestSecretHandler_CreateOrderHandler(t *testing.T) {
	t.Run("Success_SymmetricKey", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		secretID := uuid.Must(uuid.NewV7())
		mockUseCase.On("GenerateSymmetricKey", mock.Anything, testProjectID, "data-key",
			cryptoDomain.NewKeySpec("aes", 256, "cbc")).
			Return(&secretsDomain.SecretMetadata{SecretID: secretID}, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders", dto.CreateOrderRequest{
			Type:      dto.OrderTypeKey,
			Name:      "data-key",
			Algorithm: "aes",
			BitLength: 256,
			Mode:      "cbc",
		})

		handler.CreateOrderHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var response dto.OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, dto.OrderTypeKey, response.Type)
		assert.Equal(t, dto.SecretRef(secretID), response.SecretRef)
	})

	t.Run("Success_AsymmetricWithPassphrase", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		keySpec := cryptoDomain.NewKeySpec("rsa", 2048, "")
		keySpec.Passphrase = "changeme"
		meta := &secretsDomain.AsymmetricKeyMetadata{
			PrivateKey: &secretsDomain.SecretMetadata{SecretID: uuid.Must(uuid.NewV7())},
			PublicKey:  &secretsDomain.SecretMetadata{SecretID: uuid.Must(uuid.NewV7())},
			Passphrase: &secretsDomain.SecretMetadata{SecretID: uuid.Must(uuid.NewV7())},
		}

		mockUseCase.On("GenerateAsymmetricKey", mock.Anything, testProjectID, "ssh", keySpec).
			Return(meta, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders", dto.CreateOrderRequest{
			Type:       dto.OrderTypeAsymmetric,
			Name:       "ssh",
			Algorithm:  "rsa",
			BitLength:  2048,
			Passphrase: "changeme",
		})

		handler.CreateOrderHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var response dto.OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, dto.SecretRef(meta.PrivateKey.SecretID), response.PrivateKeyRef)
		assert.Equal(t, dto.SecretRef(meta.PublicKey.SecretID), response.PublicKeyRef)
		assert.Equal(t, dto.SecretRef(meta.Passphrase.SecretID), response.PassphraseRef)
	})

	t.Run("Error_UnknownAlgorithm", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/orders", dto.CreateOrderRequest{
			Type:      dto.OrderTypeKey,
			Algorithm: "camellia",
			BitLength: 256,
		})

		handler.CreateOrderHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeBody(t, w)["message"], "algorithm")
	})

	t.Run("Error_NoCapablePlugin", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("GenerateAsymmetricKey", mock.Anything, testProjectID, "", mock.Anything).
			Return(nil, fmt.Errorf("%w: %s", cryptoDomain.ErrNoCapablePlugin, cryptoDomain.AsymmetricKeyGeneration)).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders", dto.CreateOrderRequest{
			Type:      dto.OrderTypeAsymmetric,
			Algorithm: "dsa",
			BitLength: 2048,
		})

		handler.CreateOrderHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", decodeBody(t, w)["error"])
	})
}
