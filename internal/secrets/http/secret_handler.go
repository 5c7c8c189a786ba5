// Package http provides HTTP handlers for project-scoped secret storage and
// key generation orders.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	"github.com/chadlung/barbican/internal/httputil"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
	"github.com/chadlung/barbican/internal/secrets/http/dto"
	secretsUseCase "github.com/chadlung/barbican/internal/secrets/usecase"
	customValidation "github.com/chadlung/barbican/internal/validation"
)

// SecretHandler handles HTTP requests for secrets and key orders.
// Every request acts for the project set by the project middleware.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// StoreHandler encrypts and stores a caller-supplied secret.
// POST /v1/secrets - Returns 201 Created with the secret reference.
func (h *SecretHandler) StoreHandler(c *gin.Context) {
	projectID, ok := httputil.GetProjectID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, secretsDomain.ErrTenantRequired, h.logger)
		return
	}

	var req dto.StoreSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payload, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 payload: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(payload)

	secret, err := h.secretUseCase.Store(c.Request.Context(), projectID, secretsDomain.StoreSecretInput{
		Name:        req.Name,
		Algorithm:   req.Algorithm,
		BitLength:   req.BitLength,
		Mode:        req.Mode,
		Payload:     payload,
		ContentType: req.PayloadContentType,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToRefResponse(secret))
}

// GetHandler decrypts a secret owned by the project.
// GET /v1/secrets/:id - Returns 200 OK with the plaintext payload.
// SECURITY: Plaintext is zeroed after the response is written.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	projectID, ok := httputil.GetProjectID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, secretsDomain.ErrTenantRequired, h.logger)
		return
	}

	// A malformed id can never name a stored secret.
	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, secretsDomain.ErrSecretNotFound, h.logger)
		return
	}

	secretDTO, err := h.secretUseCase.Get(c.Request.Context(), projectID, secretID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(secretDTO.Secret)

	c.JSON(http.StatusOK, dto.MapSecretDTOToPayloadResponse(secretDTO))
}

// ListHandler lists the project's secrets with pagination support.
// GET /v1/secrets?offset=0&limit=50 - Returns 200 OK with metadata only.
func (h *SecretHandler) ListHandler(c *gin.Context) {
	projectID, ok := httputil.GetProjectID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, secretsDomain.ErrTenantRequired, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	secrets, err := h.secretUseCase.List(c.Request.Context(), projectID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretsToListResponse(secrets))
}

// CreateOrderHandler generates key material for the project.
// POST /v1/orders - Returns 202 Accepted with references to the generated secrets.
func (h *SecretHandler) CreateOrderHandler(c *gin.Context) {
	projectID, ok := httputil.GetProjectID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, secretsDomain.ErrTenantRequired, h.logger)
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	keySpec := req.KeySpec()

	switch req.Type {
	case dto.OrderTypeAsymmetric:
		meta, err := h.secretUseCase.GenerateAsymmetricKey(c.Request.Context(), projectID, req.Name, keySpec)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusAccepted, dto.MapAsymmetricOrderResponse(meta))
	default:
		meta, err := h.secretUseCase.GenerateSymmetricKey(c.Request.Context(), projectID, req.Name, keySpec)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusAccepted, dto.MapSymmetricOrderResponse(meta))
	}
}
