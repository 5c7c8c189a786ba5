package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	"github.com/chadlung/barbican/internal/metrics"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Store records metrics for secret store operations.
func (s *secretUseCaseWithMetrics) Store(
	ctx context.Context,
	projectID string,
	input secretsDomain.StoreSecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Store(ctx, projectID, input)
	s.record(ctx, "secret_store", start, err)
	return secret, err
}

// Get records metrics for secret retrieval operations.
func (s *secretUseCaseWithMetrics) Get(
	ctx context.Context,
	projectID string,
	secretID uuid.UUID,
) (*secretsDomain.SecretDTO, error) {
	start := time.Now()
	dto, err := s.next.Get(ctx, projectID, secretID)
	s.record(ctx, "secret_get", start, err)
	return dto, err
}

// List records metrics for secret listing operations.
func (s *secretUseCaseWithMetrics) List(
	ctx context.Context,
	projectID string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx, projectID, offset, limit)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

// GenerateSymmetricKey records metrics for symmetric key generation.
func (s *secretUseCaseWithMetrics) GenerateSymmetricKey(
	ctx context.Context,
	projectID, name string,
	keySpec cryptoDomain.KeySpec,
) (*secretsDomain.SecretMetadata, error) {
	start := time.Now()
	meta, err := s.next.GenerateSymmetricKey(ctx, projectID, name, keySpec)
	s.record(ctx, "key_generate_symmetric", start, err)
	return meta, err
}

// GenerateAsymmetricKey records metrics for key pair generation.
func (s *secretUseCaseWithMetrics) GenerateAsymmetricKey(
	ctx context.Context,
	projectID, name string,
	keySpec cryptoDomain.KeySpec,
) (*secretsDomain.AsymmetricKeyMetadata, error) {
	start := time.Now()
	meta, err := s.next.GenerateAsymmetricKey(ctx, projectID, name, keySpec)
	s.record(ctx, "key_generate_asymmetric", start, err)
	return meta, err
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, s.metrics, "secrets", operation, start, err)
}
