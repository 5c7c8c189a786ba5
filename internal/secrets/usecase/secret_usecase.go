package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

type secretUseCase struct {
	tenantRepo  TenantRepository
	secretRepo  SecretRepository
	storeCrypto StoreCryptoUseCase
	logger      *slog.Logger
}

// Store resolves the project and stores the payload as a new secret.
func (s *secretUseCase) Store(
	ctx context.Context,
	projectID string,
	input secretsDomain.StoreSecretInput,
) (*secretsDomain.Secret, error) {
	if len(input.Payload) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "payload is required")
	}

	tenant, err := s.tenantRepo.FindOrCreate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	keySpec := cryptoDomain.NewKeySpec(input.Algorithm, input.BitLength, input.Mode)
	secret := &secretsDomain.Secret{
		Name:      input.Name,
		Algorithm: input.Algorithm,
		BitLength: input.BitLength,
		Mode:      input.Mode,
	}
	storeCtx := secretsDomain.NewStoreContext(tenant, secret, input.ContentType)

	err = s.storeCrypto.StoreSecret(ctx, &secretsDomain.SecretDTO{
		Type:        secretsDomain.SecretTypeOpaque,
		Secret:      input.Payload,
		KeySpec:     keySpec,
		ContentType: input.ContentType,
	}, storeCtx)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "secret stored",
		slog.String("project_id", projectID),
		slog.String("secret_id", secret.ID.String()),
	)
	return secret, nil
}

// Get loads a project's secret and decrypts it.
func (s *secretUseCase) Get(
	ctx context.Context,
	projectID string,
	secretID uuid.UUID,
) (*secretsDomain.SecretDTO, error) {
	tenant, err := s.tenantRepo.FindOrCreate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	secret, err := s.secretRepo.Get(ctx, tenant.ID, secretID)
	if err != nil {
		return nil, err
	}

	storeCtx := secretsDomain.NewStoreContext(tenant, secret, "")
	meta := &secretsDomain.SecretMetadata{SecretID: secret.ID}
	if len(secret.EncryptedData) > 0 {
		meta.EncryptedDatumID = secret.EncryptedData[0].ID
	}

	return s.storeCrypto.GetSecret(ctx, meta, storeCtx)
}

// List returns the project's secrets without decrypting them.
func (s *secretUseCase) List(
	ctx context.Context,
	projectID string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	tenant, err := s.tenantRepo.FindOrCreate(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.secretRepo.List(ctx, tenant.ID, offset, limit)
}

// GenerateSymmetricKey generates a named symmetric key for the project.
func (s *secretUseCase) GenerateSymmetricKey(
	ctx context.Context,
	projectID, name string,
	keySpec cryptoDomain.KeySpec,
) (*secretsDomain.SecretMetadata, error) {
	tenant, err := s.tenantRepo.FindOrCreate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	secret := newLegSecret(&keySpec)
	secret.Name = name
	storeCtx := secretsDomain.NewStoreContext(tenant, secret, "")

	return s.storeCrypto.GenerateSymmetricKey(ctx, &keySpec, storeCtx)
}

// GenerateAsymmetricKey generates a named key pair for the project. Leg names
// are suffixed so they can be told apart.
func (s *secretUseCase) GenerateAsymmetricKey(
	ctx context.Context,
	projectID, name string,
	keySpec cryptoDomain.KeySpec,
) (*secretsDomain.AsymmetricKeyMetadata, error) {
	tenant, err := s.tenantRepo.FindOrCreate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	storeCtx := secretsDomain.NewStoreContext(tenant, nil, "")
	storeCtx.PrivateKeySecret = namedLegSecret(&keySpec, name, "private")
	storeCtx.PublicKeySecret = namedLegSecret(&keySpec, name, "public")
	if keySpec.HasPassphrase() {
		storeCtx.PassphraseSecret = namedLegSecret(&keySpec, name, "passphrase")
	}

	return s.storeCrypto.GenerateAsymmetricKey(ctx, &keySpec, storeCtx)
}

func namedLegSecret(keySpec *cryptoDomain.KeySpec, name, leg string) *secretsDomain.Secret {
	secret := newLegSecret(keySpec)
	if name != "" {
		secret.Name = name + "-" + leg
	}
	return secret
}

// NewSecretUseCase creates the project-scoped secret use case.
func NewSecretUseCase(
	tenantRepo TenantRepository,
	secretRepo SecretRepository,
	storeCrypto StoreCryptoUseCase,
	logger *slog.Logger,
) SecretUseCase {
	return &secretUseCase{
		tenantRepo:  tenantRepo,
		secretRepo:  secretRepo,
		storeCrypto: storeCrypto,
		logger:      logger,
	}
}
