package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	cryptoUsecase "github.com/chadlung/barbican/internal/crypto/usecase"
	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

type storeCryptoUseCase struct {
	txManager          database.TxManager
	plugins            PluginSelector
	kekUseCase         cryptoUsecase.KekUseCase
	secretRepo         SecretRepository
	tenantSecretRepo   TenantSecretRepository
	datumRepo          EncryptedDatumRepository
	defaultContentType string
	logger             *slog.Logger
}

// StoreSecret encrypts the caller's plaintext with the first plugin able to store it.
func (s *storeCryptoUseCase) StoreSecret(
	ctx context.Context,
	secretDTO *secretsDomain.SecretDTO,
	storeCtx *secretsDomain.StoreContext,
) error {
	if storeCtx.Tenant == nil {
		return secretsDomain.ErrTenantRequired
	}

	plugin, err := s.selectPlugin(ctx, cryptoDomain.EncryptDecrypt, &secretDTO.KeySpec)
	if err != nil {
		return err
	}

	kek, kekMeta, err := s.kekUseCase.FindOrCreate(ctx, plugin, storeCtx.Tenant)
	if err != nil {
		return err
	}

	resp, err := plugin.Encrypt(
		ctx,
		cryptoDomain.EncryptRequest{Unencrypted: secretDTO.Secret},
		kekMeta,
		storeCtx.Tenant.ExternalID,
	)
	if err != nil {
		return err
	}

	if storeCtx.ContentType == "" {
		storeCtx.ContentType = s.defaultContentType
	}
	if storeCtx.Secret == nil {
		storeCtx.Secret = newLegSecret(&secretDTO.KeySpec)
	}

	_, err = s.storeSecretAndDatum(ctx, storeCtx, storeCtx.Secret, kek, resp)
	return err
}

// GetSecret decrypts with the plugin that owns the datum's KEK.
func (s *storeCryptoUseCase) GetSecret(
	ctx context.Context,
	_ *secretsDomain.SecretMetadata,
	storeCtx *secretsDomain.StoreContext,
) (*secretsDomain.SecretDTO, error) {
	secret := storeCtx.Secret
	if secret == nil || len(secret.EncryptedData) == 0 {
		return nil, secretsDomain.ErrSecretNotFound
	}
	if storeCtx.Tenant == nil {
		return nil, secretsDomain.ErrTenantRequired
	}

	datum := secret.EncryptedData[0]

	kek, err := s.kekUseCase.Get(ctx, datum.KEKID)
	if err != nil {
		return nil, err
	}

	plugin, err := s.plugins.Retrieve(kek.PluginName)
	if err != nil {
		return nil, err
	}

	cipherText, err := base64.StdEncoding.DecodeString(datum.CipherText)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to decode cipher text of datum %s", datum.ID)
	}

	plaintext, err := plugin.Decrypt(
		ctx,
		cryptoDomain.DecryptRequest{Encrypted: cipherText},
		cryptoDomain.NewKEKMeta(kek),
		datum.KEKMetaExtended,
		storeCtx.Tenant.ExternalID,
	)
	if err != nil {
		return nil, err
	}

	return &secretsDomain.SecretDTO{
		Type:        secretsDomain.SecretTypeSymmetric,
		Secret:      plaintext,
		KeySpec:     cryptoDomain.NewKeySpec(secret.Algorithm, secret.BitLength, secret.Mode),
		ContentType: datum.ContentType,
	}, nil
}

// GenerateSymmetricKey generates key material inside the selected plugin.
func (s *storeCryptoUseCase) GenerateSymmetricKey(
	ctx context.Context,
	keySpec *cryptoDomain.KeySpec,
	storeCtx *secretsDomain.StoreContext,
) (*secretsDomain.SecretMetadata, error) {
	plugin, kek, kekMeta, err := s.prepareGeneration(ctx, cryptoDomain.SymmetricKeyGeneration, keySpec, storeCtx)
	if err != nil {
		return nil, err
	}

	resp, err := plugin.GenerateSymmetric(
		ctx,
		cryptoDomain.NewGenerateRequest(*keySpec, false),
		kekMeta,
		storeCtx.Tenant.ExternalID,
	)
	if err != nil {
		return nil, err
	}

	if storeCtx.Secret == nil {
		storeCtx.Secret = newLegSecret(keySpec)
	}
	return s.storeSecretAndDatum(ctx, storeCtx, storeCtx.Secret, kek, resp)
}

// GenerateAsymmetricKey generates a key pair inside the selected plugin. Each leg
// is persisted on its own; a failure on a later leg leaves earlier legs stored.
func (s *storeCryptoUseCase) GenerateAsymmetricKey(
	ctx context.Context,
	keySpec *cryptoDomain.KeySpec,
	storeCtx *secretsDomain.StoreContext,
) (*secretsDomain.AsymmetricKeyMetadata, error) {
	plugin, kek, kekMeta, err := s.prepareGeneration(ctx, cryptoDomain.AsymmetricKeyGeneration, keySpec, storeCtx)
	if err != nil {
		return nil, err
	}

	private, public, passphrase, err := plugin.GenerateAsymmetric(
		ctx,
		cryptoDomain.NewGenerateRequest(*keySpec, keySpec.HasPassphrase()),
		kekMeta,
		storeCtx.Tenant.ExternalID,
	)
	if err != nil {
		return nil, err
	}

	if storeCtx.PrivateKeySecret == nil {
		storeCtx.PrivateKeySecret = newLegSecret(keySpec)
	}
	if storeCtx.PublicKeySecret == nil {
		storeCtx.PublicKeySecret = newLegSecret(keySpec)
	}

	result := &secretsDomain.AsymmetricKeyMetadata{}

	result.PrivateKey, err = s.storeSecretAndDatum(ctx, storeCtx, storeCtx.PrivateKeySecret, kek, private)
	if err != nil {
		return nil, err
	}

	result.PublicKey, err = s.storeSecretAndDatum(ctx, storeCtx, storeCtx.PublicKeySecret, kek, public)
	if err != nil {
		return nil, err
	}

	if keySpec.HasPassphrase() {
		if passphrase == nil {
			return nil, fmt.Errorf("crypto plugin %q returned no passphrase", plugin.Name())
		}
		if storeCtx.PassphraseSecret == nil {
			storeCtx.PassphraseSecret = newLegSecret(keySpec)
		}
		result.Passphrase, err = s.storeSecretAndDatum(ctx, storeCtx, storeCtx.PassphraseSecret, kek, passphrase)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// GenerateSupports reports whether keySpec names a symmetric or asymmetric algorithm.
func (s *storeCryptoUseCase) GenerateSupports(keySpec *cryptoDomain.KeySpec) bool {
	if keySpec == nil {
		return false
	}
	_, err := cryptoDomain.DetermineGenerationType(keySpec.Algorithm)
	return err == nil
}

// StoreSecretSupports is always true: storing cipher text does not depend on the algorithm.
func (s *storeCryptoUseCase) StoreSecretSupports(*cryptoDomain.KeySpec) bool {
	return true
}

// DeleteSecret does nothing.
func (s *storeCryptoUseCase) DeleteSecret(context.Context, *secretsDomain.SecretMetadata) error {
	return nil
}

// prepareGeneration validates the algorithm family, then selects a plugin and
// resolves the project's KEK for it.
func (s *storeCryptoUseCase) prepareGeneration(
	ctx context.Context,
	want cryptoDomain.SupportType,
	keySpec *cryptoDomain.KeySpec,
	storeCtx *secretsDomain.StoreContext,
) (cryptoService.Plugin, *cryptoDomain.KEKDatum, cryptoDomain.KEKMeta, error) {
	if keySpec == nil {
		return nil, nil, cryptoDomain.KEKMeta{}, fmt.Errorf("%w: no key spec given", cryptoDomain.ErrAlgorithmNotSupported)
	}
	if storeCtx.Tenant == nil {
		return nil, nil, cryptoDomain.KEKMeta{}, secretsDomain.ErrTenantRequired
	}

	generationType, err := cryptoDomain.DetermineGenerationType(keySpec.Algorithm)
	if err != nil {
		return nil, nil, cryptoDomain.KEKMeta{}, err
	}
	if generationType != want {
		return nil, nil, cryptoDomain.KEKMeta{}, fmt.Errorf(
			"%w: %q cannot be used for %s",
			cryptoDomain.ErrAlgorithmNotSupported,
			keySpec.Algorithm,
			want,
		)
	}

	plugin, err := s.selectPlugin(ctx, generationType, keySpec)
	if err != nil {
		return nil, nil, cryptoDomain.KEKMeta{}, err
	}

	kek, kekMeta, err := s.kekUseCase.FindOrCreate(ctx, plugin, storeCtx.Tenant)
	if err != nil {
		return nil, nil, cryptoDomain.KEKMeta{}, err
	}

	if storeCtx.ContentType == "" {
		storeCtx.ContentType = s.defaultContentType
	}
	return plugin, kek, kekMeta, nil
}

func (s *storeCryptoUseCase) selectPlugin(
	ctx context.Context,
	supportType cryptoDomain.SupportType,
	keySpec *cryptoDomain.KeySpec,
) (cryptoService.Plugin, error) {
	plugin, err := s.plugins.StoreGenerate(supportType, keySpec)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "selected crypto plugin",
		slog.String("plugin", plugin.Name()),
		slog.String("support_type", string(supportType)),
	)
	return plugin, nil
}

// storeSecretAndDatum is the single write path for plugin output. The secret and
// its project association are created only when the secret has no identity yet;
// a new encrypted datum is created on every call.
func (s *storeCryptoUseCase) storeSecretAndDatum(
	ctx context.Context,
	storeCtx *secretsDomain.StoreContext,
	secret *secretsDomain.Secret,
	kek *cryptoDomain.KEKDatum,
	resp *cryptoDomain.Response,
) (*secretsDomain.SecretMetadata, error) {
	now := time.Now().UTC()
	datum := &secretsDomain.EncryptedDatum{
		ID:              uuid.Must(uuid.NewV7()),
		KEKID:           kek.ID,
		CipherText:      base64.StdEncoding.EncodeToString(resp.CipherText),
		ContentType:     storeCtx.ContentType,
		KEKMetaExtended: resp.KEKMetaExtended,
		CreatedAt:       now,
	}

	assignedID := false
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if !secret.HasIdentity() {
			secret.ID = uuid.Must(uuid.NewV7())
			secret.CreatedAt = now
			assignedID = true

			if err := s.secretRepo.Create(ctx, secret); err != nil {
				return err
			}

			tenantSecret := &secretsDomain.TenantSecret{
				ID:        uuid.Must(uuid.NewV7()),
				TenantID:  storeCtx.Tenant.ID,
				SecretID:  secret.ID,
				Status:    secretsDomain.TenantSecretActive,
				CreatedAt: now,
			}
			if err := s.tenantSecretRepo.Create(ctx, tenantSecret); err != nil {
				return err
			}
		}

		datum.SecretID = secret.ID
		return s.datumRepo.Create(ctx, datum)
	})
	if err != nil {
		if assignedID {
			secret.ID = uuid.Nil
		}
		return nil, err
	}

	secret.EncryptedData = append(secret.EncryptedData, datum)
	return &secretsDomain.SecretMetadata{SecretID: secret.ID, EncryptedDatumID: datum.ID}, nil
}

// newLegSecret returns an identity-less secret described by keySpec.
func newLegSecret(keySpec *cryptoDomain.KeySpec) *secretsDomain.Secret {
	return &secretsDomain.Secret{
		Algorithm: keySpec.Algorithm,
		BitLength: keySpec.BitLength,
		Mode:      keySpec.Mode,
	}
}

// NewStoreCryptoUseCase creates the store adapter. An empty defaultContentType
// falls back to secretsDomain.DefaultContentType.
func NewStoreCryptoUseCase(
	txManager database.TxManager,
	plugins PluginSelector,
	kekUseCase cryptoUsecase.KekUseCase,
	secretRepo SecretRepository,
	tenantSecretRepo TenantSecretRepository,
	datumRepo EncryptedDatumRepository,
	defaultContentType string,
	logger *slog.Logger,
) StoreCryptoUseCase {
	if defaultContentType == "" {
		defaultContentType = secretsDomain.DefaultContentType
	}
	return &storeCryptoUseCase{
		txManager:          txManager,
		plugins:            plugins,
		kekUseCase:         kekUseCase,
		secretRepo:         secretRepo,
		tenantSecretRepo:   tenantSecretRepo,
		datumRepo:          datumRepo,
		defaultContentType: defaultContentType,
		logger:             logger,
	}
}
