package service

import (
	"context"
	"crypto/subtle"
	"encoding/binary"
	"encoding/json"
	"fmt"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// KMSPluginName is the name the KMS plugin binds KEKs under.
const KMSPluginName = "kms"

// kmsKEK is the plugin meta persisted on a KEK bound by the KMS plugin.
type kmsKEK struct {
	KeyURI string `json:"key_uri"`
}

// KMSPlugin delegates encryption to an external key management service through
// gocloud.dev/secrets. The key URI configured at bind time is recorded on the KEK,
// so existing cipher text keeps decrypting after KMS_KEY_URI changes.
//
// Keepers take no associated data, so the project id is sealed in front of the
// plaintext and checked on decrypt. Cipher text copied between projects that
// share a key URI fails with ErrDecryptionFailed.
type KMSPlugin struct {
	kmsService KMSService
	keyURI     string
}

// NewKMSPlugin creates a KMSPlugin binding new KEKs to keyURI.
func NewKMSPlugin(kmsService KMSService, keyURI string) *KMSPlugin {
	return &KMSPlugin{kmsService: kmsService, keyURI: keyURI}
}

// Name returns KMSPluginName.
func (p *KMSPlugin) Name() string {
	return KMSPluginName
}

// BindKEKMetadata records the configured key URI on the KEK after checking the
// keeper can be opened. Without a configured key URI the plugin refuses to bind.
func (p *KMSPlugin) BindKEKMetadata(
	ctx context.Context,
	kekMeta cryptoDomain.KEKMeta,
) (*cryptoDomain.KEKMeta, error) {
	if p.keyURI == "" {
		return nil, nil
	}

	keeper, err := p.kmsService.OpenKeeper(ctx, p.keyURI)
	if err != nil {
		return nil, err
	}
	if err := keeper.Close(); err != nil {
		return nil, fmt.Errorf("failed to close KMS keeper: %w", err)
	}

	pluginMeta, err := json.Marshal(kmsKEK{KeyURI: p.keyURI})
	if err != nil {
		return nil, fmt.Errorf("failed to encode plugin meta: %w", err)
	}

	bound := kekMeta
	bound.Algorithm = "kms"
	bound.BitLength = 256
	bound.Mode = ""
	bound.PluginMeta = string(pluginMeta)
	bound.BindCompleted = true
	return &bound, nil
}

// Encrypt sends req.Unencrypted to the KEK's keeper.
func (p *KMSPlugin) Encrypt(
	ctx context.Context,
	req cryptoDomain.EncryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	return p.seal(ctx, kekMeta, tenantID)(req.Unencrypted)
}

// Decrypt asks the KEK's keeper to decrypt req.Encrypted and checks it was
// sealed for tenantID.
func (p *KMSPlugin) Decrypt(
	ctx context.Context,
	req cryptoDomain.DecryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	_ string,
	tenantID string,
) (plaintext []byte, err error) {
	keeper, err := p.openKeeper(ctx, kekMeta)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close KMS keeper: %w", closeErr)
		}
	}()

	framed, err := keeper.Decrypt(ctx, req.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt with KMS: %w", err)
	}
	return unframeTenant(framed, tenantID)
}

// GenerateSymmetric creates key material locally and encrypts it with the keeper.
func (p *KMSPlugin) GenerateSymmetric(
	ctx context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	return generateSymmetric(req, p.seal(ctx, kekMeta, tenantID))
}

// GenerateAsymmetric creates an RSA key pair locally and encrypts each leg with the keeper.
func (p *KMSPlugin) GenerateAsymmetric(
	ctx context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (private, public, passphrase *cryptoDomain.Response, err error) {
	return generateAsymmetric(req, p.seal(ctx, kekMeta, tenantID))
}

// GenerateSupports accepts every symmetric algorithm and RSA.
func (p *KMSPlugin) GenerateSupports(keySpec *cryptoDomain.KeySpec) bool {
	return generationSupported(keySpec)
}

// StoreSecretSupports is always true.
func (p *KMSPlugin) StoreSecretSupports(*cryptoDomain.KeySpec) bool {
	return true
}

func (p *KMSPlugin) seal(ctx context.Context, kekMeta cryptoDomain.KEKMeta, tenantID string) sealFunc {
	return func(plaintext []byte) (resp *cryptoDomain.Response, err error) {
		keeper, err := p.openKeeper(ctx, kekMeta)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close KMS keeper: %w", closeErr)
			}
		}()

		cipherText, err := keeper.Encrypt(ctx, frameTenant(plaintext, tenantID))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt with KMS: %w", err)
		}
		return &cryptoDomain.Response{CipherText: cipherText}, nil
	}
}

func (p *KMSPlugin) openKeeper(ctx context.Context, kekMeta cryptoDomain.KEKMeta) (cryptoDomain.KMSKeeper, error) {
	if !kekMeta.BindCompleted || kekMeta.PluginMeta == "" {
		return nil, fmt.Errorf("%w: kek %q is not bound", cryptoDomain.ErrKEKBinding, kekMeta.KEKLabel)
	}

	var meta kmsKEK
	if err := json.Unmarshal([]byte(kekMeta.PluginMeta), &meta); err != nil {
		return nil, fmt.Errorf("invalid kms plugin meta for kek %q: %w", kekMeta.KEKLabel, err)
	}
	return p.kmsService.OpenKeeper(ctx, meta.KeyURI)
}

// frameTenant prefixes plaintext with the big-endian length of tenantID and tenantID itself.
func frameTenant(plaintext []byte, tenantID string) []byte {
	framed := make([]byte, 0, 2+len(tenantID)+len(plaintext))
	framed = binary.BigEndian.AppendUint16(framed, uint16(len(tenantID))) //nolint:gosec // project ids are short
	framed = append(framed, tenantID...)
	return append(framed, plaintext...)
}

func unframeTenant(framed []byte, tenantID string) ([]byte, error) {
	if len(framed) < 2 {
		return nil, fmt.Errorf("%w: truncated kms payload", cryptoDomain.ErrDecryptionFailed)
	}
	n := int(binary.BigEndian.Uint16(framed))
	if len(framed) < 2+n {
		return nil, fmt.Errorf("%w: truncated kms payload", cryptoDomain.ErrDecryptionFailed)
	}
	if subtle.ConstantTimeCompare(framed[2:2+n], []byte(tenantID)) != 1 {
		return nil, fmt.Errorf("%w: cipher text belongs to another project", cryptoDomain.ErrDecryptionFailed)
	}
	return framed[2+n:], nil
}
