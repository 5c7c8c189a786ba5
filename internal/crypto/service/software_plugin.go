package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// SoftwarePluginName is the name the software plugin binds KEKs under.
const SoftwarePluginName = "software"

// softwareKEK is the plugin meta persisted on a KEK bound by the software plugin.
// The project KEK itself is stored wrapped by a master key.
type softwareKEK struct {
	MasterKeyID  string                 `json:"master_key_id"`
	Algorithm    cryptoDomain.Algorithm `json:"algorithm"`
	EncryptedKey []byte                 `json:"encrypted_key"`
	Nonce        []byte                 `json:"nonce"`
}

// softwareExtended is the per-datum metadata returned with every cipher text.
type softwareExtended struct {
	IV []byte `json:"iv"`
}

// SoftwarePlugin encrypts secrets in process. Each project gets a random 256-bit
// KEK generated at bind time and wrapped by the active master key. Secrets are
// sealed with the project KEK using the tenant id as associated data.
type SoftwarePlugin struct {
	masterKeys  *cryptoDomain.MasterKeyChain
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewSoftwarePlugin creates a SoftwarePlugin that binds new KEKs with algorithm.
func NewSoftwarePlugin(
	masterKeys *cryptoDomain.MasterKeyChain,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
) *SoftwarePlugin {
	return &SoftwarePlugin{
		masterKeys:  masterKeys,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// Name returns SoftwarePluginName.
func (p *SoftwarePlugin) Name() string {
	return SoftwarePluginName
}

// BindKEKMetadata generates the project KEK and wraps it with the active master key.
func (p *SoftwarePlugin) BindKEKMetadata(
	_ context.Context,
	kekMeta cryptoDomain.KEKMeta,
) (*cryptoDomain.KEKMeta, error) {
	masterKey, err := p.masterKeys.Active()
	if err != nil {
		return nil, err
	}

	kekKey := make([]byte, kekKeySize)
	if _, err := rand.Read(kekKey); err != nil {
		return nil, fmt.Errorf("failed to generate KEK: %w", err)
	}
	defer cryptoDomain.Zero(kekKey)

	aead, err := p.aeadManager.CreateCipher(masterKey.Key, p.algorithm)
	if err != nil {
		return nil, err
	}

	encryptedKey, nonce, err := aead.Encrypt(kekKey, []byte(kekMeta.KEKLabel))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt KEK: %w", err)
	}

	pluginMeta, err := json.Marshal(softwareKEK{
		MasterKeyID:  masterKey.ID,
		Algorithm:    p.algorithm,
		EncryptedKey: encryptedKey,
		Nonce:        nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode plugin meta: %w", err)
	}

	bound := kekMeta
	bound.Algorithm, bound.Mode = kekAlgorithmAndMode(p.algorithm)
	bound.BitLength = 256
	bound.PluginMeta = string(pluginMeta)
	bound.BindCompleted = true
	return &bound, nil
}

// Encrypt seals req.Unencrypted with the project KEK.
func (p *SoftwarePlugin) Encrypt(
	_ context.Context,
	req cryptoDomain.EncryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	return p.seal(kekMeta, tenantID)(req.Unencrypted)
}

// Decrypt opens cipher text produced by Encrypt for the same tenant.
func (p *SoftwarePlugin) Decrypt(
	_ context.Context,
	req cryptoDomain.DecryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	kekMetaExtended string,
	tenantID string,
) ([]byte, error) {
	var ext softwareExtended
	if err := json.Unmarshal([]byte(kekMetaExtended), &ext); err != nil {
		return nil, fmt.Errorf("%w: invalid extended metadata", cryptoDomain.ErrDecryptionFailed)
	}

	kekKey, alg, err := p.unwrapKEK(kekMeta)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kekKey)

	aead, err := p.aeadManager.CreateCipher(kekKey, alg)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(req.Encrypted, ext.IV, []byte(tenantID))
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// GenerateSymmetric creates random key material of the requested size and seals it.
func (p *SoftwarePlugin) GenerateSymmetric(
	_ context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	return generateSymmetric(req, p.seal(kekMeta, tenantID))
}

// GenerateAsymmetric creates an RSA key pair and seals each leg.
func (p *SoftwarePlugin) GenerateAsymmetric(
	_ context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (private, public, passphrase *cryptoDomain.Response, err error) {
	return generateAsymmetric(req, p.seal(kekMeta, tenantID))
}

// GenerateSupports accepts every symmetric algorithm and RSA.
func (p *SoftwarePlugin) GenerateSupports(keySpec *cryptoDomain.KeySpec) bool {
	return generationSupported(keySpec)
}

// StoreSecretSupports is always true.
func (p *SoftwarePlugin) StoreSecretSupports(*cryptoDomain.KeySpec) bool {
	return true
}

func (p *SoftwarePlugin) seal(kekMeta cryptoDomain.KEKMeta, tenantID string) sealFunc {
	return func(plaintext []byte) (*cryptoDomain.Response, error) {
		kekKey, alg, err := p.unwrapKEK(kekMeta)
		if err != nil {
			return nil, err
		}
		defer cryptoDomain.Zero(kekKey)

		aead, err := p.aeadManager.CreateCipher(kekKey, alg)
		if err != nil {
			return nil, err
		}

		cipherText, iv, err := aead.Encrypt(plaintext, []byte(tenantID))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt secret: %w", err)
		}

		ext, err := json.Marshal(softwareExtended{IV: iv})
		if err != nil {
			return nil, fmt.Errorf("failed to encode extended metadata: %w", err)
		}
		return &cryptoDomain.Response{CipherText: cipherText, KEKMetaExtended: string(ext)}, nil
	}
}

// unwrapKEK recovers the project KEK from bound plugin meta. The caller must Zero it.
func (p *SoftwarePlugin) unwrapKEK(kekMeta cryptoDomain.KEKMeta) ([]byte, cryptoDomain.Algorithm, error) {
	if !kekMeta.BindCompleted || kekMeta.PluginMeta == "" {
		return nil, "", fmt.Errorf("%w: kek %q is not bound", cryptoDomain.ErrKEKBinding, kekMeta.KEKLabel)
	}

	var meta softwareKEK
	if err := json.Unmarshal([]byte(kekMeta.PluginMeta), &meta); err != nil {
		return nil, "", fmt.Errorf("invalid software plugin meta for kek %q: %w", kekMeta.KEKLabel, err)
	}

	masterKey, ok := p.masterKeys.Get(meta.MasterKeyID)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", cryptoDomain.ErrMasterKeyNotFound, meta.MasterKeyID)
	}

	aead, err := p.aeadManager.CreateCipher(masterKey.Key, meta.Algorithm)
	if err != nil {
		return nil, "", err
	}

	kekKey, err := aead.Decrypt(meta.EncryptedKey, meta.Nonce, []byte(kekMeta.KEKLabel))
	if err != nil {
		return nil, "", cryptoDomain.ErrDecryptionFailed
	}
	return kekKey, meta.Algorithm, nil
}

func kekAlgorithmAndMode(alg cryptoDomain.Algorithm) (string, string) {
	if alg == cryptoDomain.ChaCha20 {
		return "chacha20", "poly1305"
	}
	return "aes", "gcm"
}
