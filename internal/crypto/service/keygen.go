package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

const (
	defaultRSABitLength = 2048
	minRSABitLength     = 1024
	maxSymmetricBits    = 8192
)

// hmacDigestBytes is the key length used for HMAC keys requested without a bit length.
var hmacDigestBytes = map[string]int{
	"hmacsha1":   20,
	"hmacsha256": 32,
	"hmacsha384": 48,
	"hmacsha512": 64,
}

// desKeyBytes holds the fixed key lengths of the DES family.
var desKeyBytes = map[string]int{
	"des":  8,
	"3des": 24,
}

// sealFunc protects generated key material with a plugin's KEK.
type sealFunc func(plaintext []byte) (*cryptoDomain.Response, error)

// symmetricKeyLength returns the number of random bytes to generate for req.
func symmetricKeyLength(req cryptoDomain.GenerateRequest) (int, error) {
	alg := strings.ToLower(req.Algorithm)
	if size, ok := desKeyBytes[alg]; ok {
		// Parity bits make 56 and 168 the effective strengths of 64 and 192 bit keys.
		switch req.BitLength {
		case 0, size * 8, size * 7:
			return size, nil
		}
		return 0, fmt.Errorf("%w: %s bit length %d", cryptoDomain.ErrInvalidKeySize, alg, req.BitLength)
	}

	switch alg {
	case "aes":
		if req.BitLength <= 0 || req.BitLength%8 != 0 || req.BitLength > maxSymmetricBits {
			return 0, fmt.Errorf("%w: aes bit length %d", cryptoDomain.ErrInvalidKeySize, req.BitLength)
		}
		return req.BitLength / 8, nil
	}

	if size, ok := hmacDigestBytes[alg]; ok {
		if req.BitLength == 0 {
			return size, nil
		}
		if req.BitLength < 0 || req.BitLength%8 != 0 || req.BitLength > maxSymmetricBits {
			return 0, fmt.Errorf("%w: %s bit length %d", cryptoDomain.ErrInvalidKeySize, alg, req.BitLength)
		}
		return req.BitLength / 8, nil
	}

	return 0, fmt.Errorf("%w: %q", cryptoDomain.ErrAlgorithmNotSupported, req.Algorithm)
}

// generateSymmetric creates random key material for req and seals it.
func generateSymmetric(req cryptoDomain.GenerateRequest, seal sealFunc) (*cryptoDomain.Response, error) {
	size, err := symmetricKeyLength(req)
	if err != nil {
		return nil, err
	}

	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	return seal(key)
}

// keyPair is PEM encoded asymmetric key material. passphrase is nil unless requested.
type keyPair struct {
	private    []byte
	public     []byte
	passphrase []byte
}

// generateKeyPair creates an RSA key pair. With a passphrase the private key is
// encrypted in the OpenSSH format, otherwise it is an unencrypted PKCS#8 block.
func generateKeyPair(req cryptoDomain.GenerateRequest) (*keyPair, error) {
	if !strings.EqualFold(req.Algorithm, "rsa") {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrAlgorithmNotSupported, req.Algorithm)
	}

	bits := req.BitLength
	if bits == 0 {
		bits = defaultRSABitLength
	}
	if bits < minRSABitLength {
		return nil, fmt.Errorf("%w: rsa bit length %d", cryptoDomain.ErrInvalidKeySize, bits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rsa key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	pair := &keyPair{
		public: pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}),
	}

	if req.Passphrase != "" {
		block, err := ssh.MarshalPrivateKeyWithPassphrase(key, "", []byte(req.Passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to protect private key: %w", err)
		}
		pair.private = pem.EncodeToMemory(block)
		pair.passphrase = []byte(req.Passphrase)
		return pair, nil
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	pair.private = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	return pair, nil
}

// generateAsymmetric creates a key pair and seals each leg.
func generateAsymmetric(
	req cryptoDomain.GenerateRequest,
	seal sealFunc,
) (private, public, passphrase *cryptoDomain.Response, err error) {
	pair, err := generateKeyPair(req)
	if err != nil {
		return nil, nil, nil, err
	}
	defer cryptoDomain.Zero(pair.private, pair.passphrase)

	if private, err = seal(pair.private); err != nil {
		return nil, nil, nil, err
	}
	if public, err = seal(pair.public); err != nil {
		return nil, nil, nil, err
	}
	if pair.passphrase != nil {
		if passphrase, err = seal(pair.passphrase); err != nil {
			return nil, nil, nil, err
		}
	}
	return private, public, passphrase, nil
}

// generationSupported is the capability check shared by the bundled plugins:
// every symmetric algorithm plus RSA key pairs.
func generationSupported(keySpec *cryptoDomain.KeySpec) bool {
	if keySpec == nil {
		return false
	}
	return cryptoDomain.IsSymmetricAlgorithm(keySpec.Algorithm) || keySpec.AlgorithmIs("rsa")
}
