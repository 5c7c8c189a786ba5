package service

import (
	"fmt"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// kekKeySize is the length of master keys and software KEKs.
const kekKeySize = 32

// kekCiphers maps each KEK protection algorithm to its AEAD constructor.
var kekCiphers = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
		return NewAESGCM(key)
	},
	cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
		return NewChaCha20Poly1305(key)
	},
}

// AEADManagerService builds the ciphers the software plugin wraps KEKs and
// secrets with. The algorithm comes from SOFTWARE_PLUGIN_ALGORITHM at bind time
// and from the KEK's plugin meta afterwards.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the AEAD for alg keyed with a 32 byte master key or KEK.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	newCipher, ok := kekCiphers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
	if len(key) != kekKeySize {
		return nil, fmt.Errorf("%w: kek key must be %d bytes, got %d", cryptoDomain.ErrInvalidKeySize, kekKeySize, len(key))
	}
	return newCipher(key)
}
