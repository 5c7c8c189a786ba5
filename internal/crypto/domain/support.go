package domain

import (
	"fmt"
	"slices"
	"strings"
)

// SupportType names a capability a crypto plugin can offer.
type SupportType string

const (
	// EncryptDecrypt selects plugins able to encrypt caller-supplied secrets.
	EncryptDecrypt SupportType = "ENCRYPT_DECRYPT"
	// SymmetricKeyGeneration selects plugins able to generate symmetric keys.
	SymmetricKeyGeneration SupportType = "SYMMETRIC_KEY_GENERATION"
	// AsymmetricKeyGeneration selects plugins able to generate key pairs.
	AsymmetricKeyGeneration SupportType = "ASYMMETRIC_KEY_GENERATION"
)

var (
	// SymmetricAlgorithms lists the symmetric algorithms the service can generate (lower case).
	SymmetricAlgorithms = []string{"aes", "des", "3des", "hmacsha1", "hmacsha256", "hmacsha384", "hmacsha512"}

	// AsymmetricAlgorithms lists the asymmetric algorithms the service can generate (lower case).
	AsymmetricAlgorithms = []string{"rsa", "dsa"}
)

// IsSymmetricAlgorithm reports whether algorithm belongs to the symmetric set, ignoring case.
func IsSymmetricAlgorithm(algorithm string) bool {
	return slices.Contains(SymmetricAlgorithms, strings.ToLower(algorithm))
}

// IsAsymmetricAlgorithm reports whether algorithm belongs to the asymmetric set, ignoring case.
func IsAsymmetricAlgorithm(algorithm string) bool {
	return slices.Contains(AsymmetricAlgorithms, strings.ToLower(algorithm))
}

// DetermineGenerationType classifies an algorithm into the key generation family
// that can produce it. An empty or unknown algorithm yields ErrAlgorithmNotSupported.
func DetermineGenerationType(algorithm string) (SupportType, error) {
	switch {
	case algorithm == "":
		return "", fmt.Errorf("%w: no algorithm given", ErrAlgorithmNotSupported)
	case IsSymmetricAlgorithm(algorithm):
		return SymmetricKeyGeneration, nil
	case IsAsymmetricAlgorithm(algorithm):
		return AsymmetricKeyGeneration, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrAlgorithmNotSupported, algorithm)
	}
}
