package domain

import "strings"

// KeySpec describes a requested key: algorithm, size in bits, block mode and an
// optional passphrase protecting a generated private key. Empty strings mean absent.
type KeySpec struct {
	Algorithm  string
	BitLength  int
	Mode       string
	Passphrase string
}

// NewKeySpec returns a KeySpec without a passphrase.
func NewKeySpec(algorithm string, bitLength int, mode string) KeySpec {
	return KeySpec{Algorithm: algorithm, BitLength: bitLength, Mode: mode}
}

// AlgorithmIs compares the key's algorithm with name, ignoring case.
func (k KeySpec) AlgorithmIs(name string) bool {
	return strings.EqualFold(k.Algorithm, name)
}

// HasPassphrase reports whether a passphrase was requested.
func (k KeySpec) HasPassphrase() bool {
	return k.Passphrase != ""
}
