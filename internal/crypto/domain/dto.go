package domain

// EncryptRequest carries caller plaintext to a plugin's Encrypt call.
type EncryptRequest struct {
	Unencrypted []byte
}

// DecryptRequest carries raw (already storage-decoded) cipher text to a plugin's Decrypt call.
type DecryptRequest struct {
	Encrypted []byte
}

// GenerateRequest asks a plugin to generate key material.
type GenerateRequest struct {
	Algorithm  string
	BitLength  int
	Mode       string
	Passphrase string
}

// NewGenerateRequest builds a GenerateRequest from a KeySpec. The passphrase is
// only forwarded when withPassphrase is set.
func NewGenerateRequest(spec KeySpec, withPassphrase bool) GenerateRequest {
	req := GenerateRequest{
		Algorithm: spec.Algorithm,
		BitLength: spec.BitLength,
		Mode:      spec.Mode,
	}
	if withPassphrase {
		req.Passphrase = spec.Passphrase
	}
	return req
}

// Response is what a plugin returns for every encrypt or generate call.
// KEKMetaExtended is plugin-private data stored alongside the cipher text and
// handed back verbatim on decrypt.
type Response struct {
	CipherText      []byte
	KEKMetaExtended string
}
