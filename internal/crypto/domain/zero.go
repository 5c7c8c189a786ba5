package domain

// Zero overwrites every given buffer with zeros. Key material, unwrapped KEKs
// and decrypted payloads are cleared this way once a request is done with them.
// Nil buffers are skipped.
func Zero(buffers ...[]byte) {
	for _, b := range buffers {
		clear(b)
	}
}
