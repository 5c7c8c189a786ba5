package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
)

// MasterKey is a 32-byte root key used by the software plugin to wrap per-tenant KEKs.
type MasterKey struct {
	ID  string
	Key []byte
}

// MasterKeyChain holds every loaded master key with one designated as active.
//
// New KEKs are wrapped with the active key. Older keys stay loaded so KEKs bound
// under them can still be unwrapped after a rotation. Safe for concurrent use.
type MasterKeyChain struct {
	activeID string
	keys     sync.Map
}

// ActiveMasterKeyID returns the ID of the key used to wrap newly bound KEKs.
func (m *MasterKeyChain) ActiveMasterKeyID() string {
	return m.activeID
}

// Get retrieves a master key by ID.
func (m *MasterKeyChain) Get(id string) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(id); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Active returns the active master key.
func (m *MasterKeyChain) Active() (*MasterKey, error) {
	mk, ok := m.Get(m.activeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActiveMasterKeyNotFound, m.activeID)
	}
	return mk, nil
}

// Close zeroes all key material and empties the chain.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(_, value any) bool {
		Zero(value.(*MasterKey).Key)
		return true
	})
	m.activeID = ""
	m.keys.Clear()
}

// NewMasterKeyChain parses a comma separated list of "id:base64key" entries.
//
//	masterKeys = "key1:YWJj...,key2:MTIz..."
//	activeID   = "key2"
//
// Every key must decode to exactly 32 bytes and activeID must be present.
// Decoding buffers are zeroed once copied into the chain. On any error the
// partially built chain is closed.
func NewMasterKeyChain(masterKeys, activeID string) (*MasterKeyChain, error) {
	if masterKeys == "" {
		return nil, ErrMasterKeysNotSet
	}
	if activeID == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: activeID}

	for part := range strings.SplitSeq(masterKeys, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		decoded, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}
		if len(decoded) != 32 {
			Zero(decoded)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be 32 bytes, got %d",
				ErrInvalidKeySize,
				id,
				len(decoded),
			)
		}
		key := make([]byte, len(decoded))
		copy(key, decoded)
		Zero(decoded)
		mkc.keys.Store(id, &MasterKey{ID: id, Key: key})
	}

	if _, ok := mkc.Get(activeID); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, activeID)
	}

	return mkc, nil
}
