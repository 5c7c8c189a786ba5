// Package domain defines the cryptographic domain models shared by the crypto plugins
// and the orchestration core: key specs, per-tenant KEK records and the transfer
// objects exchanged with plugins.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// KEKDatum is the persisted Key Encryption Key record for one (tenant, plugin) pair.
//
// A record is created unbound the first time a tenant uses a plugin and becomes
// bound exactly once, when the plugin supplies its binding metadata. After that
// Algorithm, BitLength, Mode and PluginMeta are owned by the plugin and never change.
type KEKDatum struct {
	ID            uuid.UUID // Unique identifier (UUIDv7)
	TenantID      uuid.UUID // Owning tenant
	PluginName    string    // Name of the plugin that owns the key material
	KEKLabel      string    // Human readable label, also used by HSM style plugins
	Algorithm     string
	BitLength     int
	Mode          string
	PluginMeta    string // Opaque plugin-private binding data
	BindCompleted bool
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// KEKMeta is the read-only view of a KEKDatum handed to crypto plugins.
// It is passed by value so plugins can never mutate the persisted record.
type KEKMeta struct {
	PluginName    string
	KEKLabel      string
	Algorithm     string
	BitLength     int
	Mode          string
	PluginMeta    string
	BindCompleted bool
}

// NewKEKMeta projects a KEKDatum into a KEKMeta.
func NewKEKMeta(kek *KEKDatum) KEKMeta {
	return KEKMeta{
		PluginName:    kek.PluginName,
		KEKLabel:      kek.KEKLabel,
		Algorithm:     kek.Algorithm,
		BitLength:     kek.BitLength,
		Mode:          kek.Mode,
		PluginMeta:    kek.PluginMeta,
		BindCompleted: kek.BindCompleted,
	}
}

// Bind copies plugin supplied binding metadata into the record and marks it bound.
func (k *KEKDatum) Bind(meta KEKMeta) {
	k.Algorithm = meta.Algorithm
	k.BitLength = meta.BitLength
	k.Mode = meta.Mode
	k.PluginMeta = meta.PluginMeta
	k.BindCompleted = true
	k.UpdatedAt = time.Now().UTC()
}
