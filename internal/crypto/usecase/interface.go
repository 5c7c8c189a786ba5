// Package usecase implements the KEK lifecycle: per-project, per-plugin KEK
// records that are created on first use and bound by their plugin exactly once.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// KekRepository persists KEK records.
//
// Implementations participate in a transaction carried by ctx (database.GetTx).
type KekRepository interface {
	// FindOrCreate inserts kek unless a record for (kek.TenantID, kek.PluginName)
	// already exists, then returns the stored record. Concurrent callers for the
	// same pair observe the same record.
	FindOrCreate(ctx context.Context, kek *cryptoDomain.KEKDatum) (*cryptoDomain.KEKDatum, error)

	// Get returns the KEK record with id or cryptoDomain.ErrKEKNotFound.
	Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error)

	// Save updates the binding fields of an existing record.
	Save(ctx context.Context, kek *cryptoDomain.KEKDatum) error
}

// KekUseCase resolves the KEK a plugin must use for a project.
type KekUseCase interface {
	// FindOrCreate returns the project's KEK record for plugin and the metadata to
	// hand to the plugin, binding the record first if it is new.
	FindOrCreate(
		ctx context.Context,
		plugin cryptoService.Plugin,
		tenant *secretsDomain.Tenant,
	) (*cryptoDomain.KEKDatum, cryptoDomain.KEKMeta, error)

	// Get returns the KEK record with id.
	Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error)
}
