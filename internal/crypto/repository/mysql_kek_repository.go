package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
)

// MySQLKekRepository implements KEK persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLKekRepository struct {
	db *sql.DB
}

// FindOrCreate inserts kek if no record exists for its tenant and plugin, then
// returns whichever record is stored.
func (m *MySQLKekRepository) FindOrCreate(
	ctx context.Context,
	kek *cryptoDomain.KEKDatum,
) (*cryptoDomain.KEKDatum, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := kek.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal kek id")
	}
	tenantID, err := kek.TenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `INSERT IGNORE INTO kek_data (` + kekColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
		kek.PluginName,
		kek.KEKLabel,
		kek.Algorithm,
		kek.BitLength,
		kek.Mode,
		kek.PluginMeta,
		kek.BindCompleted,
		kek.Active,
		kek.CreatedAt,
		kek.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create kek")
	}

	query = `SELECT ` + kekColumns + ` FROM kek_data WHERE tenant_id = ? AND plugin_name = ?`
	return scanKEK(querier.QueryRowContext(ctx, query, tenantID, kek.PluginName))
}

// Get returns the KEK with id.
func (m *MySQLKekRepository) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error) {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal kek id")
	}

	query := `SELECT ` + kekColumns + ` FROM kek_data WHERE id = ?`
	return scanKEK(querier.QueryRowContext(ctx, query, binID))
}

// Save persists the binding fields of kek.
func (m *MySQLKekRepository) Save(ctx context.Context, kek *cryptoDomain.KEKDatum) error {
	querier := database.GetTx(ctx, m.db)

	id, err := kek.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal kek id")
	}

	query := `UPDATE kek_data
			  SET algorithm = ?,
				  bit_length = ?,
				  mode = ?,
				  plugin_meta = ?,
				  bind_completed = ?,
				  active = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		kek.Algorithm,
		kek.BitLength,
		kek.Mode,
		kek.PluginMeta,
		kek.BindCompleted,
		kek.Active,
		kek.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update kek")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows > 0 {
		return nil
	}

	// MySQL counts changed rows, not matched ones, so an unchanged record also reports 0.
	var exists int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM kek_data WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return cryptoDomain.ErrKEKNotFound
	}
	if err != nil {
		return apperrors.Wrap(err, "failed to check kek")
	}
	return nil
}

// NewMySQLKekRepository creates a new MySQL KEK repository.
func NewMySQLKekRepository(db *sql.DB) *MySQLKekRepository {
	return &MySQLKekRepository{db: db}
}
