package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
)

// PostgreSQLKekRepository implements KEK persistence for PostgreSQL.
// Uniqueness of (tenant_id, plugin_name) is enforced by the kek_data table.
type PostgreSQLKekRepository struct {
	db *sql.DB
}

// FindOrCreate inserts kek if no record exists for its tenant and plugin, then
// returns whichever record is stored.
func (p *PostgreSQLKekRepository) FindOrCreate(
	ctx context.Context,
	kek *cryptoDomain.KEKDatum,
) (*cryptoDomain.KEKDatum, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO kek_data (` + kekColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  ON CONFLICT (tenant_id, plugin_name) DO NOTHING`

	_, err := querier.ExecContext(
		ctx,
		query,
		kek.ID,
		kek.TenantID,
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

	query = `SELECT ` + kekColumns + ` FROM kek_data WHERE tenant_id = $1 AND plugin_name = $2`
	return scanKEK(querier.QueryRowContext(ctx, query, kek.TenantID, kek.PluginName))
}

// Get returns the KEK with id.
func (p *PostgreSQLKekRepository) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + kekColumns + ` FROM kek_data WHERE id = $1`
	return scanKEK(querier.QueryRowContext(ctx, query, id))
}

// Save persists the binding fields of kek.
func (p *PostgreSQLKekRepository) Save(ctx context.Context, kek *cryptoDomain.KEKDatum) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE kek_data
			  SET algorithm = $1,
				  bit_length = $2,
				  mode = $3,
				  plugin_meta = $4,
				  bind_completed = $5,
				  active = $6,
				  updated_at = $7
			  WHERE id = $8`

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
		kek.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update kek")
	}
	return checkAffected(result)
}

// NewPostgreSQLKekRepository creates a new PostgreSQL KEK repository.
func NewPostgreSQLKekRepository(db *sql.DB) *PostgreSQLKekRepository {
	return &PostgreSQLKekRepository{db: db}
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return cryptoDomain.ErrKEKNotFound
	}
	return nil
}
