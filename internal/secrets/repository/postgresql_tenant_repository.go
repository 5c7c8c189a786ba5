package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// PostgreSQLTenantRepository implements Tenant persistence for PostgreSQL.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// FindOrCreate returns the tenant for externalID, inserting it on first use.
// Concurrent callers converge on the same row through the external_id constraint.
func (p *PostgreSQLTenantRepository) FindOrCreate(
	ctx context.Context,
	externalID string,
) (*secretsDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenants (` + tenantColumns + `)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (external_id) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, uuid.Must(uuid.NewV7()), externalID, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create tenant")
	}

	query = `SELECT ` + tenantColumns + ` FROM tenants WHERE external_id = $1`
	return scanTenant(querier.QueryRowContext(ctx, query, externalID))
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL Tenant repository instance.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}
