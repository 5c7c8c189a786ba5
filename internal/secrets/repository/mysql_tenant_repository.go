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

// MySQLTenantRepository implements Tenant persistence for MySQL.
type MySQLTenantRepository struct {
	db *sql.DB
}

// FindOrCreate returns the tenant for externalID, inserting it on first use.
func (m *MySQLTenantRepository) FindOrCreate(
	ctx context.Context,
	externalID string,
) (*secretsDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	ids, err := binaryIDs(uuid.Must(uuid.NewV7()))
	if err != nil {
		return nil, err
	}

	query := `INSERT IGNORE INTO tenants (` + tenantColumns + `) VALUES (?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, ids[0], externalID, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create tenant")
	}

	query = `SELECT ` + tenantColumns + ` FROM tenants WHERE external_id = ?`
	return scanTenant(querier.QueryRowContext(ctx, query, externalID))
}

// NewMySQLTenantRepository creates a new MySQL Tenant repository instance.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}
