package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret into the PostgreSQL database.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, name, algorithm, bit_length, mode, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.Name,
		secret.Algorithm,
		secret.BitLength,
		secret.Mode,
		secret.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get returns a secret owned by tenantID together with its encrypted data in
// creation order.
func (p *PostgreSQLSecretRepository) Get(
	ctx context.Context,
	tenantID, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + secretColumns + `
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE ts.tenant_id = $1 AND s.id = $2 AND ts.status = $3`

	secret, err := scanSecret(
		querier.QueryRowContext(ctx, query, tenantID, secretID, string(secretsDomain.TenantSecretActive)),
	)
	if err != nil {
		return nil, err
	}

	query = `SELECT ` + datumColumns + ` FROM encrypted_data WHERE secret_id = $1 ORDER BY created_at, id`

	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encrypted data")
	}
	if secret.EncryptedData, err = scanData(rows); err != nil {
		return nil, err
	}
	return secret, nil
}

// List returns the tenant's active secrets ordered by creation time descending.
func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + secretColumns + `
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE ts.tenant_id = $1 AND ts.status = $2
			  ORDER BY s.created_at DESC, s.id DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(
		ctx, query, tenantID, string(secretsDomain.TenantSecretActive), limit, offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	return scanSecrets(rows)
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// PostgreSQLTenantSecretRepository implements project ownership persistence for PostgreSQL.
type PostgreSQLTenantSecretRepository struct {
	db *sql.DB
}

// Create inserts a tenant to secret association.
func (p *PostgreSQLTenantSecretRepository) Create(
	ctx context.Context,
	tenantSecret *secretsDomain.TenantSecret,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenant_secrets (id, tenant_id, secret_id, status, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tenantSecret.ID,
		tenantSecret.TenantID,
		tenantSecret.SecretID,
		string(tenantSecret.Status),
		tenantSecret.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant secret")
	}
	return nil
}

// NewPostgreSQLTenantSecretRepository creates a new PostgreSQL TenantSecret repository instance.
func NewPostgreSQLTenantSecretRepository(db *sql.DB) *PostgreSQLTenantSecretRepository {
	return &PostgreSQLTenantSecretRepository{db: db}
}

// PostgreSQLEncryptedDatumRepository implements cipher text persistence for PostgreSQL.
type PostgreSQLEncryptedDatumRepository struct {
	db *sql.DB
}

// Create inserts an encrypted datum.
func (p *PostgreSQLEncryptedDatumRepository) Create(
	ctx context.Context,
	datum *secretsDomain.EncryptedDatum,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encrypted_data (` + datumColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		datum.ID,
		datum.SecretID,
		datum.KEKID,
		datum.CipherText,
		datum.ContentType,
		datum.KEKMetaExtended,
		datum.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create encrypted datum")
	}
	return nil
}

// NewPostgreSQLEncryptedDatumRepository creates a new PostgreSQL EncryptedDatum repository instance.
func NewPostgreSQLEncryptedDatumRepository(db *sql.DB) *PostgreSQLEncryptedDatumRepository {
	return &PostgreSQLEncryptedDatumRepository{db: db}
}
