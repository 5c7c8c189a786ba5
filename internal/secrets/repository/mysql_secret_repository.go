package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// binaryIDs converts UUIDs to their BINARY(16) column form.
func binaryIDs(ids ...uuid.UUID) ([][]byte, error) {
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to marshal id %s", id)
		}
		out = append(out, b)
	}
	return out, nil
}

// MySQLSecretRepository implements Secret persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret into the MySQL database.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	ids, err := binaryIDs(secret.ID)
	if err != nil {
		return err
	}

	query := `INSERT INTO secrets (id, name, algorithm, bit_length, mode, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		ids[0],
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
func (m *MySQLSecretRepository) Get(
	ctx context.Context,
	tenantID, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	ids, err := binaryIDs(tenantID, secretID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + secretColumns + `
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE ts.tenant_id = ? AND s.id = ? AND ts.status = ?`

	secret, err := scanSecret(
		querier.QueryRowContext(ctx, query, ids[0], ids[1], string(secretsDomain.TenantSecretActive)),
	)
	if err != nil {
		return nil, err
	}

	query = `SELECT ` + datumColumns + ` FROM encrypted_data WHERE secret_id = ? ORDER BY created_at, id`

	rows, err := querier.QueryContext(ctx, query, ids[1])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encrypted data")
	}
	if secret.EncryptedData, err = scanData(rows); err != nil {
		return nil, err
	}
	return secret, nil
}

// List returns the tenant's active secrets ordered by creation time descending.
func (m *MySQLSecretRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	ids, err := binaryIDs(tenantID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + secretColumns + `
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE ts.tenant_id = ? AND ts.status = ?
			  ORDER BY s.created_at DESC, s.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(
		ctx, query, ids[0], string(secretsDomain.TenantSecretActive), limit, offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	return scanSecrets(rows)
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// MySQLTenantSecretRepository implements project ownership persistence for MySQL.
type MySQLTenantSecretRepository struct {
	db *sql.DB
}

// Create inserts a tenant to secret association.
func (m *MySQLTenantSecretRepository) Create(
	ctx context.Context,
	tenantSecret *secretsDomain.TenantSecret,
) error {
	querier := database.GetTx(ctx, m.db)

	ids, err := binaryIDs(tenantSecret.ID, tenantSecret.TenantID, tenantSecret.SecretID)
	if err != nil {
		return err
	}

	query := `INSERT INTO tenant_secrets (id, tenant_id, secret_id, status, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		ids[0],
		ids[1],
		ids[2],
		string(tenantSecret.Status),
		tenantSecret.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant secret")
	}
	return nil
}

// NewMySQLTenantSecretRepository creates a new MySQL TenantSecret repository instance.
func NewMySQLTenantSecretRepository(db *sql.DB) *MySQLTenantSecretRepository {
	return &MySQLTenantSecretRepository{db: db}
}

// MySQLEncryptedDatumRepository implements cipher text persistence for MySQL.
type MySQLEncryptedDatumRepository struct {
	db *sql.DB
}

// Create inserts an encrypted datum.
func (m *MySQLEncryptedDatumRepository) Create(
	ctx context.Context,
	datum *secretsDomain.EncryptedDatum,
) error {
	querier := database.GetTx(ctx, m.db)

	ids, err := binaryIDs(datum.ID, datum.SecretID, datum.KEKID)
	if err != nil {
		return err
	}

	query := `INSERT INTO encrypted_data (` + datumColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		ids[0],
		ids[1],
		ids[2],
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

// NewMySQLEncryptedDatumRepository creates a new MySQL EncryptedDatum repository instance.
func NewMySQLEncryptedDatumRepository(db *sql.DB) *MySQLEncryptedDatumRepository {
	return &MySQLEncryptedDatumRepository{db: db}
}
