package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chadlung/barbican/internal/database"
	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

var (
	secretColumnNames = []string{"id", "name", "algorithm", "bit_length", "mode", "created_at"}
	datumColumnNames  = []string{
		"id", "secret_id", "kek_id", "cipher_text", "content_type", "kek_meta_extended", "created_at",
	}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func newTestSecret() *secretsDomain.Secret {
	return &secretsDomain.Secret{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "db-password",
		Algorithm: "aes",
		BitLength: 256,
		Mode:      "cbc",
		CreatedAt: time.Now().UTC(),
	}
}

func newTestDatum(secretID uuid.UUID) *secretsDomain.EncryptedDatum {
	return &secretsDomain.EncryptedDatum{
		ID:              uuid.Must(uuid.NewV7()),
		SecretID:        secretID,
		KEKID:           uuid.Must(uuid.NewV7()),
		CipherText:      "Y2lwaGVy",
		ContentType:     "text/plain",
		KEKMetaExtended: `{"iv":"AAAA"}`,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestPostgreSQLSecretRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)
		secret := newTestSecret()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO secrets")).
			WithArgs(secret.ID, secret.Name, secret.Algorithm, secret.BitLength, secret.Mode, secret.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, secret))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO secrets")).WillReturnError(errors.New("duplicate key"))

		err := repo.Create(ctx, newTestSecret())
		assert.ErrorContains(t, err, "failed to create secret")
	})

	t.Run("Success_UsesTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)
		txManager := database.NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO secrets")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, newTestSecret())
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLSecretRepository_Get(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("Success_WithData", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)
		secret := newTestSecret()
		datum := newTestDatum(secret.ID)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE ts.tenant_id = $1 AND s.id = $2 AND ts.status = $3")).
			WithArgs(tenantID, secret.ID, "ACTIVE").
			WillReturnRows(sqlmock.NewRows(secretColumnNames).AddRow(
				secret.ID.String(), secret.Name, secret.Algorithm, secret.BitLength, secret.Mode, secret.CreatedAt,
			))
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_data WHERE secret_id = $1 ORDER BY created_at, id")).
			WithArgs(secret.ID).
			WillReturnRows(sqlmock.NewRows(datumColumnNames).AddRow(
				datum.ID.String(), datum.SecretID.String(), datum.KEKID.String(), datum.CipherText,
				datum.ContentType, datum.KEKMetaExtended, datum.CreatedAt,
			))

		got, err := repo.Get(ctx, tenantID, secret.ID)
		require.NoError(t, err)

		assert.Equal(t, secret.ID, got.ID)
		assert.Equal(t, "db-password", got.Name)
		assert.Equal(t, 256, got.BitLength)
		require.Len(t, got.EncryptedData, 1)
		assert.Equal(t, datum, got.EncryptedData[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_NoData", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)
		secret := newTestSecret()

		mock.ExpectQuery(regexp.QuoteMeta("FROM secrets s")).
			WillReturnRows(sqlmock.NewRows(secretColumnNames).AddRow(
				secret.ID.String(), secret.Name, secret.Algorithm, secret.BitLength, secret.Mode, secret.CreatedAt,
			))
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_data")).
			WillReturnRows(sqlmock.NewRows(datumColumnNames))

		got, err := repo.Get(ctx, tenantID, secret.ID)
		require.NoError(t, err)
		assert.Empty(t, got.EncryptedData)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM secrets s")).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, tenantID, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_DataQuery", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)
		secret := newTestSecret()

		mock.ExpectQuery(regexp.QuoteMeta("FROM secrets s")).
			WillReturnRows(sqlmock.NewRows(secretColumnNames).AddRow(
				secret.ID.String(), secret.Name, secret.Algorithm, secret.BitLength, secret.Mode, secret.CreatedAt,
			))
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_data")).WillReturnError(errors.New("timeout"))

		_, err := repo.Get(ctx, tenantID, secret.ID)
		assert.ErrorContains(t, err, "failed to list encrypted data")
	})
}

func TestPostgreSQLSecretRepository_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)
		newer, older := newTestSecret(), newTestSecret()

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.created_at DESC, s.id DESC")).
			WithArgs(tenantID, "ACTIVE", 10, 0).
			WillReturnRows(sqlmock.NewRows(secretColumnNames).
				AddRow(newer.ID.String(), newer.Name, newer.Algorithm, newer.BitLength, newer.Mode, newer.CreatedAt).
				AddRow(older.ID.String(), older.Name, older.Algorithm, older.BitLength, older.Mode, older.CreatedAt))

		got, err := repo.List(ctx, tenantID, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM secrets s")).WillReturnRows(sqlmock.NewRows(secretColumnNames))

		got, err := repo.List(ctx, tenantID, 0, 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestPostgreSQLTenantSecretRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLTenantSecretRepository(db)
	ts := &secretsDomain.TenantSecret{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  uuid.Must(uuid.NewV7()),
		SecretID:  uuid.Must(uuid.NewV7()),
		Status:    secretsDomain.TenantSecretActive,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenant_secrets")).
		WithArgs(ts.ID, ts.TenantID, ts.SecretID, "ACTIVE", ts.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLEncryptedDatumRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLEncryptedDatumRepository(db)
	datum := newTestDatum(uuid.Must(uuid.NewV7()))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO encrypted_data")).
		WithArgs(
			datum.ID, datum.SecretID, datum.KEKID, datum.CipherText,
			datum.ContentType, datum.KEKMetaExtended, datum.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), datum))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTenantRepository_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLTenantRepository(db)
		existingID := uuid.Must(uuid.NewV7())
		createdAt := time.Now().UTC()

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (external_id) DO NOTHING")).
			WithArgs(sqlmock.AnyArg(), "p1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE external_id = $1")).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "created_at"}).
				AddRow(existingID.String(), "p1", createdAt))

		tenant, err := repo.FindOrCreate(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, existingID, tenant.ID)
		assert.Equal(t, "p1", tenant.ExternalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLTenantRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenants")).WillReturnError(errors.New("read only"))

		_, err := repo.FindOrCreate(ctx, "p1")
		assert.ErrorContains(t, err, "failed to create tenant")
	})
}
