// Package repository implements secret, ownership and cipher text persistence for
// PostgreSQL and MySQL.
package repository

import (
	"database/sql"
	"errors"

	apperrors "github.com/chadlung/barbican/internal/errors"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

const (
	secretColumns = `s.id, s.name, s.algorithm, s.bit_length, s.mode, s.created_at`
	datumColumns  = `id, secret_id, kek_id, cipher_text, content_type, kek_meta_extended, created_at`
	tenantColumns = `id, external_id, created_at`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	err := row.Scan(
		&secret.ID,
		&secret.Name,
		&secret.Algorithm,
		&secret.BitLength,
		&secret.Mode,
		&secret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan secret")
	}
	return &secret, nil
}

func scanSecrets(rows *sql.Rows) ([]*secretsDomain.Secret, error) {
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		secret, err := scanSecret(rows)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return secrets, nil
}

func scanData(rows *sql.Rows) ([]*secretsDomain.EncryptedDatum, error) {
	defer func() {
		_ = rows.Close()
	}()

	data := make([]*secretsDomain.EncryptedDatum, 0, 1)
	for rows.Next() {
		var datum secretsDomain.EncryptedDatum
		err := rows.Scan(
			&datum.ID,
			&datum.SecretID,
			&datum.KEKID,
			&datum.CipherText,
			&datum.ContentType,
			&datum.KEKMetaExtended,
			&datum.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encrypted datum")
		}
		data = append(data, &datum)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encrypted data")
	}
	return data, nil
}

func scanTenant(row rowScanner) (*secretsDomain.Tenant, error) {
	var tenant secretsDomain.Tenant
	if err := row.Scan(&tenant.ID, &tenant.ExternalID, &tenant.CreatedAt); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan tenant")
	}
	return &tenant, nil
}
