// Package repository implements KEK persistence for PostgreSQL and MySQL.
package repository

import (
	"database/sql"
	"errors"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	apperrors "github.com/chadlung/barbican/internal/errors"
)

const kekColumns = `id, tenant_id, plugin_name, kek_label, algorithm, bit_length, mode,
	plugin_meta, bind_completed, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanKEK reads one kek_data row. uuid.UUID scans both native UUID and BINARY(16) columns.
func scanKEK(row rowScanner) (*cryptoDomain.KEKDatum, error) {
	var kek cryptoDomain.KEKDatum
	err := row.Scan(
		&kek.ID,
		&kek.TenantID,
		&kek.PluginName,
		&kek.KEKLabel,
		&kek.Algorithm,
		&kek.BitLength,
		&kek.Mode,
		&kek.PluginMeta,
		&kek.BindCompleted,
		&kek.Active,
		&kek.CreatedAt,
		&kek.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cryptoDomain.ErrKEKNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan kek")
	}
	return &kek, nil
}
