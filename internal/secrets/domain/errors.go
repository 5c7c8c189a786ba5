package domain

import (
	"github.com/chadlung/barbican/internal/errors"
)

// Secret storage error definitions.
var (
	// ErrSecretNotFound indicates the secret does not exist or has no encrypted material.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrTenantRequired indicates a store context without a project.
	ErrTenantRequired = errors.Wrap(errors.ErrInvalidInput, "project is required")
)
