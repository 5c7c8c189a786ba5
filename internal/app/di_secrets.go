package app

import (
	"fmt"

	"github.com/chadlung/barbican/internal/database"
	secretsHTTP "github.com/chadlung/barbican/internal/secrets/http"
	secretsRepository "github.com/chadlung/barbican/internal/secrets/repository"
	secretsUseCase "github.com/chadlung/barbican/internal/secrets/usecase"
)

// TenantRepository returns the tenant repository.
func (c *Container) TenantRepository() (secretsUseCase.TenantRepository, error) {
	var err error
	c.tenantRepositoryInit.Do(func() {
		c.tenantRepository, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepository"]; exists {
		return nil, storedErr
	}
	return c.tenantRepository, nil
}

// SecretRepository returns the secret repository.
func (c *Container) SecretRepository() (secretsUseCase.SecretRepository, error) {
	var err error
	c.secretRepositoryInit.Do(func() {
		c.secretRepository, err = c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRepository"]; exists {
		return nil, storedErr
	}
	return c.secretRepository, nil
}

// TenantSecretRepository returns the tenant-secret association repository.
func (c *Container) TenantSecretRepository() (secretsUseCase.TenantSecretRepository, error) {
	var err error
	c.tenantSecretRepositoryInit.Do(func() {
		c.tenantSecretRepository, err = c.initTenantSecretRepository()
		if err != nil {
			c.initErrors["tenantSecretRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantSecretRepository"]; exists {
		return nil, storedErr
	}
	return c.tenantSecretRepository, nil
}

// EncryptedDatumRepository returns the encrypted datum repository.
func (c *Container) EncryptedDatumRepository() (secretsUseCase.EncryptedDatumRepository, error) {
	var err error
	c.encryptedDatumRepositoryInit.Do(func() {
		c.encryptedDatumRepository, err = c.initEncryptedDatumRepository()
		if err != nil {
			c.initErrors["encryptedDatumRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptedDatumRepository"]; exists {
		return nil, storedErr
	}
	return c.encryptedDatumRepository, nil
}

// StoreCryptoUseCase returns the store adapter between secrets and crypto plugins.
func (c *Container) StoreCryptoUseCase() (secretsUseCase.StoreCryptoUseCase, error) {
	var err error
	c.storeCryptoUseCaseInit.Do(func() {
		c.storeCryptoUseCase, err = c.initStoreCryptoUseCase()
		if err != nil {
			c.initErrors["storeCryptoUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storeCryptoUseCase"]; exists {
		return nil, storedErr
	}
	return c.storeCryptoUseCase, nil
}

// SecretUseCase returns the project-scoped secret use case.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// SecretHandler returns the secret HTTP handler.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		c.secretHandler, err = c.initSecretHandler()
		if err != nil {
			c.initErrors["secretHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

// initTenantRepository creates the tenant repository based on the database driver.
func (c *Container) initTenantRepository() (secretsUseCase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLTenantRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretRepository creates the secret repository based on the database driver.
func (c *Container) initSecretRepository() (secretsUseCase.SecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLSecretRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLSecretRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTenantSecretRepository creates the tenant-secret repository based on the database driver.
func (c *Container) initTenantSecretRepository() (secretsUseCase.TenantSecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant secret repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLTenantSecretRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLTenantSecretRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEncryptedDatumRepository creates the encrypted datum repository based on the database driver.
func (c *Container) initEncryptedDatumRepository() (secretsUseCase.EncryptedDatumRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for encrypted datum repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLEncryptedDatumRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLEncryptedDatumRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStoreCryptoUseCase creates the store adapter with all its dependencies.
func (c *Container) initStoreCryptoUseCase() (secretsUseCase.StoreCryptoUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for store crypto use case: %w", err)
	}

	pluginManager, err := c.PluginManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get plugin manager for store crypto use case: %w", err)
	}

	kekUseCase, err := c.KekUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek use case for store crypto use case: %w", err)
	}

	secretRepository, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for store crypto use case: %w", err)
	}

	tenantSecretRepository, err := c.TenantSecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant secret repository for store crypto use case: %w", err)
	}

	encryptedDatumRepository, err := c.EncryptedDatumRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get encrypted datum repository for store crypto use case: %w", err)
	}

	return secretsUseCase.NewStoreCryptoUseCase(
		txManager,
		pluginManager,
		kekUseCase,
		secretRepository,
		tenantSecretRepository,
		encryptedDatumRepository,
		c.config.DefaultContentType,
		c.Logger(),
	), nil
}

// initSecretUseCase creates the secret use case, wrapped with metrics when enabled.
func (c *Container) initSecretUseCase() (secretsUseCase.SecretUseCase, error) {
	tenantRepository, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for secret use case: %w", err)
	}

	secretRepository, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}

	storeCryptoUseCase, err := c.StoreCryptoUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get store crypto use case for secret use case: %w", err)
	}

	baseUseCase := secretsUseCase.NewSecretUseCase(
		tenantRepository,
		secretRepository,
		storeCryptoUseCase,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
		}
		return secretsUseCase.NewSecretUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSecretHandler creates the secret HTTP handler with all its dependencies.
func (c *Container) initSecretHandler() (*secretsHTTP.SecretHandler, error) {
	secretUseCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for secret handler: %w", err)
	}

	return secretsHTTP.NewSecretHandler(secretUseCase, c.Logger()), nil
}
