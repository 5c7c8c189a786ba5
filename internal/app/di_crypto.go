package app

import (
	"fmt"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoRepository "github.com/chadlung/barbican/internal/crypto/repository"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	cryptoUseCase "github.com/chadlung/barbican/internal/crypto/usecase"
	"github.com/chadlung/barbican/internal/database"
)

// MasterKeyChain returns the master key chain loaded from MASTER_KEYS.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.masterKeyChainInit.Do(func() {
		c.masterKeyChain, err = c.initMasterKeyChain()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.masterKeyChain, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// PluginManager returns the plugin manager over the plugins named in CRYPTO_PLUGINS.
func (c *Container) PluginManager() (*cryptoService.PluginManager, error) {
	var err error
	c.pluginManagerInit.Do(func() {
		c.pluginManager, err = c.initPluginManager()
		if err != nil {
			c.initErrors["pluginManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pluginManager"]; exists {
		return nil, storedErr
	}
	return c.pluginManager, nil
}

// KekRepository returns the KEK repository.
func (c *Container) KekRepository() (cryptoUseCase.KekRepository, error) {
	var err error
	c.kekRepositoryInit.Do(func() {
		c.kekRepository, err = c.initKekRepository()
		if err != nil {
			c.initErrors["kekRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kekRepository"]; exists {
		return nil, storedErr
	}
	return c.kekRepository, nil
}

// KekUseCase returns the KEK binding use case.
func (c *Container) KekUseCase() (cryptoUseCase.KekUseCase, error) {
	var err error
	c.kekUseCaseInit.Do(func() {
		c.kekUseCase, err = c.initKekUseCase()
		if err != nil {
			c.initErrors["kekUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kekUseCase"]; exists {
		return nil, storedErr
	}
	return c.kekUseCase, nil
}

// initMasterKeyChain parses the master keys from configuration.
func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	masterKeyChain, err := cryptoDomain.NewMasterKeyChain(c.config.MasterKeys, c.config.ActiveMasterKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key chain: %w", err)
	}
	return masterKeyChain, nil
}

// initPluginManager builds each configured plugin in order. Plugins are
// wrapped with business metrics when metrics are enabled.
func (c *Container) initPluginManager() (*cryptoService.PluginManager, error) {
	names := c.config.PluginNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no crypto plugins configured")
	}

	plugins := make([]cryptoService.Plugin, 0, len(names))
	for _, name := range names {
		plugin, err := c.newPlugin(name)
		if err != nil {
			return nil, err
		}
		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return nil, fmt.Errorf("failed to get business metrics for crypto plugins: %w", err)
			}
			plugin = cryptoService.NewPluginWithMetrics(plugin, businessMetrics)
		}
		plugins = append(plugins, plugin)
	}

	return cryptoService.NewPluginManager(plugins...)
}

// newPlugin creates the plugin registered under name.
func (c *Container) newPlugin(name string) (cryptoService.Plugin, error) {
	switch name {
	case cryptoService.SoftwarePluginName:
		masterKeyChain, err := c.MasterKeyChain()
		if err != nil {
			return nil, fmt.Errorf("failed to get master key chain for software plugin: %w", err)
		}
		algorithm, err := cryptoDomain.ParseAlgorithm(c.config.SoftwareAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("invalid SOFTWARE_ALGORITHM: %w", err)
		}
		return cryptoService.NewSoftwarePlugin(masterKeyChain, c.AEADManager(), algorithm), nil
	case cryptoService.KMSPluginName:
		if c.config.KMSKeyURI == "" {
			return nil, fmt.Errorf("KMS_KEY_URI is required by the kms plugin")
		}
		return cryptoService.NewKMSPlugin(c.KMSService(), c.config.KMSKeyURI), nil
	default:
		return nil, fmt.Errorf("unknown crypto plugin %q", name)
	}
}

// initKekRepository creates the KEK repository based on the database driver.
func (c *Container) initKekRepository() (cryptoUseCase.KekRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for kek repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return cryptoRepository.NewPostgreSQLKekRepository(db), nil
	case database.DriverMySQL:
		return cryptoRepository.NewMySQLKekRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKekUseCase creates the KEK use case with all its dependencies.
func (c *Container) initKekUseCase() (cryptoUseCase.KekUseCase, error) {
	kekRepository, err := c.KekRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek repository for kek use case: %w", err)
	}
	return cryptoUseCase.NewKekUseCase(kekRepository, c.Logger()), nil
}
