package service

import (
	"fmt"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// PluginManager selects crypto plugins.
//
// Writes (encrypt, generate) go to the first plugin in configured order whose
// capability check accepts the key spec. Reads go to the plugin named by the
// KEK that protected the data, regardless of current preferences.
type PluginManager struct {
	plugins []Plugin
	byName  map[string]Plugin
}

// NewPluginManager creates a PluginManager over plugins in priority order.
// Plugin names must be unique.
func NewPluginManager(plugins ...Plugin) (*PluginManager, error) {
	m := &PluginManager{
		plugins: make([]Plugin, 0, len(plugins)),
		byName:  make(map[string]Plugin, len(plugins)),
	}
	for _, plugin := range plugins {
		if _, exists := m.byName[plugin.Name()]; exists {
			return nil, fmt.Errorf("duplicate crypto plugin %q", plugin.Name())
		}
		m.plugins = append(m.plugins, plugin)
		m.byName[plugin.Name()] = plugin
	}
	return m, nil
}

// StoreGenerate returns the first plugin able to serve supportType for keySpec,
// or ErrNoCapablePlugin.
func (m *PluginManager) StoreGenerate(
	supportType cryptoDomain.SupportType,
	keySpec *cryptoDomain.KeySpec,
) (Plugin, error) {
	for _, plugin := range m.plugins {
		var ok bool
		switch supportType {
		case cryptoDomain.EncryptDecrypt:
			ok = plugin.StoreSecretSupports(keySpec)
		case cryptoDomain.SymmetricKeyGeneration, cryptoDomain.AsymmetricKeyGeneration:
			ok = plugin.GenerateSupports(keySpec)
		}
		if ok {
			return plugin, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrNoCapablePlugin, supportType)
}

// Retrieve returns the plugin registered under name, or ErrPluginNotConfigured.
func (m *PluginManager) Retrieve(name string) (Plugin, error) {
	plugin, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrPluginNotConfigured, name)
	}
	return plugin, nil
}

// Plugins returns the configured plugin names in priority order.
func (m *PluginManager) Plugins() []string {
	names := make([]string, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		names = append(names, plugin.Name())
	}
	return names
}
