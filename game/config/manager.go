package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/policy"
	"github.com/wricardo/tycoon/game/service"
)

var (
	ErrConfigNotFound = service.ErrUnknownConfig
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Validate checks the rules of a variant and every automated seat's strategy
func Validate(config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	for _, seat := range config.Seats {
		if seat.Human {
			continue
		}
		if _, err := policy.ParseStrategy(seat.Strategy); err != nil {
			return fmt.Errorf("config validation: seat %q: %w", seat.Name, err)
		}
	}
	return nil
}

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	// Load default config
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name. Callers get their own copy, so
// editing the result never touches the cache.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	cached, ok := m.configs[name]
	m.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()
	return config.Clone(), nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.configDir, strings.TrimSuffix(name, ".json")+".json")
}

// readConfig parses and validates one file
func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for config name
		name := strings.TrimSuffix(entry.Name(), ".json")

		config, err := m.LoadConfig(name)
		if err != nil {
			log.WithField("file", entry.Name()).Warnf("Skipping configuration: %v", err)
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:      entry.Name(),
			ConfigID:      name,
			Name:          config.Name,
			Description:   config.Description,
			Seats:         len(config.Seats),
			StartingMoney: config.StartingMoney,
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig.Clone()
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache reloads all cached configurations from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	// Reload default config
	return m.loadDefaultConfig()
}

// loadDefaultConfig loads the default configuration
func (m *Manager) loadDefaultConfig() error {
	config := m.findDefaultConfig()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// findDefaultConfig prefers classic.json, then the first valid file, then the built-in rules
func (m *Manager) findDefaultConfig() *engine.GameConfig {
	if config, err := m.LoadConfig("classic"); err == nil {
		return config
	}
	configs, err := m.ListConfigs()
	if err != nil || len(configs) == 0 {
		return m.createMinimalConfig()
	}
	config, err := m.LoadConfig(strings.TrimSuffix(configs[0].Filename, ".json"))
	if err != nil {
		return m.createMinimalConfig()
	}
	return config
}

// SaveConfig saves a configuration to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	// Validate config before saving
	if err := Validate(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[strings.TrimSuffix(name, ".json")] = config.Clone()
	m.mu.Unlock()

	return nil
}

// createMinimalConfig returns the built-in classic rules
func (m *Manager) createMinimalConfig() *engine.GameConfig {
	return engine.DefaultGameConfig()
}
