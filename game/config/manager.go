package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/playmesh/gridwalk/game/service"
	"github.com/playmesh/gridwalk/game/world"
)

var (
	ErrWorldNotFound = errors.New("world not found")
	ErrInvalidWorld  = errors.New("invalid world configuration")
)

// Manager handles world configuration loading and caching
type Manager struct {
	worldsDir    string
	defaultWorld *world.Config
	worlds       map[string]*world.Config
	mu           sync.RWMutex
}

// NewManager creates a new world configuration manager
func NewManager(worldsDir string) (*Manager, error) {
	if _, err := os.Stat(worldsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("worlds directory does not exist: %s", worldsDir)
	}

	m := &Manager{
		worldsDir: worldsDir,
		worlds:    make(map[string]*world.Config),
	}

	if err := m.loadDefaultWorld(); err != nil {
		return nil, fmt.Errorf("failed to load default world: %w", err)
	}

	return m, nil
}

// LoadWorld loads a world configuration by name
func (m *Manager) LoadWorld(name string) (*world.Config, error) {
	m.mu.RLock()
	if cfg, exists := m.worlds[name]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.worlds[name]; exists {
		return cfg, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.worldsDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrWorldNotFound
		}
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}

	var cfg world.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse world: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	m.worlds[name] = &cfg
	return &cfg, nil
}

// ListWorlds returns information about all available worlds
func (m *Manager) ListWorlds() ([]*service.WorldInfo, error) {
	entries, err := os.ReadDir(m.worldsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read worlds directory: %w", err)
	}

	var worlds []*service.WorldInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		cfg, err := m.LoadWorld(name)
		if err != nil {
			// Skip invalid worlds
			continue
		}

		worlds = append(worlds, &service.WorldInfo{
			Filename:     entry.Name(),
			WorldID:      name, // identifier to use for session creation
			Name:         cfg.Name,
			Description:  cfg.Description,
			GridWidth:    cfg.GridWidth,
			GridHeight:   cfg.GridHeight,
			MovementMode: cfg.MovementMode,
		})
	}

	return worlds, nil
}

// GetDefault returns the default world configuration
func (m *Manager) GetDefault() *world.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultWorld
}

// SetDefault sets the default world by name
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadWorld(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultWorld = cfg
	return nil
}

// RefreshCache reloads all cached worlds from disk. The cache is cleared
// under the lock, then the default is reloaded unlocked because
// loadDefaultWorld reenters LoadWorld.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.worlds = make(map[string]*world.Config)
	m.mu.Unlock()

	return m.loadDefaultWorld()
}

// loadDefaultWorld must be called without the lock held.
func (m *Manager) loadDefaultWorld() error {
	// Prefer classic.json, then the first valid world on disk,
	// then the built-in minimal world.
	cfg, err := m.LoadWorld("classic")
	if err != nil {
		worlds, listErr := m.ListWorlds()
		if listErr != nil || len(worlds) == 0 {
			m.setDefaultWorld(m.createMinimalWorld())
			return nil
		}

		cfg, err = m.LoadWorld(worlds[0].WorldID)
		if err != nil {
			m.setDefaultWorld(m.createMinimalWorld())
			return nil
		}
	}

	m.setDefaultWorld(cfg)
	return nil
}

func (m *Manager) setDefaultWorld(cfg *world.Config) {
	m.mu.Lock()
	m.defaultWorld = cfg
	m.mu.Unlock()
}

// SaveWorld validates and writes a world configuration to disk
func (m *Manager) SaveWorld(name string, cfg *world.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal world: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.worldsDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write world file: %w", err)
	}

	m.mu.Lock()
	m.worlds[name] = cfg
	m.mu.Unlock()

	return nil
}

func (m *Manager) createMinimalWorld() *world.Config {
	return &world.Config{
		Name:         "default",
		Description:  "Built-in minimal world",
		CellSize:     50,
		GridWidth:    5,
		GridHeight:   5,
		BaseSpeed:    3.0,
		MovementMode: world.ModeLocked,
		Layout: []string{
			"#####",
			"#@..#",
			"#...#",
			"#..@#",
			"#####",
		},
	}
}
