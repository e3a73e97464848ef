package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/playmesh/gridwalk/game/world"
)

func createTestWorldsDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "worlds-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func createValidWorld() *world.Config {
	return &world.Config{
		Name:         "Test World",
		Description:  "Test world configuration",
		CellSize:     50,
		GridWidth:    5,
		GridHeight:   5,
		BaseSpeed:    3.0,
		MovementMode: world.ModeLocked,
		Layout: []string{
			"#####",
			"#@..#",
			"#.~.#",
			"#..@#",
			"#####",
		},
	}
}

func writeWorldFile(t *testing.T, dir, name string, cfg *world.Config) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal world: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write world file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestWorldsDir(t)
		writeWorldFile(t, dir, "classic", createValidWorld())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in world", func(t *testing.T) {
		dir := createTestWorldsDir(t)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager should succeed without world files, got: %v", err)
		}

		def := manager.GetDefault()
		if def == nil {
			t.Fatal("Expected a default world")
		}
		if err := def.Validate(); err != nil {
			t.Errorf("Built-in default world invalid: %v", err)
		}
	})
}

func TestManager_LoadWorld(t *testing.T) {
	dir := createTestWorldsDir(t)

	classic := createValidWorld()
	classic.Name = "Classic"
	writeWorldFile(t, dir, "classic", classic)

	arena := createValidWorld()
	arena.Name = "Arena"
	arena.MovementMode = world.ModeFree
	arena.BaseSpeed = 120
	writeWorldFile(t, dir, "arena", arena)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing world", func(t *testing.T) {
		cfg, err := manager.LoadWorld("arena")
		if err != nil {
			t.Fatalf("Failed to load world: %v", err)
		}
		if cfg.Name != "Arena" {
			t.Errorf("Expected world name 'Arena', got '%s'", cfg.Name)
		}
		if cfg.MovementMode != world.ModeFree {
			t.Errorf("Expected free mode, got '%s'", cfg.MovementMode)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		cfg, err := manager.LoadWorld("arena.json")
		if err != nil {
			t.Fatalf("Failed to load world with extension: %v", err)
		}
		if cfg.Name != "Arena" {
			t.Errorf("Expected world name 'Arena', got '%s'", cfg.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		cfg1, _ := manager.LoadWorld("arena")
		cfg2, err := manager.LoadWorld("arena")
		if err != nil {
			t.Fatalf("Failed to load world from cache: %v", err)
		}
		if cfg1 != cfg2 {
			t.Error("Expected world to be served from cache")
		}
	})

	t.Run("load non-existent world", func(t *testing.T) {
		_, err := manager.LoadWorld("non-existent")
		if !errors.Is(err, ErrWorldNotFound) {
			t.Errorf("Expected ErrWorldNotFound, got %v", err)
		}
	})

	t.Run("load invalid world", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644); err != nil {
			t.Fatalf("Failed to write invalid world: %v", err)
		}

		_, err := manager.LoadWorld("invalid")
		if !errors.Is(err, ErrInvalidWorld) {
			t.Errorf("Expected ErrInvalidWorld, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": broken}`), 0644); err != nil {
			t.Fatalf("Failed to write malformed world: %v", err)
		}

		if _, err := manager.LoadWorld("malformed"); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := createTestWorldsDir(t)

	classic := createValidWorld()
	classic.Name = "Classic Grid"
	writeWorldFile(t, dir, "classic", classic)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	cfg := manager.GetDefault()
	if cfg == nil {
		t.Fatal("Expected default world to be non-nil")
	}
	if cfg.Name != "Classic Grid" {
		t.Errorf("Expected default world 'Classic Grid', got '%s'", cfg.Name)
	}
}

func TestManager_ListWorlds(t *testing.T) {
	dir := createTestWorldsDir(t)

	names := []string{"classic", "arena", "maze"}
	for _, name := range names {
		cfg := createValidWorld()
		cfg.Name = name
		writeWorldFile(t, dir, name, cfg)
	}

	// Non-JSON files are ignored.
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	worlds, err := manager.ListWorlds()
	if err != nil {
		t.Fatalf("Failed to list worlds: %v", err)
	}
	if len(worlds) != 3 {
		t.Errorf("Expected 3 worlds, got %d", len(worlds))
	}

	found := make(map[string]bool)
	for _, info := range worlds {
		found[info.Name] = true
		if info.GridWidth != 5 || info.GridHeight != 5 {
			t.Errorf("World %s reported wrong dimensions %dx%d", info.Name, info.GridWidth, info.GridHeight)
		}
	}
	for _, name := range names {
		if !found[name] {
			t.Errorf("World '%s' not found in list", name)
		}
	}
}

func TestManager_SaveWorld(t *testing.T) {
	dir := createTestWorldsDir(t)
	writeWorldFile(t, dir, "classic", createValidWorld())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save and reload", func(t *testing.T) {
		cfg := createValidWorld()
		cfg.Name = "Saved"
		if err := manager.SaveWorld("saved", cfg); err != nil {
			t.Fatalf("Failed to save world: %v", err)
		}

		loaded, err := manager.LoadWorld("saved")
		if err != nil {
			t.Fatalf("Failed to load saved world: %v", err)
		}
		if loaded.Name != "Saved" {
			t.Errorf("Expected world name 'Saved', got '%s'", loaded.Name)
		}
	})

	t.Run("reject invalid world", func(t *testing.T) {
		cfg := createValidWorld()
		cfg.MovementMode = "teleport"
		if err := manager.SaveWorld("broken", cfg); !errors.Is(err, ErrInvalidWorld) {
			t.Errorf("Expected ErrInvalidWorld, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "broken.json")); !os.IsNotExist(err) {
			t.Error("Invalid world must not be written to disk")
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestWorldsDir(t)

	cfg := createValidWorld()
	cfg.BaseSpeed = 3.0
	writeWorldFile(t, dir, "classic", cfg)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadWorld("classic")
	if loaded.BaseSpeed != 3.0 {
		t.Fatalf("Expected base speed 3.0, got %v", loaded.BaseSpeed)
	}

	cfg.BaseSpeed = 5.0
	writeWorldFile(t, dir, "classic", cfg)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}

	reloaded, _ := manager.LoadWorld("classic")
	if reloaded.BaseSpeed != 5.0 {
		t.Errorf("Expected refreshed base speed 5.0, got %v", reloaded.BaseSpeed)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestWorldsDir(t)

	for i := 1; i <= 5; i++ {
		cfg := createValidWorld()
		cfg.Name = "World" + string(rune('0'+i))
		writeWorldFile(t, dir, "world"+string(rune('0'+i)), cfg)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := "world" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadWorld(name); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 worlds in cache, got %d", manager.Count())
	}
}

// Test-only helpers.

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.worlds)
}
