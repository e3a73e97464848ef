package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playmesh/gridwalk/game/service"
	"github.com/playmesh/gridwalk/game/world"
)

// FilePersistence implements SessionPersistence using file system storage
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		configManager: configManager,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(sess *service.Session) error {
	if sess == nil {
		return fmt.Errorf("session cannot be nil")
	}

	// Store the world ID, not the display name, so Load can find the file
	worldID, err := fp.getWorldIDFromName(sess.Config.Name)
	if err != nil {
		return fmt.Errorf("failed to get world ID: %w", err)
	}

	data := PersistedSessionData{
		ID:             sess.ID,
		WorldName:      worldID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Snapshot:       sess.Authority.Snapshot(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := os.WriteFile(fp.getFilePath(sess.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load retrieves a session from a JSON file and rebuilds its authority by
// replaying the persisted snapshot
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	cfg, err := fp.configManager.LoadWorld(data.WorldName)
	if err != nil {
		return nil, fmt.Errorf("failed to load world '%s': %w", data.WorldName, err)
	}

	auth, err := world.NewAuthority(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create authority: %w", err)
	}
	if data.Snapshot != nil {
		auth.Restore(data.Snapshot)
	}

	return &service.Session{
		ID:             data.ID,
		Authority:      auth,
		Config:         cfg,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, ".json") {
			sessionIDs = append(sessionIDs, strings.TrimSuffix(name, ".json"))
		}
	}
	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", id))
}

// getWorldIDFromName returns the world ID (filename without extension) for
// a display name
func (fp *FilePersistence) getWorldIDFromName(displayName string) (string, error) {
	worlds, err := fp.configManager.ListWorlds()
	if err != nil {
		return "", fmt.Errorf("failed to list worlds: %w", err)
	}

	for _, w := range worlds {
		if w.Name == displayName {
			return w.WorldID, nil
		}
	}

	// If not found, assume the display name is already the world ID
	return displayName, nil
}
