package service

import (
	"time"

	"github.com/playmesh/gridwalk/game/grid"
	"github.com/playmesh/gridwalk/game/world"
)

// SessionInfo provides information about a session
type SessionInfo struct {
	ID             string          `json:"id"`
	WorldName      string          `json:"world_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	ActorCount     int             `json:"actor_count"`
	Snapshot       *world.Snapshot `json:"snapshot"`
	WorldConfig    *world.Config   `json:"world_config,omitempty"`
}

// JoinResult is returned when an actor joins a session
type JoinResult struct {
	SessionID string          `json:"session_id"`
	ActorID   string          `json:"actor_id"`
	Snapshot  *world.Snapshot `json:"snapshot"`
}

// MoveResult contains the outcome of a coarse one-cell move
type MoveResult struct {
	Moved     bool            `json:"moved"`
	Direction string          `json:"direction"`
	Cell      grid.Cell       `json:"cell"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Snapshot  *world.Snapshot `json:"snapshot"`
}

// WorldInfo provides information about an available world
type WorldInfo struct {
	Filename     string `json:"filename"`
	WorldID      string `json:"world_id"` // identifier to use for session creation
	Name         string `json:"name"`     // display name
	Description  string `json:"description"`
	GridWidth    int    `json:"grid_width"`
	GridHeight   int    `json:"grid_height"`
	MovementMode string `json:"movement_mode"`
}
