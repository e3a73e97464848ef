package service

import (
	"context"
	"time"

	"github.com/playmesh/gridwalk/game/engine"
	"github.com/playmesh/gridwalk/game/world"
)

// GameService defines all session and actor operations
type GameService interface {
	// Session management
	CreateSession(ctx context.Context, worldName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Actor operations
	JoinSession(ctx context.Context, sessionID string) (*JoinResult, error)
	LeaveSession(ctx context.Context, sessionID, actorID string) error
	SetInput(ctx context.Context, sessionID, actorID string, in engine.Input) error
	StepMove(ctx context.Context, sessionID, actorID, direction string) (*MoveResult, error)
	SnapActor(ctx context.Context, sessionID, actorID string) error

	// State
	GetSnapshot(ctx context.Context, sessionID string) (*world.Snapshot, error)

	// Simulation. Tick advances every session by deltaMS milliseconds and
	// broadcasts the resulting snapshots.
	Tick(deltaMS float64)
	SetBroadcaster(b Broadcaster)

	// Worlds
	ListWorlds(ctx context.Context) ([]*WorldInfo, error)
	LoadWorld(ctx context.Context, worldName string) (*world.Config, error)
	SaveWorld(ctx context.Context, worldName string, cfg *world.Config) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, cfg *world.Config) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, cfg *world.Config) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles world configuration loading
type ConfigManager interface {
	LoadWorld(name string) (*world.Config, error)
	ListWorlds() ([]*WorldInfo, error)
	GetDefault() *world.Config
	SaveWorld(name string, cfg *world.Config) error
}

// Broadcaster pushes fresh snapshots to connected clients. The websocket
// hub implements it; tests substitute a recorder.
type Broadcaster interface {
	BroadcastState(sessionID string, snap *world.Snapshot)
}

// Session represents one running world instance
type Session struct {
	ID             string
	Authority      *world.Authority
	Config         *world.Config
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
