package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/playmesh/gridwalk/game/engine"
	"github.com/playmesh/gridwalk/game/world"
)

// stepTickMS is the simulated tick size used by StepMove, matching the
// runner's broadcast cadence.
const stepTickMS = 50

// maxStepTicks bounds a single StepMove so a misconfigured world cannot
// spin the loop forever.
const maxStepTicks = 1000

var ErrUnknownDirection = errors.New("unknown direction")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster Broadcaster
	mu          sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// SetBroadcaster installs the snapshot sink used by Tick
func (s *gameServiceImpl) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// getWorldID returns the world_id for a given display name, used for
// consistent API responses
func (s *gameServiceImpl) getWorldID(worldName string) string {
	worlds, err := s.configs.ListWorlds()
	if err == nil {
		for _, w := range worlds {
			if w.Name == worldName {
				return w.WorldID
			}
		}
	}
	if worldName == "" {
		return "default"
	}
	return worldName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	snap := sess.Authority.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		WorldName:      s.getWorldID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		ActorCount:     len(snap.Actors),
		Snapshot:       snap,
		WorldConfig:    sess.Config,
	}
}

// CreateSession creates a new session running the named world
func (s *gameServiceImpl) CreateSession(ctx context.Context, worldName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg *world.Config
	var err error
	if worldName != "" {
		cfg, err = s.configs.LoadWorld(worldName)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				worlds, listErr := s.configs.ListWorlds()
				if listErr == nil && len(worlds) > 0 {
					var ids []string
					for _, w := range worlds {
						ids = append(ids, w.WorldID)
					}
					return nil, fmt.Errorf("world '%s' not found. Available worlds: %v", worldName, ids)
				}
				return nil, fmt.Errorf("world '%s' not found. Use /api/worlds to list available worlds", worldName)
			}
			return nil, fmt.Errorf("failed to load world %s: %w", worldName, err)
		}
	} else {
		cfg = s.configs.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, s.sessionInfo(sess))
	}
	return infos, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// JoinSession spawns a new actor into the session
func (s *gameServiceImpl) JoinSession(ctx context.Context, sessionID string) (*JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	actorID, _ := sess.Authority.Spawn()
	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)

	return &JoinResult{
		SessionID: sess.ID,
		ActorID:   actorID,
		Snapshot:  sess.Authority.Snapshot(),
	}, nil
}

// LeaveSession removes an actor from the session
func (s *gameServiceImpl) LeaveSession(ctx context.Context, sessionID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	if sess.Authority.Actor(actorID) == nil {
		return fmt.Errorf("no actor %s in session %s", actorID, sessionID)
	}

	sess.Authority.Remove(actorID)
	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)
	return nil
}

// SetInput records held directional input for an actor
func (s *gameServiceImpl) SetInput(ctx context.Context, sessionID, actorID string, in engine.Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	return sess.Authority.SetInput(actorID, in)
}

// directionInput maps a direction name to held input
func directionInput(direction string) (engine.Input, error) {
	switch strings.ToLower(direction) {
	case "up", "north":
		return engine.Input{Up: true}, nil
	case "down", "south":
		return engine.Input{Down: true}, nil
	case "left", "west":
		return engine.Input{Left: true}, nil
	case "right", "east":
		return engine.Input{Right: true}, nil
	default:
		return engine.Input{}, fmt.Errorf("%w: %q (use up/down/left/right)", ErrUnknownDirection, direction)
	}
}

// StepMove performs a coarse one-cell move: it holds the direction and
// drives simulated ticks until the actor has crossed into the next cell (or
// the move was rejected). This is the move primitive exposed to MCP clients
// and bots that think in whole cells rather than held keys.
func (s *gameServiceImpl) StepMove(ctx context.Context, sessionID, actorID, direction string) (*MoveResult, error) {
	in, err := directionInput(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	auth := sess.Authority
	actor := auth.Actor(actorID)
	if actor == nil {
		return nil, fmt.Errorf("no actor %s in session %s", actorID, sessionID)
	}

	// Drain any transit already in progress before starting a new move.
	auth.SetInput(actorID, engine.Input{})
	for i := 0; actor.Target != nil && i < maxStepTicks; i++ {
		auth.Step(stepTickMS)
	}

	startCell := actor.Cell
	startX, startY := actor.X, actor.Y
	auth.SetInput(actorID, in)

	if auth.Mode() == world.ModeFree {
		// Hold the input for roughly one cell's worth of travel time.
		ticks := int(sess.Config.CellSize/(sess.Config.BaseSpeed*actor.SpeedMultiplier)*1000/stepTickMS) + 1
		if ticks > maxStepTicks {
			ticks = maxStepTicks
		}
		for i := 0; i < ticks; i++ {
			auth.Step(stepTickMS)
		}
	} else {
		auth.Step(stepTickMS)
		for i := 0; actor.Target != nil && i < maxStepTicks; i++ {
			auth.Step(stepTickMS)
		}
	}

	auth.SetInput(actorID, engine.Input{})
	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)

	moved := actor.Cell != startCell || actor.X != startX || actor.Y != startY
	return &MoveResult{
		Moved:     moved,
		Direction: strings.ToLower(direction),
		Cell:      actor.Cell,
		X:         actor.X,
		Y:         actor.Y,
		Snapshot:  auth.Snapshot(),
	}, nil
}

// SnapActor forces the actor onto its nearest cell center
func (s *gameServiceImpl) SnapActor(ctx context.Context, sessionID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	if err := sess.Authority.Snap(actorID); err != nil {
		return err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)
	return nil
}

// GetSnapshot returns the current authoritative state
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*world.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Authority.Snapshot(), nil
}

// Tick advances every session and broadcasts fresh snapshots
func (s *gameServiceImpl) Tick(deltaMS float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions.List() {
		sess.Authority.Step(deltaMS)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastState(sess.ID, sess.Authority.Snapshot())
		}
	}
}

// ListWorlds returns all available worlds
func (s *gameServiceImpl) ListWorlds(ctx context.Context) ([]*WorldInfo, error) {
	return s.configs.ListWorlds()
}

// LoadWorld loads a specific world configuration
func (s *gameServiceImpl) LoadWorld(ctx context.Context, worldName string) (*world.Config, error) {
	return s.configs.LoadWorld(worldName)
}

// SaveWorld saves a world configuration
func (s *gameServiceImpl) SaveWorld(ctx context.Context, worldName string, cfg *world.Config) error {
	return s.configs.SaveWorld(worldName, cfg)
}
