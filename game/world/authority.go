package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/playmesh/gridwalk/game/engine"
	"github.com/playmesh/gridwalk/game/grid"
)

// Authority owns the true state of one world instance. All mutation happens
// here, on the host; replicas only render what the authority broadcasts.
// Authority is not safe for concurrent use; callers serialize access.
type Authority struct {
	cfg     *Config
	tiles   *TileMap
	gridCfg *grid.Config
	locked  *engine.LockedMover
	free    *engine.FreeMover

	actors map[string]*engine.Actor
	inputs map[string]engine.Input
	tick   uint64

	spawnIdx int
	// movingID is the actor currently being stepped, excluded from its own
	// occupancy check when solid_actors is on.
	movingID string
}

// NewAuthority builds an authority from a validated world config.
func NewAuthority(cfg *Config) (*Authority, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Authority{
		cfg:    cfg,
		tiles:  cfg.ParseLayout(),
		actors: make(map[string]*engine.Actor),
		inputs: make(map[string]engine.Input),
	}
	a.gridCfg = cfg.GridConfig(a.tiles)
	if cfg.SolidActors {
		tileBlocked := a.gridCfg.Blocked
		a.gridCfg.Blocked = func(cx, cy int) bool {
			return tileBlocked(cx, cy) || a.occupied(cx, cy)
		}
	}
	var err error
	if a.locked, err = engine.NewLockedMover(a.gridCfg); err != nil {
		return nil, err
	}
	if a.free, err = engine.NewFreeMover(a.gridCfg); err != nil {
		return nil, err
	}
	return a, nil
}

// occupied reports whether another actor holds the cell, counting both the
// cell an actor sits on and the cell it is moving into.
func (a *Authority) occupied(cx, cy int) bool {
	for id, actor := range a.actors {
		if id == a.movingID {
			continue
		}
		if actor.Cell.X == cx && actor.Cell.Y == cy {
			return true
		}
		if actor.Target != nil && actor.Target.X == cx && actor.Target.Y == cy {
			return true
		}
	}
	return false
}

// Config returns the world config the authority was built from.
func (a *Authority) Config() *Config {
	return a.cfg
}

// GridConfig returns the movement-level grid configuration.
func (a *Authority) GridConfig() *grid.Config {
	return a.gridCfg
}

// Mode returns the world's movement mode.
func (a *Authority) Mode() string {
	return a.cfg.MovementMode
}

// Tick returns the number of simulation steps applied so far.
func (a *Authority) Tick() uint64 {
	return a.tick
}

// Spawn creates a new actor at the next free spawn cell, round-robin, and
// returns its generated ID. Spawn cells already holding an actor are
// skipped; when every spawn is occupied the round-robin cell is used
// anyway so joining never fails.
func (a *Authority) Spawn() (string, *engine.Actor) {
	spawns := a.tiles.Spawns
	cell := spawns[a.spawnIdx%len(spawns)]
	for i := 0; i < len(spawns); i++ {
		c := spawns[(a.spawnIdx+i)%len(spawns)]
		if !a.occupied(c.X, c.Y) {
			cell = c
			a.spawnIdx += i
			break
		}
	}
	a.spawnIdx++
	x, y := a.gridCfg.GridToWorld(cell)
	actor := engine.NewActor(a.gridCfg, x, y)
	id := uuid.NewString()
	a.actors[id] = actor
	a.inputs[id] = engine.Input{}
	return id, actor
}

// Remove deletes an actor and its pending input.
func (a *Authority) Remove(id string) {
	delete(a.actors, id)
	delete(a.inputs, id)
}

// Actor returns the actor with the given ID, or nil.
func (a *Authority) Actor(id string) *engine.Actor {
	return a.actors[id]
}

// ActorIDs returns all actor IDs in sorted order.
func (a *Authority) ActorIDs() []string {
	ids := make([]string, 0, len(a.actors))
	for id := range a.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetInput records the held directions for an actor. The input persists
// across ticks until replaced.
func (a *Authority) SetInput(id string, in engine.Input) error {
	if _, ok := a.actors[id]; !ok {
		return fmt.Errorf("no actor %s", id)
	}
	a.inputs[id] = in
	return nil
}

// SetSpeedMultiplier adjusts an actor's speed scale.
func (a *Authority) SetSpeedMultiplier(id string, mult float64) error {
	actor, ok := a.actors[id]
	if !ok {
		return fmt.Errorf("no actor %s", id)
	}
	if mult <= 0 {
		return fmt.Errorf("speed multiplier must be positive, got %v", mult)
	}
	actor.SpeedMultiplier = mult
	return nil
}

// Snap forces the actor onto the center of the cell containing its
// position, abandoning any transit.
func (a *Authority) Snap(id string) error {
	actor, ok := a.actors[id]
	if !ok {
		return fmt.Errorf("no actor %s", id)
	}
	if a.cfg.MovementMode == ModeFree {
		a.free.SnapToGrid(actor)
	} else {
		a.locked.SnapToGrid(actor)
	}
	return nil
}

// Step advances every actor by deltaMS milliseconds. Actors are stepped in
// sorted ID order so the same inputs always produce the same state.
func (a *Authority) Step(deltaMS float64) {
	for _, id := range a.ActorIDs() {
		a.movingID = id
		actor := a.actors[id]
		if a.cfg.MovementMode == ModeFree {
			a.free.Move(actor, a.inputs[id], deltaMS)
		} else {
			a.locked.Move(actor, a.inputs[id], deltaMS)
		}
	}
	a.movingID = ""
	a.tick++
}

// Snapshot captures the full state as an independent deep copy.
func (a *Authority) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:   a.tick,
		Mode:   a.cfg.MovementMode,
		Actors: make(map[string]ActorState, len(a.actors)),
	}
	for id, actor := range a.actors {
		st := ActorState{
			X:               actor.X,
			Y:               actor.Y,
			SpeedMultiplier: actor.SpeedMultiplier,
			Cell:            actor.Cell,
			Progress:        actor.Progress,
		}
		if actor.Target != nil {
			target := *actor.Target
			st.Target = &target
		}
		snap.Actors[id] = st
	}
	return snap
}

// Restore replaces the authority's actors with a previously captured
// snapshot, preserving in-transit state. Used when reloading a persisted
// session on the same host.
func (a *Authority) Restore(snap *Snapshot) {
	a.tick = snap.Tick
	a.actors = make(map[string]*engine.Actor, len(snap.Actors))
	a.inputs = make(map[string]engine.Input, len(snap.Actors))
	for id, st := range snap.Actors {
		actor := &engine.Actor{
			X:               st.X,
			Y:               st.Y,
			SpeedMultiplier: st.SpeedMultiplier,
			Cell:            st.Cell,
			Progress:        st.Progress,
		}
		if st.Target != nil {
			target := *st.Target
			actor.Target = &target
		}
		a.actors[id] = actor
		a.inputs[id] = engine.Input{}
	}
}

// Promote builds authoritative state from a replica's last snapshot when a
// new host takes over. Interpolated positions are approximations, so in
// locked mode every actor is snapped to its current cell and any stale
// transit is discarded rather than resumed.
func (a *Authority) Promote(snap *Snapshot) {
	a.Restore(snap)
	if a.cfg.MovementMode != ModeLocked {
		return
	}
	for _, actor := range a.actors {
		a.locked.SnapToGrid(actor)
	}
}
