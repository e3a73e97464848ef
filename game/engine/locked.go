package engine

import "github.com/playmesh/gridwalk/game/grid"

// LockedMover advances actors between adjacent cell centers. An actor is
// either Aligned (sitting exactly on a cell center, accepting directional
// input) or InTransit (committed to one neighboring cell, ignoring input
// until it arrives). BaseSpeed is interpreted as cells per second.
type LockedMover struct {
	cfg      *grid.Config
	observer Observer
}

// NewLockedMover validates the grid configuration and returns a mover
// bound to it.
func NewLockedMover(cfg *grid.Config) (*LockedMover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LockedMover{cfg: cfg}, nil
}

// SetObserver installs an optional post-mutation callback.
func (m *LockedMover) SetObserver(o Observer) {
	m.observer = o
}

// Config returns the grid configuration the mover operates on.
func (m *LockedMover) Config() *grid.Config {
	return m.cfg
}

// Move processes one tick of elapsed time (deltaMS, milliseconds) for the
// actor. When aligned it derives a cardinal direction from the input and
// commits to the neighboring cell if that cell is in bounds and unblocked;
// a blocked or out-of-bounds request is a silent no-op, not an error.
// Bumping into walls is a normal, frequent outcome. Once committed (or if
// already in transit) the same call advances the transit, so a single call
// with a large delta completes the whole cell step.
func (m *LockedMover) Move(a *Actor, in Input, deltaMS float64) {
	if a.Target == nil {
		dx, dy := resolveDirection(in)
		if dx == 0 && dy == 0 {
			return
		}
		next := grid.Cell{X: a.Cell.X + dx, Y: a.Cell.Y + dy}
		if !m.cfg.Walkable(next) {
			return
		}
		target := next
		a.Target = &target
		a.Progress = 0
	}
	m.advance(a, deltaMS)
}

// advance moves an in-transit actor forward. Completion snaps the position
// to the exact target center so floating-point error cannot accumulate
// across many cell steps.
func (m *LockedMover) advance(a *Actor, deltaMS float64) {
	a.Progress += m.cfg.BaseSpeed * a.SpeedMultiplier * deltaMS / 1000
	if a.Progress >= 1 {
		a.Cell = *a.Target
		a.Target = nil
		a.Progress = 0
		a.X, a.Y = m.cfg.GridToWorld(a.Cell)
	} else {
		fx, fy := m.cfg.GridToWorld(a.Cell)
		tx, ty := m.cfg.GridToWorld(*a.Target)
		a.X = fx + (tx-fx)*a.Progress
		a.Y = fy + (ty-fy)*a.Progress
	}
	notify(m.observer, a)
}

// SnapToGrid forces the actor into the Aligned state on the cell containing
// its current position, abandoning any transit in progress. Used for
// teleports, respawns, and host handover.
func (m *LockedMover) SnapToGrid(a *Actor) {
	cell, _ := m.cfg.WorldToGrid(a.X, a.Y)
	a.Cell = cell
	a.Target = nil
	a.Progress = 0
	a.X, a.Y = m.cfg.GridToWorld(cell)
	notify(m.observer, a)
}

// IsAligned reports whether the actor is idle on a cell center.
func (m *LockedMover) IsAligned(a *Actor) bool {
	return a.Target == nil && a.Progress == 0
}

// GridPosition returns the cell the actor currently occupies (the cell it
// is departing from, while in transit).
func (m *LockedMover) GridPosition(a *Actor) grid.Cell {
	return a.Cell
}
