package engine

import (
	"math"

	"github.com/playmesh/gridwalk/game/grid"
)

// FreeMover moves actors continuously through world space while rejecting
// any step whose destination cell is blocked or out of bounds. There is no
// cell commitment and no transit state; BaseSpeed is interpreted as world
// units per second.
type FreeMover struct {
	cfg      *grid.Config
	observer Observer
}

// NewFreeMover validates the grid configuration and returns a mover bound
// to it.
func NewFreeMover(cfg *grid.Config) (*FreeMover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FreeMover{cfg: cfg}, nil
}

// SetObserver installs an optional post-mutation callback.
func (m *FreeMover) SetObserver(o Observer) {
	m.observer = o
}

// Config returns the grid configuration the mover operates on.
func (m *FreeMover) Config() *grid.Config {
	return m.cfg
}

// Move applies one tick of displacement. Both axes move simultaneously, so
// no tie-break is needed; with NormalizeDiagonal the speed is scaled by
// 1/sqrt(2) when both axes are active so diagonal travel covers the same
// distance per tick as straight travel. A step whose destination fails the
// bounds or cell check is discarded whole: no sliding along the free axis.
// That all-or-nothing rejection is deliberate and load-bearing for
// determinism; do not "fix" it into per-axis resolution.
func (m *FreeMover) Move(a *Actor, in Input, deltaMS float64) {
	dx := 0
	if in.Right {
		dx++
	}
	if in.Left {
		dx--
	}
	dy := 0
	if in.Down {
		dy++
	}
	if in.Up {
		dy--
	}
	if dx == 0 && dy == 0 {
		return
	}

	speed := m.cfg.BaseSpeed * a.SpeedMultiplier
	if dx != 0 && dy != 0 && m.cfg.NormalizeDiagonal {
		speed /= math.Sqrt2
	}

	nx := a.X + float64(dx)*speed*deltaMS/1000
	ny := a.Y + float64(dy)*speed*deltaMS/1000

	if !m.cfg.InWorldBounds(nx, ny) {
		return
	}
	cell, _ := m.cfg.WorldToGrid(nx, ny)
	if m.cfg.Blocked != nil && m.cfg.Blocked(cell.X, cell.Y) {
		return
	}

	a.X = nx
	a.Y = ny
	notify(m.observer, a)
}

// SnapToGrid centers the actor on the cell containing its position. Both
// movement modes expose the same grid helpers so a game can switch modes
// without changing its grid math.
func (m *FreeMover) SnapToGrid(a *Actor) {
	cell, _ := m.cfg.WorldToGrid(a.X, a.Y)
	a.Cell = cell
	a.Target = nil
	a.Progress = 0
	a.X, a.Y = m.cfg.GridToWorld(cell)
	notify(m.observer, a)
}

// GridPosition returns the cell containing the actor's position.
func (m *FreeMover) GridPosition(a *Actor) grid.Cell {
	cell, _ := m.cfg.WorldToGrid(a.X, a.Y)
	return cell
}
