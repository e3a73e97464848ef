package engine

import "github.com/playmesh/gridwalk/game/grid"

// Input is the pre-resolved control state for one actor during one tick.
// The input layer (keyboard, REST, a bot) produces it; the movers consume
// it. Held keys are represented by sending the same Input every tick.
type Input struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Zero reports whether no direction is held.
func (in Input) Zero() bool {
	return !in.Up && !in.Down && !in.Left && !in.Right
}

// Actor is the movement state the engine owns. The embedding game keeps its
// own data (name, appearance, score) in a separate struct keyed by the same
// ID; the movers only ever see and mutate these fields.
//
// X,Y is always the authoritative render position. Cell, Target and
// Progress are only meaningful under the locked mover: when Target is nil
// and Progress is zero the actor sits exactly on the center of Cell;
// otherwise it is in transit and X,Y is the interpolation between the two
// cell centers at Progress.
type Actor struct {
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	SpeedMultiplier float64    `json:"speed_multiplier"`
	Cell            grid.Cell  `json:"cell"`
	Target          *grid.Cell `json:"target,omitempty"`
	Progress        float64    `json:"progress"`
}

// NewActor builds an actor aligned on the cell containing (x, y). The cell
// fields are always populated here so the movers never have to special-case
// an uninitialized actor.
func NewActor(cfg *grid.Config, x, y float64) *Actor {
	cell, _ := cfg.WorldToGrid(x, y)
	wx, wy := cfg.GridToWorld(cell)
	return &Actor{
		X:               wx,
		Y:               wy,
		SpeedMultiplier: 1.0,
		Cell:            cell,
	}
}

// resolveDirection reduces an input to a single cardinal direction for the
// locked mover. When both a horizontal and a vertical key are held the
// horizontal one wins. This tie-break is fixed and deliberate so
// simultaneous presses behave identically on every host; input buffering
// would be the place to revisit if it ever needs to change.
func resolveDirection(in Input) (int, int) {
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
	if dx != 0 {
		dy = 0
	}
	return dx, dy
}
