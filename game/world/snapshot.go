package world

import "github.com/playmesh/gridwalk/game/grid"

// ActorState is the wire form of one actor inside a snapshot.
type ActorState struct {
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	SpeedMultiplier float64    `json:"speed_multiplier"`
	Cell            grid.Cell  `json:"cell"`
	Target          *grid.Cell `json:"target,omitempty"`
	Progress        float64    `json:"progress,omitempty"`
}

// Snapshot is the complete authoritative state at one tick. It is what the
// hub broadcasts, what persistence stores, and what a replica absorbs.
type Snapshot struct {
	Tick   uint64                `json:"tick"`
	Mode   string                `json:"mode"`
	Actors map[string]ActorState `json:"actors"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{Tick: s.Tick, Mode: s.Mode, Actors: make(map[string]ActorState, len(s.Actors))}
	for id, st := range s.Actors {
		if st.Target != nil {
			target := *st.Target
			st.Target = &target
		}
		out.Actors[id] = st
	}
	return out
}
