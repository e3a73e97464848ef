package world

// Position is an interpolated render position.
type Position struct {
	X float64
	Y float64
}

type replicaActor struct {
	prevX, prevY     float64
	targetX, targetY float64
	elapsedMS        float64
}

// Replica mirrors an authority from its snapshot broadcasts. It never
// simulates movement rules; between snapshots it linearly interpolates each
// actor from where it was drawn toward where the host said it is, over a
// fixed window. Replica is not safe for concurrent use.
type Replica struct {
	windowMS float64
	latest   *Snapshot
	actors   map[string]*replicaActor
}

// NewReplica creates a replica that smooths each snapshot over windowMS
// milliseconds. The window should roughly match the host's broadcast
// interval plus network jitter.
func NewReplica(windowMS float64) *Replica {
	if windowMS <= 0 {
		windowMS = 1
	}
	return &Replica{
		windowMS: windowMS,
		actors:   make(map[string]*replicaActor),
	}
}

// Absorb takes a new authoritative snapshot. Each known actor starts a
// fresh interpolation from its current render position; actors appearing
// for the first time are placed directly at their authoritative position.
// Stale snapshots (tick not newer than the last) are dropped.
func (r *Replica) Absorb(snap *Snapshot) {
	if r.latest != nil && snap.Tick <= r.latest.Tick {
		return
	}
	for id, st := range snap.Actors {
		ra, ok := r.actors[id]
		if !ok {
			r.actors[id] = &replicaActor{
				prevX: st.X, prevY: st.Y,
				targetX: st.X, targetY: st.Y,
				elapsedMS: r.windowMS,
			}
			continue
		}
		cur := r.renderPosition(ra)
		ra.prevX, ra.prevY = cur.X, cur.Y
		ra.targetX, ra.targetY = st.X, st.Y
		ra.elapsedMS = 0
	}
	for id := range r.actors {
		if _, ok := snap.Actors[id]; !ok {
			delete(r.actors, id)
		}
	}
	r.latest = snap.Clone()
}

// Advance moves interpolation time forward by deltaMS milliseconds.
func (r *Replica) Advance(deltaMS float64) {
	for _, ra := range r.actors {
		ra.elapsedMS += deltaMS
		if ra.elapsedMS > r.windowMS {
			ra.elapsedMS = r.windowMS
		}
	}
}

func (r *Replica) renderPosition(ra *replicaActor) Position {
	t := ra.elapsedMS / r.windowMS
	if t > 1 {
		t = 1
	}
	return Position{
		X: ra.prevX + (ra.targetX-ra.prevX)*t,
		Y: ra.prevY + (ra.targetY-ra.prevY)*t,
	}
}

// Position returns the current render position for one actor.
func (r *Replica) Position(id string) (Position, bool) {
	ra, ok := r.actors[id]
	if !ok {
		return Position{}, false
	}
	return r.renderPosition(ra), true
}

// Positions returns render positions for every known actor.
func (r *Replica) Positions() map[string]Position {
	out := make(map[string]Position, len(r.actors))
	for id, ra := range r.actors {
		out[id] = r.renderPosition(ra)
	}
	return out
}

// Latest returns the last absorbed snapshot, or nil before the first one.
// This is what gets handed to Authority.Promote on host takeover.
func (r *Replica) Latest() *Snapshot {
	return r.latest
}
