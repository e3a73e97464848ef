package engine

// Observer receives a callback after a mover mutates an actor. Debug
// overlays and replication hooks subscribe here instead of living inside
// the mover. Rejected moves do not notify; nothing changed.
type Observer interface {
	ActorMoved(a *Actor)
}

// notify is nil-safe so movers can call it unconditionally.
func notify(o Observer, a *Actor) {
	if o != nil {
		o.ActorMoved(a)
	}
}
