// Package websocket provides the snapshot broadcast transport for Gridwalk.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Snapshot fan-out from the host tick loop
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by dedicated
// read and write goroutines.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//
//	{"session_id": "ab12", "snapshot": {...}, "event": "state_update"}
//
// The socket is broadcast-only: clients submit input through the REST API
// and receive authoritative snapshots here at the host tick rate. A client
// feeds each snapshot into a world.Replica and renders the interpolated
// positions.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12) when
// establishing the connection. Snapshots are fanned out only to clients
// watching the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	svc.SetBroadcaster(hub)
//
// Concurrency:
//
// Registration, unregistration, and fan-out all run on the hub goroutine.
// BroadcastState may be called from any goroutine; it only queues.
package websocket
