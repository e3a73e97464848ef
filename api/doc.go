// Package api provides the HTTP REST API for Gridwalk.
//
// The api package implements:
//   - Session lifecycle endpoints
//   - Actor join/leave, input, and move endpoints
//   - Snapshot retrieval
//   - World listing, loading, and creation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create session (body: {"world_id": "classic"})
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get session info
//   - DELETE /api/sessions/{id} - Delete session
//
// Actors:
//   - POST /api/sessions/{id}/actors - Join: spawn an actor, returns its ID
//   - DELETE /api/sessions/{id}/actors/{actorID} - Leave
//   - PUT /api/sessions/{id}/actors/{actorID}/input - Set held directions
//     (body: {"up": true, "left": false, ...})
//   - POST /api/sessions/{id}/actors/{actorID}/move - Coarse one-cell move
//     (body: {"direction": "up|down|left|right"})
//   - POST /api/sessions/{id}/actors/{actorID}/snap - Snap to cell center
//
// State:
//   - GET /api/sessions/{id}/state - Current authoritative snapshot
//
// Worlds:
//   - GET /api/worlds - List available worlds
//   - POST /api/worlds - Save a world config
//   - GET /api/worlds/{name} - Get a world config
//
// WebSocket:
//   - GET /ws?session={id} - Subscribe to snapshot broadcasts
//
// All endpoints accept and return JSON. Errors are returned as
// {"error": "message"} with an appropriate HTTP status code.
//
// Continuous movement uses the input endpoint: the client PUTs the set of
// held directions whenever it changes, the host applies it every tick, and
// state flows back over the WebSocket. The move endpoint is the synchronous
// alternative for clients that think in whole cells.
package api
