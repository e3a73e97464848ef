// Package mcp provides the Model Context Protocol interface for Gridwalk.
//
// The package implements a thin MCP client that proxies every tool call
// to the REST API server, so MCP agents and HTTP clients always see the
// same authoritative state.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_worlds: List available world definitions
//   - create_session: Create a new session with world selection
//   - list_sessions: List all active sessions
//   - get_session: Get session details with a rendered map view
//   - join_session: Spawn a new actor into a session
//   - game_state: Get the current world snapshot with a map view
//   - move: Coarse one-cell actor movement, returning after arrival
//   - set_input: Set an actor's held directional input
//   - snap_actor: Snap an actor to its current cell center
//   - game_instructions: Full rules, map legend and tool usage guide
//
// Map Views:
//
// Tools that return world state render an ASCII map from the world
// layout with actors overlaid as letters. Actors in transit are drawn
// in their departure cell with their target and progress listed below
// the map.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
