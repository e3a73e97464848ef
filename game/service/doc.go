// Package service defines the business logic layer for Gridwalk.
//
// GameService is the single entry point shared by every transport (REST,
// WebSocket, MCP): it owns session lifecycle, actor membership, input
// routing, and the coarse StepMove primitive. The SessionManager and
// ConfigManager interfaces decouple the service from its storage so tests
// can substitute in-memory implementations.
//
// Run drives the host simulation: a fixed-interval loop that advances every
// session's authority and pushes snapshots through the Broadcaster.
package service
