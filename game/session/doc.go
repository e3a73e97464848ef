// Package session provides session management for Gridwalk.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - File-based persistence with restore on boot
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session wraps a world.Authority together with metadata like creation
// time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, compared
// case-insensitively. The manager generates them with cryptographic
// randomness.
//
// Persistence:
//
// With a SessionPersistence layer attached, sessions are written as JSON
// snapshots. Load rebuilds a session by loading its world config and
// replaying the snapshot into a fresh authority, so actors resume exactly
// where they were, in-transit state included.
//
// Usage:
//
//	manager := session.NewManagerWithPersistence(persistence)
//
//	// Create a new session
//	sess, err := manager.Create("", worldConfig)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve an existing session
//	sess, err = manager.Get(sessionID)
//
//	// List all active sessions
//	sessions := manager.List()
package session
