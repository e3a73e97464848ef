// Package config provides world configuration management for Gridwalk.
//
// The config package handles:
//   - Loading world configurations from JSON files
//   - Validation before a world is cached or saved
//   - Default world selection
//   - World discovery and listing
//
// World Format:
//
// Worlds are stored as JSON files in the worlds directory. Each world
// defines:
//   - Grid geometry (cell size, width, height) and base movement speed
//   - Movement mode: "locked" for cell-to-cell motion, "free" for
//     continuous motion with per-cell collision
//   - A tile layout using character mapping (#=wall, .=floor, ~=water,
//     @=spawn), optionally extended by a custom legend
//   - Whether actors block each other (solid_actors)
//
// Usage:
//
//	manager, err := config.NewManager("worlds")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific world
//	cfg, err := manager.LoadWorld("classic")
//
//	// Get the default world
//	def := manager.GetDefault()
//
//	// List available worlds
//	worlds, err := manager.ListWorlds()
//
// If the worlds directory is empty the manager falls back to a built-in
// minimal world so the server can always start.
package config
