// Package grid provides the coordinate mapping shared by every movement
// mode: conversions between continuous world positions and discrete cells,
// cell-center math, and bounds/walkability checks.
//
// The package is stateless; a Config is built once and read concurrently.
// The Blocked predicate is the only external hook and is supplied by the
// world layer (static tiles, optionally live actor occupancy).
package grid
