// Package engine implements the two per-actor movement policies.
//
// LockedMover is a small state machine: actors are either Aligned on a cell
// center or InTransit toward one walkable neighbor, and directional input
// is only honored while aligned. FreeMover moves continuously and rejects
// whole steps against per-cell collision. Both operate on the same
// grid.Config and mutate the Actor passed in; neither owns actor lifetime,
// raises errors for rejected moves, or performs any I/O.
//
// Only the authoritative host may call the movers for a shared actor; see
// package world for the host/replica split that enforces this.
package engine
