// Package world assembles grid and engine primitives into a running world
// instance. Authority is the host side: it owns actors, applies inputs, and
// produces snapshots. Replica is the client side: it absorbs snapshots and
// interpolates actor positions for rendering. Config describes a world's
// geometry and tile layout as stored on disk.
package world
