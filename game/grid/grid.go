package grid

import (
	"fmt"
	"math"
)

// alignedFraction is the per-axis tolerance, as a fraction of the cell size,
// used by the "close enough to a cell center" heuristic in WorldToGrid.
const alignedFraction = 0.1

// Cell identifies a single grid cell by column and row.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Config describes an immutable grid: cell geometry, dimensions, movement
// speed, and the externally supplied walkability predicate. Blocked may
// consult static tiles, hazards, or other actors; it is never called for
// out-of-bounds cells.
type Config struct {
	CellSize          float64
	Width             int
	Height            int
	BaseSpeed         float64
	NormalizeDiagonal bool
	Blocked           func(cx, cy int) bool
}

// Validate checks the numeric constraints on the grid geometry.
func (c *Config) Validate() error {
	if c.CellSize <= 0 {
		return errCellSize
	}
	if c.Width < 1 || c.Height < 1 {
		return errDimensions
	}
	if c.BaseSpeed <= 0 {
		return errBaseSpeed
	}
	return nil
}

// WorldToGrid maps a world-space position to the cell containing it. The
// second return value reports whether the position is close to the cell
// center (within alignedFraction of the cell size on both axes). That check
// is a diagnostic/snapping aid only; the locked mover tracks its aligned
// state explicitly.
func (c *Config) WorldToGrid(x, y float64) (Cell, bool) {
	cell := Cell{
		X: int(math.Floor(x / c.CellSize)),
		Y: int(math.Floor(y / c.CellSize)),
	}
	cx, cy := c.GridToWorld(cell)
	tol := c.CellSize * alignedFraction
	aligned := math.Abs(x-cx) < tol && math.Abs(y-cy) < tol
	return cell, aligned
}

// GridToWorld returns the exact world-space center of a cell.
func (c *Config) GridToWorld(cell Cell) (float64, float64) {
	return float64(cell.X)*c.CellSize + c.CellSize/2,
		float64(cell.Y)*c.CellSize + c.CellSize/2
}

// InBounds reports whether the cell lies inside the grid.
func (c *Config) InBounds(cell Cell) bool {
	return cell.X >= 0 && cell.X < c.Width && cell.Y >= 0 && cell.Y < c.Height
}

// Walkable reports whether an actor may occupy the cell. Cells outside the
// grid are never walkable, regardless of what the Blocked predicate would
// say about them.
func (c *Config) Walkable(cell Cell) bool {
	if !c.InBounds(cell) {
		return false
	}
	if c.Blocked != nil && c.Blocked(cell.X, cell.Y) {
		return false
	}
	return true
}

// WorldWidth returns the world-space width of the grid.
func (c *Config) WorldWidth() float64 {
	return float64(c.Width) * c.CellSize
}

// WorldHeight returns the world-space height of the grid.
func (c *Config) WorldHeight() float64 {
	return float64(c.Height) * c.CellSize
}

// InWorldBounds reports whether a world-space position lies inside the
// half-open world rectangle [0, WorldWidth) x [0, WorldHeight).
func (c *Config) InWorldBounds(x, y float64) bool {
	return x >= 0 && x < c.WorldWidth() && y >= 0 && y < c.WorldHeight()
}
