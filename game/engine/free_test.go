package engine

import (
	"math"
	"testing"

	"github.com/playmesh/gridwalk/game/grid"
)

func newFreeTestGrid(blocked func(cx, cy int) bool) *grid.Config {
	return &grid.Config{
		CellSize:          50,
		Width:             5,
		Height:            5,
		BaseSpeed:         100, // world units per second in free mode
		NormalizeDiagonal: true,
		Blocked:           blocked,
	}
}

func TestFreeMove_StraightDisplacement(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, err := NewFreeMover(cfg)
	if err != nil {
		t.Fatalf("NewFreeMover: %v", err)
	}
	a := NewActor(cfg, 125, 125)

	// 100 units/sec for 100ms moves 10 units.
	m.Move(a, Input{Right: true}, 100)
	if math.Abs(a.X-135) > 1e-9 || a.Y != 125 {
		t.Errorf("Expected (135,125), got (%v,%v)", a.X, a.Y)
	}

	m.Move(a, Input{Up: true}, 100)
	if math.Abs(a.X-135) > 1e-9 || math.Abs(a.Y-115) > 1e-9 {
		t.Errorf("Expected (135,115), got (%v,%v)", a.X, a.Y)
	}
}

func TestFreeMove_DiagonalNormalization(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, _ := NewFreeMover(cfg)

	straight := NewActor(cfg, 125, 125)
	m.Move(straight, Input{Right: true}, 100)
	straightDist := math.Hypot(straight.X-125, straight.Y-125)

	diagonal := NewActor(cfg, 125, 125)
	m.Move(diagonal, Input{Right: true, Down: true}, 100)
	diagonalDist := math.Hypot(diagonal.X-125, diagonal.Y-125)

	if math.Abs(straightDist-diagonalDist) > 1e-9 {
		t.Errorf("Normalized diagonal covered %v, straight covered %v", diagonalDist, straightDist)
	}
	want := 100.0 * 100 / 1000
	if math.Abs(straightDist-want) > 1e-9 {
		t.Errorf("Expected displacement %v, got %v", want, straightDist)
	}
}

func TestFreeMove_DiagonalWithoutNormalization(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	cfg.NormalizeDiagonal = false
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 125, 125)

	m.Move(a, Input{Right: true, Down: true}, 100)
	if math.Abs(a.X-135) > 1e-9 || math.Abs(a.Y-135) > 1e-9 {
		t.Errorf("Expected full-speed (135,135), got (%v,%v)", a.X, a.Y)
	}
}

func TestFreeMove_WorldBoundaryRejectsWholeStep(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 25, 25) // cell (0,0) center

	m.Move(a, Input{Left: true}, 1000)
	if a.X != 25 || a.Y != 25 {
		t.Errorf("Step off the world edge must be rejected, got (%v,%v)", a.X, a.Y)
	}

	// Diagonal into the boundary is also rejected whole, no sliding down.
	m.Move(a, Input{Left: true, Down: true}, 1000)
	if a.X != 25 || a.Y != 25 {
		t.Errorf("Expected no axis sliding, got (%v,%v)", a.X, a.Y)
	}
}

func TestFreeMove_BlockedCellRejectsWholeStep(t *testing.T) {
	cfg := newFreeTestGrid(func(cx, cy int) bool { return cx == 3 && cy == 2 })
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 125, 125)
	a.X = 145 // near the east edge of cell (2,2), off the cell center

	// 10 units right lands at x=155, inside blocked cell (3,2).
	m.Move(a, Input{Right: true}, 100)
	if a.X != 145 || a.Y != 125 {
		t.Errorf("Step into a blocked cell must be rejected, got (%v,%v)", a.X, a.Y)
	}

	// A diagonal step landing in the same blocked cell is rejected whole
	// even though the vertical component alone would be legal.
	m.Move(a, Input{Right: true, Down: true}, 100)
	if a.X != 145 || a.Y != 125 {
		t.Errorf("Expected no axis sliding, got (%v,%v)", a.X, a.Y)
	}

	// Moving away still works.
	m.Move(a, Input{Down: true}, 100)
	if a.X != 145 || math.Abs(a.Y-135) > 1e-9 {
		t.Errorf("Expected (145,135), got (%v,%v)", a.X, a.Y)
	}
}

func TestFreeMove_SpeedMultiplier(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 125, 125)
	a.SpeedMultiplier = 0.5

	m.Move(a, Input{Right: true}, 100)
	if math.Abs(a.X-130) > 1e-9 {
		t.Errorf("Expected half-speed x=130, got %v", a.X)
	}
}

func TestFreeMove_OpposedInputCancels(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 125, 125)

	m.Move(a, Input{Left: true, Right: true}, 100)
	if a.X != 125 || a.Y != 125 {
		t.Errorf("Opposed input must cancel, got (%v,%v)", a.X, a.Y)
	}
}

func TestFreeGridPosition(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 125, 125)

	m.Move(a, Input{Right: true}, 300) // 30 units, x=155
	if pos := m.GridPosition(a); pos.X != 3 || pos.Y != 2 {
		t.Errorf("Expected cell (3,2), got %v", pos)
	}
}

func TestFreeSnapToGrid(t *testing.T) {
	cfg := newFreeTestGrid(nil)
	m, _ := NewFreeMover(cfg)
	a := NewActor(cfg, 125, 125)

	m.Move(a, Input{Right: true}, 120) // x=137, still cell (2,2)
	m.SnapToGrid(a)
	if a.X != 125 || a.Y != 125 {
		t.Errorf("Expected snap to cell center (125,125), got (%v,%v)", a.X, a.Y)
	}
	if a.Cell.X != 2 || a.Cell.Y != 2 {
		t.Errorf("Expected cell (2,2), got %v", a.Cell)
	}
}
