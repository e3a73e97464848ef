package world

import (
	"fmt"

	"github.com/playmesh/gridwalk/game/grid"
)

// Movement modes a world can declare.
const (
	ModeLocked = "locked"
	ModeFree   = "free"
)

// Tile kinds a layout cell can resolve to.
const (
	KindWall  = "wall"
	KindFloor = "floor"
	KindWater = "water"
	KindSpawn = "spawn"
)

// defaultLegend maps the standard layout characters. A world config can
// extend or override it with its own legend entries.
var defaultLegend = map[string]string{
	"#": KindWall,
	".": KindFloor,
	"~": KindWater,
	"@": KindSpawn,
}

// Config describes a complete world: grid geometry, movement rules, and a
// tile layout. Worlds are stored as JSON files and served over the API.
type Config struct {
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	CellSize          float64           `json:"cell_size"`
	GridWidth         int               `json:"grid_width"`
	GridHeight        int               `json:"grid_height"`
	BaseSpeed         float64           `json:"base_speed"`
	MovementMode      string            `json:"movement_mode"`
	NormalizeDiagonal bool              `json:"normalize_diagonal"`
	SolidActors       bool              `json:"solid_actors"`
	Layout            []string          `json:"layout"`
	Legend            map[string]string `json:"legend,omitempty"`
}

// TileMap is the parsed layout: Blocked[y][x] is true for wall and water
// cells. Spawns lists spawn cells in layout order, top-to-bottom then
// left-to-right.
type TileMap struct {
	Blocked [][]bool
	Spawns  []grid.Cell
}

// TileKind resolves a layout character through the world legend, falling
// back to the standard characters.
func (c *Config) TileKind(ch rune) (string, bool) {
	if kind, ok := c.Legend[string(ch)]; ok {
		return kind, true
	}
	kind, ok := defaultLegend[string(ch)]
	return kind, ok
}

// Validate checks the config for structural problems. A valid config always
// yields a usable TileMap and grid.Config.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("world config missing name")
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("world %q: cell_size must be positive, got %v", c.Name, c.CellSize)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("world %q: grid dimensions must be positive, got %dx%d", c.Name, c.GridWidth, c.GridHeight)
	}
	if c.BaseSpeed <= 0 {
		return fmt.Errorf("world %q: base_speed must be positive, got %v", c.Name, c.BaseSpeed)
	}
	switch c.MovementMode {
	case ModeLocked, ModeFree:
	default:
		return fmt.Errorf("world %q: unknown movement_mode %q", c.Name, c.MovementMode)
	}
	for ch, kind := range c.Legend {
		switch kind {
		case KindWall, KindFloor, KindWater, KindSpawn:
		default:
			return fmt.Errorf("world %q: legend maps %q to unknown kind %q", c.Name, ch, kind)
		}
	}
	if len(c.Layout) != c.GridHeight {
		return fmt.Errorf("world %q: layout has %d rows, grid_height is %d", c.Name, len(c.Layout), c.GridHeight)
	}
	spawns := 0
	for y, row := range c.Layout {
		if len(row) != c.GridWidth {
			return fmt.Errorf("world %q: layout row %d has %d cells, grid_width is %d", c.Name, y, len(row), c.GridWidth)
		}
		for x, ch := range row {
			kind, ok := c.TileKind(ch)
			if !ok {
				return fmt.Errorf("world %q: unknown tile %q at (%d,%d)", c.Name, string(ch), x, y)
			}
			if kind == KindSpawn {
				spawns++
			}
		}
	}
	if spawns == 0 {
		return fmt.Errorf("world %q: layout has no spawn cell", c.Name)
	}
	return nil
}

// ParseLayout turns the layout strings into a TileMap. The config must have
// passed Validate first.
func (c *Config) ParseLayout() *TileMap {
	tm := &TileMap{Blocked: make([][]bool, c.GridHeight)}
	for y, row := range c.Layout {
		tm.Blocked[y] = make([]bool, c.GridWidth)
		for x, ch := range row {
			switch kind, _ := c.TileKind(ch); kind {
			case KindWall, KindWater:
				tm.Blocked[y][x] = true
			case KindSpawn:
				tm.Spawns = append(tm.Spawns, grid.Cell{X: x, Y: y})
			}
		}
	}
	return tm
}

// GridConfig builds the movement-level grid configuration from the world,
// with the tile map wired in as the blocked predicate.
func (c *Config) GridConfig(tm *TileMap) *grid.Config {
	return &grid.Config{
		CellSize:          c.CellSize,
		Width:             c.GridWidth,
		Height:            c.GridHeight,
		BaseSpeed:         c.BaseSpeed,
		NormalizeDiagonal: c.NormalizeDiagonal,
		Blocked: func(cx, cy int) bool {
			return tm.Blocked[cy][cx]
		},
	}
}
