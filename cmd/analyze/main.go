// Command analyze prints quick, human-readable heuristics about world
// definition files. It summarizes dimensions, movement settings, tile
// densities, and flood-fills from the spawn points to flag passable cells
// that no actor can ever reach.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/playmesh/gridwalk/game/grid"
	"github.com/playmesh/gridwalk/game/world"
)

// WorldReport holds the computed heuristics for one world file.
type WorldReport struct {
	Name        string
	Mode        string
	Width       int
	Height      int
	CellSize    float64
	BaseSpeed   float64
	SolidActors bool
	WallCount   int
	WaterCount  int
	FloorCount  int
	SpawnCount  int
	Reachable   int
	Unreachable []grid.Cell
	ValidateErr error
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Inspect Gridwalk world definition files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "worlds-dir",
				Value: "worlds",
				Usage: "Directory containing world JSON files",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd.String("worlds-dir"), cmd.Args().Slice(), os.Stdout)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// run analyzes the named world files, or every .json file in the directory
// when no names are given.
func run(worldsDir string, names []string, out io.Writer) error {
	if len(names) == 0 {
		entries, err := os.ReadDir(worldsDir)
		if err != nil {
			return fmt.Errorf("read worlds dir: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
				names = append(names, entry.Name())
			}
		}
	}

	if len(names) == 0 {
		return fmt.Errorf("no world files found in %s", worldsDir)
	}

	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		fmt.Fprintf(out, "\n=== %s ===\n", name)

		report, err := analyzeWorld(filepath.Join(worldsDir, name))
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printReport(out, report)
	}

	return nil
}

func analyzeWorld(path string) (*WorldReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg world.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	report := &WorldReport{
		Name:        cfg.Name,
		Mode:        cfg.MovementMode,
		Width:       cfg.GridWidth,
		Height:      cfg.GridHeight,
		CellSize:    cfg.CellSize,
		BaseSpeed:   cfg.BaseSpeed,
		SolidActors: cfg.SolidActors,
		ValidateErr: cfg.Validate(),
	}
	if report.ValidateErr != nil {
		return report, nil
	}

	tiles := cfg.ParseLayout()
	report.SpawnCount = len(tiles.Spawns)

	passable := make(map[grid.Cell]bool)
	for y, row := range cfg.Layout {
		for x, ch := range row {
			kind, _ := cfg.TileKind(ch)
			switch kind {
			case world.KindWater:
				report.WaterCount++
			case world.KindWall:
				report.WallCount++
			default:
				report.FloorCount++
				passable[grid.Cell{X: x, Y: y}] = true
			}
		}
	}

	// Flood fill from every spawn
	seen := make(map[grid.Cell]bool)
	queue := make([]grid.Cell, 0, len(tiles.Spawns))
	for _, s := range tiles.Spawns {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []grid.Cell{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			n := grid.Cell{X: p.X + d.X, Y: p.Y + d.Y}
			if passable[n] && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}

	report.Reachable = len(seen)
	for p := range passable {
		if !seen[p] {
			report.Unreachable = append(report.Unreachable, p)
		}
	}

	return report, nil
}

func printReport(out io.Writer, r *WorldReport) {
	fmt.Fprintf(out, "Name: %s\n", r.Name)
	if r.ValidateErr != nil {
		fmt.Fprintf(out, "INVALID: %v\n", r.ValidateErr)
		return
	}

	fmt.Fprintf(out, "Grid: %d x %d (cell size %g)\n", r.Width, r.Height, r.CellSize)
	fmt.Fprintf(out, "Mode: %s, base speed %.1f, solid actors: %v\n", r.Mode, r.BaseSpeed, r.SolidActors)
	fmt.Fprintf(out, "Tiles: %d floor, %d wall, %d water, %d spawns\n",
		r.FloorCount, r.WallCount, r.WaterCount, r.SpawnCount)

	total := r.Width * r.Height
	fmt.Fprintf(out, "Wall density: %.0f%%\n", float64(r.WallCount)/float64(total)*100)

	if len(r.Unreachable) > 0 {
		fmt.Fprintf(out, "WARNING: %d passable cells are unreachable from any spawn\n", len(r.Unreachable))
		for i, p := range r.Unreachable {
			if i >= 5 {
				fmt.Fprintf(out, "   ... and %d more\n", len(r.Unreachable)-5)
				break
			}
			fmt.Fprintf(out, "   Unreachable: (%d, %d)\n", p.X, p.Y)
		}
	} else {
		fmt.Fprintf(out, "All %d passable cells reachable from spawns\n", r.Reachable)
	}
}
