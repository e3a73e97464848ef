// Command validate provides a small CLI that validates world definition JSON
// files in the worlds directory. It checks:
//   - JSON structure and required fields (via the world config validator)
//   - Grid consistency, allowed tile characters and spawn presence
//   - Connectivity: every passable cell is reachable from the spawn points,
//     so no actor can ever be walled in or walled out
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playmesh/gridwalk/game/grid"
	"github.com/playmesh/gridwalk/game/world"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateWorld loads and validates a single world JSON file.
// It performs the structural checks from the world package plus a
// connectivity analysis over the parsed tile map.
func validateWorld(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var cfg world.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := cfg.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid world: %v", err))
		return result
	}

	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Structure: %dx%d %s world", cfg.GridWidth, cfg.GridHeight, cfg.MovementMode))

	connectivity := validateConnectivity(&cfg)
	result.Errors = append(result.Errors, connectivity.Errors...)
	if !connectivity.Valid {
		result.Valid = false
	}

	return result
}

// validateConnectivity flood-fills from the spawn points and reports any
// passable cell no actor can reach.
func validateConnectivity(cfg *world.Config) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	tiles := cfg.ParseLayout()
	if len(tiles.Spawns) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "No spawn points found for connectivity test")
		return result
	}

	passable := 0
	for y := 0; y < cfg.GridHeight; y++ {
		for x := 0; x < cfg.GridWidth; x++ {
			if !tiles.Blocked[y][x] {
				passable++
			}
		}
	}

	// Flood fill from every spawn
	visited := make(map[grid.Cell]bool)
	queue := []grid.Cell{}
	for _, s := range tiles.Spawns {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	isPassable := func(x, y int) bool {
		if x < 0 || y < 0 || y >= cfg.GridHeight || x >= cfg.GridWidth {
			return false
		}
		return !tiles.Blocked[y][x]
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		directions := []grid.Cell{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}
		for _, d := range directions {
			n := grid.Cell{X: c.X + d.X, Y: c.Y + d.Y}
			if !visited[n] && isPassable(n.X, n.Y) {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}

	unreachable := []grid.Cell{}
	for y := 0; y < cfg.GridHeight; y++ {
		for x := 0; x < cfg.GridWidth; x++ {
			c := grid.Cell{X: x, Y: y}
			if !tiles.Blocked[y][x] && !visited[c] {
				unreachable = append(unreachable, c)
			}
		}
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Connectivity failure: %d/%d passable cells unreachable from spawns", len(unreachable), passable))
		for _, c := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", c))
		}
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Connectivity: all %d passable cells reachable from %d spawns", passable, len(tiles.Spawns)))
	}

	return result
}

// main scans the worlds directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	worldsDir := "worlds"
	if len(os.Args) > 1 {
		worldsDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(worldsDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding world files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No world files found in %s\n", worldsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateWorld(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All worlds are valid!")
	} else {
		fmt.Println("❌ Some worlds have errors")
		os.Exit(1)
	}
}
