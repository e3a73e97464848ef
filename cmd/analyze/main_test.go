package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playmesh/gridwalk/game/world"
)

func writeWorld(t *testing.T, dir, name string, cfg *world.Config) string {
	t.Helper()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal world: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write world: %v", err)
	}
	return path
}

func testWorld() *world.Config {
	return &world.Config{
		Name:         "Analyze Test",
		CellSize:     50,
		GridWidth:    5,
		GridHeight:   5,
		BaseSpeed:    3.0,
		MovementMode: world.ModeLocked,
		Layout: []string{
			"#####",
			"#@..#",
			"#.#.#",
			"#..@#",
			"#####",
		},
	}
}

func TestAnalyzeWorld(t *testing.T) {
	dir := t.TempDir()
	path := writeWorld(t, dir, "test.json", testWorld())

	report, err := analyzeWorld(path)
	if err != nil {
		t.Fatalf("analyzeWorld failed: %v", err)
	}

	if report.ValidateErr != nil {
		t.Fatalf("Expected valid world, got %v", report.ValidateErr)
	}
	if report.Width != 5 || report.Height != 5 {
		t.Errorf("Expected 5x5 grid, got %dx%d", report.Width, report.Height)
	}
	if report.CellSize != 50 {
		t.Errorf("Expected cell size 50, got %g", report.CellSize)
	}
	if report.SpawnCount != 2 {
		t.Errorf("Expected 2 spawns, got %d", report.SpawnCount)
	}
	if report.FloorCount != 8 {
		t.Errorf("Expected 8 passable cells, got %d", report.FloorCount)
	}
	if report.WallCount != 17 {
		t.Errorf("Expected 17 walls, got %d", report.WallCount)
	}
	if len(report.Unreachable) != 0 {
		t.Errorf("Expected no unreachable cells, got %v", report.Unreachable)
	}
	if report.Reachable != 8 {
		t.Errorf("Expected 8 reachable cells, got %d", report.Reachable)
	}
}

func TestAnalyzeWorld_UnreachableCells(t *testing.T) {
	cfg := testWorld()
	// Wall off the bottom-right corner, leaving (3,3) isolated
	cfg.Layout = []string{
		"#####",
		"#@..#",
		"#.###",
		"#.#.#",
		"#####",
	}

	dir := t.TempDir()
	path := writeWorld(t, dir, "isolated.json", cfg)

	report, err := analyzeWorld(path)
	if err != nil {
		t.Fatalf("analyzeWorld failed: %v", err)
	}

	if len(report.Unreachable) != 1 {
		t.Fatalf("Expected 1 unreachable cell, got %d", len(report.Unreachable))
	}
	if report.Unreachable[0].X != 3 || report.Unreachable[0].Y != 3 {
		t.Errorf("Expected (3,3) unreachable, got %s", report.Unreachable[0])
	}
}

func TestAnalyzeWorld_CustomLegendWater(t *testing.T) {
	cfg := testWorld()
	cfg.Legend = map[string]string{"w": world.KindWater}
	cfg.Layout = []string{
		"#####",
		"#@..#",
		"#.w.#",
		"#..@#",
		"#####",
	}

	dir := t.TempDir()
	path := writeWorld(t, dir, "lake.json", cfg)

	report, err := analyzeWorld(path)
	if err != nil {
		t.Fatalf("analyzeWorld failed: %v", err)
	}

	if report.WaterCount != 1 {
		t.Errorf("Expected 1 water tile, got %d", report.WaterCount)
	}
	if report.WallCount != 16 {
		t.Errorf("Expected 16 walls, got %d", report.WallCount)
	}
	if report.FloorCount != 8 {
		t.Errorf("Expected 8 passable cells, got %d", report.FloorCount)
	}
}

func TestAnalyzeWorld_InvalidConfig(t *testing.T) {
	cfg := testWorld()
	cfg.Name = ""

	dir := t.TempDir()
	path := writeWorld(t, dir, "invalid.json", cfg)

	report, err := analyzeWorld(path)
	if err != nil {
		t.Fatalf("analyzeWorld failed: %v", err)
	}
	if report.ValidateErr == nil {
		t.Error("Expected validation error for world without a name")
	}
}

func TestAnalyzeWorld_MissingFile(t *testing.T) {
	_, err := analyzeWorld("/non/existent/world.json")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAnalyzeWorld_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := analyzeWorld(path)
	if err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "alpha.json", testWorld())
	writeWorld(t, dir, "beta.json", testWorld())

	var out bytes.Buffer
	if err := run(dir, nil, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "=== alpha.json ===") || !strings.Contains(text, "=== beta.json ===") {
		t.Errorf("Expected both worlds analyzed, got:\n%s", text)
	}
	if !strings.Contains(text, "All 8 passable cells reachable") {
		t.Errorf("Expected reachability summary, got:\n%s", text)
	}
}

func TestRun_NamedWorldWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "alpha.json", testWorld())

	var out bytes.Buffer
	if err := run(dir, []string{"alpha"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "Analyze Test") {
		t.Errorf("Expected named world analyzed, got:\n%s", out.String())
	}
}

func TestRun_EmptyDir(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	if err := run(dir, nil, &out); err == nil {
		t.Error("Expected error for directory without world files")
	}
}
