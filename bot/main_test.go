package main

import (
	"math/rand"
	"testing"

	"github.com/playmesh/gridwalk/game/grid"
)

func TestNeighbor(t *testing.T) {
	c := grid.Cell{X: 3, Y: 3}

	tests := []struct {
		dir  string
		want grid.Cell
	}{
		{"up", grid.Cell{X: 3, Y: 2}},
		{"down", grid.Cell{X: 3, Y: 4}},
		{"left", grid.Cell{X: 2, Y: 3}},
		{"right", grid.Cell{X: 4, Y: 3}},
	}

	for _, tt := range tests {
		if got := neighbor(c, tt.dir); got != tt.want {
			t.Errorf("neighbor(%s, %s) = %s, want %s", c, tt.dir, got, tt.want)
		}
	}
}

func TestWalkerPrefersUnvisited(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := &walker{
		cell:    grid.Cell{X: 2, Y: 2},
		lastDir: "right",
		visited: map[grid.Cell]bool{
			{X: 2, Y: 2}: true,
			{X: 2, Y: 1}: true, // up
			{X: 2, Y: 3}: true, // down
		},
	}

	// up and down visited, left is the reverse of the last move, so only
	// right leads somewhere fresh
	for i := 0; i < 20; i++ {
		if dir := w.pickDirection(rng); dir != "right" {
			t.Fatalf("Expected right, got %s", dir)
		}
	}
}

func TestWalkerAvoidsBacktracking(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := &walker{
		cell:    grid.Cell{X: 2, Y: 2},
		lastDir: "up",
		visited: map[grid.Cell]bool{},
	}

	for i := 0; i < 50; i++ {
		if dir := w.pickDirection(rng); dir == "down" {
			t.Fatal("Walker backtracked with fresh cells available")
		}
	}
}

func TestWalkerDeadEndReverses(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := &walker{
		cell:    grid.Cell{X: 2, Y: 2},
		lastDir: "up",
		visited: map[grid.Cell]bool{
			{X: 2, Y: 1}: true,
			{X: 2, Y: 3}: true,
			{X: 1, Y: 2}: true,
			{X: 3, Y: 2}: true,
		},
	}

	// Everything around is visited; any direction except the reverse is
	// still acceptable
	dir := w.pickDirection(rng)
	if dir == "" {
		t.Fatal("Expected a direction in a dead end")
	}
}
