// Command bot drives Gridwalk sessions over the REST API. It spawns one or
// more actors and random-walks them through the world, preferring unvisited
// cells, and prints coverage statistics when done. Useful for smoke-testing
// a server and for populating sessions other clients can watch.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/playmesh/gridwalk/game/grid"
	"github.com/playmesh/gridwalk/game/service"
)

var directions = []string{"up", "down", "left", "right"}

// opposite maps each direction to its reverse, used to discourage
// immediate backtracking during the walk.
var opposite = map[string]string{
	"up":    "down",
	"down":  "up",
	"left":  "right",
	"right": "left",
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, string(data))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateSession(worldID string) (*service.SessionInfo, error) {
	body := map[string]string{}
	if worldID != "" {
		body["world_id"] = worldID
	}

	var session service.SessionInfo
	if err := c.do("POST", "/api/sessions", body, &session); err != nil {
		return nil, err
	}
	c.sessionID = session.ID
	return &session, nil
}

func (c *Client) GetSession() (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do("GET", "/api/sessions/"+c.sessionID, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Join() (*service.JoinResult, error) {
	var join service.JoinResult
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/actors", nil, &join); err != nil {
		return nil, err
	}
	return &join, nil
}

func (c *Client) Move(actorID, direction string) (*service.MoveResult, error) {
	body := map[string]string{"direction": direction}
	var result service.MoveResult
	path := fmt.Sprintf("/api/sessions/%s/actors/%s/move", c.sessionID, actorID)
	if err := c.do("POST", path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// walker tracks one actor's random walk
type walker struct {
	actorID string
	cell    grid.Cell
	lastDir string
	visited map[grid.Cell]bool
	blocked int
	moves   int
}

// pickDirection chooses the next move. Directions leading to unvisited
// cells are preferred; the reverse of the last move is a last resort.
func (w *walker) pickDirection(rng *rand.Rand) string {
	fresh := []string{}
	known := []string{}

	for _, dir := range directions {
		if dir == opposite[w.lastDir] {
			continue
		}
		next := neighbor(w.cell, dir)
		if !w.visited[next] {
			fresh = append(fresh, dir)
		} else {
			known = append(known, dir)
		}
	}

	if len(fresh) > 0 {
		return fresh[rng.Intn(len(fresh))]
	}
	if len(known) > 0 {
		return known[rng.Intn(len(known))]
	}
	return opposite[w.lastDir]
}

func neighbor(c grid.Cell, dir string) grid.Cell {
	switch dir {
	case "up":
		return grid.Cell{X: c.X, Y: c.Y - 1}
	case "down":
		return grid.Cell{X: c.X, Y: c.Y + 1}
	case "left":
		return grid.Cell{X: c.X - 1, Y: c.Y}
	default:
		return grid.Cell{X: c.X + 1, Y: c.Y}
	}
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Gridwalk server base URL")
	sessionID := flag.String("session", "", "Existing session ID (created if empty)")
	worldID := flag.String("world", "", "World ID for a newly created session")
	actorCount := flag.Int("actors", 1, "Number of actors to spawn")
	moveCount := flag.Int("moves", 100, "Moves per actor")
	delay := flag.Duration("delay", 0, "Pause between moves")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	client := NewClient(*serverURL)

	if *sessionID != "" {
		client.sessionID = *sessionID
		if _, err := client.GetSession(); err != nil {
			log.Fatalf("Session %s not found: %v", *sessionID, err)
		}
		log.Printf("Using existing session %s", *sessionID)
	} else {
		session, err := client.CreateSession(*worldID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Created session %s (world %s)", session.ID, session.WorldName)
	}

	// Spawn walkers
	walkers := make([]*walker, 0, *actorCount)
	for i := 0; i < *actorCount; i++ {
		join, err := client.Join()
		if err != nil {
			log.Fatalf("Failed to join session: %v", err)
		}

		w := &walker{
			actorID: join.ActorID,
			visited: make(map[grid.Cell]bool),
		}
		if st, ok := join.Snapshot.Actors[join.ActorID]; ok {
			w.cell = st.Cell
			w.visited[st.Cell] = true
		}
		walkers = append(walkers, w)
		log.Printf("Spawned actor %s at %s", w.actorID, w.cell)
	}

	// Walk all actors round-robin
	start := time.Now()
	for step := 0; step < *moveCount; step++ {
		for _, w := range walkers {
			dir := w.pickDirection(rng)
			result, err := client.Move(w.actorID, dir)
			if err != nil {
				log.Fatalf("Move failed for %s: %v", w.actorID, err)
			}

			w.moves++
			w.lastDir = dir
			if result.Moved {
				w.cell = result.Cell
				w.visited[result.Cell] = true
			} else {
				w.blocked++
				// Don't avoid reversing out of a dead end
				w.lastDir = ""
			}

			if *delay > 0 {
				time.Sleep(*delay)
			}
		}

		if (step+1)%25 == 0 {
			log.Printf("Step %d/%d", step+1, *moveCount)
		}
	}

	// Coverage report
	elapsed := time.Since(start)
	fmt.Printf("\nSession %s: %d actors, %d moves each, %s elapsed\n",
		client.sessionID, len(walkers), *moveCount, elapsed.Round(time.Millisecond))

	passable := countPassable(client)
	for _, w := range walkers {
		line := fmt.Sprintf("  actor %s: %d cells visited, %d blocked moves", w.actorID, len(w.visited), w.blocked)
		if passable > 0 {
			line += fmt.Sprintf(" (%.0f%% coverage)", float64(len(w.visited))/float64(passable)*100)
		}
		fmt.Println(line)
	}

	os.Exit(0)
}

// countPassable fetches the world config and counts walkable cells, or
// returns 0 when the layout is unavailable.
func countPassable(client *Client) int {
	session, err := client.GetSession()
	if err != nil || session.WorldConfig == nil {
		return 0
	}

	cfg := session.WorldConfig
	tiles := cfg.ParseLayout()

	count := 0
	for y := 0; y < cfg.GridHeight; y++ {
		for x := 0; x < cfg.GridWidth; x++ {
			if !tiles.Blocked[y][x] {
				count++
			}
		}
	}
	return count
}
