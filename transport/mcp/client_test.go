package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/playmesh/gridwalk/game/grid"
	"github.com/playmesh/gridwalk/game/service"
	"github.com/playmesh/gridwalk/game/world"
)

func testWorldConfig() *world.Config {
	return &world.Config{
		Name:         "Test World",
		CellSize:     50,
		GridWidth:    5,
		GridHeight:   5,
		BaseSpeed:    3.0,
		MovementMode: world.ModeLocked,
		Layout: []string{
			"#####",
			"#@..#",
			"#.~.#",
			"#..@#",
			"#####",
		},
	}
}

func testSnapshot() *world.Snapshot {
	return &world.Snapshot{
		Tick: 42,
		Mode: world.ModeLocked,
		Actors: map[string]world.ActorState{
			"actor-1": {
				X: 75, Y: 75,
				SpeedMultiplier: 1.0,
				Cell:            grid.Cell{X: 1, Y: 1},
			},
			"actor-2": {
				X: 160, Y: 175,
				SpeedMultiplier: 1.0,
				Cell:            grid.Cell{X: 3, Y: 3},
				Target:          &grid.Cell{X: 2, Y: 3},
				Progress:        0.3,
			},
		},
	}
}

func callArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":         "ab12",
		"world_name": "Test World",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session xyz not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}

	if !strings.Contains(err.Error(), "session xyz not found") {
		t.Errorf("Expected server error message, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["world_id"] != "classic" {
			t.Errorf("Expected world_id classic, got %q", body["world_id"])
		}

		resp := service.SessionInfo{
			ID:        "ab12",
			WorldName: "Test World",
			Snapshot:  testSnapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callArgs(map[string]interface{}{
		"world_id": "classic",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "ab12") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "Test World") {
		t.Errorf("Expected world name in result, got: %s", text)
	}
}

func TestClient_joinSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/actors" {
			t.Errorf("Expected POST /api/sessions/ab12/actors, got %s %s", r.Method, r.URL.Path)
		}

		snap := testSnapshot()
		resp := service.JoinResult{
			SessionID: "ab12",
			ActorID:   "actor-1",
			Snapshot:  snap,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleJoinSession(context.Background(), callArgs(map[string]interface{}{
		"session_id": "ab12",
	}))
	if err != nil {
		t.Fatalf("joinSession failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "actor-1") {
		t.Errorf("Expected actor ID in result, got: %s", text)
	}
	if !strings.Contains(text, "(1,1)") {
		t.Errorf("Expected spawn cell in result, got: %s", text)
	}
}

func TestClient_move(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/actors/actor-1/move" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["direction"] != "right" {
			t.Errorf("Expected direction right, got %v", body["direction"])
		}

		resp := service.MoveResult{
			Moved:     true,
			Direction: "right",
			Cell:      grid.Cell{X: 2, Y: 1},
			X:         125, Y: 75,
			Snapshot: testSnapshot(),
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMove(context.Background(), callArgs(map[string]interface{}{
		"session_id": "ab12",
		"actor_id":   "actor-1",
		"direction":  "right",
	}))
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "✓ Moved right") {
		t.Errorf("Expected success marker in result, got: %s", text)
	}
	if !strings.Contains(text, "(2,1)") {
		t.Errorf("Expected arrival cell in result, got: %s", text)
	}
}

func TestClient_setInput(t *testing.T) {
	var received map[string]bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleSetInput(context.Background(), callArgs(map[string]interface{}{
		"session_id": "ab12",
		"actor_id":   "actor-1",
		"down":       true,
	}))
	if err != nil {
		t.Fatalf("setInput failed: %v", err)
	}

	if !received["down"] || received["up"] {
		t.Errorf("Expected only down held, got %v", received)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "down") {
		t.Errorf("Expected held direction in result, got: %s", text)
	}
}

func TestClient_gameState_MapView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := service.SessionInfo{
			ID:          "ab12",
			WorldName:   "Test World",
			ActorCount:  2,
			Snapshot:    testSnapshot(),
			WorldConfig: testWorldConfig(),
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleGameState(context.Background(), callArgs(map[string]interface{}{
		"session_id": "ab12",
	}))
	if err != nil {
		t.Fatalf("gameState failed: %v", err)
	}

	text := textContent(t, result)

	// actor-1 sorts first and is drawn as A in cell (1,1)
	if !strings.Contains(text, "#A..#") {
		t.Errorf("Expected actor A overlaid on map, got:\n%s", text)
	}
	// actor-2 is in transit and drawn in its departure cell (3,3)
	if !strings.Contains(text, "#..B#") {
		t.Errorf("Expected actor B in departure cell, got:\n%s", text)
	}
	if !strings.Contains(text, "Tick: 42") {
		t.Errorf("Expected tick in header, got:\n%s", text)
	}
	if !strings.Contains(text, "-> (2,3) (30%)") {
		t.Errorf("Expected transit target and progress, got:\n%s", text)
	}
}

func TestFormatSnapshot_NoSnapshot(t *testing.T) {
	result := formatSnapshot(testWorldConfig(), nil)
	if !strings.Contains(result, "No snapshot available") {
		t.Errorf("Expected placeholder for nil snapshot, got: %s", result)
	}
}

func TestFormatSnapshot_NoConfig(t *testing.T) {
	result := formatSnapshot(nil, testSnapshot())

	// Without a layout there is no map, but actor positions still list
	if !strings.Contains(result, "actor-1") {
		t.Errorf("Expected actor listing, got: %s", result)
	}
	if strings.Contains(result, "#####") {
		t.Errorf("Expected no map rendering without config, got: %s", result)
	}
}

func TestFormatMoveResult_Blocked(t *testing.T) {
	moveResult := &service.MoveResult{
		Moved:     false,
		Direction: "up",
		Cell:      grid.Cell{X: 1, Y: 1},
		X:         75, Y: 75,
	}

	result := formatMoveResult("actor-1", moveResult)

	if !strings.Contains(result, "✗ Move up blocked") {
		t.Errorf("Expected blocked marker, got: %s", result)
	}
	if !strings.Contains(result, "(1,1)") {
		t.Errorf("Expected unchanged cell, got: %s", result)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callArgs(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("gameInstructions failed: %v", err)
	}

	text := textContent(t, result)

	for _, want := range []string{"locked", "free", "Wall", "Spawn", "join_session"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	// End-to-end through a fake REST backend: list worlds, create,
	// join, move.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/worlds", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*service.WorldInfo{
			{WorldID: "classic", Name: "Test World", GridWidth: 5, GridHeight: 5, MovementMode: "locked"},
		})
	})
	mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.SessionInfo{ID: "ab12", WorldName: "Test World"})
	})
	mux.HandleFunc("/api/sessions/ab12/actors", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.JoinResult{SessionID: "ab12", ActorID: "actor-1", Snapshot: testSnapshot()})
	})
	mux.HandleFunc("/api/sessions/ab12/actors/actor-1/move", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.MoveResult{Moved: true, Direction: "down", Cell: grid.Cell{X: 1, Y: 2}})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	if result, err := client.handleListWorlds(ctx, callArgs(nil)); err != nil {
		t.Fatalf("listWorlds failed: %v", err)
	} else if !strings.Contains(textContent(t, result), "classic") {
		t.Error("Expected classic world listed")
	}

	if result, err := client.handleCreateSession(ctx, callArgs(map[string]interface{}{})); err != nil {
		t.Fatalf("createSession failed: %v", err)
	} else if !strings.Contains(textContent(t, result), "ab12") {
		t.Error("Expected session ID")
	}

	if result, err := client.handleJoinSession(ctx, callArgs(map[string]interface{}{"session_id": "ab12"})); err != nil {
		t.Fatalf("joinSession failed: %v", err)
	} else if !strings.Contains(textContent(t, result), "actor-1") {
		t.Error("Expected actor ID")
	}

	if result, err := client.handleMove(ctx, callArgs(map[string]interface{}{
		"session_id": "ab12", "actor_id": "actor-1", "direction": "down",
	})); err != nil {
		t.Fatalf("move failed: %v", err)
	} else if !strings.Contains(textContent(t, result), "(1,2)") {
		t.Error("Expected arrival cell")
	}
}
