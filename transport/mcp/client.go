package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/playmesh/gridwalk/game/engine"
	"github.com/playmesh/gridwalk/game/service"
	"github.com/playmesh/gridwalk/game/world"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Gridwalk",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gridwalk - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Gridwalk is a multi-actor movement playground. Actors walk a tiled world
either cell-by-cell (locked mode) or continuously (free mode). Walls (#)
and water (~) are impassable. The host simulation runs continuously;
the move tool performs a coarse one-cell step and waits for arrival.

AVAILABLE TOOLS:
- list_worlds: List available world definitions
- create_session: Create a new session on a world
- list_sessions: List all active sessions
- get_session: Get session details with a map view
- join_session: Spawn an actor into a session
- game_state: Get the current world snapshot with a map view
- move: Move an actor one cell (up/down/left/right)
- set_input: Set an actor's held directional input
- snap_actor: Snap an actor to the center of its current cell
- game_instructions: Get the full rules and map legend

Start with list_worlds, then create_session, then join_session to get an
actor_id. Use move for deliberate cell-by-cell navigation.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// World and session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_worlds",
		Description: "List all available world definitions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListWorlds)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new session with optional world selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"world_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the world to use (optional, defaults to the server default)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_session",
		Description: "Spawn a new actor into a session, returning its actor_id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to join",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleJoinSession)

	// Actor operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current world snapshot with a map view",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to inspect",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move an actor one cell in a direction and wait for arrival",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"actor_id": map[string]interface{}{
					"type":        "string",
					"description": "Actor ID returned by join_session",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to move: up, down, left, or right",
					"enum":        []string{"up", "down", "left", "right"},
				},
			},
			Required: []string{"session_id", "actor_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_input",
		Description: "Set an actor's held directional input (applied every tick until changed)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"actor_id": map[string]interface{}{
					"type":        "string",
					"description": "Actor ID",
				},
				"up":    map[string]interface{}{"type": "boolean"},
				"down":  map[string]interface{}{"type": "boolean"},
				"left":  map[string]interface{}{"type": "boolean"},
				"right": map[string]interface{}{"type": "boolean"},
			},
			Required: []string{"session_id", "actor_id"},
		},
	}, c.handleSetInput)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "snap_actor",
		Description: "Snap an actor to the exact center of its current cell, abandoning any transit",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"actor_id": map[string]interface{}{
					"type":        "string",
					"description": "Actor ID",
				},
			},
			Required: []string{"session_id", "actor_id"},
		},
	}, c.handleSnapActor)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full Gridwalk rules, map legend and tool usage guide",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListWorlds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var worlds []*service.WorldInfo
	err := c.apiCall("GET", "/api/worlds", nil, &worlds)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Worlds:\n\n"
	for _, w := range worlds {
		result += fmt.Sprintf("• %s — %s\n  %s\n  Grid: %dx%d, Mode: %s\n\n",
			w.WorldID, w.Name, w.Description, w.GridWidth, w.GridHeight, w.MovementMode)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	worldID, _ := args["world_id"].(string)

	body := map[string]string{}
	if worldID != "" {
		body["world_id"] = worldID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nWorld: %s\n\nUse join_session to spawn an actor.",
		session.ID, session.WorldName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (World: %s, Actors: %d, Created: %s)\n",
			s.ID, s.WorldName, s.ActorCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleJoinSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var join service.JoinResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/actors", sessionID), nil, &join)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Joined session %s\nActor: %s\n", join.SessionID, join.ActorID)
	if join.Snapshot != nil {
		if st, ok := join.Snapshot.Actors[join.ActorID]; ok {
			result += fmt.Sprintf("Spawned at cell %s (%.1f, %.1f)\n", st.Cell, st.X, st.Y)
		}
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	// Fetch the full session so the map view has the world layout
	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSnapshot(session.WorldConfig, session.Snapshot)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	actorID, _ := args["actor_id"].(string)
	direction, _ := args["direction"].(string)

	body := map[string]interface{}{
		"direction": direction,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/actors/%s/move", sessionID, actorID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(actorID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSetInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	actorID, _ := args["actor_id"].(string)

	var in engine.Input
	in.Up, _ = args["up"].(bool)
	in.Down, _ = args["down"].(bool)
	in.Left, _ = args["left"].(bool)
	in.Right, _ = args["right"].(bool)

	err := c.apiCall("PUT", fmt.Sprintf("/api/sessions/%s/actors/%s/input", sessionID, actorID), in, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Input set for actor %s: %s", actorID, formatInput(in))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSnapActor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	actorID, _ := args["actor_id"].(string)

	var snap world.Snapshot
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/actors/%s/snap", sessionID, actorID), nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Actor %s snapped to grid", actorID)
	if st, ok := snap.Actors[actorID]; ok {
		result += fmt.Sprintf("\nNow at cell %s (%.1f, %.1f)", st.Cell, st.X, st.Y)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Gridwalk - Complete Instructions

OVERVIEW:
Gridwalk is a multi-actor movement playground on a tiled world. There is
no win condition; the point is navigating the world. The host simulation
ticks continuously, so actors keep moving while you think.

MOVEMENT MODES (per world):
• locked - actors move cell-by-cell. A move commits the actor to the
  target cell and it travels until it arrives exactly centered. New
  input is ignored while in transit.
• free - actors move continuously in any direction. Diagonal movement
  is normalized so it covers the same distance as cardinal movement.

MAP LEGEND:
• # - Wall (impassable)
• . - Floor (passable)
• ~ - Water (impassable)
• @ - Spawn point (passable, where new actors appear)
• A-Z / 0-9 - Actors (the map view labels each actor with a letter)

RULES:
• Moves into walls, water or out of bounds are rejected silently: the
  actor simply stays where it is. Check the snapshot to confirm arrival.
• When two opposing directions are held they cancel out.
• In locked mode, diagonal input prefers the horizontal axis.
• Worlds with solid actors enabled also treat other actors (and the
  cells they are moving into) as blocked.

TOOL WORKFLOW:
1. list_worlds - see what worlds are available
2. create_session - start a session (returns a 4-character session ID)
3. join_session - spawn an actor, note the actor_id
4. move - deliberate one-cell steps; the call returns after arrival
5. game_state - inspect the map between moves

ADVANCED:
• set_input holds a direction continuously; the actor keeps walking
  every tick until you clear the input (set all directions false).
  Prefer move unless you want continuous motion.
• snap_actor recenters an actor on its current cell, abandoning any
  transit in progress. Useful to re-anchor after free-mode wandering.
• Multiple actors per session are fine; each move targets one actor_id.

READING THE MAP VIEW:
The map view renders the world layout row by row with actors overlaid.
An actor in transit is drawn in its departure cell until it arrives.
The text below the map lists each actor's exact position and, when in
transit, its target cell and progress.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nWorld: %s\nActors: %d\nCreated: %s\n\n%s",
		session.ID, session.WorldName, session.ActorCount,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.WorldConfig, session.Snapshot))
}

func formatSnapshot(cfg *world.Config, snap *world.Snapshot) string {
	if snap == nil {
		return "No snapshot available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Tick: %d | Mode: %s | Actors: %d\n\n",
		snap.Tick, snap.Mode, len(snap.Actors)))

	// Stable actor labels: sorted IDs get A, B, C...
	ids := make([]string, 0, len(snap.Actors))
	for id := range snap.Actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	labels := make(map[string]byte, len(ids))
	for i, id := range ids {
		labels[id] = actorLabel(i)
	}

	if cfg != nil && len(cfg.Layout) > 0 {
		// Actors are drawn in their grid cell (departure cell while in transit)
		occupied := make(map[string]byte)
		for _, id := range ids {
			st := snap.Actors[id]
			key := fmt.Sprintf("%d,%d", st.Cell.X, st.Cell.Y)
			occupied[key] = labels[id]
		}

		for y, row := range cfg.Layout {
			for x, ch := range row {
				if label, ok := occupied[fmt.Sprintf("%d,%d", x, y)]; ok {
					result.WriteByte(label)
				} else {
					result.WriteRune(ch)
				}
			}
			result.WriteString("\n")
		}
		result.WriteString("\n")
	}

	for _, id := range ids {
		st := snap.Actors[id]
		line := fmt.Sprintf("%c = %s at %s (%.1f, %.1f)", labels[id], id, st.Cell, st.X, st.Y)
		if st.Target != nil {
			line += fmt.Sprintf(" -> %s (%.0f%%)", *st.Target, st.Progress*100)
		}
		if st.SpeedMultiplier != 1 {
			line += fmt.Sprintf(" [speed x%.1f]", st.SpeedMultiplier)
		}
		result.WriteString(line + "\n")
	}

	return result.String()
}

func actorLabel(i int) byte {
	if i < 26 {
		return byte('A' + i)
	}
	return byte('0' + (i-26)%10)
}

func formatMoveResult(actorID string, result *service.MoveResult) string {
	response := ""
	if result.Moved {
		response = fmt.Sprintf("✓ Moved %s\n", result.Direction)
	} else {
		response = fmt.Sprintf("✗ Move %s blocked\n", result.Direction)
	}

	response += fmt.Sprintf("Actor %s at cell %s (%.1f, %.1f)\n", actorID, result.Cell, result.X, result.Y)

	if result.Snapshot != nil {
		response += fmt.Sprintf("Tick: %d\n", result.Snapshot.Tick)
	}

	return response
}

func formatInput(in engine.Input) string {
	var dirs []string
	if in.Up {
		dirs = append(dirs, "up")
	}
	if in.Down {
		dirs = append(dirs, "down")
	}
	if in.Left {
		dirs = append(dirs, "left")
	}
	if in.Right {
		dirs = append(dirs, "right")
	}
	if len(dirs) == 0 {
		return "none (stopped)"
	}
	return strings.Join(dirs, "+")
}
