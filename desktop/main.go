// Command desktop is a graphical Gridwalk client.
//
// It creates (or joins) a session on a running Gridwalk server, spawns an
// actor, and renders the world with ebiten. Held arrow keys or WASD are
// forwarded to the server as directional input; the actual movement is
// simulated host-side and streamed back over WebSocket. Rendering
// interpolates between snapshots so remote actors move smoothly even at a
// low broadcast rate.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/playmesh/gridwalk/game/engine"
	"github.com/playmesh/gridwalk/game/world"
)

const (
	cellPixels     = 40
	headerHeight   = 40
	interpWindowMS = 150 // matches the server broadcast cadence with headroom
)

// Actor colors cycle by draw order
var actorColors = []color.RGBA{
	{255, 100, 100, 255}, // Red
	{100, 100, 255, 255}, // Blue
	{100, 255, 100, 255}, // Green
	{255, 255, 100, 255}, // Yellow
	{255, 100, 255, 255}, // Magenta
	{100, 255, 255, 255}, // Cyan
}

var (
	wallColor  = color.RGBA{70, 70, 80, 255}
	floorColor = color.RGBA{30, 30, 36, 255}
	waterColor = color.RGBA{40, 80, 160, 255}
	spawnColor = color.RGBA{40, 60, 40, 255}
)

// WSMessage is the wire format broadcast by the server's WebSocket hub
type WSMessage struct {
	SessionID string          `json:"session_id"`
	Snapshot  *world.Snapshot `json:"snapshot,omitempty"`
	Event     string          `json:"event,omitempty"`
}

// Game is the ebiten client state
type Game struct {
	serverURL string
	sessionID string
	actorID   string

	cfg     *world.Config
	replica *world.Replica
	wsConn  *websocket.Conn

	stateMutex sync.RWMutex
	lastInput  engine.Input
	lastFrame  time.Time
	wsErr      error

	httpClient *http.Client
}

// NewGame connects to the server, ensuring a session and a spawned actor.
func NewGame(serverURL, sessionID, worldID string) (*Game, error) {
	g := &Game{
		serverURL: serverURL,
		replica:   world.NewReplica(interpWindowMS),
		lastFrame: time.Now(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	if sessionID == "" {
		created, err := g.createSession(worldID)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		sessionID = created
		log.Printf("Created session %s", sessionID)
	}
	g.sessionID = sessionID

	if err := g.fetchWorldConfig(); err != nil {
		return nil, fmt.Errorf("fetch world config: %w", err)
	}

	if err := g.joinSession(); err != nil {
		return nil, fmt.Errorf("join session: %w", err)
	}
	log.Printf("Joined session %s as actor %s", g.sessionID, g.actorID)

	if err := g.connectWebSocket(); err != nil {
		return nil, fmt.Errorf("connect websocket: %w", err)
	}
	go g.listenWebSocket()

	return g, nil
}

func (g *Game) apiCall(method, path string, body, result interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, g.serverURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
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

func (g *Game) createSession(worldID string) (string, error) {
	body := map[string]string{}
	if worldID != "" {
		body["world_id"] = worldID
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := g.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return "", err
	}
	return session.ID, nil
}

func (g *Game) fetchWorldConfig() error {
	var session struct {
		WorldConfig *world.Config   `json:"world_config"`
		Snapshot    *world.Snapshot `json:"snapshot"`
	}
	if err := g.apiCall("GET", "/api/sessions/"+g.sessionID, nil, &session); err != nil {
		return err
	}
	if session.WorldConfig == nil {
		return fmt.Errorf("session %s has no world config", g.sessionID)
	}
	g.cfg = session.WorldConfig
	if session.Snapshot != nil {
		g.replica.Absorb(session.Snapshot)
	}
	return nil
}

func (g *Game) joinSession() error {
	var join struct {
		ActorID  string          `json:"actor_id"`
		Snapshot *world.Snapshot `json:"snapshot"`
	}
	if err := g.apiCall("POST", "/api/sessions/"+g.sessionID+"/actors", nil, &join); err != nil {
		return err
	}
	g.actorID = join.ActorID
	if join.Snapshot != nil {
		g.stateMutex.Lock()
		g.replica.Absorb(join.Snapshot)
		g.stateMutex.Unlock()
	}
	return nil
}

func (g *Game) connectWebSocket() error {
	wsURL, err := url.Parse(g.serverURL)
	if err != nil {
		return err
	}
	wsURL.Scheme = strings.Replace(wsURL.Scheme, "http", "ws", 1)
	wsURL.Path = "/ws"
	q := wsURL.Query()
	q.Set("session", g.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}
	g.wsConn = conn
	log.Printf("WebSocket connected for session %s", g.sessionID)
	return nil
}

func (g *Game) listenWebSocket() {
	defer g.wsConn.Close()

	for {
		_, message, err := g.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error: %v", err)
			g.stateMutex.Lock()
			g.wsErr = err
			g.stateMutex.Unlock()
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}

		if wsMsg.Snapshot == nil {
			continue
		}

		g.stateMutex.Lock()
		g.replica.Absorb(wsMsg.Snapshot)
		g.stateMutex.Unlock()
	}
}

// readInput maps held keys to a directional input
func readInput() engine.Input {
	return engine.Input{
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
	}
}

func (g *Game) Update() error {
	now := time.Now()
	deltaMS := float64(now.Sub(g.lastFrame)) / float64(time.Millisecond)
	g.lastFrame = now

	g.stateMutex.Lock()
	g.replica.Advance(deltaMS)
	g.stateMutex.Unlock()

	// Input is only sent when it changes; the server holds it between ticks
	in := readInput()
	if in != g.lastInput {
		g.lastInput = in
		go g.sendInput(in)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		go g.sendSnap()
	}

	return nil
}

func (g *Game) sendInput(in engine.Input) {
	path := fmt.Sprintf("/api/sessions/%s/actors/%s/input", g.sessionID, g.actorID)
	if err := g.apiCall("PUT", path, in, nil); err != nil {
		log.Printf("Failed to send input: %v", err)
	}
}

func (g *Game) sendSnap() {
	path := fmt.Sprintf("/api/sessions/%s/actors/%s/snap", g.sessionID, g.actorID)
	if err := g.apiCall("POST", path, nil, nil); err != nil {
		log.Printf("Failed to snap actor: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	g.drawHeader(screen)
	g.drawWorld(screen)
	g.drawActors(screen)
}

func (g *Game) drawHeader(screen *ebiten.Image) {
	tick := uint64(0)
	actors := 0
	if latest := g.replica.Latest(); latest != nil {
		tick = latest.Tick
		actors = len(latest.Actors)
	}

	status := fmt.Sprintf("Session %s | Actor %s | Tick %d | Actors %d | %s",
		g.sessionID, shortID(g.actorID), tick, actors, g.cfg.MovementMode)
	if g.wsErr != nil {
		status += " | DISCONNECTED"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 8)
	ebitenutil.DebugPrintAt(screen, "Arrows/WASD: move | R: snap to grid", 10, 22)
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	for y, row := range g.cfg.Layout {
		for x := range row {
			var c color.RGBA
			switch row[x] {
			case '#':
				c = wallColor
			case '~':
				c = waterColor
			case '@':
				c = spawnColor
			default:
				c = floorColor
			}
			ebitenutil.DrawRect(screen,
				float64(x*cellPixels),
				float64(y*cellPixels+headerHeight),
				cellPixels-1, cellPixels-1, c)
		}
	}
}

func (g *Game) drawActors(screen *ebiten.Image) {
	latest := g.replica.Latest()
	if latest == nil {
		return
	}

	// World units to pixels
	scale := float64(cellPixels) / float64(g.cfg.CellSize)
	size := float64(cellPixels) * 0.6

	i := 0
	for id, pos := range g.replica.Positions() {
		c := actorColors[i%len(actorColors)]
		if id == g.actorID {
			c = color.RGBA{255, 255, 255, 255}
		}
		i++

		px := pos.X*scale - size/2
		py := pos.Y*scale - size/2 + headerHeight
		ebitenutil.DrawRect(screen, px, py, size, size, c)
		ebitenutil.DebugPrintAt(screen, shortID(id), int(px), int(py)-14)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.GridWidth * cellPixels, g.cfg.GridHeight*cellPixels + headerHeight
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Gridwalk server base URL")
	sessionID := flag.String("session", "", "Existing session ID to join (created if empty)")
	worldID := flag.String("world", "", "World ID for a newly created session")
	flag.Parse()

	game, err := NewGame(*serverURL, *sessionID, *worldID)
	if err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	ebiten.SetWindowSize(game.Layout(0, 0))
	ebiten.SetWindowTitle(fmt.Sprintf("Gridwalk - %s", game.sessionID))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
