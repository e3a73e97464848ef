// Command termview is a read-only terminal spectator for Gridwalk sessions.
//
// It connects to a running server, subscribes to a session's WebSocket
// stream, and renders the world with tcell. Actors move smoothly between
// snapshots via the same interpolation the graphical client uses. Press q
// or Esc to quit.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"github.com/playmesh/gridwalk/game/world"
)

const (
	frameInterval  = 33 * time.Millisecond
	interpWindowMS = 150
)

var actorStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorRed),
	tcell.StyleDefault.Foreground(tcell.ColorBlue),
	tcell.StyleDefault.Foreground(tcell.ColorGreen),
	tcell.StyleDefault.Foreground(tcell.ColorYellow),
	tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
	tcell.StyleDefault.Foreground(tcell.ColorAqua),
}

type wsMessage struct {
	SessionID string          `json:"session_id"`
	Snapshot  *world.Snapshot `json:"snapshot,omitempty"`
	Event     string          `json:"event,omitempty"`
}

// Viewer renders one session in the terminal
type Viewer struct {
	screen    tcell.Screen
	serverURL string
	sessionID string

	cfg     *world.Config
	replica *world.Replica

	mu        sync.Mutex
	lastFrame time.Time
	wsErr     error
}

func NewViewer(serverURL, sessionID string) (*Viewer, error) {
	v := &Viewer{
		serverURL: serverURL,
		sessionID: sessionID,
		replica:   world.NewReplica(interpWindowMS),
		lastFrame: time.Now(),
	}

	if err := v.fetchSession(); err != nil {
		return nil, err
	}

	conn, err := v.dialWebSocket()
	if err != nil {
		return nil, err
	}
	go v.listen(conn)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	v.screen = screen

	return v, nil
}

func (v *Viewer) fetchSession() error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(v.serverURL + "/api/sessions/" + v.sessionID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("session %s not found", v.sessionID)
	}

	var session struct {
		WorldConfig *world.Config   `json:"world_config"`
		Snapshot    *world.Snapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return err
	}
	if session.WorldConfig == nil {
		return fmt.Errorf("session %s has no world config", v.sessionID)
	}

	v.cfg = session.WorldConfig
	if session.Snapshot != nil {
		v.replica.Absorb(session.Snapshot)
	}
	return nil
}

func (v *Viewer) dialWebSocket() (*websocket.Conn, error) {
	wsURL, err := url.Parse(v.serverURL)
	if err != nil {
		return nil, err
	}
	wsURL.Scheme = strings.Replace(wsURL.Scheme, "http", "ws", 1)
	wsURL.Path = "/ws"
	q := wsURL.Query()
	q.Set("session", v.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	return conn, err
}

func (v *Viewer) listen(conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			v.mu.Lock()
			v.wsErr = err
			v.mu.Unlock()
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Snapshot == nil {
			continue
		}

		v.mu.Lock()
		v.replica.Absorb(msg.Snapshot)
		v.mu.Unlock()
	}
}

// Run drives the render loop until a quit key arrives.
func (v *Viewer) Run() {
	defer v.screen.Fini()

	quit := make(chan struct{})
	go func() {
		for {
			ev := v.screen.PollEvent()
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			v.render()
		}
	}
}

func (v *Viewer) render() {
	v.mu.Lock()
	now := time.Now()
	deltaMS := float64(now.Sub(v.lastFrame)) / float64(time.Millisecond)
	v.lastFrame = now
	v.replica.Advance(deltaMS)
	positions := v.replica.Positions()
	latest := v.replica.Latest()
	wsErr := v.wsErr
	v.mu.Unlock()

	v.screen.Clear()

	// Status line
	tick := uint64(0)
	if latest != nil {
		tick = latest.Tick
	}
	status := fmt.Sprintf("session %s  tick %d  actors %d  mode %s  [q to quit]",
		v.sessionID, tick, len(positions), v.cfg.MovementMode)
	if wsErr != nil {
		status += "  DISCONNECTED"
	}
	drawText(v.screen, 0, 0, tcell.StyleDefault.Bold(true), status)

	// World layout, one terminal cell per grid cell
	const offsetY = 2
	for y, row := range v.cfg.Layout {
		for x, ch := range row {
			style := tcell.StyleDefault
			switch ch {
			case '#':
				style = style.Foreground(tcell.ColorGray)
			case '~':
				style = style.Foreground(tcell.ColorBlue)
			case '@':
				style = style.Foreground(tcell.ColorDarkGreen)
			default:
				ch = '·'
				style = style.Foreground(tcell.ColorDarkGray)
			}
			v.screen.SetContent(x, y+offsetY, ch, nil, style)
		}
	}

	// Actors overlay, sorted label order matches the MCP map view
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		pos := positions[id]
		cx, cy := posCell(pos.X, pos.Y, v.cfg.CellSize)
		if cy < 0 || cy >= v.cfg.GridHeight || cx < 0 || cx >= v.cfg.GridWidth {
			continue
		}
		label := rune('A' + i%26)
		v.screen.SetContent(cx, cy+offsetY, label, nil, actorStyles[i%len(actorStyles)].Bold(true))
	}

	// Actor legend below the map
	legendY := offsetY + v.cfg.GridHeight + 1
	for i, id := range ids {
		pos := positions[id]
		line := fmt.Sprintf("%c %s (%.0f, %.0f)", 'A'+i%26, shortID(id), pos.X, pos.Y)
		drawText(v.screen, 0, legendY+i, actorStyles[i%len(actorStyles)], line)
	}

	v.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, ch := range text {
		s.SetContent(x+i, y, ch, nil, style)
	}
}

// posCell maps a world-unit position to its grid cell.
func posCell(x, y, cellSize float64) (int, int) {
	return int(x / cellSize), int(y / cellSize)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Gridwalk server base URL")
	sessionID := flag.String("session", "", "Session ID to spectate (required)")
	flag.Parse()

	if *sessionID == "" {
		fmt.Fprintln(os.Stderr, "usage: termview -session <id> [-server <url>]")
		os.Exit(2)
	}

	viewer, err := NewViewer(*serverURL, *sessionID)
	if err != nil {
		log.Fatalf("Failed to start viewer: %v", err)
	}

	viewer.Run()
}
