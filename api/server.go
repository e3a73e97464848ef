package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/playmesh/gridwalk/game/engine"
	"github.com/playmesh/gridwalk/game/service"
	"github.com/playmesh/gridwalk/game/world"
	"github.com/playmesh/gridwalk/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Actor operations
	api.HandleFunc("/sessions/{id}/actors", s.handleJoinSession).Methods("POST")
	api.HandleFunc("/sessions/{id}/actors/{actorID}", s.handleLeaveSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/actors/{actorID}/input", s.handleSetInput).Methods("PUT")
	api.HandleFunc("/sessions/{id}/actors/{actorID}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/actors/{actorID}/snap", s.handleSnap).Methods("POST")

	// State
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")

	// Worlds
	api.HandleFunc("/worlds", s.handleListWorlds).Methods("GET")
	api.HandleFunc("/worlds", s.handleCreateWorld).Methods("POST")
	api.HandleFunc("/worlds/{name}", s.handleGetWorld).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor picks 404 for missing-resource errors, 500 otherwise
func statusFor(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorldID string `json:"world_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.WorldID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Actor Handlers

func (s *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.JoinSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLeaveSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, actorID := vars["id"], vars["actorID"]

	if err := s.service.LeaveSession(r.Context(), sessionID, actorID); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Actor %s left session %s", actorID, sessionID),
	})
}

func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, actorID := vars["id"], vars["actorID"]

	var in engine.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.SetInput(r.Context(), sessionID, actorID, in); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"actor_id":   actorID,
		"input":      in,
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, actorID := vars["id"], vars["actorID"]

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.StepMove(r.Context(), sessionID, actorID, req.Direction)
	if err != nil {
		if strings.Contains(err.Error(), "unknown direction") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, statusFor(err), err.Error())
		return
	}

	// Compact server log for observability
	status := "BLOCKED"
	if result.Moved {
		status = "OK"
	}
	fmt.Printf("[MOVE] session=%s actor=%s %s -> (%d,%d) status=%s\n",
		sessionID, actorID, result.Direction, result.Cell.X, result.Cell.Y, status)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, actorID := vars["id"], vars["actorID"]

	if err := s.service.SnapActor(r.Context(), sessionID, actorID); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	snap, err := s.service.GetSnapshot(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// State Handler

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	snap, err := s.service.GetSnapshot(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// World Handlers

func (s *Server) handleListWorlds(w http.ResponseWriter, r *http.Request) {
	worlds, err := s.service.ListWorlds(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, worlds)
}

func (s *Server) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.service.LoadWorld(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateWorld(w http.ResponseWriter, r *http.Request) {
	var cfg world.Config

	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if cfg.Name == "" {
		respondError(w, http.StatusBadRequest, "World name is required")
		return
	}

	if err := s.service.SaveWorld(r.Context(), cfg.Name, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to save world: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "World saved successfully",
		"world_id": cfg.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(context.Background(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
