package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
	"github.com/wricardo/tycoon/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. The hub may be nil.
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

	// Game lifecycle
	api.HandleFunc("/game", s.handleNewGame).Methods("POST")
	api.HandleFunc("/game", s.handleGetGame).Methods("GET")
	api.HandleFunc("/game", s.handleEndGame).Methods("DELETE")

	// Game state
	api.HandleFunc("/game/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/game/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/game/history", s.handleGetHistory).Methods("GET")

	// Human seat actions
	api.HandleFunc("/game/roll", s.action(s.service.Roll)).Methods("POST")
	api.HandleFunc("/game/buy", s.action(s.service.Buy)).Methods("POST")
	api.HandleFunc("/game/decline", s.action(s.service.Decline)).Methods("POST")
	api.HandleFunc("/game/bail", s.action(s.service.PayBail)).Methods("POST")
	api.HandleFunc("/game/jail-card", s.action(s.service.UseJailFreeCard)).Methods("POST")
	api.HandleFunc("/game/end-turn", s.action(s.service.EndTurn)).Methods("POST")
	api.HandleFunc("/game/tax", s.handleTax).Methods("POST")
	api.HandleFunc("/game/build", s.handleBuild).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
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
	respondJSON(w, status, map[string]interface{}{"error": message, "code": status})
}

// respondServiceError maps service and engine errors to status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

var conflictErrors = []error{
	service.ErrNotHumanTurn,
	service.ErrNoHumanSeat,
	engine.ErrGameOver,
	engine.ErrNotYourTurn,
	engine.ErrAlreadyOwned,
	engine.ErrInsufficientFunds,
	engine.ErrNotInJail,
	engine.ErrInJail,
	engine.ErrNotOwner,
	engine.ErrBuildNotAllowed,
	engine.ErrNoJailFreeCard,
	engine.ErrRollNotAllowed,
	engine.ErrTurnNotComplete,
	engine.ErrDecisionPending,
	engine.ErrNoPendingDecision,
	engine.ErrBankrupt,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoActiveGame), errors.Is(err, service.ErrUnknownConfig):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrUnknownProperty), errors.Is(err, engine.ErrUnknownParticipant):
		return http.StatusBadRequest
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Game Lifecycle Handlers

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.NewGame(r.Context(), strings.TrimSuffix(req.ConfigID, ".json"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.PublishState(info.ID, info.GameState)
	}
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetGame(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := s.service.EndGame(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Game ended",
	})
}

// Game State Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetState(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	tiles, err := s.service.GetBoard(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(tiles),
		"tiles": tiles,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Action Handlers

type actionFunc func(r *http.Request) (*service.ActionResult, error)

// action adapts a body-less service action to a handler
func (s *Server) action(fn func(ctx context.Context) (*service.ActionResult, error)) http.HandlerFunc {
	return s.handleAction(func(r *http.Request) (*service.ActionResult, error) {
		return fn(r.Context())
	})
}

func (s *Server) handleAction(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r)
		if err != nil {
			var bad badRequest
			if errors.As(err, &bad) {
				respondError(w, http.StatusBadRequest, bad.Error())
				return
			}
			respondServiceError(w, err)
			return
		}

		if s.hub != nil {
			s.hub.PublishState("", result.GameState)
		}
		log.WithFields(log.Fields{
			"path":      r.URL.Path,
			"events":    len(result.Events),
			"your_turn": result.YourTurn,
			"game_over": result.GameOver,
		}).Debug("Action served")

		respondJSON(w, http.StatusOK, result)
	}
}

// badRequest marks a malformed action request
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	s.handleAction(func(r *http.Request) (*service.ActionResult, error) {
		var req struct {
			Choice string `json:"choice"`
		}
		if err := decodeBody(r, &req); err != nil {
			return nil, badRequest{"Invalid request body"}
		}
		switch strings.ToLower(req.Choice) {
		case "percent":
			return s.service.ChooseTax(r.Context(), true)
		case "flat":
			return s.service.ChooseTax(r.Context(), false)
		default:
			return nil, badRequest{fmt.Sprintf("choice must be 'percent' or 'flat', got %q", req.Choice)}
		}
	})(w, r)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	s.handleAction(func(r *http.Request) (*service.ActionResult, error) {
		var req struct {
			PropertyID *int   `json:"property_id"`
			Kind       string `json:"kind"`
		}
		if err := decodeBody(r, &req); err != nil {
			return nil, badRequest{"Invalid request body"}
		}
		if req.PropertyID == nil {
			return nil, badRequest{"property_id is required"}
		}
		switch strings.ToLower(req.Kind) {
		case "", "house":
			return s.service.BuildHouse(r.Context(), *req.PropertyID)
		case "hotel":
			return s.service.BuildHotel(r.Context(), *req.PropertyID)
		default:
			return nil, badRequest{fmt.Sprintf("kind must be 'house' or 'hotel', got %q", req.Kind)}
		}
	})(w, r)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	configName := strings.TrimSuffix(vars["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, config)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket not enabled", http.StatusServiceUnavailable)
		return
	}

	var initial *websocket.Message
	if info, err := s.service.GetGame(r.Context()); err == nil {
		initial = &websocket.Message{Type: websocket.TypeState, GameID: info.ID, GameState: info.GameState}
	}
	s.hub.ServeWS(w, r, initial)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "healthy",
	}
	if s.hub != nil {
		status["spectators"] = s.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, status)
}
