package service

import (
	"encoding/json"
	"time"

	"github.com/wricardo/tycoon/game/engine"
)

// GameInfo provides information about the active game
type GameInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Seats          []Seat             `json:"seats"`
	HumanID        string             `json:"human_id,omitempty"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
	Events         []GameEvent        `json:"events,omitempty"`
}

// ActionResult contains the outcome of one human action plus any
// automated turns it triggered
type ActionResult struct {
	Turn      *engine.TurnResult `json:"turn,omitempty"`
	Amount    int                `json:"amount,omitempty"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events"`
	YourTurn  bool               `json:"your_turn"`
	GameOver  bool               `json:"game_over"`
}

// GameEvent is a recorded engine event with a readable message
type GameEvent struct {
	Seq       int              `json:"seq"`
	Type      engine.EventKind `json:"type"`
	PlayerID  string           `json:"player_id,omitempty"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Data      json.RawMessage  `json:"data,omitempty"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []GameEvent `json:"events"`
	TotalEvents int         `json:"total_events"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	TotalPages  int         `json:"total_pages"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for game creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Seats         int    `json:"seats"`
	StartingMoney int    `json:"starting_money"`
}
