package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/policy"
)

var (
	ErrNoActiveGame  = errors.New("no active game")
	ErrNotHumanTurn  = errors.New("not the human seat's turn")
	ErrNoHumanSeat   = errors.New("game has no human seat")
	ErrUnknownConfig = errors.New("configuration not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Game lifecycle
	NewGame(ctx context.Context, configName string) (*GameInfo, error)
	GetGame(ctx context.Context) (*GameInfo, error)
	EndGame(ctx context.Context) error

	// Read side
	GetState(ctx context.Context) (*engine.GameState, error)
	GetBoard(ctx context.Context) ([]engine.Tile, error)
	GetHistory(ctx context.Context, opts HistoryOptions) (*HistoryResponse, error)

	// Human seat actions
	Roll(ctx context.Context) (*ActionResult, error)
	Buy(ctx context.Context) (*ActionResult, error)
	Decline(ctx context.Context) (*ActionResult, error)
	ChooseTax(ctx context.Context, percent bool) (*ActionResult, error)
	PayBail(ctx context.Context) (*ActionResult, error)
	UseJailFreeCard(ctx context.Context) (*ActionResult, error)
	BuildHouse(ctx context.Context, propertyID int) (*ActionResult, error)
	BuildHotel(ctx context.Context, propertyID int) (*ActionResult, error)
	EndTurn(ctx context.Context) (*ActionResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)

	// Subscribe registers a listener for every recorded game event.
	// The returned function removes it.
	Subscribe(listener Listener) func()
}

// Listener receives recorded game events in order
type Listener func(GameEvent)

// SessionManager holds the single active game
type SessionManager interface {
	Start(config *engine.GameConfig, opts ...engine.Option) (*Session, error)
	Current() (*Session, error)
	End() error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Seat binds an engine participant to who drives it
type Seat struct {
	PlayerID string          `json:"player_id"`
	Name     string          `json:"name"`
	Human    bool            `json:"human"`
	Strategy policy.Strategy `json:"strategy,omitempty"`
}

// Session represents the active game
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	Seats          []Seat
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu      sync.Mutex
	history []GameEvent
}

// NewSession builds the engine for a configuration, binds seats and starts
// recording every engine event
func NewSession(id string, config *engine.GameConfig, opts ...engine.Option) (*Session, error) {
	seats, err := NewSeats(config)
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		Seats:          seats,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	eng.SubscribeAll(func(ev engine.Event) { sess.Record(ev) })
	return sess, nil
}

// Record appends an engine event to the session's history
func (s *Session) Record(ev engine.Event) GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := GameEvent{
		Seq:       len(s.history) + 1,
		Type:      ev.Kind(),
		PlayerID:  eventPlayer(ev),
		Message:   Describe(ev, s),
		Timestamp: time.Now(),
	}
	// Event payloads are plain structs and always marshal
	entry.Data, _ = json.Marshal(ev)
	s.history = append(s.history, entry)
	return entry
}

// History returns a copy of every recorded event, oldest first
func (s *Session) History() []GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GameEvent, len(s.history))
	copy(out, s.history)
	return out
}

// Since returns the events recorded after the first n
func (s *Session) Since(n int) []GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= len(s.history) {
		return []GameEvent{}
	}
	out := make([]GameEvent, len(s.history)-n)
	copy(out, s.history[n:])
	return out
}

// Len returns the number of recorded events
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// HumanSeat returns the seat driven by a person, if any
func (s *Session) HumanSeat() (Seat, bool) {
	for _, seat := range s.Seats {
		if seat.Human {
			return seat, true
		}
	}
	return Seat{}, false
}

// SeatFor returns the seat of a participant
func (s *Session) SeatFor(playerID string) (Seat, bool) {
	for _, seat := range s.Seats {
		if seat.PlayerID == playerID {
			return seat, true
		}
	}
	return Seat{}, false
}

// PlayerName implements Namer
func (s *Session) PlayerName(id string) string {
	for _, seat := range s.Seats {
		if seat.PlayerID == id {
			return seat.Name
		}
	}
	return id
}

// PropertyName implements Namer
func (s *Session) PropertyName(id int) string {
	if s.Engine != nil {
		if prop, ok := s.Engine.Property(id); ok {
			return prop.Name
		}
	}
	return fmt.Sprintf("property %d", id)
}
