package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
)

var ErrNoActiveGame = errors.New("no active game")

// Manager holds the single active game. Starting a new game replaces the
// previous one.
type Manager struct {
	current *service.Session
	opts    []engine.Option
	mu      sync.Mutex
}

// NewManager creates a new session manager. The options are passed to
// every engine it builds.
func NewManager(opts ...engine.Option) *Manager {
	return &Manager{opts: opts}
}

// Start builds a game for the configuration and makes it the active one
func (m *Manager) Start(config *engine.GameConfig, opts ...engine.Option) (*service.Session, error) {
	all := append(append([]engine.Option{}, m.opts...), opts...)
	sess, err := service.NewSession(uuid.NewString(), config, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		log.WithField("game_id", m.current.ID).Debug("Replacing active game")
	}
	m.current = sess
	return sess, nil
}

// Current returns the active game
func (m *Manager) Current() (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoActiveGame
	}
	m.current.LastAccessedAt = time.Now()
	return m.current, nil
}

// End discards the active game
func (m *Manager) End() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoActiveGame
	}
	m.current = nil
	return nil
}
