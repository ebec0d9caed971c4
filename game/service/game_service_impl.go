package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tycoon/game/engine"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	// maxAutomatedTurns bounds one batch of bot turns so a request always returns.
	maxAutomatedTurns = 400
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex

	listenerMu   sync.RWMutex
	listeners    map[int]Listener
	nextListener int
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		listeners: make(map[int]Listener),
	}
}

// NewGame starts a game from a named configuration, replacing any active
// game, and plays automated seats until the human seat is up
func (s *gameServiceImpl) NewGame(ctx context.Context, configName string) (*GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Start(config)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	if err := s.playAutomated(ctx, sess); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"game_id": sess.ID,
		"config":  config.Name,
		"seats":   len(sess.Seats),
	}).Info("Game started")

	events := sess.Since(0)
	s.notify(events)
	info := s.info(sess)
	info.Events = events
	return info, nil
}

// resolveConfig loads a named configuration, listing alternatives when it is missing
func (s *gameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, error) {
	if configName == "" {
		return s.configs.GetDefault(), nil
	}
	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, nil
	}
	if errors.Is(err, ErrUnknownConfig) {
		if available, listErr := s.configs.ListConfigs(); listErr == nil && len(available) > 0 {
			ids := make([]string, 0, len(available))
			for _, cfg := range available {
				ids = append(ids, cfg.ConfigID)
			}
			return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, ids, err)
		}
		return nil, fmt.Errorf("config '%s' not found: %w", configName, err)
	}
	return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
}

// GetGame retrieves information about the active game
func (s *gameServiceImpl) GetGame(ctx context.Context) (*GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// EndGame discards the active game
func (s *gameServiceImpl) EndGame(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.End(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoActiveGame, err)
	}
	log.Info("Game ended")
	return nil
}

// GetState returns a snapshot of the active game
func (s *gameServiceImpl) GetState(ctx context.Context) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	state := sess.Engine.Snapshot()
	return &state, nil
}

// GetBoard returns a copy of every tile with current ownership
func (s *gameServiceImpl) GetBoard(ctx context.Context) ([]engine.Tile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	return sess.Engine.Tiles(), nil
}

// GetHistory returns the recorded events of the active game, paginated
func (s *gameServiceImpl) GetHistory(ctx context.Context, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	history := sess.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	events := []GameEvent{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				events = append(events, history[i])
			}
		} else {
			events = append(events, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// Roll rolls for the human seat
func (s *gameServiceImpl) Roll(ctx context.Context) (*ActionResult, error) {
	return s.act("roll", func(sess *Session, human Seat, res *ActionResult) error {
		turn, err := sess.Engine.Roll()
		if err != nil {
			return err
		}
		res.Turn = &turn
		res.Message = describeTurn(turn, sess)
		return nil
	})
}

// Buy accepts the pending purchase offer
func (s *gameServiceImpl) Buy(ctx context.Context) (*ActionResult, error) {
	return s.act("buy", func(sess *Session, human Seat, res *ActionResult) error {
		offer, ok := sess.Engine.PendingPurchase()
		if !ok {
			return engine.ErrNoPendingDecision
		}
		if err := sess.Engine.PurchaseProperty(human.PlayerID, offer.PropertyID); err != nil {
			return err
		}
		res.Amount = offer.Price
		res.Message = fmt.Sprintf("Bought %s for $%d", offer.Name, offer.Price)
		return nil
	})
}

// Decline passes on the pending purchase offer
func (s *gameServiceImpl) Decline(ctx context.Context) (*ActionResult, error) {
	return s.act("decline", func(sess *Session, human Seat, res *ActionResult) error {
		offer, ok := sess.Engine.PendingPurchase()
		if !ok {
			return engine.ErrNoPendingDecision
		}
		if err := sess.Engine.DeclinePurchase(human.PlayerID); err != nil {
			return err
		}
		res.Message = fmt.Sprintf("Passed on %s", offer.Name)
		return nil
	})
}

// ChooseTax settles the pending income tax
func (s *gameServiceImpl) ChooseTax(ctx context.Context, percent bool) (*ActionResult, error) {
	return s.act("tax", func(sess *Session, human Seat, res *ActionResult) error {
		amount, err := sess.Engine.ChooseTax(human.PlayerID, percent)
		if err != nil {
			return err
		}
		res.Amount = amount
		res.Message = fmt.Sprintf("Paid $%d income tax", amount)
		return nil
	})
}

// PayBail pays the human seat out of jail
func (s *gameServiceImpl) PayBail(ctx context.Context) (*ActionResult, error) {
	return s.act("bail", func(sess *Session, human Seat, res *ActionResult) error {
		if err := sess.Engine.PayBail(human.PlayerID); err != nil {
			return err
		}
		res.Amount = sess.Config.BailAmount
		res.Message = fmt.Sprintf("Paid $%d bail", sess.Config.BailAmount)
		return nil
	})
}

// UseJailFreeCard spends a held token to leave jail
func (s *gameServiceImpl) UseJailFreeCard(ctx context.Context) (*ActionResult, error) {
	return s.act("jail_card", func(sess *Session, human Seat, res *ActionResult) error {
		if err := sess.Engine.UseJailFreeCard(human.PlayerID); err != nil {
			return err
		}
		res.Message = "Used a Get Out of Jail Free card"
		return nil
	})
}

// BuildHouse buys a house for the human seat
func (s *gameServiceImpl) BuildHouse(ctx context.Context, propertyID int) (*ActionResult, error) {
	return s.act("build_house", func(sess *Session, human Seat, res *ActionResult) error {
		if err := sess.Engine.BuyHouse(human.PlayerID, propertyID); err != nil {
			return err
		}
		prop, _ := sess.Engine.Property(propertyID)
		res.Amount = prop.HouseCost
		res.Message = fmt.Sprintf("Built house %d on %s", prop.Houses, prop.Name)
		return nil
	})
}

// BuildHotel buys a hotel for the human seat
func (s *gameServiceImpl) BuildHotel(ctx context.Context, propertyID int) (*ActionResult, error) {
	return s.act("build_hotel", func(sess *Session, human Seat, res *ActionResult) error {
		if err := sess.Engine.BuyHotel(human.PlayerID, propertyID); err != nil {
			return err
		}
		prop, _ := sess.Engine.Property(propertyID)
		res.Amount = prop.HotelCost
		res.Message = fmt.Sprintf("Built a hotel on %s", prop.Name)
		return nil
	})
}

// EndTurn finishes the human seat's turn and plays the automated seats
// until the human is up again or the game ends. A bankrupt human can call
// it to keep watching the remaining seats.
func (s *gameServiceImpl) EndTurn(ctx context.Context) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	if sess.Engine.Phase() == engine.PhaseGameOver {
		return nil, engine.ErrGameOver
	}
	mark := sess.Len()

	if human, ok := sess.HumanSeat(); ok {
		cur, _ := sess.Engine.CurrentPlayer()
		hp, _ := sess.Engine.Player(human.PlayerID)
		switch {
		case cur.ID == human.PlayerID:
			if err := sess.Engine.AdvanceTurn(); err != nil {
				log.WithFields(log.Fields{"action": "end_turn", "error": err}).Info("Action rejected")
				return nil, err
			}
		case !hp.Bankrupt:
			return nil, ErrNotHumanTurn
		}
	}

	if err := s.playAutomated(ctx, sess); err != nil {
		return nil, err
	}
	res := &ActionResult{}
	s.finish(sess, mark, res)
	if res.Message == "" {
		res.Message = "Turn ended"
	}
	return res, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// Subscribe registers a listener for recorded game events
func (s *gameServiceImpl) Subscribe(listener Listener) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener

	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *gameServiceImpl) notify(events []GameEvent) {
	s.listenerMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenerMu.RUnlock()

	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}

func (s *gameServiceImpl) current() (*Session, error) {
	sess, err := s.sessions.Current()
	if err != nil || sess == nil {
		return nil, ErrNoActiveGame
	}
	return sess, nil
}

// act runs one human-seat action on the human's turn and collects its outcome
func (s *gameServiceImpl) act(name string, fn func(*Session, Seat, *ActionResult) error) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	if sess.Engine.Phase() == engine.PhaseGameOver {
		return nil, engine.ErrGameOver
	}
	human, ok := sess.HumanSeat()
	if !ok {
		return nil, ErrNoHumanSeat
	}
	if cur, ok := sess.Engine.CurrentPlayer(); !ok || cur.ID != human.PlayerID {
		return nil, ErrNotHumanTurn
	}

	mark := sess.Len()
	res := &ActionResult{}
	if err := fn(sess, human, res); err != nil {
		log.WithFields(log.Fields{"action": name, "error": err}).Info("Action rejected")
		return nil, err
	}
	s.finish(sess, mark, res)

	log.WithFields(log.Fields{
		"action": name,
		"events": len(res.Events),
		"phase":  res.GameState.Phase,
	}).Debug("Action applied")
	return res, nil
}

// finish fills the snapshot and the events produced since mark, then notifies listeners
func (s *gameServiceImpl) finish(sess *Session, mark int, res *ActionResult) {
	sess.LastAccessedAt = time.Now()
	state := sess.Engine.Snapshot()
	res.GameState = &state
	res.Events = sess.Since(mark)
	res.GameOver = state.GameOver()

	if human, ok := sess.HumanSeat(); ok && !res.GameOver {
		if cur, ok := state.CurrentPlayer(); ok && cur.ID == human.PlayerID {
			res.YourTurn = true
		}
	}
	if res.GameOver {
		if winner, ok := sess.Engine.Winner(); ok {
			res.Message = strings.TrimSpace(res.Message + " " + fmt.Sprintf("Game over: %s wins.", sess.PlayerName(winner.ID)))
		}
	}
	s.notify(res.Events)
}

// playAutomated plays bot seats until a solvent human seat is up or the game ends
func (s *gameServiceImpl) playAutomated(ctx context.Context, sess *Session) error {
	for turns := 0; ; turns++ {
		if sess.Engine.Phase() == engine.PhaseGameOver {
			return nil
		}
		cur, ok := sess.Engine.CurrentPlayer()
		if !ok {
			return nil
		}
		seat, _ := sess.SeatFor(cur.ID)
		if seat.Human && !cur.Bankrupt {
			return nil
		}
		if turns >= maxAutomatedTurns {
			log.WithFields(log.Fields{"game_id": sess.ID, "turns": turns}).Warn("Automated turn batch limit reached")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := PlayAutomatedTurn(sess.Engine, seat.Strategy); err != nil {
			return fmt.Errorf("automated turn for %s: %w", seat.Name, err)
		}
		log.WithFields(log.Fields{"player": seat.Name, "strategy": seat.Strategy}).Debug("Automated turn played")
	}
}

func (s *gameServiceImpl) info(sess *Session) *GameInfo {
	state := sess.Engine.Snapshot()
	info := &GameInfo{
		ID:             sess.ID,
		ConfigName:     sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Seats:          sess.Seats,
		GameState:      &state,
		GameConfig:     sess.Config,
	}
	if human, ok := sess.HumanSeat(); ok {
		info.HumanID = human.PlayerID
	}
	return info
}

// describeTurn renders a roll for the human seat
func describeTurn(turn engine.TurnResult, n Namer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rolled %d+%d=%d.", turn.Roll.D1, turn.Roll.D2, turn.Roll.Total)

	switch turn.JailStatus {
	case engine.JailStatusStillInJail:
		b.WriteString(" No doubles, still in jail.")
	case engine.JailStatusForcedBail:
		b.WriteString(" Third miss: bail paid, you are out.")
	case engine.JailStatusThreeDouble:
		b.WriteString(" Third doubles in a row: go to jail!")
	case engine.JailStatusEscaped:
		b.WriteString(" Doubles! Out of jail.")
	}
	if turn.Move != nil {
		fmt.Fprintf(&b, " Landed on %s.", turn.Move.Tile.Name)
		if turn.Move.PassedGo {
			b.WriteString(" Passed GO.")
		}
	}
	for _, c := range turn.Cards {
		fmt.Fprintf(&b, " Card: %s.", c.Description)
	}
	if turn.RentPaid > 0 {
		fmt.Fprintf(&b, " Paid $%d rent.", turn.RentPaid)
	}
	if turn.TaxPaid > 0 {
		fmt.Fprintf(&b, " Paid $%d tax.", turn.TaxPaid)
	}
	if turn.Jailed && turn.JailStatus != engine.JailStatusThreeDouble {
		b.WriteString(" Sent to jail.")
	}
	if turn.Bankrupt {
		b.WriteString(" You are bankrupt.")
	}
	if turn.Offer != nil {
		fmt.Fprintf(&b, " %s is for sale at $%d.", n.PropertyName(turn.Offer.PropertyID), turn.Offer.Price)
	}
	if turn.TaxChoice != nil {
		fmt.Fprintf(&b, " Income tax: pay $%d (percent) or $%d (flat).", turn.TaxChoice.PercentAmount, turn.TaxChoice.FlatAmount)
	}
	if turn.RollAgain {
		b.WriteString(" Doubles, roll again.")
	}
	return b.String()
}
