package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
)

// scriptedSource replays die faces, then falls back to a seeded source
type scriptedSource struct {
	values   []int
	pos      int
	fallback engine.Source
}

func scriptedDice(rolls ...[2]int) *scriptedSource {
	src := &scriptedSource{fallback: engine.NewSeededSource(99)}
	for _, r := range rolls {
		src.values = append(src.values, r[0]-1, r[1]-1)
	}
	return src
}

func (s *scriptedSource) Intn(n int) int {
	if s.pos >= len(s.values) {
		return s.fallback.Intn(n)
	}
	v := s.values[s.pos] % n
	s.pos++
	return v
}

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	opts    []engine.Option
	current *service.Session
	started int
}

func NewMockSessionManager(opts ...engine.Option) *MockSessionManager {
	return &MockSessionManager{opts: opts}
}

func (m *MockSessionManager) Start(config *engine.GameConfig, opts ...engine.Option) (*service.Session, error) {
	m.started++
	sess, err := service.NewSession(fmt.Sprintf("test_%d", m.started), config, append(m.opts, opts...)...)
	if err != nil {
		return nil, err
	}
	m.current = sess
	return sess, nil
}

func (m *MockSessionManager) Current() (*service.Session, error) {
	if m.current == nil {
		return nil, errors.New("no game")
	}
	return m.current, nil
}

func (m *MockSessionManager) End() error {
	if m.current == nil {
		return errors.New("no game")
	}
	m.current = nil
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func createTestConfig(seats ...engine.Seat) *engine.GameConfig {
	if len(seats) == 0 {
		seats = []engine.Seat{
			{Name: "You", Human: true},
			{Name: "Bot", Strategy: "aggressive"},
		}
	}
	return &engine.GameConfig{
		Name:          "test",
		Description:   "Test configuration",
		StartingMoney: 1500,
		PassGoAmount:  200,
		BailAmount:    50,
		IncomeTaxRate: 0.10,
		IncomeTaxFlat: 200,
		LuxuryTax:     75,
		Seats:         seats,
	}
}

func NewMockConfigManager() *MockConfigManager {
	botFirst := createTestConfig(
		engine.Seat{Name: "Bot", Strategy: "aggressive"},
		engine.Seat{Name: "You", Human: true},
	)
	botFirst.Name = "bot-first"

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":      createTestConfig(),
			"bot-first": botFirst,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrUnknownConfig
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	for name, config := range m.configs {
		configs = append(configs, &service.ConfigInfo{
			Filename:      name + ".json",
			ConfigID:      name,
			Name:          config.Name,
			Description:   config.Description,
			Seats:         len(config.Seats),
			StartingMoney: config.StartingMoney,
		})
	}
	return configs, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.configs[name] = config
	return nil
}

func newTestService(dice *scriptedSource) service.GameService {
	svc, _ := newTestServiceWithSessions(dice)
	return svc
}

func newTestServiceWithSessions(dice *scriptedSource) (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager(
		engine.WithDiceSource(dice),
		engine.WithShuffleSource(engine.NewSeededSource(1)),
	)
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func TestNoActiveGame(t *testing.T) {
	svc := newTestService(scriptedDice())
	ctx := context.Background()

	if _, err := svc.GetState(ctx); !errors.Is(err, service.ErrNoActiveGame) {
		t.Errorf("Expected ErrNoActiveGame, got %v", err)
	}
	if _, err := svc.Roll(ctx); !errors.Is(err, service.ErrNoActiveGame) {
		t.Errorf("Expected ErrNoActiveGame, got %v", err)
	}
	if err := svc.EndGame(ctx); !errors.Is(err, service.ErrNoActiveGame) {
		t.Errorf("Expected ErrNoActiveGame, got %v", err)
	}
}

func TestNewGame_UnknownConfig(t *testing.T) {
	svc := newTestService(scriptedDice())

	_, err := svc.NewGame(context.Background(), "missing")
	if !errors.Is(err, service.ErrUnknownConfig) {
		t.Fatalf("Expected ErrUnknownConfig, got %v", err)
	}
}

func TestGameFlow(t *testing.T) {
	svc := newTestService(scriptedDice(
		[2]int{1, 2}, // You -> Baltic Ave
		[2]int{2, 3}, // Bot -> Reading Railroad
	))
	ctx := context.Background()

	info, err := svc.NewGame(ctx, "")
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if info.HumanID != "1" || len(info.Seats) != 2 {
		t.Fatalf("Unexpected game info: %+v", info)
	}

	res, err := svc.Roll(ctx)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.Turn.Offer == nil || res.Turn.Offer.PropertyID != 3 {
		t.Fatalf("Expected an offer for Baltic Ave, got %+v", res.Turn)
	}
	if !res.YourTurn {
		t.Error("Expected the human to keep the turn until it is ended")
	}

	res, err = svc.Buy(ctx)
	if err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	you := res.GameState.Players[0]
	if you.Money != 1440 || len(you.Properties) != 1 {
		t.Errorf("Expected 1440 and one property, got %+v", you)
	}

	if _, err := svc.Roll(ctx); !errors.Is(err, engine.ErrRollNotAllowed) {
		t.Errorf("Expected ErrRollNotAllowed after a finished roll, got %v", err)
	}

	res, err = svc.EndTurn(ctx)
	if err != nil {
		t.Fatalf("EndTurn failed: %v", err)
	}
	if !res.YourTurn {
		t.Error("Expected the turn to come back to the human")
	}
	bot := res.GameState.Players[1]
	if len(bot.Properties) != 1 || bot.Properties[0] != 5 {
		t.Errorf("Expected the aggressive bot to buy Reading Railroad, got %+v", bot)
	}
	if res.GameState.Round != 2 {
		t.Errorf("Expected round 2, got %d", res.GameState.Round)
	}

	kinds := []engine.EventKind{}
	for _, ev := range res.Events {
		kinds = append(kinds, ev.Type)
	}
	want := []engine.EventKind{engine.EventTurnAdvanced, engine.EventMoved, engine.EventPropertyBought, engine.EventTurnAdvanced}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Errorf("Expected events %v, got %v", want, kinds)
	}

	history, err := svc.GetHistory(ctx, service.HistoryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if history.TotalEvents != 6 || history.TotalPages != 3 || !history.HasNext || history.HasPrevious {
		t.Errorf("Unexpected pagination: %+v", history)
	}
	if len(history.Events) != 2 || history.Events[0].Seq != 6 || history.Events[1].Seq != 5 {
		t.Errorf("Expected newest events first, got %+v", history.Events)
	}

	asc, _ := svc.GetHistory(ctx, service.HistoryOptions{Page: 3, Limit: 2, Order: "asc"})
	if len(asc.Events) != 2 || asc.Events[0].Seq != 5 || asc.HasNext {
		t.Errorf("Unexpected last ascending page: %+v", asc)
	}
}

func TestDecline(t *testing.T) {
	svc := newTestService(scriptedDice([2]int{1, 2}))
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	if _, err := svc.Decline(ctx); !errors.Is(err, engine.ErrNoPendingDecision) {
		t.Errorf("Expected ErrNoPendingDecision before rolling, got %v", err)
	}
	if _, err := svc.Roll(ctx); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	res, err := svc.Decline(ctx)
	if err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if len(res.Events) != 1 || res.Events[0].Type != engine.EventPurchaseDeclined {
		t.Errorf("Expected one purchase_declined event, got %+v", res.Events)
	}
	if _, err := svc.Buy(ctx); !errors.Is(err, engine.ErrNoPendingDecision) {
		t.Errorf("Expected ErrNoPendingDecision after declining, got %v", err)
	}
}

func TestIncomeTaxChoice(t *testing.T) {
	svc := newTestService(scriptedDice([2]int{1, 3}))
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	res, err := svc.Roll(ctx)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.Turn.TaxChoice == nil {
		t.Fatalf("Expected an income tax choice, got %+v", res.Turn)
	}
	if res.Turn.TaxChoice.PercentAmount != 150 || res.Turn.TaxChoice.FlatAmount != 200 {
		t.Errorf("Unexpected tax options: %+v", res.Turn.TaxChoice)
	}

	if _, err := svc.EndTurn(ctx); !errors.Is(err, engine.ErrDecisionPending) {
		t.Errorf("Expected ErrDecisionPending, got %v", err)
	}

	res, err = svc.ChooseTax(ctx, true)
	if err != nil {
		t.Fatalf("ChooseTax failed: %v", err)
	}
	if res.Amount != 150 || res.GameState.Players[0].Money != 1350 {
		t.Errorf("Expected $150 tax leaving 1350, got amount %d money %d", res.Amount, res.GameState.Players[0].Money)
	}
}

func TestBotSeatPlaysFirst(t *testing.T) {
	svc := newTestService(scriptedDice([2]int{2, 3}))
	ctx := context.Background()

	info, err := svc.NewGame(ctx, "bot-first")
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if info.HumanID != "2" {
		t.Errorf("Expected human to be player 2, got %q", info.HumanID)
	}
	if info.GameState.CurrentPlayerIndex != 1 {
		t.Errorf("Expected the human to be up, got index %d", info.GameState.CurrentPlayerIndex)
	}
	if len(info.Events) == 0 {
		t.Error("Expected the bot's turn to be reported")
	}
}

func TestNotHumanTurn(t *testing.T) {
	svc, sessions := newTestServiceWithSessions(scriptedDice([2]int{1, 2}))
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	if _, err := svc.Roll(ctx); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	// Hand the turn to the bot behind the service's back
	if err := sessions.current.Engine.AdvanceTurn(); err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}

	for name, action := range map[string]func(context.Context) (*service.ActionResult, error){
		"roll":    svc.Roll,
		"buy":     svc.Buy,
		"decline": svc.Decline,
		"bail":    svc.PayBail,
	} {
		if _, err := action(ctx); !errors.Is(err, service.ErrNotHumanTurn) {
			t.Errorf("%s: expected ErrNotHumanTurn, got %v", name, err)
		}
	}
}

func TestRejectedActions(t *testing.T) {
	svc := newTestService(scriptedDice())
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	// Ending the turn before rolling is rejected by the engine
	if _, err := svc.EndTurn(ctx); !errors.Is(err, engine.ErrTurnNotComplete) {
		t.Errorf("Expected ErrTurnNotComplete, got %v", err)
	}
	if _, err := svc.PayBail(ctx); !errors.Is(err, engine.ErrNotInJail) {
		t.Errorf("Expected ErrNotInJail, got %v", err)
	}
	if _, err := svc.BuildHouse(ctx, 1); !errors.Is(err, engine.ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	svc := newTestService(scriptedDice([2]int{1, 2}, [2]int{1, 2}))
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	var got []service.GameEvent
	unsubscribe := svc.Subscribe(func(ev service.GameEvent) { got = append(got, ev) })

	if _, err := svc.Roll(ctx); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if len(got) != 1 || got[0].Type != engine.EventMoved {
		t.Fatalf("Expected one move event, got %+v", got)
	}
	if got[0].Message != "You moved from 0 to 3" {
		t.Errorf("Unexpected message %q", got[0].Message)
	}

	unsubscribe()
	svc.Buy(ctx)
	if len(got) != 1 {
		t.Errorf("Expected no events after unsubscribing, got %d", len(got))
	}
}

func TestEndGame(t *testing.T) {
	svc := newTestService(scriptedDice())
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	if err := svc.EndGame(ctx); err != nil {
		t.Fatalf("EndGame failed: %v", err)
	}
	if _, err := svc.GetGame(ctx); !errors.Is(err, service.ErrNoActiveGame) {
		t.Errorf("Expected ErrNoActiveGame, got %v", err)
	}
}

func TestGetBoardAndConfigs(t *testing.T) {
	svc := newTestService(scriptedDice())
	ctx := context.Background()
	svc.NewGame(ctx, "test")

	board, err := svc.GetBoard(ctx)
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if len(board) != engine.BoardSize {
		t.Errorf("Expected %d tiles, got %d", engine.BoardSize, len(board))
	}

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d (%v)", len(configs), err)
	}
	if _, err := svc.LoadConfig(ctx, "bot-first"); err != nil {
		t.Errorf("LoadConfig failed: %v", err)
	}
}
