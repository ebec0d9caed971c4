package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/policy"
	"github.com/wricardo/tycoon/game/service"
)

func newBotEngine(t *testing.T, dice *scriptedSource) *engine.GameEngine {
	t.Helper()
	config := createTestConfig(
		engine.Seat{Name: "Ada", Strategy: "aggressive"},
		engine.Seat{Name: "Cy", Strategy: "conservative"},
	)
	eng, err := engine.NewEngine(config,
		engine.WithDiceSource(dice),
		engine.WithShuffleSource(engine.NewSeededSource(1)),
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return eng
}

func TestPlayAutomatedTurn(t *testing.T) {
	tests := []struct {
		name      string
		strategy  policy.Strategy
		roll      [2]int
		wantProps int
		wantMoney int
	}{
		{"aggressive buys a railroad", policy.Aggressive, [2]int{2, 3}, 1, 1300},
		{"conservative passes on a railroad", policy.Conservative, [2]int{2, 3}, 0, 1500},
		{"percent income tax when cheaper", policy.Balanced, [2]int{1, 3}, 0, 1350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newBotEngine(t, scriptedDice(tt.roll))

			if err := service.PlayAutomatedTurn(eng, tt.strategy); err != nil {
				t.Fatalf("PlayAutomatedTurn failed: %v", err)
			}

			p, _ := eng.Player("1")
			if len(p.Properties) != tt.wantProps {
				t.Errorf("Expected %d properties, got %d", tt.wantProps, len(p.Properties))
			}
			if p.Money != tt.wantMoney {
				t.Errorf("Expected money %d, got %d", tt.wantMoney, p.Money)
			}
			if cur, _ := eng.CurrentPlayer(); cur.ID != "2" {
				t.Errorf("Expected the turn to pass to player 2, got %s", cur.ID)
			}
			if _, pending := eng.PendingPurchase(); pending {
				t.Error("Expected no offer left pending")
			}
		})
	}
}

func TestPlayAutomatedTurn_RollsAgainOnDoubles(t *testing.T) {
	// 2+2 lands on Income Tax, then 1+4 on Connecticut Ave
	eng := newBotEngine(t, scriptedDice([2]int{2, 2}, [2]int{1, 4}))

	if err := service.PlayAutomatedTurn(eng, policy.Aggressive); err != nil {
		t.Fatalf("PlayAutomatedTurn failed: %v", err)
	}
	p, _ := eng.Player("1")
	if p.Position != 9 {
		t.Errorf("Expected position 9 after two rolls, got %d", p.Position)
	}
}

func TestSimulate(t *testing.T) {
	config := createTestConfig(
		engine.Seat{Name: "Ada", Strategy: "aggressive"},
		engine.Seat{Name: "Bo", Strategy: "balanced"},
		engine.Seat{Name: "Cy", Strategy: "conservative"},
	)

	result, err := service.Simulate(context.Background(), config, service.SimulateOptions{Seed: 42, MaxRounds: 60})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", result.Seed)
	}
	if result.Turns == 0 {
		t.Error("Expected turns to be played")
	}
	if !result.Finished && result.Rounds != 61 {
		t.Errorf("Expected an unfinished game to stop after round 60, got %d", result.Rounds)
	}
	if len(result.Standings) != 3 {
		t.Fatalf("Expected 3 standings, got %d", len(result.Standings))
	}
	for i := 1; i < len(result.Standings); i++ {
		prev, cur := result.Standings[i-1], result.Standings[i]
		if !prev.Bankrupt && !cur.Bankrupt && prev.Worth < cur.Worth {
			t.Errorf("Standings not sorted by worth: %+v before %+v", prev, cur)
		}
		if prev.Bankrupt && !cur.Bankrupt {
			t.Errorf("Bankrupt seat ranked above a solvent one: %+v", result.Standings)
		}
	}
	if result.Leader != result.Standings[0].Seat {
		t.Errorf("Expected leader %+v, got %+v", result.Standings[0].Seat, result.Leader)
	}

	again, err := service.Simulate(context.Background(), config, service.SimulateOptions{Seed: 42, MaxRounds: 60})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if again.Turns != result.Turns || again.Leader != result.Leader {
		t.Error("Expected the same seed to replay the same game")
	}
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Simulate(ctx, createTestConfig(), service.SimulateOptions{Seed: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewSeats(t *testing.T) {
	seats, err := service.NewSeats(createTestConfig())
	if err != nil {
		t.Fatalf("NewSeats failed: %v", err)
	}
	if seats[0].PlayerID != "1" || !seats[0].Human || seats[0].Strategy != "" {
		t.Errorf("Unexpected human seat: %+v", seats[0])
	}
	if seats[1].PlayerID != "2" || seats[1].Strategy != policy.Aggressive {
		t.Errorf("Unexpected bot seat: %+v", seats[1])
	}

	bad := createTestConfig(engine.Seat{Name: "X", Strategy: "reckless"})
	if _, err := service.NewSeats(bad); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}
