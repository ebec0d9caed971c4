package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/policy"
)

// DefaultMaxRounds caps bot-only games that never produce a winner
const DefaultMaxRounds = 500

// SimulateOptions tunes a bot-only game
type SimulateOptions struct {
	Seed      int64 // 0 draws a random seed
	MaxRounds int
}

// Standing is one participant's final position
type Standing struct {
	Seat       Seat `json:"seat"`
	Money      int  `json:"money"`
	Properties int  `json:"properties"`
	Worth      int  `json:"worth"`
	Bankrupt   bool `json:"bankrupt"`
}

// SimulationResult summarizes one bot-only game
type SimulationResult struct {
	Seed      int64      `json:"seed"`
	Finished  bool       `json:"finished"`
	WinnerID  string     `json:"winner_id,omitempty"`
	Leader    Seat       `json:"leader"`
	Rounds    int        `json:"rounds"`
	Turns     int        `json:"turns"`
	Standings []Standing `json:"standings"`
}

// NewSeats binds each configured seat to the engine participant id it gets
func NewSeats(config *engine.GameConfig) ([]Seat, error) {
	seats := make([]Seat, len(config.Seats))
	for i, s := range config.Seats {
		seat := Seat{PlayerID: strconv.Itoa(i + 1), Name: s.Name, Human: s.Human}
		if !s.Human {
			strategy, err := policy.ParseStrategy(s.Strategy)
			if err != nil {
				return nil, fmt.Errorf("seat %q: %w", s.Name, err)
			}
			seat.Strategy = strategy
		}
		seats[i] = seat
	}
	return seats, nil
}

// Simulate plays a game to completion with every seat automated. A human
// seat is played with the balanced strategy.
func Simulate(ctx context.Context, config *engine.GameConfig, opts SimulateOptions) (*SimulationResult, error) {
	seats, err := NewSeats(config)
	if err != nil {
		return nil, err
	}
	for i := range seats {
		if seats[i].Human {
			seats[i].Human = false
			seats[i].Strategy = policy.Balanced
		}
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Seed == 0 {
		if opts.Seed, err = engine.NewSeed(); err != nil {
			return nil, err
		}
	}

	eng, err := engine.NewEngine(config, engine.WithSource(engine.NewSeededSource(opts.Seed)))
	if err != nil {
		return nil, err
	}
	round := 1
	eng.Subscribe(engine.EventTurnAdvanced, func(ev engine.Event) {
		round = ev.(engine.TurnAdvanced).Round
	})

	result := &SimulationResult{Seed: opts.Seed}
	for eng.Phase() != engine.PhaseGameOver && round <= opts.MaxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, ok := eng.CurrentPlayer()
		if !ok {
			break
		}
		seat, _ := seatByID(seats, cur.ID)
		if err := PlayAutomatedTurn(eng, seat.Strategy); err != nil {
			return nil, fmt.Errorf("turn %d: %w", result.Turns+1, err)
		}
		result.Turns++
	}

	result.Rounds = round
	if winner, ok := eng.Winner(); ok {
		result.Finished = true
		result.WinnerID = winner.ID
	}
	result.Standings = standings(eng.Snapshot(), seats)
	if len(result.Standings) > 0 {
		result.Leader = result.Standings[0].Seat
	}
	return result, nil
}

func seatByID(seats []Seat, id string) (Seat, bool) {
	for _, s := range seats {
		if s.PlayerID == id {
			return s, true
		}
	}
	return Seat{}, false
}

// standings ranks participants: solvent before bankrupt, then by worth
func standings(state engine.GameState, seats []Seat) []Standing {
	props := make(map[int]engine.Property, len(state.Properties))
	for _, p := range state.Properties {
		props[p.ID] = p
	}

	out := make([]Standing, 0, len(state.Players))
	for _, p := range state.Players {
		worth := p.Money
		for _, id := range p.Properties {
			prop := props[id]
			worth += prop.Price + prop.Houses*prop.HouseCost + prop.Hotel*prop.HotelCost
		}
		seat, _ := seatByID(seats, p.ID)
		out = append(out, Standing{
			Seat:       seat,
			Money:      p.Money,
			Properties: len(p.Properties),
			Worth:      worth,
			Bankrupt:   p.Bankrupt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bankrupt != out[j].Bankrupt {
			return !out[i].Bankrupt
		}
		return out[i].Worth > out[j].Worth
	})
	return out
}
