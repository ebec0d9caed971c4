package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Seat describes one participant slot of a game
type Seat struct {
	Name     string `json:"name"`
	Human    bool   `json:"human"`
	Strategy string `json:"strategy,omitempty"`
}

// GameConfig represents a game variant loaded from JSON
type GameConfig struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	StartingMoney int     `json:"starting_money"`
	PassGoAmount  int     `json:"pass_go_amount"`
	BailAmount    int     `json:"bail_amount"`
	IncomeTaxRate float64 `json:"income_tax_rate"`
	IncomeTaxFlat int     `json:"income_tax_flat"`
	LuxuryTax     int     `json:"luxury_tax"`
	Seats         []Seat  `json:"seats"`
}

const (
	MinSeats = 2
	MaxSeats = 8

	DefaultStartingMoney = 1500
	DefaultPassGoAmount  = 200
	DefaultBailAmount    = 50
	DefaultIncomeTaxRate = 0.10
	DefaultIncomeTaxFlat = 200
	DefaultLuxuryTax     = 75
)

// DefaultGameConfig returns the classic rules with one human and three automated seats
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:          "classic",
		Description:   "Classic rules: $1500 start, $200 for passing GO, $50 bail",
		StartingMoney: DefaultStartingMoney,
		PassGoAmount:  DefaultPassGoAmount,
		BailAmount:    DefaultBailAmount,
		IncomeTaxRate: DefaultIncomeTaxRate,
		IncomeTaxFlat: DefaultIncomeTaxFlat,
		LuxuryTax:     DefaultLuxuryTax,
		Seats: []Seat{
			{Name: "You", Human: true},
			{Name: "Ada", Strategy: "aggressive"},
			{Name: "Carl", Strategy: "conservative"},
			{Name: "Bea", Strategy: "balanced"},
		},
	}
}

// Clone returns a deep copy
func (c *GameConfig) Clone() *GameConfig {
	out := *c
	out.Seats = append([]Seat(nil), c.Seats...)
	return &out
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.StartingMoney <= 0 {
		return fmt.Errorf("config validation: starting_money must be positive, got %d", config.StartingMoney)
	}
	if config.PassGoAmount < 0 {
		return fmt.Errorf("config validation: pass_go_amount cannot be negative, got %d", config.PassGoAmount)
	}
	if config.BailAmount <= 0 {
		return fmt.Errorf("config validation: bail_amount must be positive, got %d", config.BailAmount)
	}
	if config.IncomeTaxRate < 0 || config.IncomeTaxRate > 1 {
		return fmt.Errorf("config validation: income_tax_rate must be between 0 and 1, got %v", config.IncomeTaxRate)
	}
	if config.IncomeTaxFlat < 0 {
		return fmt.Errorf("config validation: income_tax_flat cannot be negative, got %d", config.IncomeTaxFlat)
	}
	if config.LuxuryTax < 0 {
		return fmt.Errorf("config validation: luxury_tax cannot be negative, got %d", config.LuxuryTax)
	}

	if len(config.Seats) < MinSeats || len(config.Seats) > MaxSeats {
		return fmt.Errorf("config validation: seats must have between %d and %d entries, got %d", MinSeats, MaxSeats, len(config.Seats))
	}
	humans := 0
	names := make(map[string]bool, len(config.Seats))
	for i, seat := range config.Seats {
		if strings.TrimSpace(seat.Name) == "" {
			return fmt.Errorf("config validation: seat %d must have a name", i+1)
		}
		if names[seat.Name] {
			return fmt.Errorf("config validation: duplicate seat name %q", seat.Name)
		}
		names[seat.Name] = true
		if seat.Human {
			humans++
			if seat.Strategy != "" {
				return fmt.Errorf("config validation: human seat %q cannot have a strategy", seat.Name)
			}
		} else if seat.Strategy == "" {
			return fmt.Errorf("config validation: automated seat %q needs a strategy", seat.Name)
		}
	}
	if humans > 1 {
		return fmt.Errorf("config validation: at most one human seat is supported, got %d", humans)
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filepath.Base(filename), err)
	}

	return &config, nil
}
