package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/wricardo/tycoon/game/engine"
)

// Strategy selects the tuning an automated seat decides with
type Strategy string

const (
	Aggressive   Strategy = "aggressive"
	Conservative Strategy = "conservative"
	Balanced     Strategy = "balanced"
)

// Strategies lists every supported strategy tag
var Strategies = []Strategy{Aggressive, Conservative, Balanced}

// ParseStrategy converts a seat's strategy tag into a Strategy
func ParseStrategy(tag string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := tunings[s]; !ok {
		return "", fmt.Errorf("unknown strategy %q (want aggressive, conservative or balanced)", tag)
	}
	return s, nil
}

// Tuning holds the strategy-specific weights used by the decision functions
type Tuning struct {
	// ReserveMultiplier is how many times the price must be held before buying.
	ReserveMultiplier float64
	// BuyThreshold is the minimum score for a purchase.
	BuyThreshold float64
	// BailMultiplier is how many bails' worth of cash must be held before paying.
	BailMultiplier int
	// MinPropertiesForBail is the holding needed before bail is worth paying.
	MinPropertiesForBail int
	// BuildReserve is the cash kept back after buying a house.
	BuildReserve int
}

var tunings = map[Strategy]Tuning{
	Aggressive:   {ReserveMultiplier: 1.2, BuyThreshold: 0.3, BailMultiplier: 2, BuildReserve: 150},
	Conservative: {ReserveMultiplier: 3.0, BuyThreshold: 0.7, BailMultiplier: 4, MinPropertiesForBail: 3, BuildReserve: 500},
	Balanced:     {ReserveMultiplier: 1.8, BuyThreshold: 0.5, BailMultiplier: 3, BuildReserve: 300},
}

// TuningFor returns the weights of a strategy, falling back to balanced
func TuningFor(s Strategy) Tuning {
	if t, ok := tunings[s]; ok {
		return t
	}
	return tunings[Balanced]
}

// BoardView is the read-only slice of the engine the policy needs
type BoardView interface {
	Property(id int) (engine.Property, bool)
	GroupSize(group engine.ColorGroup) int
}

const (
	completionBonus   = 0.8
	colorBase         = 0.3
	colorStep         = 0.2
	colorCap          = 0.7
	railroadBase      = 0.4
	utilityBase       = 0.4
	transportStep     = 0.15
	transportCap      = 0.6
	stayPerProperty   = 0.1
	stayMoneyPressure = 0.3
	stayPressureBelow = 200
	stayThreshold     = 0.4
)

// ShouldBuy decides whether an automated seat buys an unowned property.
// It never buys what it cannot afford outright.
func ShouldBuy(p engine.Player, prop engine.Property, board BoardView, s Strategy) bool {
	if prop.IsOwned() || p.Money < prop.Price {
		return false
	}
	t := TuningFor(s)
	if float64(p.Money) <= float64(prop.Price)*t.ReserveMultiplier {
		return false
	}
	return Score(p, prop, board) >= t.BuyThreshold
}

// Score rates how much a property is worth to a participant, from 0 to 0.8
func Score(p engine.Player, prop engine.Property, board BoardView) float64 {
	owned := ownedInGroup(p, prop.Group, board)
	switch {
	case prop.Group == engine.GroupRailroad:
		return math.Min(float64(owned)*transportStep+railroadBase, transportCap)
	case prop.Group == engine.GroupUtility:
		return math.Min(float64(owned)*transportStep+utilityBase, transportCap)
	case prop.Group.IsColor():
		if owned == board.GroupSize(prop.Group)-1 {
			return completionBonus
		}
		return math.Min(float64(owned)*colorStep+colorBase, colorCap)
	default:
		return colorBase
	}
}

func ownedInGroup(p engine.Player, group engine.ColorGroup, board BoardView) int {
	n := 0
	for _, id := range p.Properties {
		if prop, ok := board.Property(id); ok && prop.Group == group {
			n++
		}
	}
	return n
}

// ShouldPayBail decides whether a jailed seat pays bail before rolling
func ShouldPayBail(p engine.Player, bail int, s Strategy) bool {
	if !p.InJail || p.Money < bail {
		return false
	}
	t := TuningFor(s)
	return p.Money >= bail*t.BailMultiplier && len(p.Properties) >= t.MinPropertiesForBail
}

// ShouldStayInJail reports whether sitting in jail beats getting out.
// A seat with many properties collects rent while it waits.
func ShouldStayInJail(p engine.Player) bool {
	score := float64(len(p.Properties)) * stayPerProperty
	if p.Money < stayPressureBelow {
		score += stayMoneyPressure
	}
	return score > stayThreshold
}

// ShouldUseJailFreeCard decides whether a held token is spent now
func ShouldUseJailFreeCard(p engine.Player) bool {
	return p.InJail && len(p.JailFreeCards) > 0 && !ShouldStayInJail(p)
}

// ChooseTaxPercent picks the cheaper income tax option
func ChooseTaxPercent(percentAmount, flatAmount int) bool {
	return percentAmount <= flatAmount
}

// ShouldBuildHouse decides whether a seat spends cost on an improvement
func ShouldBuildHouse(p engine.Player, cost int, s Strategy) bool {
	return p.Money-cost >= TuningFor(s).BuildReserve
}
