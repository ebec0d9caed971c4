package service

import (
	"errors"
	"fmt"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/policy"
)

// PlayAutomatedTurn plays the current participant's whole turn using the
// policy for every decision, then hands the turn on. Every change goes
// through ordinary engine operations.
func PlayAutomatedTurn(eng engine.Engine, strategy policy.Strategy) error {
	if eng.Phase() == engine.PhaseGameOver {
		return engine.ErrGameOver
	}
	p, ok := eng.CurrentPlayer()
	if !ok {
		return engine.ErrUnknownParticipant
	}

	if p.InJail && eng.Phase() == engine.PhaseAwaitingRoll {
		leaveJail(eng, p, strategy)
	}

	for eng.Phase() == engine.PhaseAwaitingRoll {
		res, err := eng.Roll()
		if err != nil {
			return fmt.Errorf("roll for %s: %w", p.ID, err)
		}
		if err := answerRoll(eng, res, strategy); err != nil {
			return err
		}
	}

	if eng.Phase() == engine.PhaseGameOver {
		return nil
	}
	buildImprovements(eng, p.ID, strategy)
	return eng.AdvanceTurn()
}

// leaveJail spends a token or pays bail when the policy prefers that to rolling
func leaveJail(eng engine.Engine, p engine.Player, strategy policy.Strategy) {
	if policy.ShouldUseJailFreeCard(p) {
		if err := eng.UseJailFreeCard(p.ID); err == nil {
			return
		}
	}
	if !policy.ShouldStayInJail(p) && policy.ShouldPayBail(p, eng.GetConfig().BailAmount, strategy) {
		// A refused bail leaves the seat rolling for doubles.
		_ = eng.PayBail(p.ID)
	}
}

// answerRoll settles the decisions a roll left open
func answerRoll(eng engine.Engine, res engine.TurnResult, strategy policy.Strategy) error {
	if res.TaxChoice != nil {
		percent := policy.ChooseTaxPercent(res.TaxChoice.PercentAmount, res.TaxChoice.FlatAmount)
		if _, err := eng.ChooseTax(res.PlayerID, percent); err != nil {
			return fmt.Errorf("tax for %s: %w", res.PlayerID, err)
		}
	}

	if res.Offer == nil {
		return nil
	}
	if _, pending := eng.PendingPurchase(); !pending {
		return nil
	}
	p, _ := eng.Player(res.PlayerID)
	prop, ok := eng.Property(res.Offer.PropertyID)
	if ok && policy.ShouldBuy(p, prop, eng, strategy) {
		err := eng.PurchaseProperty(res.PlayerID, prop.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, engine.ErrInsufficientFunds) {
			return fmt.Errorf("purchase for %s: %w", res.PlayerID, err)
		}
	}
	if err := eng.DeclinePurchase(res.PlayerID); err != nil && !errors.Is(err, engine.ErrGameOver) {
		return fmt.Errorf("decline for %s: %w", res.PlayerID, err)
	}
	return nil
}

// buildImprovements buys houses and hotels across the seat's monopolies,
// one level at a time so the even-building rule is respected
func buildImprovements(eng engine.Engine, playerID string, strategy policy.Strategy) {
	for built := true; built; {
		built = false
		p, ok := eng.Player(playerID)
		if !ok || p.Bankrupt {
			return
		}
		for _, id := range p.Properties {
			prop, ok := eng.Property(id)
			if !ok || !prop.Group.IsColor() {
				continue
			}
			p, _ = eng.Player(playerID)
			switch {
			case eng.CanBuyHotel(playerID, id) && policy.ShouldBuildHouse(p, prop.HotelCost, strategy):
				built = eng.BuyHotel(playerID, id) == nil || built
			case eng.CanBuyHouse(playerID, id) && policy.ShouldBuildHouse(p, prop.HouseCost, strategy):
				built = eng.BuyHouse(playerID, id) == nil || built
			}
		}
	}
}
