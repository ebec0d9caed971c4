package engine

import "math"

// worth is cash plus the purchase price of every held property
func (e *GameEngine) worth(p *Player) int {
	total := p.Money
	for _, id := range p.Properties {
		if prop := e.board.PropertyByID(id); prop != nil {
			total += prop.Price
		}
	}
	return total
}

// incomeTaxOptions returns the worth-percentage amount and the flat alternative
func (e *GameEngine) incomeTaxOptions(p *Player) (percent, flat int) {
	worth := e.worth(p)
	if worth < 0 {
		worth = 0
	}
	return int(math.Floor(float64(worth)*e.config.IncomeTaxRate + 1e-9)), e.config.IncomeTaxFlat
}

// settle declares bankruptcy as soon as a participant's money is negative.
// Holdings return to the unowned pool and held jail-free cards go back to their decks.
func (e *GameEngine) settle(p *Player) {
	if p.Bankrupt || p.Money >= 0 {
		return
	}

	p.MarkBankrupt()
	for _, id := range p.Properties {
		if prop := e.board.PropertyByID(id); prop != nil {
			prop.OwnerID = ""
			prop.Houses = 0
			prop.Hotel = 0
		}
	}
	p.Properties = []int{}
	for _, card := range p.JailFreeCards {
		e.returnCard(card)
	}
	p.JailFreeCards = nil
	p.InJail = false
	p.JailTurns = 0
	p.ConsecutiveDoubles = 0

	if e.pendingPurchase != nil && e.pendingPurchase.PlayerID == p.ID {
		e.pendingPurchase = nil
	}
	if e.pendingTax != nil && e.pendingTax.PlayerID == p.ID {
		e.pendingTax = nil
		e.resumePhase = ""
		if e.phase == PhaseAwaitingTaxChoice {
			e.phase = PhaseTurnComplete
		}
	}

	e.emit(Bankrupt{PlayerID: p.ID})
	e.checkWin()
}

// checkWin ends the game when exactly one participant is still solvent
func (e *GameEngine) checkWin() {
	var last *Player
	active := 0
	for _, p := range e.players {
		if !p.Bankrupt {
			active++
			last = p
		}
	}
	if active != 1 {
		return
	}

	e.winnerID = last.ID
	e.phase = PhaseGameOver
	e.pendingPurchase = nil
	e.pendingTax = nil
	e.resumePhase = ""
	e.rollAgain = false
	e.emit(GameWon{PlayerID: last.ID})
}

// ActivePlayers returns copies of the participants still in the game
func (e *GameEngine) ActivePlayers() []Player {
	var active []Player
	for _, p := range e.players {
		if !p.Bankrupt {
			active = append(active, p.clone())
		}
	}
	return active
}
