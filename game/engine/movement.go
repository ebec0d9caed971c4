package engine

import "fmt"

// MoveCurrentPlayer advances the current participant by steps.
// Jailed participants cannot move. Landing effects are not applied.
func (e *GameEngine) MoveCurrentPlayer(steps int) (MoveResult, error) {
	if e.phase == PhaseGameOver {
		return MoveResult{}, ErrGameOver
	}
	p := e.currentPlayer()
	if p == nil {
		return MoveResult{}, ErrUnknownParticipant
	}
	if p.InJail {
		return MoveResult{}, ErrInJail
	}
	return e.moveBy(p, steps), nil
}

// moveBy moves a participant forward (or backward for negative steps).
// Reaching or crossing GO going forward credits the bonus exactly once.
func (e *GameEngine) moveBy(p *Player, steps int) MoveResult {
	from := p.Position
	p.Move(steps, e.board.Len())
	passedGo := steps > 0 && from+steps >= e.board.Len()
	return e.finishMove(p, from, passedGo)
}

// teleport places a participant on a position. Wrapping backwards means GO was passed.
func (e *GameEngine) teleport(p *Player, position int) MoveResult {
	from := p.Position
	p.Teleport(position)
	passedGo := p.Position < from
	return e.finishMove(p, from, passedGo)
}

func (e *GameEngine) finishMove(p *Player, from int, passedGo bool) MoveResult {
	if passedGo {
		p.AddMoney(e.config.PassGoAmount)
	}
	result := MoveResult{
		PlayerID: p.ID,
		From:     from,
		To:       p.Position,
		Tile:     e.board.TileAt(p.Position),
		PassedGo: passedGo,
	}
	e.emit(Moved{PlayerID: p.ID, From: from, To: p.Position, PassedGo: passedGo})
	if passedGo {
		e.emit(PassedGo{PlayerID: p.ID, Amount: e.config.PassGoAmount})
	}
	return result
}

// SendToJail jails a participant. Unknown ids are ignored.
func (e *GameEngine) SendToJail(playerID string) {
	if p := e.player(playerID); p != nil && !p.Bankrupt {
		e.jail(p, JailReasonDirect)
	}
}

// jail never credits the pass-GO bonus
func (e *GameEngine) jail(p *Player, reason JailReason) {
	p.Position = JailPosition
	p.InJail = true
	p.JailTurns = 0
	p.ConsecutiveDoubles = 0
	if e.pendingPurchase != nil && e.pendingPurchase.PlayerID == p.ID {
		e.pendingPurchase = nil
	}
	e.emit(Jailed{PlayerID: p.ID, Reason: reason})
}

// ReleaseFromJail frees a jailed participant without payment. Unknown ids are ignored.
func (e *GameEngine) ReleaseFromJail(playerID string) {
	if p := e.player(playerID); p != nil && p.InJail {
		e.release(p, ReleaseDirect)
	}
}

func (e *GameEngine) release(p *Player, reason ReleaseReason) {
	p.InJail = false
	p.JailTurns = 0
	e.emit(Released{PlayerID: p.ID, Reason: reason})
}

// PayBail pays the bail amount and leaves jail immediately
func (e *GameEngine) PayBail(playerID string) error {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return err
	}
	if !p.InJail {
		return ErrNotInJail
	}
	if !p.DeductMoney(e.config.BailAmount, RejectOverdraft) {
		return fmt.Errorf("%w: bail is %d", ErrInsufficientFunds, e.config.BailAmount)
	}
	e.emit(BailPaid{PlayerID: p.ID, Amount: e.config.BailAmount})
	e.release(p, ReleaseBail)
	return nil
}

// UseJailFreeCard consumes a held token and returns it to its deck
func (e *GameEngine) UseJailFreeCard(playerID string) error {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return err
	}
	if !p.InJail {
		return ErrNotInJail
	}
	card, ok := p.takeJailFreeCard()
	if !ok {
		return ErrNoJailFreeCard
	}
	e.returnCard(card)
	e.release(p, ReleaseJailFree)
	return nil
}

func (e *GameEngine) returnCard(card Card) {
	if deck, ok := e.decks[card.Deck]; ok {
		deck.Return(card)
	}
}
