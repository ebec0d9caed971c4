package engine

// Roll plays one roll of the current participant's turn: jail handling,
// the doubles rule, movement and landing resolution.
func (e *GameEngine) Roll() (TurnResult, error) {
	switch e.phase {
	case PhaseGameOver:
		return TurnResult{}, ErrGameOver
	case PhaseAwaitingTaxChoice:
		return TurnResult{}, ErrDecisionPending
	case PhaseTurnComplete:
		return TurnResult{}, ErrRollNotAllowed
	}
	p := e.currentPlayer()
	if p == nil {
		return TurnResult{}, ErrUnknownParticipant
	}

	// An unanswered purchase offer lapses once the participant rolls again.
	e.dropOffer()
	e.rollAgain = false

	roll := e.RollDice()
	e.lastRoll = &roll
	res := TurnResult{PlayerID: p.ID, Roll: roll}
	wasJailed := p.InJail

	switch {
	case p.InJail:
		e.rollFromJail(p, roll, &res)
	case roll.IsDouble && p.ConsecutiveDoubles+1 >= MaxConsecutiveDoubles:
		res.JailStatus = JailStatusThreeDouble
		e.jail(p, JailReasonThreeDoubles)
	default:
		if roll.IsDouble {
			p.ConsecutiveDoubles++
		} else {
			p.ConsecutiveDoubles = 0
		}
		e.moveAndResolve(p, roll, &res)
		e.rollAgain = roll.IsDouble && !p.InJail && !p.Bankrupt
	}

	res.Jailed = !wasJailed && p.InJail
	e.finishRoll(p, &res)
	return res, nil
}

// rollFromJail handles a roll made from jail. Escaping on doubles moves by
// the roll but never earns an extra roll.
func (e *GameEngine) rollFromJail(p *Player, roll DiceRoll, res *TurnResult) {
	if roll.IsDouble {
		res.JailStatus = JailStatusEscaped
		e.release(p, ReleaseDoubles)
		e.moveAndResolve(p, roll, res)
		return
	}
	if p.JailTurns < MaxJailAttempts-1 {
		p.JailTurns++
		res.JailStatus = JailStatusStillInJail
		return
	}

	// Third failed attempt: bail is forced and the participant stays put this turn.
	res.JailStatus = JailStatusForcedBail
	p.DeductMoney(e.config.BailAmount, AllowOverdraft)
	e.emit(BailPaid{PlayerID: p.ID, Amount: e.config.BailAmount, Forced: true})
	e.release(p, ReleaseForcedBail)
	e.settle(p)
}

func (e *GameEngine) moveAndResolve(p *Player, roll DiceRoll, res *TurnResult) {
	move := e.moveBy(p, roll.Total)
	res.Move = &move
	e.resolveLanding(p, roll.Total, 0, res)
}

func (e *GameEngine) finishRoll(p *Player, res *TurnResult) {
	switch {
	case e.phase == PhaseGameOver:
	case e.pendingTax != nil:
		e.phase = PhaseAwaitingTaxChoice
	case e.rollAgain:
		e.phase = PhaseAwaitingRoll
	default:
		e.phase = PhaseTurnComplete
	}

	if e.pendingPurchase != nil {
		offer := *e.pendingPurchase
		res.Offer = &offer
	}
	if e.pendingTax != nil {
		choice := *e.pendingTax
		res.TaxChoice = &choice
	}
	res.Bankrupt = p.Bankrupt
	res.RollAgain = e.rollAgain && e.phase != PhaseGameOver
	res.Phase = e.phase
}

// resolveLanding applies the effect of the tile the participant stands on
func (e *GameEngine) resolveLanding(p *Player, diceTotal, depth int, res *TurnResult) {
	if depth > maxLandingDepth || p.Bankrupt || p.InJail || e.phase == PhaseGameOver {
		return
	}

	tile := e.board.tile(p.Position)
	switch tile.Kind {
	case TileGoToJail:
		e.jail(p, JailReasonTile)

	case TileTax:
		if tile.Tax == TaxIncome {
			percent, flat := e.incomeTaxOptions(p)
			e.pendingTax = &TaxChoice{
				PlayerID:      p.ID,
				Position:      tile.Position,
				Worth:         e.worth(p),
				PercentAmount: percent,
				FlatAmount:    flat,
			}
			return
		}
		if amount, err := e.ApplyTax(p.ID, tile.Position, false); err == nil {
			res.TaxPaid += amount
		}

	case TileChance:
		e.drawAndResolve(p, DeckChance, diceTotal, depth, res)

	case TileCommunityChest:
		e.drawAndResolve(p, DeckCommunityChest, diceTotal, depth, res)

	case TileProperty:
		prop := tile.Property
		switch {
		case !prop.IsOwned():
			e.pendingPurchase = &PurchaseOffer{
				PlayerID:   p.ID,
				PropertyID: prop.ID,
				Name:       prop.Name,
				Price:      prop.Price,
			}
		case prop.OwnerID != p.ID:
			if prop.Group == GroupUtility && diceTotal == 0 {
				diceTotal = e.RollDice().Total
			}
			if rent, err := e.PayRent(p.ID, prop.ID, diceTotal); err == nil {
				res.RentPaid += rent
			}
		}
	}
}

func (e *GameEngine) drawAndResolve(p *Player, kind DeckKind, diceTotal, depth int, res *TurnResult) {
	card, ok := e.DrawCard(kind)
	if !ok {
		return
	}
	e.resolveCard(p, card, diceTotal, depth, res)
}

// resolveCard applies a card's action. Movement cards resolve the destination tile.
func (e *GameEngine) resolveCard(p *Player, card Card, diceTotal, depth int, res *TurnResult) {
	res.Cards = append(res.Cards, card)
	e.emit(CardDrawn{PlayerID: p.ID, Card: card})

	switch a := card.Action.(type) {
	case MoveTo:
		e.teleport(p, a.Position)
		e.resolveLanding(p, diceTotal, depth+1, res)

	case MoveRelative:
		e.moveBy(p, a.Steps)
		e.resolveLanding(p, diceTotal, depth+1, res)

	case GoBack:
		e.moveBy(p, -a.Spaces)
		e.resolveLanding(p, diceTotal, depth+1, res)

	case Pay:
		p.DeductMoney(a.Amount, AllowOverdraft)
		e.settle(p)

	case Collect:
		p.AddMoney(a.Amount)

	case PayPerImprovement:
		total := 0
		for _, id := range p.Properties {
			if prop := e.board.PropertyByID(id); prop != nil {
				total += prop.Houses*a.PerHouse + prop.Hotel*a.PerHotel
			}
		}
		p.DeductMoney(total, AllowOverdraft)
		e.settle(p)

	case CollectFromAll:
		for _, other := range e.players {
			if other == p || other.Bankrupt {
				continue
			}
			other.DeductMoney(a.Amount, AllowOverdraft)
			p.AddMoney(a.Amount)
			e.settle(other)
			if e.phase == PhaseGameOver {
				break
			}
		}

	case PayToAll:
		for _, other := range e.players {
			if other == p || other.Bankrupt {
				continue
			}
			p.DeductMoney(a.Amount, AllowOverdraft)
			other.AddMoney(a.Amount)
		}
		e.settle(p)

	case JailFree:
		p.JailFreeCards = append(p.JailFreeCards, card)

	case GoToJail:
		e.jail(p, JailReasonCard)
	}
}

// ChooseTax settles the pending income-tax choice
func (e *GameEngine) ChooseTax(playerID string, percent bool) (int, error) {
	if e.phase == PhaseGameOver {
		return 0, ErrGameOver
	}
	if e.pendingTax == nil {
		return 0, ErrNoPendingDecision
	}
	if e.pendingTax.PlayerID != playerID {
		return 0, ErrNotYourTurn
	}

	choice := *e.pendingTax
	e.pendingTax = nil
	amount, err := e.ApplyTax(playerID, choice.Position, percent)
	if err != nil {
		e.pendingTax = &choice
		return 0, err
	}

	resume := e.resumePhase
	e.resumePhase = ""
	if e.phase != PhaseGameOver {
		p := e.player(playerID)
		switch {
		case resume != "" && p != nil && !p.Bankrupt:
			e.phase = resume
		case e.rollAgain && p != nil && !p.Bankrupt:
			e.phase = PhaseAwaitingRoll
		default:
			e.phase = PhaseTurnComplete
		}
	}
	return amount, nil
}

// AdvanceTurn hands the turn to the next non-bankrupt participant,
// incrementing the round when the seat index wraps to zero.
func (e *GameEngine) AdvanceTurn() error {
	if e.phase == PhaseGameOver {
		return ErrGameOver
	}
	if e.pendingTax != nil {
		return ErrDecisionPending
	}
	cur := e.currentPlayer()
	if e.phase == PhaseAwaitingRoll && cur != nil && !cur.Bankrupt {
		return ErrTurnNotComplete
	}

	if cur != nil {
		cur.ConsecutiveDoubles = 0
	}
	e.dropOffer()
	e.rollAgain = false
	e.lastRoll = nil

	n := len(e.players)
	for i := 0; i < n; i++ {
		e.current = (e.current + 1) % n
		if e.current == 0 {
			e.round++
		}
		if !e.players[e.current].Bankrupt {
			break
		}
	}

	e.phase = PhaseAwaitingRoll
	e.emit(TurnAdvanced{PlayerID: e.players[e.current].ID, Round: e.round})
	return nil
}
