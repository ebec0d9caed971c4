package service

import (
	"fmt"
	"strings"

	"github.com/wricardo/tycoon/game/engine"
)

// Namer resolves ids to display names for event messages
type Namer interface {
	PlayerName(id string) string
	PropertyName(id int) string
}

// Describe renders an engine event as a one-line message
func Describe(ev engine.Event, n Namer) string {
	switch e := ev.(type) {
	case engine.Moved:
		return fmt.Sprintf("%s moved from %d to %d", n.PlayerName(e.PlayerID), e.From, e.To)
	case engine.PassedGo:
		return fmt.Sprintf("%s passed GO and collected $%d", n.PlayerName(e.PlayerID), e.Amount)
	case engine.RentPaid:
		return fmt.Sprintf("%s paid $%d rent to %s for %s",
			n.PlayerName(e.PayerID), e.Amount, n.PlayerName(e.OwnerID), n.PropertyName(e.PropertyID))
	case engine.PropertyBought:
		return fmt.Sprintf("%s bought %s for $%d", n.PlayerName(e.PlayerID), n.PropertyName(e.PropertyID), e.Price)
	case engine.PurchaseDeclined:
		return fmt.Sprintf("%s passed on %s", n.PlayerName(e.PlayerID), n.PropertyName(e.PropertyID))
	case engine.Jailed:
		return fmt.Sprintf("%s went to jail (%s)", n.PlayerName(e.PlayerID), humanize(string(e.Reason)))
	case engine.Released:
		return fmt.Sprintf("%s left jail (%s)", n.PlayerName(e.PlayerID), humanize(string(e.Reason)))
	case engine.BailPaid:
		if e.Forced {
			return fmt.Sprintf("%s was forced to pay $%d bail", n.PlayerName(e.PlayerID), e.Amount)
		}
		return fmt.Sprintf("%s paid $%d bail", n.PlayerName(e.PlayerID), e.Amount)
	case engine.TaxPaid:
		return fmt.Sprintf("%s paid $%d %s tax", n.PlayerName(e.PlayerID), e.Amount, e.Tax)
	case engine.Bankrupt:
		return fmt.Sprintf("%s is bankrupt", n.PlayerName(e.PlayerID))
	case engine.ImprovementBought:
		if e.Hotel {
			return fmt.Sprintf("%s built a hotel on %s for $%d", n.PlayerName(e.PlayerID), n.PropertyName(e.PropertyID), e.Cost)
		}
		return fmt.Sprintf("%s built house %d on %s for $%d", n.PlayerName(e.PlayerID), e.Houses, n.PropertyName(e.PropertyID), e.Cost)
	case engine.CardDrawn:
		return fmt.Sprintf("%s drew %s: %s", n.PlayerName(e.PlayerID), humanize(string(e.Card.Deck)), e.Card.Description)
	case engine.TurnAdvanced:
		return fmt.Sprintf("Round %d: %s's turn", e.Round, n.PlayerName(e.PlayerID))
	case engine.GameWon:
		return fmt.Sprintf("%s wins the game!", n.PlayerName(e.PlayerID))
	default:
		return string(ev.Kind())
	}
}

// eventPlayer returns the participant an event is about
func eventPlayer(ev engine.Event) string {
	switch e := ev.(type) {
	case engine.Moved:
		return e.PlayerID
	case engine.PassedGo:
		return e.PlayerID
	case engine.RentPaid:
		return e.PayerID
	case engine.PropertyBought:
		return e.PlayerID
	case engine.PurchaseDeclined:
		return e.PlayerID
	case engine.Jailed:
		return e.PlayerID
	case engine.Released:
		return e.PlayerID
	case engine.BailPaid:
		return e.PlayerID
	case engine.TaxPaid:
		return e.PlayerID
	case engine.Bankrupt:
		return e.PlayerID
	case engine.ImprovementBought:
		return e.PlayerID
	case engine.CardDrawn:
		return e.PlayerID
	case engine.TurnAdvanced:
		return e.PlayerID
	case engine.GameWon:
		return e.PlayerID
	}
	return ""
}

func humanize(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}
