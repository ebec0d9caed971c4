package engine

import (
	"encoding/json"
	"fmt"
)

// DeckKind tags the two independent card decks
type DeckKind string

const (
	DeckChance         DeckKind = "chance"
	DeckCommunityChest DeckKind = "community_chest"
)

// ActionKind is the discriminator of a card action
type ActionKind string

const (
	ActionMoveTo            ActionKind = "MOVE_TO"
	ActionMoveRelative      ActionKind = "MOVE_RELATIVE"
	ActionPay               ActionKind = "PAY"
	ActionCollect           ActionKind = "COLLECT"
	ActionPayPerImprovement ActionKind = "PAY_PER_IMPROVEMENT"
	ActionCollectFromAll    ActionKind = "COLLECT_FROM_PLAYERS"
	ActionPayToAll          ActionKind = "PAY_TO_PLAYERS"
	ActionJailFree          ActionKind = "GET_OUT_OF_JAIL_FREE"
	ActionGoToJail          ActionKind = "GO_TO_JAIL"
	ActionGoBack            ActionKind = "GO_BACK"
)

// Action is the closed set of card effects. Only types in this package implement it.
type Action interface {
	Kind() ActionKind
	isAction()
}

// MoveTo moves the drawer to an absolute board position.
type MoveTo struct {
	Position int `json:"position"`
}

// MoveRelative moves the drawer a number of steps forward.
type MoveRelative struct {
	Steps int `json:"steps"`
}

// Pay debits a fixed amount to the bank.
type Pay struct {
	Amount int `json:"amount"`
}

// Collect credits a fixed amount from the bank.
type Collect struct {
	Amount int `json:"amount"`
}

// PayPerImprovement charges for every house and hotel the drawer owns.
type PayPerImprovement struct {
	PerHouse int `json:"per_house"`
	PerHotel int `json:"per_hotel"`
}

// CollectFromAll takes a fixed amount from every other active participant.
type CollectFromAll struct {
	Amount int `json:"amount"`
}

// PayToAll pays a fixed amount to every other active participant.
type PayToAll struct {
	Amount int `json:"amount"`
}

// JailFree is kept by the drawer until used.
type JailFree struct{}

// GoToJail sends the drawer straight to jail.
type GoToJail struct{}

// GoBack moves the drawer backwards. It never credits the pass-GO bonus.
type GoBack struct {
	Spaces int `json:"spaces"`
}

func (MoveTo) Kind() ActionKind            { return ActionMoveTo }
func (MoveRelative) Kind() ActionKind      { return ActionMoveRelative }
func (Pay) Kind() ActionKind               { return ActionPay }
func (Collect) Kind() ActionKind           { return ActionCollect }
func (PayPerImprovement) Kind() ActionKind { return ActionPayPerImprovement }
func (CollectFromAll) Kind() ActionKind    { return ActionCollectFromAll }
func (PayToAll) Kind() ActionKind          { return ActionPayToAll }
func (JailFree) Kind() ActionKind          { return ActionJailFree }
func (GoToJail) Kind() ActionKind          { return ActionGoToJail }
func (GoBack) Kind() ActionKind            { return ActionGoBack }

func (MoveTo) isAction()            {}
func (MoveRelative) isAction()      {}
func (Pay) isAction()               {}
func (Collect) isAction()           {}
func (PayPerImprovement) isAction() {}
func (CollectFromAll) isAction()    {}
func (PayToAll) isAction()          {}
func (JailFree) isAction()          {}
func (GoToJail) isAction()          {}
func (GoBack) isAction()            {}

// Card is an immutable chance or community chest card
type Card struct {
	ID          int      `json:"id"`
	Deck        DeckKind `json:"deck"`
	Description string   `json:"description"`
	Action      Action   `json:"action"`
}

// IsJailFree reports whether the card is held instead of discarded
func (c Card) IsJailFree() bool {
	_, ok := c.Action.(JailFree)
	return ok
}

// MarshalJSON flattens the action payload next to its type tag
func (c Card) MarshalJSON() ([]byte, error) {
	action := map[string]interface{}{}
	if c.Action != nil {
		payload, err := json.Marshal(c.Action)
		if err != nil {
			return nil, fmt.Errorf("marshal card %d action: %w", c.ID, err)
		}
		if err := json.Unmarshal(payload, &action); err != nil {
			return nil, fmt.Errorf("marshal card %d action: %w", c.ID, err)
		}
		action["type"] = c.Action.Kind()
	}

	type cardJSON struct {
		ID          int                    `json:"id"`
		Deck        DeckKind               `json:"deck"`
		Description string                 `json:"description"`
		Action      map[string]interface{} `json:"action"`
	}
	return json.Marshal(cardJSON{
		ID:          c.ID,
		Deck:        c.Deck,
		Description: c.Description,
		Action:      action,
	})
}

// UnmarshalJSON restores the action from its type tag
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int             `json:"id"`
		Deck        DeckKind        `json:"deck"`
		Description string          `json:"description"`
		Action      json.RawMessage `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Card{ID: raw.ID, Deck: raw.Deck, Description: raw.Description}
	if len(raw.Action) == 0 || string(raw.Action) == "null" || string(raw.Action) == "{}" {
		return nil
	}

	var tag struct {
		Type ActionKind `json:"type"`
	}
	if err := json.Unmarshal(raw.Action, &tag); err != nil {
		return fmt.Errorf("unmarshal card %d action: %w", raw.ID, err)
	}

	var action Action
	var err error
	switch tag.Type {
	case ActionMoveTo:
		action, err = decodeAction[MoveTo](raw.Action)
	case ActionMoveRelative:
		action, err = decodeAction[MoveRelative](raw.Action)
	case ActionPay:
		action, err = decodeAction[Pay](raw.Action)
	case ActionCollect:
		action, err = decodeAction[Collect](raw.Action)
	case ActionPayPerImprovement:
		action, err = decodeAction[PayPerImprovement](raw.Action)
	case ActionCollectFromAll:
		action, err = decodeAction[CollectFromAll](raw.Action)
	case ActionPayToAll:
		action, err = decodeAction[PayToAll](raw.Action)
	case ActionJailFree:
		action = JailFree{}
	case ActionGoToJail:
		action = GoToJail{}
	case ActionGoBack:
		action, err = decodeAction[GoBack](raw.Action)
	default:
		return fmt.Errorf("card %d: unknown action type %q", raw.ID, tag.Type)
	}
	if err != nil {
		return fmt.Errorf("unmarshal card %d action: %w", raw.ID, err)
	}
	c.Action = action
	return nil
}

func decodeAction[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ChanceCards returns the classic 16-card chance deck
func ChanceCards() []Card {
	chance := func(id int, desc string, action Action) Card {
		return Card{ID: id, Deck: DeckChance, Description: desc, Action: action}
	}
	return []Card{
		chance(1, "Advance to GO (Collect $200)", MoveTo{Position: 0}),
		chance(2, "Advance to Illinois Avenue", MoveTo{Position: 24}),
		chance(3, "Advance to St. Charles Place", MoveTo{Position: 11}),
		chance(4, "Advance token to nearest Utility", MoveTo{Position: 12}),
		chance(5, "Advance token to nearest Railroad", MoveTo{Position: 5}),
		chance(6, "Bank pays you dividend of $50", Collect{Amount: 50}),
		chance(7, "Get Out of Jail Free", JailFree{}),
		chance(8, "Go Back 3 Spaces", GoBack{Spaces: 3}),
		chance(9, "Go to Jail", GoToJail{}),
		chance(10, "Make general repairs on all your property ($25 per house, $100 per hotel)", PayPerImprovement{PerHouse: 25, PerHotel: 100}),
		chance(11, "Pay poor tax of $15", Pay{Amount: 15}),
		chance(12, "Take a trip to Reading Railroad", MoveTo{Position: 5}),
		chance(13, "Take a walk on the Boardwalk", MoveTo{Position: 39}),
		chance(14, "You have been elected Chairman of the Board (Pay each player $50)", PayToAll{Amount: 50}),
		chance(15, "Your building loan matures (Collect $150)", Collect{Amount: 150}),
		chance(16, "You have won a crossword competition (Collect $100)", Collect{Amount: 100}),
	}
}

// CommunityChestCards returns the classic 17-card community chest deck
func CommunityChestCards() []Card {
	chest := func(id int, desc string, action Action) Card {
		return Card{ID: id, Deck: DeckCommunityChest, Description: desc, Action: action}
	}
	return []Card{
		chest(101, "Advance to GO (Collect $200)", MoveTo{Position: 0}),
		chest(102, "Bank error in your favor (Collect $200)", Collect{Amount: 200}),
		chest(103, "Doctor's fees (Pay $50)", Pay{Amount: 50}),
		chest(104, "From sale of stock you get $50", Collect{Amount: 50}),
		chest(105, "Get Out of Jail Free", JailFree{}),
		chest(106, "Go to Jail", GoToJail{}),
		chest(107, "Grand Opera Night (Collect $50 from every player)", CollectFromAll{Amount: 50}),
		chest(108, "Holiday Fund matures (Receive $100)", Collect{Amount: 100}),
		chest(109, "Income tax refund (Collect $20)", Collect{Amount: 20}),
		chest(110, "It is your birthday (Collect $10 from each player)", CollectFromAll{Amount: 10}),
		chest(111, "Life insurance matures (Collect $100)", Collect{Amount: 100}),
		chest(112, "Hospital fees (Pay $100)", Pay{Amount: 100}),
		chest(113, "School fees (Pay $150)", Pay{Amount: 150}),
		chest(114, "Receive $25 consultancy fee", Collect{Amount: 25}),
		chest(115, "You are assessed for street repairs ($40 per house, $115 per hotel)", PayPerImprovement{PerHouse: 40, PerHotel: 115}),
		chest(116, "You have won second prize in a beauty contest (Collect $10)", Collect{Amount: 10}),
		chest(117, "You inherit $100", Collect{Amount: 100}),
	}
}

// ValidateDeck checks a card list before it is handed to a deck
func ValidateDeck(kind DeckKind, cards []Card, board *Board) error {
	if len(cards) == 0 {
		return fmt.Errorf("deck validation: %s deck has no cards", kind)
	}
	seen := make(map[int]bool, len(cards))
	for _, card := range cards {
		if seen[card.ID] {
			return fmt.Errorf("deck validation: %s deck has duplicate card id %d", kind, card.ID)
		}
		seen[card.ID] = true

		if card.Deck != kind {
			return fmt.Errorf("deck validation: card %d is tagged %q but placed in %s deck", card.ID, card.Deck, kind)
		}

		switch a := card.Action.(type) {
		case nil:
			return fmt.Errorf("deck validation: card %d has no action", card.ID)
		case MoveTo:
			if a.Position < 0 || a.Position >= board.Len() {
				return fmt.Errorf("deck validation: card %d moves to position %d outside the board", card.ID, a.Position)
			}
		case MoveRelative:
			if a.Steps <= 0 {
				return fmt.Errorf("deck validation: card %d has non-positive relative move %d", card.ID, a.Steps)
			}
		case GoBack:
			if a.Spaces <= 0 {
				return fmt.Errorf("deck validation: card %d goes back %d spaces", card.ID, a.Spaces)
			}
		case Pay:
			if a.Amount < 0 {
				return fmt.Errorf("deck validation: card %d has negative amount", card.ID)
			}
		case Collect:
			if a.Amount < 0 {
				return fmt.Errorf("deck validation: card %d has negative amount", card.ID)
			}
		case CollectFromAll:
			if a.Amount < 0 {
				return fmt.Errorf("deck validation: card %d has negative amount", card.ID)
			}
		case PayToAll:
			if a.Amount < 0 {
				return fmt.Errorf("deck validation: card %d has negative amount", card.ID)
			}
		case PayPerImprovement:
			if a.PerHouse < 0 || a.PerHotel < 0 {
				return fmt.Errorf("deck validation: card %d has negative repair cost", card.ID)
			}
		}
	}
	return nil
}
