package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func chanceCard(action Action) Card {
	return Card{ID: 500, Deck: DeckChance, Description: "test card", Action: action}
}

func TestResolveCardActions(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		action    Action
		wantPos   int
		wantMoney int
		wantJail  bool
	}{
		{name: "move to GO from behind credits GO", start: 36, action: MoveTo{Position: 0}, wantPos: 0, wantMoney: 1700},
		{name: "move forward without wrap", start: 7, action: MoveTo{Position: 20}, wantPos: 20, wantMoney: 1500},
		{name: "move to reading railroad wraps", start: 36, action: MoveTo{Position: 5}, wantPos: 5, wantMoney: 1700},
		{name: "move relative forward past GO", start: 38, action: MoveRelative{Steps: 4}, wantPos: 2, wantMoney: 1710},
		{name: "go back never credits GO", start: 2, action: GoBack{Spaces: 3}, wantPos: 39, wantMoney: 1500},
		{name: "pay", start: 7, action: Pay{Amount: 15}, wantPos: 7, wantMoney: 1485},
		{name: "collect", start: 7, action: Collect{Amount: 150}, wantPos: 7, wantMoney: 1650},
		{name: "go to jail", start: 7, action: GoToJail{}, wantPos: JailPosition, wantMoney: 1500, wantJail: true},
		{name: "pass GO then land on go to jail keeps bonus", start: 36, action: MoveTo{Position: 30}, wantPos: JailPosition, wantMoney: 1700, wantJail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 3, scriptedDice())
			e.players[0].Position = tt.start

			if err := e.ResolveCardAction("1", chanceCard(tt.action)); err != nil {
				t.Fatalf("ResolveCardAction failed: %v", err)
			}
			p, _ := e.Player("1")
			if p.Position != tt.wantPos {
				t.Errorf("Expected position %d, got %d", tt.wantPos, p.Position)
			}
			if p.Money != tt.wantMoney {
				t.Errorf("Expected money %d, got %d", tt.wantMoney, p.Money)
			}
			if p.InJail != tt.wantJail {
				t.Errorf("Expected in jail %v, got %v", tt.wantJail, p.InJail)
			}
		})
	}
}

func TestCardMoneyBetweenPlayers(t *testing.T) {
	e := newTestEngine(t, 3, scriptedDice())

	if err := e.ResolveCardAction("1", chanceCard(PayToAll{Amount: 50})); err != nil {
		t.Fatal(err)
	}
	if err := e.ResolveCardAction("2", Card{ID: 600, Deck: DeckCommunityChest, Description: "birthday", Action: CollectFromAll{Amount: 10}}); err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"1": 1500 - 100 - 10, "2": 1550 + 20, "3": 1550 - 10}
	for id, money := range want {
		p, _ := e.Player(id)
		if p.Money != money {
			t.Errorf("Player %s: expected %d, got %d", id, money, p.Money)
		}
	}
}

func TestCardSkipsBankruptPlayers(t *testing.T) {
	e := newTestEngine(t, 3, scriptedDice())
	e.players[2].Money = -5
	e.settle(e.players[2])

	if err := e.ResolveCardAction("1", chanceCard(CollectFromAll{Amount: 50})); err != nil {
		t.Fatal(err)
	}
	p, _ := e.Player("1")
	if p.Money != 1550 {
		t.Errorf("Expected only one active payer, got money %d", p.Money)
	}
}

func TestPayPerImprovement(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())
	give(e, "1", 1, 3, 6)
	e.board.PropertyByID(1).Houses = 2
	e.board.PropertyByID(3).Hotel = 1

	if err := e.ResolveCardAction("1", chanceCard(PayPerImprovement{PerHouse: 25, PerHotel: 100})); err != nil {
		t.Fatal(err)
	}
	p, _ := e.Player("1")
	if p.Money != 1500-150 {
		t.Errorf("Expected 1350, got %d", p.Money)
	}
}

func TestJailFreeCardLifecycle(t *testing.T) {
	jailFree := Card{ID: 7, Deck: DeckChance, Description: "Get Out of Jail Free", Action: JailFree{}}
	e := newTestEngine(t, 2, scriptedDice(), WithCards(DeckChance, []Card{jailFree}))

	card, ok := e.DrawCard(DeckChance)
	if !ok || !card.IsJailFree() {
		t.Fatalf("Expected jail-free card, got %+v", card)
	}
	if err := e.ResolveCardAction("1", card); err != nil {
		t.Fatal(err)
	}
	p, _ := e.Player("1")
	if p.JailFreeCount() != 1 {
		t.Fatalf("Expected one held token, got %d", p.JailFreeCount())
	}
	if p.InJail {
		t.Error("Granting a token must not jail the participant")
	}

	if _, ok := e.DrawCard(DeckChance); ok {
		t.Error("Expected deck to be empty while the only card is held")
	}

	if err := e.UseJailFreeCard("1"); !errors.Is(err, ErrNotInJail) {
		t.Errorf("Expected ErrNotInJail, got %v", err)
	}
	e.SendToJail("1")
	if err := e.UseJailFreeCard("1"); err != nil {
		t.Fatalf("UseJailFreeCard failed: %v", err)
	}
	p, _ = e.Player("1")
	if p.InJail || p.JailFreeCount() != 0 {
		t.Errorf("Expected released without tokens, got %+v", p)
	}
	if _, ok := e.DrawCard(DeckChance); !ok {
		t.Error("Expected the returned token to be drawable again")
	}

	e.SendToJail("1")
	if err := e.UseJailFreeCard("1"); !errors.Is(err, ErrNoJailFreeCard) {
		t.Errorf("Expected ErrNoJailFreeCard, got %v", err)
	}
}

func TestBankruptcyReturnsHeldTokens(t *testing.T) {
	jailFree := Card{ID: 7, Deck: DeckChance, Description: "Get Out of Jail Free", Action: JailFree{}}
	e := newTestEngine(t, 3, scriptedDice(), WithCards(DeckChance, []Card{jailFree}))

	card, _ := e.DrawCard(DeckChance)
	if err := e.ResolveCardAction("2", card); err != nil {
		t.Fatal(err)
	}
	if err := e.ResolveCardAction("2", chanceCard(Pay{Amount: 5000})); err != nil {
		t.Fatal(err)
	}

	p, _ := e.Player("2")
	if !p.Bankrupt || p.JailFreeCount() != 0 {
		t.Fatalf("Expected bankrupt without tokens, got %+v", p)
	}
	if e.decks[DeckChance].Discarded() != 1 {
		t.Errorf("Expected token back in the discard pile, got %d", e.decks[DeckChance].Discarded())
	}
}

func TestCardOntoIncomeTaxOpensChoice(t *testing.T) {
	e := newTestEngine(t, 3, scriptedDice([2]int{1, 2}))

	if _, err := e.Roll(); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if e.Phase() != PhaseTurnComplete {
		t.Fatalf("Expected turn_complete after landing on Baltic, got %s", e.Phase())
	}

	if err := e.ResolveCardAction("1", chanceCard(MoveTo{Position: 4})); err != nil {
		t.Fatalf("ResolveCardAction failed: %v", err)
	}
	if e.Phase() != PhaseAwaitingTaxChoice {
		t.Fatalf("Expected awaiting_tax_choice, got %s", e.Phase())
	}
	choice, ok := e.PendingTax()
	if !ok || choice.PlayerID != "1" || choice.PercentAmount != 150 || choice.FlatAmount != 200 {
		t.Fatalf("Unexpected tax choice %+v", choice)
	}

	if err := e.AdvanceTurn(); !errors.Is(err, ErrDecisionPending) {
		t.Fatalf("Expected ErrDecisionPending, got %v", err)
	}
	if cur, _ := e.CurrentPlayer(); cur.ID != "1" {
		t.Fatalf("Expected the turn to stay with P1, got %s", cur.ID)
	}

	if _, err := e.ChooseTax("1", false); err != nil {
		t.Fatalf("ChooseTax failed: %v", err)
	}
	p, _ := e.Player("1")
	if p.Money != 1300 || p.Position != 4 {
		t.Errorf("Expected $1300 at position 4, got $%d at %d", p.Money, p.Position)
	}
	if e.Phase() != PhaseTurnComplete {
		t.Fatalf("Expected turn_complete after paying, got %s", e.Phase())
	}

	if err := e.AdvanceTurn(); err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	if cur, _ := e.CurrentPlayer(); cur.ID != "2" {
		t.Errorf("Expected P2 to be current, got %s", cur.ID)
	}
	if _, ok := e.PendingTax(); ok {
		t.Error("Expected no tax choice to carry over to P2")
	}
}

func TestCardTaxChoiceBeforeRollKeepsRoll(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice([2]int{1, 2}))

	if err := e.ResolveCardAction("1", chanceCard(MoveTo{Position: 4})); err != nil {
		t.Fatalf("ResolveCardAction failed: %v", err)
	}
	if _, err := e.Roll(); err == nil {
		t.Fatal("Expected rolling to be refused while the tax choice is open")
	}
	if _, err := e.ChooseTax("1", true); err != nil {
		t.Fatalf("ChooseTax failed: %v", err)
	}
	if e.Phase() != PhaseAwaitingRoll {
		t.Fatalf("Expected awaiting_roll once the tax is paid, got %s", e.Phase())
	}

	res, err := e.Roll()
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.Roll.Total != 3 {
		t.Errorf("Expected the scripted roll of 3, got %d", res.Roll.Total)
	}
}

func TestCardResolutionLeavesDiceAlone(t *testing.T) {
	dice := scriptedDice([2]int{3, 4}, [2]int{1, 2})
	e := newTestEngine(t, 2, dice)

	if err := e.ResolveCardAction("1", chanceCard(Collect{Amount: 10})); err != nil {
		t.Fatal(err)
	}
	if dice.pos != 0 {
		t.Fatalf("Expected no dice drawn for a plain card, used %d values", dice.pos)
	}

	give(e, "2", 12)
	e.players[0].Position = 7
	if err := e.ResolveCardAction("1", chanceCard(MoveTo{Position: 12})); err != nil {
		t.Fatal(err)
	}
	p, _ := e.Player("1")
	if p.Money != 1510-28 {
		t.Errorf("Expected utility rent of 4x7, got money %d", p.Money)
	}
	if dice.pos != 2 {
		t.Errorf("Expected one roll for the utility rent, used %d values", dice.pos)
	}
}

func TestCardJSONRestoresActions(t *testing.T) {
	cards := append(ChanceCards(), CommunityChestCards()...)
	data, err := json.Marshal(cards)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded []Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for i := range cards {
		if decoded[i] != cards[i] {
			t.Errorf("Card %d: expected %+v, got %+v", cards[i].ID, cards[i], decoded[i])
		}
	}

	var bad Card
	if err := json.Unmarshal([]byte(`{"id":1,"action":{"type":"TELEPORT"}}`), &bad); err == nil {
		t.Error("Expected error for unknown action type")
	}
}
