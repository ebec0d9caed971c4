package engine

import (
	"fmt"
	"testing"
)

func collectCards(kind DeckKind, n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{ID: i + 1, Deck: kind, Description: fmt.Sprintf("Collect $%d", i+1), Action: Collect{Amount: i + 1}}
	}
	return cards
}

func TestClassicDeckSizes(t *testing.T) {
	board := NewBoard()
	if got := len(ChanceCards()); got != 16 {
		t.Errorf("Expected 16 chance cards, got %d", got)
	}
	if got := len(CommunityChestCards()); got != 17 {
		t.Errorf("Expected 17 community chest cards, got %d", got)
	}
	if err := ValidateDeck(DeckChance, ChanceCards(), board); err != nil {
		t.Errorf("Chance deck invalid: %v", err)
	}
	if err := ValidateDeck(DeckCommunityChest, CommunityChestCards(), board); err != nil {
		t.Errorf("Community chest deck invalid: %v", err)
	}
}

func TestDeckDrawReshufflesDiscard(t *testing.T) {
	deck := NewDeck(DeckChance, collectCards(DeckChance, 16), NewSeededSource(7))

	seen := make(map[int]bool)
	for i := 0; i < 16; i++ {
		card, ok := deck.Draw()
		if !ok {
			t.Fatalf("Draw %d failed", i+1)
		}
		if seen[card.ID] {
			t.Fatalf("Card %d drawn twice before exhaustion", card.ID)
		}
		seen[card.ID] = true
	}
	if deck.Remaining() != 0 || deck.Discarded() != 16 {
		t.Fatalf("Expected empty draw pile and 16 discards, got %d/%d", deck.Remaining(), deck.Discarded())
	}

	if _, ok := deck.Draw(); !ok {
		t.Fatal("Expected the 17th draw to succeed after reshuffle")
	}
	if deck.Remaining() != 15 || deck.Discarded() != 1 {
		t.Errorf("Expected 15 remaining and 1 discarded, got %d/%d", deck.Remaining(), deck.Discarded())
	}
}

func TestDeckHoldsJailFreeCards(t *testing.T) {
	cards := collectCards(DeckChance, 3)
	jailFree := Card{ID: 99, Deck: DeckChance, Description: "Get Out of Jail Free", Action: JailFree{}}
	cards = append(cards, jailFree)
	deck := NewDeck(DeckChance, cards, NewSeededSource(3))

	var held Card
	for i := 0; i < 4; i++ {
		card, _ := deck.Draw()
		if card.IsJailFree() {
			held = card
		}
	}
	if held.ID != 99 {
		t.Fatal("Expected to draw the jail-free card")
	}
	if deck.Discarded() != 3 {
		t.Errorf("Expected jail-free card to stay out of the discard pile, got %d discards", deck.Discarded())
	}

	// Reshuffle while the token is held: only the three other cards come back.
	for i := 0; i < 3; i++ {
		card, ok := deck.Draw()
		if !ok || card.IsJailFree() {
			t.Fatalf("Unexpected draw %+v (%v) while token is held", card, ok)
		}
	}

	deck.Return(held)
	if deck.Discarded() != 4 {
		t.Errorf("Expected returned token in discard pile, got %d", deck.Discarded())
	}
}

func TestDeckEmpty(t *testing.T) {
	deck := NewDeck(DeckChance, nil, NewSeededSource(1))
	if _, ok := deck.Draw(); ok {
		t.Error("Expected draw from an empty deck to fail")
	}
}

func TestShuffleIsUniform(t *testing.T) {
	src := NewSeededSource(11)
	counts := make(map[string]int)
	const trials = 6000

	for i := 0; i < trials; i++ {
		cards := collectCards(DeckChance, 3)
		shuffleCards(cards, src)
		counts[fmt.Sprintf("%d%d%d", cards[0].ID, cards[1].ID, cards[2].ID)]++
	}

	if len(counts) != 6 {
		t.Fatalf("Expected all 6 orderings, got %d", len(counts))
	}
	for order, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("Ordering %s drawn %d times, expected about %d", order, n, trials/6)
		}
	}
}

func TestCardJSON(t *testing.T) {
	card := Card{ID: 10, Deck: DeckChance, Description: "Repairs", Action: PayPerImprovement{PerHouse: 25, PerHotel: 100}}
	data, err := card.MarshalJSON()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"id":10,"deck":"chance","description":"Repairs","action":{"per_hotel":100,"per_house":25,"type":"PAY_PER_IMPROVEMENT"}}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
