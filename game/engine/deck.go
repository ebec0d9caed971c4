package engine

// Deck is a shuffled draw pile with a discard pile.
// Jail-free cards leave the cycle while a participant holds them.
type Deck struct {
	kind    DeckKind
	cards   []Card
	discard []Card
	src     Source
}

// NewDeck creates a deck from a copy of cards and shuffles it
func NewDeck(kind DeckKind, cards []Card, src Source) *Deck {
	d := &Deck{
		kind:  kind,
		cards: append([]Card{}, cards...),
		src:   src,
	}
	shuffleCards(d.cards, src)
	return d
}

// Kind returns the deck tag
func (d *Deck) Kind() DeckKind {
	return d.kind
}

// Draw pops the top card. An empty draw pile is rebuilt from the shuffled
// discard pile first. It returns false only when both piles are empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		d.cards = d.discard
		d.discard = nil
		shuffleCards(d.cards, d.src)
	}
	if len(d.cards) == 0 {
		return Card{}, false
	}

	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]

	if !card.IsJailFree() {
		d.discard = append(d.discard, card)
	}
	return card, true
}

// Return puts a consumed jail-free card back on the discard pile
func (d *Deck) Return(card Card) {
	d.discard = append(d.discard, card)
}

// Remaining returns the number of cards left in the draw pile
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Discarded returns the number of cards in the discard pile
func (d *Deck) Discarded() int {
	return len(d.discard)
}

// shuffleCards is an in-place Fisher-Yates shuffle
func shuffleCards(cards []Card, src Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
