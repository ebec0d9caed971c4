package engine

// DebitMode controls whether DeductMoney may leave a negative balance
type DebitMode int

const (
	// RejectOverdraft refuses any deduction that would go below zero.
	RejectOverdraft DebitMode = iota
	// AllowOverdraft is used for rent, tax and card charges where a negative
	// balance triggers bankruptcy instead of a rejection.
	AllowOverdraft
)

// Player is the mutable state of one participant
type Player struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Money              int    `json:"money"`
	Position           int    `json:"position"`
	Properties         []int  `json:"properties"`
	InJail             bool   `json:"in_jail"`
	JailTurns          int    `json:"jail_turns"`
	ConsecutiveDoubles int    `json:"consecutive_doubles"`
	Bankrupt           bool   `json:"bankrupt"`
	JailFreeCards      []Card `json:"jail_free_cards,omitempty"`
}

// NewPlayer creates a participant at GO with the given starting money
func NewPlayer(id, name string, money int) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Money:      money,
		Properties: []int{},
	}
}

// AddMoney credits the participant
func (p *Player) AddMoney(amount int) {
	p.Money += amount
}

// DeductMoney debits the participant and reports whether the debit happened
func (p *Player) DeductMoney(amount int, mode DebitMode) bool {
	if mode == RejectOverdraft && p.Money < amount {
		return false
	}
	p.Money -= amount
	return true
}

// Move advances the participant around a ring of boardSize tiles
func (p *Player) Move(steps, boardSize int) {
	p.Position = normalizePosition(p.Position+steps, boardSize)
}

// Teleport places the participant directly on a position
func (p *Player) Teleport(position int) {
	p.Position = normalizePosition(position, BoardSize)
}

// MarkBankrupt flags the participant as out of the game. It cannot be undone.
func (p *Player) MarkBankrupt() {
	p.Bankrupt = true
}

// Owns reports whether the participant holds the property
func (p *Player) Owns(propertyID int) bool {
	for _, id := range p.Properties {
		if id == propertyID {
			return true
		}
	}
	return false
}

// JailFreeCount returns how many jail-free tokens the participant holds
func (p *Player) JailFreeCount() int {
	return len(p.JailFreeCards)
}

func (p *Player) addProperty(propertyID int) {
	if !p.Owns(propertyID) {
		p.Properties = append(p.Properties, propertyID)
	}
}

// takeJailFreeCard removes the oldest held token
func (p *Player) takeJailFreeCard() (Card, bool) {
	if len(p.JailFreeCards) == 0 {
		return Card{}, false
	}
	card := p.JailFreeCards[0]
	p.JailFreeCards = p.JailFreeCards[1:]
	return card, true
}

func (p *Player) clone() Player {
	c := *p
	c.Properties = append([]int{}, p.Properties...)
	if p.JailFreeCards != nil {
		c.JailFreeCards = append([]Card{}, p.JailFreeCards...)
	}
	return c
}
