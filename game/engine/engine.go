package engine

import (
	"fmt"
	"strconv"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Turn flow
	Roll() (TurnResult, error)
	RollDice() DiceRoll
	AdvanceTurn() error
	MoveCurrentPlayer(steps int) (MoveResult, error)
	ChooseTax(playerID string, percent bool) (int, error)

	// Jail
	SendToJail(playerID string)
	PayBail(playerID string) error
	ReleaseFromJail(playerID string)
	UseJailFreeCard(playerID string) error

	// Money and ownership
	PurchaseProperty(playerID string, propertyID int) error
	DeclinePurchase(playerID string) error
	PayRent(playerID string, propertyID, diceTotal int) (int, error)
	ApplyTax(playerID string, position int, choosePercent bool) (int, error)
	RentFor(propertyID, diceTotal int) int
	CanBuyHouse(playerID string, propertyID int) bool
	BuyHouse(playerID string, propertyID int) error
	CanBuyHotel(playerID string, propertyID int) bool
	BuyHotel(playerID string, propertyID int) error

	// Cards
	DrawCard(deck DeckKind) (Card, bool)
	ResolveCardAction(playerID string, card Card) error

	// Read side
	Snapshot() GameState
	CurrentPlayer() (Player, bool)
	Player(playerID string) (Player, bool)
	Property(propertyID int) (Property, bool)
	TileAt(position int) Tile
	Tiles() []Tile
	GroupSize(group ColorGroup) int
	Phase() Phase
	Winner() (Player, bool)
	PendingPurchase() (PurchaseOffer, bool)
	PendingTax() (TaxChoice, bool)
	GetConfig() *GameConfig

	// Events
	Subscribe(kind EventKind, handler Handler) Subscription
	SubscribeAll(handler Handler) Subscription
	Unsubscribe(sub Subscription) bool
}

// GameEngine implements the Engine interface. It is not safe for concurrent use.
type GameEngine struct {
	config  *GameConfig
	board   *Board
	decks   map[DeckKind]*Deck
	players []*Player
	bus     *Bus
	dice    Source

	current  int
	round    int
	phase    Phase
	winnerID string
	lastRoll *DiceRoll

	pendingPurchase *PurchaseOffer
	pendingTax      *TaxChoice
	rollAgain       bool

	// resumePhase is restored once a tax choice opened outside a roll is settled
	resumePhase Phase
}

type options struct {
	dice    Source
	shuffle Source
	board   *Board
	cards   map[DeckKind][]Card
}

// Option customizes engine construction
type Option func(*options)

// WithSource drives both dice and shuffles from one source
func WithSource(src Source) Option {
	return func(o *options) {
		o.dice = src
		o.shuffle = src
	}
}

// WithDiceSource sets the randomness used for dice rolls
func WithDiceSource(src Source) Option {
	return func(o *options) { o.dice = src }
}

// WithShuffleSource sets the randomness used for deck shuffles
func WithShuffleSource(src Source) Option {
	return func(o *options) { o.shuffle = src }
}

// WithBoard replaces the classic board
func WithBoard(b *Board) Option {
	return func(o *options) { o.board = b }
}

// WithCards replaces the card list of one deck
func WithCards(kind DeckKind, cards []Card) Option {
	return func(o *options) { o.cards[kind] = cards }
}

// NewEngine creates a new game engine with the provided configuration.
// Board and decks are validated here so data errors surface before any turn.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	o := options{
		cards: map[DeckKind][]Card{
			DeckChance:         ChanceCards(),
			DeckCommunityChest: CommunityChestCards(),
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dice == nil || o.shuffle == nil {
		src, err := NewRandomSource()
		if err != nil {
			return nil, err
		}
		if o.dice == nil {
			o.dice = src
		}
		if o.shuffle == nil {
			o.shuffle = src
		}
	}
	if o.board == nil {
		o.board = NewBoard()
	}
	if err := ValidateBoard(o.board); err != nil {
		return nil, err
	}

	decks := make(map[DeckKind]*Deck, 2)
	for _, kind := range []DeckKind{DeckChance, DeckCommunityChest} {
		if err := ValidateDeck(kind, o.cards[kind], o.board); err != nil {
			return nil, err
		}
		decks[kind] = NewDeck(kind, o.cards[kind], o.shuffle)
	}

	players := make([]*Player, len(config.Seats))
	for i, seat := range config.Seats {
		players[i] = NewPlayer(strconv.Itoa(i+1), seat.Name, config.StartingMoney)
	}

	return &GameEngine{
		config:  config,
		board:   o.board,
		decks:   decks,
		players: players,
		bus:     NewBus(),
		dice:    o.dice,
		round:   1,
		phase:   PhaseAwaitingRoll,
	}, nil
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// RollDice rolls two dice without touching game state
func (e *GameEngine) RollDice() DiceRoll {
	return RollWith(e.dice)
}

// CurrentPlayer returns a copy of the participant whose turn it is
func (e *GameEngine) CurrentPlayer() (Player, bool) {
	p := e.currentPlayer()
	if p == nil {
		return Player{}, false
	}
	return p.clone(), true
}

func (e *GameEngine) currentPlayer() *Player {
	if e.current < 0 || e.current >= len(e.players) {
		return nil
	}
	return e.players[e.current]
}

// Player returns a copy of the participant with the given id
func (e *GameEngine) Player(playerID string) (Player, bool) {
	p := e.player(playerID)
	if p == nil {
		return Player{}, false
	}
	return p.clone(), true
}

func (e *GameEngine) player(playerID string) *Player {
	for _, p := range e.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// Property returns a copy of the property with the given id
func (e *GameEngine) Property(propertyID int) (Property, bool) {
	prop := e.board.PropertyByID(propertyID)
	if prop == nil {
		return Property{}, false
	}
	return *prop, true
}

// TileAt returns a copy of the tile at a position
func (e *GameEngine) TileAt(position int) Tile {
	return e.board.TileAt(position)
}

// Tiles returns a copy of the board
func (e *GameEngine) Tiles() []Tile {
	return e.board.Tiles()
}

// GroupSize returns the number of properties in a group
func (e *GameEngine) GroupSize(group ColorGroup) int {
	return e.board.GroupSize(group)
}

// Phase returns the current turn phase
func (e *GameEngine) Phase() Phase {
	return e.phase
}

// Winner returns the winning participant once the game is over
func (e *GameEngine) Winner() (Player, bool) {
	if e.winnerID == "" {
		return Player{}, false
	}
	return e.Player(e.winnerID)
}

// PendingPurchase returns the open purchase opportunity, if any
func (e *GameEngine) PendingPurchase() (PurchaseOffer, bool) {
	if e.pendingPurchase == nil {
		return PurchaseOffer{}, false
	}
	return *e.pendingPurchase, true
}

// PendingTax returns the open income-tax choice, if any
func (e *GameEngine) PendingTax() (TaxChoice, bool) {
	if e.pendingTax == nil {
		return TaxChoice{}, false
	}
	return *e.pendingTax, true
}

// Snapshot returns a deep copy of the game state
func (e *GameEngine) Snapshot() GameState {
	state := GameState{
		ConfigName:         e.config.Name,
		Players:            make([]Player, len(e.players)),
		CurrentPlayerIndex: e.current,
		Round:              e.round,
		Phase:              e.phase,
		WinnerID:           e.winnerID,
	}
	for i, p := range e.players {
		state.Players[i] = p.clone()
	}
	for _, prop := range e.board.Properties() {
		state.Properties = append(state.Properties, *prop)
	}
	if e.lastRoll != nil {
		roll := *e.lastRoll
		state.LastRoll = &roll
	}
	if e.pendingPurchase != nil {
		offer := *e.pendingPurchase
		state.PendingPurchase = &offer
	}
	if e.pendingTax != nil {
		choice := *e.pendingTax
		state.PendingTax = &choice
	}
	return state
}

// Subscribe registers a handler for one event kind
func (e *GameEngine) Subscribe(kind EventKind, handler Handler) Subscription {
	return e.bus.Subscribe(kind, handler)
}

// SubscribeAll registers a handler for every event
func (e *GameEngine) SubscribeAll(handler Handler) Subscription {
	return e.bus.SubscribeAll(handler)
}

// Unsubscribe removes a handler
func (e *GameEngine) Unsubscribe(sub Subscription) bool {
	return e.bus.Unsubscribe(sub)
}

func (e *GameEngine) emit(ev Event) {
	e.bus.Publish(ev)
}

// activePlayer resolves an id to a participant that may still act
func (e *GameEngine) activePlayer(playerID string) (*Player, error) {
	if e.phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	p := e.player(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, playerID)
	}
	if p.Bankrupt {
		return nil, ErrBankrupt
	}
	return p, nil
}

// PurchaseProperty buys an unowned property for the current participant
func (e *GameEngine) PurchaseProperty(playerID string, propertyID int) error {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return err
	}
	if p != e.currentPlayer() {
		return ErrNotYourTurn
	}
	prop := e.board.PropertyByID(propertyID)
	if prop == nil {
		return fmt.Errorf("%w: %d", ErrUnknownProperty, propertyID)
	}
	if prop.IsOwned() {
		return ErrAlreadyOwned
	}
	if !p.DeductMoney(prop.Price, RejectOverdraft) {
		return ErrInsufficientFunds
	}

	prop.OwnerID = p.ID
	p.addProperty(prop.ID)
	if e.pendingPurchase != nil && e.pendingPurchase.PropertyID == prop.ID {
		e.pendingPurchase = nil
	}
	e.emit(PropertyBought{PlayerID: p.ID, PropertyID: prop.ID, Price: prop.Price})
	return nil
}

// DeclinePurchase drops the pending purchase opportunity. The property stays unowned.
func (e *GameEngine) DeclinePurchase(playerID string) error {
	if e.phase == PhaseGameOver {
		return ErrGameOver
	}
	if e.pendingPurchase == nil {
		return ErrNoPendingDecision
	}
	if e.pendingPurchase.PlayerID != playerID {
		return ErrNotYourTurn
	}
	e.dropOffer()
	return nil
}

func (e *GameEngine) dropOffer() {
	if e.pendingPurchase == nil {
		return
	}
	offer := *e.pendingPurchase
	e.pendingPurchase = nil
	e.emit(PurchaseDeclined{PlayerID: offer.PlayerID, PropertyID: offer.PropertyID})
}

// PayRent transfers rent from a visitor to the property's owner.
// The payer may go negative, which settles bankruptcy immediately.
func (e *GameEngine) PayRent(playerID string, propertyID, diceTotal int) (int, error) {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return 0, err
	}
	prop := e.board.PropertyByID(propertyID)
	if prop == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownProperty, propertyID)
	}
	if !prop.IsOwned() || prop.OwnerID == p.ID {
		return 0, ErrNoRentDue
	}
	owner := e.player(prop.OwnerID)
	if owner == nil {
		return 0, ErrNoRentDue
	}

	rent := e.rentFor(prop, diceTotal)
	p.DeductMoney(rent, AllowOverdraft)
	owner.AddMoney(rent)
	e.emit(RentPaid{PayerID: p.ID, OwnerID: owner.ID, PropertyID: prop.ID, Amount: rent})
	e.settle(p)
	return rent, nil
}

// ApplyTax charges the tax of the tile at position. Non-tax tiles charge nothing.
func (e *GameEngine) ApplyTax(playerID string, position int, choosePercent bool) (int, error) {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return 0, err
	}
	tile := e.board.tile(position)
	if tile.Kind != TileTax {
		return 0, nil
	}

	amount := e.config.LuxuryTax
	if tile.Tax == TaxIncome {
		percent, flat := e.incomeTaxOptions(p)
		amount = flat
		if choosePercent {
			amount = percent
		}
	}

	p.DeductMoney(amount, AllowOverdraft)
	e.emit(TaxPaid{PlayerID: p.ID, Tax: tile.Tax, Amount: amount})
	e.settle(p)
	return amount, nil
}

// CanBuyHouse reports whether BuyHouse would succeed
func (e *GameEngine) CanBuyHouse(playerID string, propertyID int) bool {
	_, _, err := e.checkHouse(playerID, propertyID)
	return err == nil
}

// BuyHouse adds one house to a property of a completed color group
func (e *GameEngine) BuyHouse(playerID string, propertyID int) error {
	p, prop, err := e.checkHouse(playerID, propertyID)
	if err != nil {
		return err
	}
	p.DeductMoney(prop.HouseCost, RejectOverdraft)
	prop.Houses++
	e.emit(ImprovementBought{PlayerID: p.ID, PropertyID: prop.ID, Houses: prop.Houses, Cost: prop.HouseCost})
	return nil
}

func (e *GameEngine) checkHouse(playerID string, propertyID int) (*Player, *Property, error) {
	p, prop, err := e.ownedProperty(playerID, propertyID)
	if err != nil {
		return nil, nil, err
	}
	if !prop.Group.IsColor() || !e.board.HasMonopoly(p.ID, prop.Group) {
		return nil, nil, ErrBuildNotAllowed
	}
	if prop.Hotel > 0 || prop.Houses >= MaxHouses {
		return nil, nil, ErrBuildNotAllowed
	}
	// Even building: nothing in the group may get ahead of the group minimum.
	minLevel := improvementLevel(prop)
	for _, other := range e.board.GroupProperties(prop.Group) {
		if lvl := improvementLevel(other); lvl < minLevel {
			minLevel = lvl
		}
	}
	if prop.Houses > minLevel {
		return nil, nil, ErrBuildNotAllowed
	}
	if p.Money < prop.HouseCost {
		return nil, nil, ErrInsufficientFunds
	}
	return p, prop, nil
}

// CanBuyHotel reports whether BuyHotel would succeed
func (e *GameEngine) CanBuyHotel(playerID string, propertyID int) bool {
	_, _, err := e.checkHotel(playerID, propertyID)
	return err == nil
}

// BuyHotel replaces four houses with a hotel
func (e *GameEngine) BuyHotel(playerID string, propertyID int) error {
	p, prop, err := e.checkHotel(playerID, propertyID)
	if err != nil {
		return err
	}
	p.DeductMoney(prop.HotelCost, RejectOverdraft)
	prop.Houses = 0
	prop.Hotel = 1
	e.emit(ImprovementBought{PlayerID: p.ID, PropertyID: prop.ID, Hotel: true, Cost: prop.HotelCost})
	return nil
}

func (e *GameEngine) checkHotel(playerID string, propertyID int) (*Player, *Property, error) {
	p, prop, err := e.ownedProperty(playerID, propertyID)
	if err != nil {
		return nil, nil, err
	}
	if !prop.Group.IsColor() || prop.Houses != MaxHouses || prop.Hotel > 0 {
		return nil, nil, ErrBuildNotAllowed
	}
	if p.Money < prop.HotelCost {
		return nil, nil, ErrInsufficientFunds
	}
	return p, prop, nil
}

func (e *GameEngine) ownedProperty(playerID string, propertyID int) (*Player, *Property, error) {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return nil, nil, err
	}
	prop := e.board.PropertyByID(propertyID)
	if prop == nil {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownProperty, propertyID)
	}
	if prop.OwnerID != p.ID {
		return nil, nil, ErrNotOwner
	}
	return p, prop, nil
}

// improvementLevel counts a hotel as one step above four houses
func improvementLevel(p *Property) int {
	if p.Hotel > 0 {
		return MaxHouses + 1
	}
	return p.Houses
}

// DrawCard draws from the named deck
func (e *GameEngine) DrawCard(kind DeckKind) (Card, bool) {
	deck, ok := e.decks[kind]
	if !ok {
		return Card{}, false
	}
	return deck.Draw()
}

// ResolveCardAction applies a drawn card to a participant, including any landing it causes
func (e *GameEngine) ResolveCardAction(playerID string, card Card) error {
	p, err := e.activePlayer(playerID)
	if err != nil {
		return err
	}
	// Zero means no roll this turn; a utility landing rolls for its rent.
	var total int
	if e.lastRoll != nil {
		total = e.lastRoll.Total
	}

	before := e.phase
	hadTax := e.pendingTax != nil
	e.resolveCard(p, card, total, 1, &TurnResult{PlayerID: p.ID})

	if e.phase != PhaseGameOver && !hadTax && e.pendingTax != nil {
		e.resumePhase = before
		e.phase = PhaseAwaitingTaxChoice
	}
	return nil
}
