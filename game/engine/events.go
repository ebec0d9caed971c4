package engine

// EventKind tags every notification the engine publishes
type EventKind string

const (
	EventMoved             EventKind = "player_moved"
	EventPassedGo          EventKind = "passed_go"
	EventRentPaid          EventKind = "rent_paid"
	EventPropertyBought    EventKind = "property_bought"
	EventPurchaseDeclined  EventKind = "purchase_declined"
	EventJailed            EventKind = "player_jailed"
	EventReleased          EventKind = "player_released"
	EventBailPaid          EventKind = "bail_paid"
	EventTaxPaid           EventKind = "tax_paid"
	EventBankrupt          EventKind = "player_bankrupt"
	EventImprovementBought EventKind = "improvement_bought"
	EventCardDrawn         EventKind = "card_drawn"
	EventTurnAdvanced      EventKind = "turn_advanced"
	EventGameWon           EventKind = "game_won"
)

// EventKinds lists every kind in publication-independent order
var EventKinds = []EventKind{
	EventMoved, EventPassedGo, EventRentPaid, EventPropertyBought, EventPurchaseDeclined,
	EventJailed, EventReleased, EventBailPaid, EventTaxPaid, EventBankrupt,
	EventImprovementBought, EventCardDrawn, EventTurnAdvanced, EventGameWon,
}

// Event is the closed set of engine notifications
type Event interface {
	Kind() EventKind
	isEvent()
}

// JailReason explains why a participant went to jail
type JailReason string

const (
	JailReasonTile         JailReason = "go_to_jail_tile"
	JailReasonThreeDoubles JailReason = "three_doubles"
	JailReasonCard         JailReason = "card"
	JailReasonDirect       JailReason = "sent_to_jail"
)

// ReleaseReason explains how a participant left jail
type ReleaseReason string

const (
	ReleaseDoubles    ReleaseReason = "doubles_rolled"
	ReleaseBail       ReleaseReason = "bail_paid"
	ReleaseForcedBail ReleaseReason = "forced_bail"
	ReleaseJailFree   ReleaseReason = "jail_free_card"
	ReleaseDirect     ReleaseReason = "released"
)

type Moved struct {
	PlayerID string `json:"player_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	PassedGo bool   `json:"passed_go"`
}

type PassedGo struct {
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
}

type RentPaid struct {
	PayerID    string `json:"payer_id"`
	OwnerID    string `json:"owner_id"`
	PropertyID int    `json:"property_id"`
	Amount     int    `json:"amount"`
}

type PropertyBought struct {
	PlayerID   string `json:"player_id"`
	PropertyID int    `json:"property_id"`
	Price      int    `json:"price"`
}

type PurchaseDeclined struct {
	PlayerID   string `json:"player_id"`
	PropertyID int    `json:"property_id"`
}

type Jailed struct {
	PlayerID string     `json:"player_id"`
	Reason   JailReason `json:"reason"`
}

type Released struct {
	PlayerID string        `json:"player_id"`
	Reason   ReleaseReason `json:"reason"`
}

type BailPaid struct {
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
	Forced   bool   `json:"forced"`
}

type TaxPaid struct {
	PlayerID string  `json:"player_id"`
	Tax      TaxKind `json:"tax"`
	Amount   int     `json:"amount"`
}

type Bankrupt struct {
	PlayerID string `json:"player_id"`
}

type ImprovementBought struct {
	PlayerID   string `json:"player_id"`
	PropertyID int    `json:"property_id"`
	Houses     int    `json:"houses"`
	Hotel      bool   `json:"hotel"`
	Cost       int    `json:"cost"`
}

type CardDrawn struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

type TurnAdvanced struct {
	PlayerID string `json:"player_id"`
	Round    int    `json:"round"`
}

type GameWon struct {
	PlayerID string `json:"player_id"`
}

func (Moved) Kind() EventKind             { return EventMoved }
func (PassedGo) Kind() EventKind          { return EventPassedGo }
func (RentPaid) Kind() EventKind          { return EventRentPaid }
func (PropertyBought) Kind() EventKind    { return EventPropertyBought }
func (PurchaseDeclined) Kind() EventKind  { return EventPurchaseDeclined }
func (Jailed) Kind() EventKind            { return EventJailed }
func (Released) Kind() EventKind          { return EventReleased }
func (BailPaid) Kind() EventKind          { return EventBailPaid }
func (TaxPaid) Kind() EventKind           { return EventTaxPaid }
func (Bankrupt) Kind() EventKind          { return EventBankrupt }
func (ImprovementBought) Kind() EventKind { return EventImprovementBought }
func (CardDrawn) Kind() EventKind         { return EventCardDrawn }
func (TurnAdvanced) Kind() EventKind      { return EventTurnAdvanced }
func (GameWon) Kind() EventKind           { return EventGameWon }

func (Moved) isEvent()             {}
func (PassedGo) isEvent()          {}
func (RentPaid) isEvent()          {}
func (PropertyBought) isEvent()    {}
func (PurchaseDeclined) isEvent()  {}
func (Jailed) isEvent()            {}
func (Released) isEvent()          {}
func (BailPaid) isEvent()          {}
func (TaxPaid) isEvent()           {}
func (Bankrupt) isEvent()          {}
func (ImprovementBought) isEvent() {}
func (CardDrawn) isEvent()         {}
func (TurnAdvanced) isEvent()      {}
func (GameWon) isEvent()           {}

// Handler receives published events synchronously
type Handler func(Event)

// Subscription identifies a registered handler
type Subscription struct {
	id uint64
}

type subscriber struct {
	id      uint64
	kind    EventKind
	all     bool
	handler Handler
}

// Bus is a synchronous in-order publish/subscribe fan-out.
// Handlers run inside the publishing engine call and must not call back into the engine.
type Bus struct {
	nextID uint64
	subs   []subscriber
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for a single event kind
func (b *Bus) Subscribe(kind EventKind, handler Handler) Subscription {
	return b.add(subscriber{kind: kind, handler: handler})
}

// SubscribeAll registers a handler for every event kind
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	return b.add(subscriber{all: true, handler: handler})
}

func (b *Bus) add(s subscriber) Subscription {
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	return Subscription{id: s.id}
}

// Unsubscribe removes a handler and reports whether it was registered
func (b *Bus) Unsubscribe(sub Subscription) bool {
	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers the event to every current subscriber in registration order
func (b *Bus) Publish(e Event) {
	subs := append([]subscriber(nil), b.subs...)
	for _, s := range subs {
		if s.all || s.kind == e.Kind() {
			s.handler(e)
		}
	}
}
