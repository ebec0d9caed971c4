package engine

// TileKind represents the different kinds of board tiles
type TileKind string

const (
	TileGo             TileKind = "GO"
	TileProperty       TileKind = "PROPERTY"
	TileTax            TileKind = "TAX"
	TileJail           TileKind = "JAIL"
	TileChance         TileKind = "CHANCE"
	TileCommunityChest TileKind = "COMMUNITY_CHEST"
	TileFreeParking    TileKind = "FREE_PARKING"
	TileGoToJail       TileKind = "GO_TO_JAIL"
	TileOther          TileKind = "OTHER"

	// Board geometry and rule constants
	BoardSize             = 40
	GoPosition            = 0
	JailPosition          = 10
	GoToJailPosition      = 30
	MaxHouses             = 4
	MaxJailAttempts       = 3
	MaxConsecutiveDoubles = 3
	DiceSides             = 6
	RentLadderSize        = 5

	// Card chains (move-to, go-back) may land on another card tile.
	maxLandingDepth = 4
)

// ColorGroup identifies a set of properties that form a monopoly together
type ColorGroup string

const (
	GroupBrown     ColorGroup = "brown"
	GroupLightBlue ColorGroup = "lightblue"
	GroupPink      ColorGroup = "pink"
	GroupOrange    ColorGroup = "orange"
	GroupRed       ColorGroup = "red"
	GroupYellow    ColorGroup = "yellow"
	GroupGreen     ColorGroup = "green"
	GroupDarkBlue  ColorGroup = "darkblue"
	GroupRailroad  ColorGroup = "railroad"
	GroupUtility   ColorGroup = "utility"
)

// IsColor reports whether the group can be improved with houses and hotels
func (g ColorGroup) IsColor() bool {
	return g != "" && g != GroupRailroad && g != GroupUtility
}

// TaxKind distinguishes the worth-percentage tax from the flat tax
type TaxKind string

const (
	TaxNone   TaxKind = ""
	TaxIncome TaxKind = "income"
	TaxLuxury TaxKind = "luxury"
)

// Property is the ownable record embedded in a property tile
type Property struct {
	ID         int                 `json:"id"`
	Name       string              `json:"name"`
	Price      int                 `json:"price"`
	Rent       int                 `json:"rent"`
	Group      ColorGroup          `json:"group"`
	OwnerID    string              `json:"owner_id,omitempty"` // empty when unowned
	Houses     int                 `json:"houses"`
	Hotel      int                 `json:"hotel"`
	HouseCost  int                 `json:"house_cost,omitempty"`
	HotelCost  int                 `json:"hotel_cost,omitempty"`
	RentLadder [RentLadderSize]int `json:"rent_ladder"`
}

// IsOwned reports whether any participant holds the property
func (p Property) IsOwned() bool {
	return p.OwnerID != ""
}

// Tile represents a single board position
type Tile struct {
	Position int       `json:"position"`
	Kind     TileKind  `json:"kind"`
	Name     string    `json:"name"`
	Tax      TaxKind   `json:"tax,omitempty"`
	Property *Property `json:"property,omitempty"`
}

// clone returns a copy of the tile that does not share the embedded property
func (t Tile) clone() Tile {
	if t.Property != nil {
		prop := *t.Property
		t.Property = &prop
	}
	return t
}

// DiceRoll is the outcome of rolling two six-sided dice
type DiceRoll struct {
	D1       int  `json:"d1"`
	D2       int  `json:"d2"`
	Total    int  `json:"total"`
	IsDouble bool `json:"is_double"`
}

// Phase is the position of the current participant inside the turn state machine
type Phase string

const (
	PhaseAwaitingRoll      Phase = "awaiting_roll"
	PhaseAwaitingTaxChoice Phase = "awaiting_tax_choice"
	PhaseTurnComplete      Phase = "turn_complete"
	PhaseGameOver          Phase = "game_over"
)

// JailStatus describes what a roll did for a jailed participant
type JailStatus string

const (
	JailStatusNone        JailStatus = ""
	JailStatusEscaped     JailStatus = "escaped"
	JailStatusStillInJail JailStatus = "still_in_jail"
	JailStatusForcedBail  JailStatus = "forced_bail"
	JailStatusThreeDouble JailStatus = "three_doubles"
)

// PurchaseOffer is the non-blocking opportunity to buy the property just landed on
type PurchaseOffer struct {
	PlayerID   string `json:"player_id"`
	PropertyID int    `json:"property_id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
}

// TaxChoice is the pending income-tax decision between a worth percentage and a flat amount
type TaxChoice struct {
	PlayerID      string `json:"player_id"`
	Position      int    `json:"position"`
	Worth         int    `json:"worth"`
	PercentAmount int    `json:"percent_amount"`
	FlatAmount    int    `json:"flat_amount"`
}

// MoveResult describes a single movement of a participant
type MoveResult struct {
	PlayerID string `json:"player_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	Tile     Tile   `json:"tile"`
	PassedGo bool   `json:"passed_go"`
}

// TurnResult summarizes everything a single Roll call did
type TurnResult struct {
	PlayerID   string         `json:"player_id"`
	Roll       DiceRoll       `json:"roll"`
	Move       *MoveResult    `json:"move,omitempty"`
	JailStatus JailStatus     `json:"jail_status,omitempty"`
	Cards      []Card         `json:"cards,omitempty"`
	RentPaid   int            `json:"rent_paid,omitempty"`
	TaxPaid    int            `json:"tax_paid,omitempty"`
	Offer      *PurchaseOffer `json:"offer,omitempty"`
	TaxChoice  *TaxChoice     `json:"tax_choice,omitempty"`
	Jailed     bool           `json:"jailed,omitempty"`
	Bankrupt   bool           `json:"bankrupt,omitempty"`
	RollAgain  bool           `json:"roll_again"`
	Phase      Phase          `json:"phase"`
}

// GameState is a read-only projection of the engine handed to drivers.
// It is always a deep copy.
type GameState struct {
	ConfigName         string         `json:"config_name"`
	Players            []Player       `json:"players"`
	CurrentPlayerIndex int            `json:"current_player_index"`
	Round              int            `json:"round"`
	Phase              Phase          `json:"phase"`
	WinnerID           string         `json:"winner_id,omitempty"`
	LastRoll           *DiceRoll      `json:"last_roll,omitempty"`
	Properties         []Property     `json:"properties"`
	PendingPurchase    *PurchaseOffer `json:"pending_purchase,omitempty"`
	PendingTax         *TaxChoice     `json:"pending_tax,omitempty"`
}

// CurrentPlayer returns the participant whose turn it is in the snapshot
func (s GameState) CurrentPlayer() (Player, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// GameOver reports whether a winner has been declared
func (s GameState) GameOver() bool {
	return s.Phase == PhaseGameOver
}
