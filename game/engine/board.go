package engine

import "fmt"

// Board is the fixed ring of tiles. Only the embedded properties change.
type Board struct {
	tiles []Tile
}

// NewBoard creates the classic 40-tile board
func NewBoard() *Board {
	return &Board{tiles: classicTiles()}
}

// NewBoardFromTiles creates a board from a custom tile table. Use ValidateBoard before playing on it.
func NewBoardFromTiles(tiles []Tile) *Board {
	b := &Board{tiles: make([]Tile, len(tiles))}
	for i, t := range tiles {
		b.tiles[i] = t.clone()
	}
	return b
}

// Len returns the number of tiles on the ring
func (b *Board) Len() int {
	return len(b.tiles)
}

// TileAt returns a copy of the tile at any position, normalized onto the ring
func (b *Board) TileAt(position int) Tile {
	return b.tile(position).clone()
}

func (b *Board) tile(position int) *Tile {
	return &b.tiles[normalizePosition(position, len(b.tiles))]
}

// Tiles returns a copy of every tile in board order
func (b *Board) Tiles() []Tile {
	tiles := make([]Tile, len(b.tiles))
	for i, t := range b.tiles {
		tiles[i] = t.clone()
	}
	return tiles
}

// PropertyByID returns the live property record, or nil when absent
func (b *Board) PropertyByID(id int) *Property {
	for i := range b.tiles {
		if p := b.tiles[i].Property; p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// SetOwner changes the owner of a property. Unknown ids are ignored.
func (b *Board) SetOwner(id int, ownerID string) {
	if p := b.PropertyByID(id); p != nil {
		p.OwnerID = ownerID
	}
}

// Properties returns every live property record in board order
func (b *Board) Properties() []*Property {
	var props []*Property
	for i := range b.tiles {
		if p := b.tiles[i].Property; p != nil {
			props = append(props, p)
		}
	}
	return props
}

// GroupProperties returns the live properties of a color group
func (b *Board) GroupProperties(group ColorGroup) []*Property {
	var props []*Property
	for _, p := range b.Properties() {
		if p.Group == group {
			props = append(props, p)
		}
	}
	return props
}

// GroupSize returns how many properties belong to a group
func (b *Board) GroupSize(group ColorGroup) int {
	return len(b.GroupProperties(group))
}

// CountOwned returns how many properties of a group the owner holds
func (b *Board) CountOwned(ownerID string, group ColorGroup) int {
	if ownerID == "" {
		return 0
	}
	count := 0
	for _, p := range b.GroupProperties(group) {
		if p.OwnerID == ownerID {
			count++
		}
	}
	return count
}

// HasMonopoly reports whether the owner holds every property of the group
func (b *Board) HasMonopoly(ownerID string, group ColorGroup) bool {
	size := b.GroupSize(group)
	return size > 0 && b.CountOwned(ownerID, group) == size
}

// ValidateBoard checks the tile table for data-construction errors
func ValidateBoard(b *Board) error {
	if b == nil || len(b.tiles) != BoardSize {
		return fmt.Errorf("board validation: board must have %d tiles", BoardSize)
	}

	ids := make(map[int]bool)
	for i, t := range b.tiles {
		if t.Position != i {
			return fmt.Errorf("board validation: tile %d reports position %d", i, t.Position)
		}
		if t.Name == "" {
			return fmt.Errorf("board validation: tile %d has no name", i)
		}

		switch t.Kind {
		case TileProperty:
			if t.Property == nil {
				return fmt.Errorf("board validation: property tile %d has no property", i)
			}
		case TileTax:
			if t.Tax != TaxIncome && t.Tax != TaxLuxury {
				return fmt.Errorf("board validation: tax tile %d has unknown tax kind %q", i, t.Tax)
			}
		case TileGo, TileJail, TileChance, TileCommunityChest, TileFreeParking, TileGoToJail, TileOther:
		default:
			return fmt.Errorf("board validation: tile %d has unknown kind %q", i, t.Kind)
		}

		p := t.Property
		if p == nil {
			continue
		}
		if t.Kind != TileProperty {
			return fmt.Errorf("board validation: tile %d of kind %s embeds a property", i, t.Kind)
		}
		if p.ID != t.Position {
			return fmt.Errorf("board validation: property %q has id %d but sits on tile %d", p.Name, p.ID, i)
		}
		if ids[p.ID] {
			return fmt.Errorf("board validation: duplicate property id %d", p.ID)
		}
		ids[p.ID] = true
		if p.Price <= 0 {
			return fmt.Errorf("board validation: property %q must have a positive price", p.Name)
		}
		if p.Group == "" {
			return fmt.Errorf("board validation: property %q has no group", p.Name)
		}
		if p.OwnerID != "" || p.Houses != 0 || p.Hotel != 0 {
			return fmt.Errorf("board validation: property %q must start unowned and unimproved", p.Name)
		}
		if p.Group.IsColor() {
			if p.HouseCost <= 0 || p.HotelCost <= 0 {
				return fmt.Errorf("board validation: property %q must have house and hotel costs", p.Name)
			}
			prev := p.Rent
			for step, rent := range p.RentLadder {
				if rent < prev {
					return fmt.Errorf("board validation: property %q rent ladder decreases at step %d", p.Name, step+1)
				}
				prev = rent
			}
		} else if p.HouseCost != 0 || p.HotelCost != 0 {
			return fmt.Errorf("board validation: %s property %q cannot be improved", p.Group, p.Name)
		}
	}

	for _, t := range b.tiles {
		if t.Property != nil && t.Property.Group.IsColor() && b.GroupSize(t.Property.Group) < 2 {
			return fmt.Errorf("board validation: color group %q needs at least two properties", t.Property.Group)
		}
	}
	if b.tiles[JailPosition].Kind != TileJail {
		return fmt.Errorf("board validation: tile %d must be the jail", JailPosition)
	}
	return nil
}

// normalizePosition maps any integer onto a ring of size tiles
func normalizePosition(position, size int) int {
	if size <= 0 {
		return 0
	}
	return ((position % size) + size) % size
}

func street(pos int, name string, group ColorGroup, price, rent, houseCost int, ladder [RentLadderSize]int) Tile {
	return Tile{
		Position: pos,
		Kind:     TileProperty,
		Name:     name,
		Property: &Property{
			ID:         pos,
			Name:       name,
			Price:      price,
			Rent:       rent,
			Group:      group,
			HouseCost:  houseCost,
			HotelCost:  houseCost,
			RentLadder: ladder,
		},
	}
}

func railroad(pos int, name string) Tile {
	return Tile{
		Position: pos,
		Kind:     TileProperty,
		Name:     name,
		Property: &Property{ID: pos, Name: name, Price: 200, Rent: 25, Group: GroupRailroad},
	}
}

func utility(pos int, name string) Tile {
	return Tile{
		Position: pos,
		Kind:     TileProperty,
		Name:     name,
		Property: &Property{ID: pos, Name: name, Price: 150, Group: GroupUtility},
	}
}

func special(pos int, kind TileKind, name string) Tile {
	return Tile{Position: pos, Kind: kind, Name: name}
}

func taxTile(pos int, name string, kind TaxKind) Tile {
	return Tile{Position: pos, Kind: TileTax, Name: name, Tax: kind}
}

func classicTiles() []Tile {
	return []Tile{
		special(0, TileGo, "Go"),
		street(1, "Mediterranean Ave", GroupBrown, 60, 2, 50, [5]int{10, 30, 90, 160, 250}),
		special(2, TileCommunityChest, "Community Chest"),
		street(3, "Baltic Ave", GroupBrown, 60, 4, 50, [5]int{20, 60, 180, 320, 450}),
		taxTile(4, "Income Tax", TaxIncome),
		railroad(5, "Reading Railroad"),
		street(6, "Oriental Ave", GroupLightBlue, 100, 6, 50, [5]int{30, 90, 270, 400, 550}),
		special(7, TileChance, "Chance"),
		street(8, "Vermont Ave", GroupLightBlue, 100, 6, 50, [5]int{30, 90, 270, 400, 550}),
		street(9, "Connecticut Ave", GroupLightBlue, 120, 8, 50, [5]int{40, 100, 300, 450, 600}),
		special(10, TileJail, "Jail"),
		street(11, "St. Charles Place", GroupPink, 140, 10, 100, [5]int{50, 150, 450, 625, 750}),
		utility(12, "Electric Company"),
		street(13, "States Ave", GroupPink, 140, 10, 100, [5]int{50, 150, 450, 625, 750}),
		street(14, "Virginia Ave", GroupPink, 160, 12, 100, [5]int{60, 180, 500, 700, 900}),
		railroad(15, "Pennsylvania Railroad"),
		street(16, "St. James Place", GroupOrange, 180, 14, 100, [5]int{70, 200, 550, 750, 950}),
		special(17, TileCommunityChest, "Community Chest"),
		street(18, "Tennessee Ave", GroupOrange, 180, 14, 100, [5]int{70, 200, 550, 750, 950}),
		street(19, "New York Ave", GroupOrange, 200, 16, 100, [5]int{80, 220, 600, 800, 1000}),
		special(20, TileFreeParking, "Free Parking"),
		street(21, "Kentucky Ave", GroupRed, 220, 18, 150, [5]int{90, 250, 700, 875, 1050}),
		special(22, TileChance, "Chance"),
		street(23, "Indiana Ave", GroupRed, 220, 18, 150, [5]int{90, 250, 700, 875, 1050}),
		street(24, "Illinois Ave", GroupRed, 240, 20, 150, [5]int{100, 300, 750, 925, 1100}),
		railroad(25, "B&O Railroad"),
		street(26, "Atlantic Ave", GroupYellow, 260, 22, 150, [5]int{110, 330, 800, 975, 1150}),
		street(27, "Ventnor Ave", GroupYellow, 260, 22, 150, [5]int{110, 330, 800, 975, 1150}),
		utility(28, "Water Works"),
		street(29, "Marvin Gardens", GroupYellow, 280, 24, 150, [5]int{120, 360, 850, 1025, 1200}),
		special(30, TileGoToJail, "Go To Jail"),
		street(31, "Pacific Ave", GroupGreen, 300, 26, 200, [5]int{130, 390, 900, 1100, 1275}),
		street(32, "North Carolina Ave", GroupGreen, 300, 26, 200, [5]int{130, 390, 900, 1100, 1275}),
		special(33, TileCommunityChest, "Community Chest"),
		street(34, "Pennsylvania Ave", GroupGreen, 320, 28, 200, [5]int{150, 450, 1000, 1200, 1400}),
		railroad(35, "Short Line"),
		special(36, TileChance, "Chance"),
		street(37, "Park Place", GroupDarkBlue, 350, 35, 200, [5]int{175, 500, 1100, 1300, 1500}),
		taxTile(38, "Luxury Tax", TaxLuxury),
		street(39, "Boardwalk", GroupDarkBlue, 400, 50, 200, [5]int{200, 600, 1400, 1700, 2000}),
	}
}
