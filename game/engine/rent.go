package engine

// railroadRents is indexed by the number of railroads the owner holds, minus one
var railroadRents = [...]int{25, 50, 100, 200}

const (
	utilityMultiplierOne  = 4
	utilityMultiplierBoth = 10
)

// RentFor quotes the rent a visitor would pay on a property. Unowned or unknown properties quote zero.
func (e *GameEngine) RentFor(propertyID, diceTotal int) int {
	prop := e.board.PropertyByID(propertyID)
	if prop == nil {
		return 0
	}
	return e.rentFor(prop, diceTotal)
}

func (e *GameEngine) rentFor(prop *Property, diceTotal int) int {
	if !prop.IsOwned() {
		return 0
	}

	switch prop.Group {
	case GroupRailroad:
		count := e.board.CountOwned(prop.OwnerID, GroupRailroad)
		if count < 1 {
			count = 1
		}
		if count > len(railroadRents) {
			count = len(railroadRents)
		}
		return railroadRents[count-1]

	case GroupUtility:
		multiplier := utilityMultiplierOne
		if e.board.CountOwned(prop.OwnerID, GroupUtility) >= 2 {
			multiplier = utilityMultiplierBoth
		}
		return diceTotal * multiplier
	}

	switch {
	case prop.Hotel > 0:
		return prop.RentLadder[RentLadderSize-1]
	case prop.Houses > 0:
		return prop.RentLadder[prop.Houses-1]
	case e.board.HasMonopoly(prop.OwnerID, prop.Group):
		return prop.Rent * 2
	default:
		return prop.Rent
	}
}
