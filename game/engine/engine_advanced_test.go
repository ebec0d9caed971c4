package engine

import (
	"errors"
	"testing"
)

func TestRailroadRentDependsOnOwnerCount(t *testing.T) {
	railroads := []int{5, 15, 25, 35}
	want := []int{25, 50, 100, 200}

	for count := 1; count <= 4; count++ {
		e := newTestEngine(t, 3, scriptedDice())
		give(e, "3", railroads[:count]...)

		for _, payer := range []string{"1", "2"} {
			rent, err := e.PayRent(payer, railroads[0], 7)
			if err != nil {
				t.Fatalf("PayRent failed: %v", err)
			}
			if rent != want[count-1] {
				t.Errorf("%d railroads, payer %s: expected %d, got %d", count, payer, want[count-1], rent)
			}
		}
	}
}

func TestUtilityRent(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())
	give(e, "2", 12)

	if rent := e.RentFor(12, 7); rent != 28 {
		t.Errorf("One utility: expected 28, got %d", rent)
	}
	give(e, "2", 28)
	if rent := e.RentFor(12, 7); rent != 70 {
		t.Errorf("Both utilities: expected 70, got %d", rent)
	}
	if rent := e.RentFor(28, 12); rent != 120 {
		t.Errorf("Both utilities, roll 12: expected 120, got %d", rent)
	}
}

func TestImprovedRent(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())

	if rent := e.RentFor(1, 0); rent != 0 {
		t.Errorf("Unowned property must quote 0, got %d", rent)
	}
	give(e, "2", 1)
	if rent := e.RentFor(1, 0); rent != 2 {
		t.Errorf("Base rent: expected 2, got %d", rent)
	}
	give(e, "2", 3)
	if rent := e.RentFor(1, 0); rent != 4 {
		t.Errorf("Monopoly rent: expected 4, got %d", rent)
	}

	prop := e.board.PropertyByID(1)
	for houses, want := range []int{10, 30, 90, 160} {
		prop.Houses = houses + 1
		if rent := e.RentFor(1, 0); rent != want {
			t.Errorf("%d houses: expected %d, got %d", houses+1, want, rent)
		}
	}
	prop.Houses = 0
	prop.Hotel = 1
	if rent := e.RentFor(1, 0); rent != 250 {
		t.Errorf("Hotel: expected 250, got %d", rent)
	}
}

func TestPayRentRejections(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())
	give(e, "1", 1)

	if _, err := e.PayRent("1", 1, 0); !errors.Is(err, ErrNoRentDue) {
		t.Errorf("Owner paying self: expected ErrNoRentDue, got %v", err)
	}
	if _, err := e.PayRent("2", 3, 0); !errors.Is(err, ErrNoRentDue) {
		t.Errorf("Unowned property: expected ErrNoRentDue, got %v", err)
	}
	if _, err := e.PayRent("2", 77, 0); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Unknown property: expected ErrUnknownProperty, got %v", err)
	}
}

func TestBuyHouseRules(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())
	give(e, "1", 1)

	if err := e.BuyHouse("1", 1); !errors.Is(err, ErrBuildNotAllowed) {
		t.Errorf("Without monopoly: expected ErrBuildNotAllowed, got %v", err)
	}
	if err := e.BuyHouse("2", 1); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Non-owner: expected ErrNotOwner, got %v", err)
	}
	if err := e.BuyHouse("1", 5); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Unowned railroad: expected ErrNotOwner, got %v", err)
	}

	give(e, "1", 3)
	if !e.CanBuyHouse("1", 1) {
		t.Fatal("Expected house to be allowed on a monopoly")
	}
	if err := e.BuyHouse("1", 1); err != nil {
		t.Fatalf("BuyHouse failed: %v", err)
	}
	if err := e.BuyHouse("1", 1); !errors.Is(err, ErrBuildNotAllowed) {
		t.Errorf("Uneven building: expected ErrBuildNotAllowed, got %v", err)
	}
	if err := e.BuyHouse("1", 3); err != nil {
		t.Fatalf("BuyHouse on Baltic failed: %v", err)
	}
	if err := e.BuyHouse("1", 1); err != nil {
		t.Fatalf("Second house on Mediterranean failed: %v", err)
	}

	p, _ := e.Player("1")
	if p.Money != 1500-150 {
		t.Errorf("Expected 1350 after three houses, got %d", p.Money)
	}

	e.players[0].Money = 10
	if err := e.BuyHouse("1", 3); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
	if prop, _ := e.Property(3); prop.Houses != 1 {
		t.Errorf("Rejected purchase changed houses to %d", prop.Houses)
	}
}

func TestBuyHotelRules(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())
	give(e, "1", 37, 39)

	if e.CanBuyHotel("1", 39) {
		t.Error("Hotel must require four houses")
	}

	e.board.PropertyByID(37).Houses = 4
	e.board.PropertyByID(39).Houses = 4
	if e.CanBuyHouse("1", 39) {
		t.Error("Fifth house must not be allowed")
	}
	if err := e.BuyHotel("1", 39); err != nil {
		t.Fatalf("BuyHotel failed: %v", err)
	}

	prop, _ := e.Property(39)
	if prop.Houses != 0 || prop.Hotel != 1 {
		t.Errorf("Expected hotel replacing houses, got %+v", prop)
	}
	if e.CanBuyHouse("1", 39) || e.CanBuyHotel("1", 39) {
		t.Error("No improvement allowed on top of a hotel")
	}
	p, _ := e.Player("1")
	if p.Money != 1300 {
		t.Errorf("Expected 1300 after hotel, got %d", p.Money)
	}

	// A hotel in the group does not block the remaining property from catching up.
	if err := e.BuyHotel("1", 37); err != nil {
		t.Errorf("Second hotel failed: %v", err)
	}
}

func TestPurchaseProperty(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice([2]int{2, 4}))

	res, err := e.Roll()
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.Offer == nil || res.Offer.PropertyID != 6 || res.Offer.Price != 100 {
		t.Fatalf("Expected Oriental Ave offer, got %+v", res.Offer)
	}

	if err := e.PurchaseProperty("2", 6); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if err := e.PurchaseProperty("1", 6); err != nil {
		t.Fatalf("PurchaseProperty failed: %v", err)
	}
	if err := e.PurchaseProperty("1", 6); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("Expected ErrAlreadyOwned, got %v", err)
	}
	if _, ok := e.PendingPurchase(); ok {
		t.Error("Expected offer cleared after purchase")
	}

	p, _ := e.Player("1")
	if p.Money != 1400 || !p.Owns(6) {
		t.Errorf("Unexpected buyer state: %+v", p)
	}

	e.players[0].Money = 50
	if err := e.PurchaseProperty("1", 39); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
	if prop, _ := e.Property(39); prop.IsOwned() {
		t.Error("Rejected purchase must leave the property unowned")
	}
}

func TestDeclinePurchase(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice([2]int{2, 4}))

	if err := e.DeclinePurchase("1"); !errors.Is(err, ErrNoPendingDecision) {
		t.Errorf("Expected ErrNoPendingDecision, got %v", err)
	}

	declined := 0
	e.Subscribe(EventPurchaseDeclined, func(Event) { declined++ })

	if _, err := e.Roll(); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if err := e.DeclinePurchase("2"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if err := e.DeclinePurchase("1"); err != nil {
		t.Fatalf("DeclinePurchase failed: %v", err)
	}
	if declined != 1 {
		t.Errorf("Expected one decline event, got %d", declined)
	}
	if prop, _ := e.Property(6); prop.IsOwned() {
		t.Error("Declined property must stay unowned")
	}
}

func TestIncomeTaxChoice(t *testing.T) {
	tests := []struct {
		name    string
		percent bool
		want    int
	}{
		{"percentage", true, 150},
		{"flat", false, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 2, scriptedDice([2]int{1, 3}))

			res, err := e.Roll()
			if err != nil {
				t.Fatalf("Roll failed: %v", err)
			}
			if res.TaxChoice == nil || res.TaxChoice.PercentAmount != 150 || res.TaxChoice.FlatAmount != 200 {
				t.Fatalf("Expected tax choice 150/200, got %+v", res.TaxChoice)
			}
			if e.Phase() != PhaseAwaitingTaxChoice {
				t.Fatalf("Expected awaiting tax choice, got %s", e.Phase())
			}
			if _, err := e.Roll(); !errors.Is(err, ErrDecisionPending) {
				t.Errorf("Expected ErrDecisionPending on roll, got %v", err)
			}
			if err := e.AdvanceTurn(); !errors.Is(err, ErrDecisionPending) {
				t.Errorf("Expected ErrDecisionPending on advance, got %v", err)
			}
			if _, err := e.ChooseTax("2", tt.percent); !errors.Is(err, ErrNotYourTurn) {
				t.Errorf("Expected ErrNotYourTurn, got %v", err)
			}

			amount, err := e.ChooseTax("1", tt.percent)
			if err != nil {
				t.Fatalf("ChooseTax failed: %v", err)
			}
			if amount != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, amount)
			}
			p, _ := e.Player("1")
			if p.Money != 1500-tt.want {
				t.Errorf("Expected %d, got %d", 1500-tt.want, p.Money)
			}
			if e.Phase() != PhaseTurnComplete {
				t.Errorf("Expected turn complete, got %s", e.Phase())
			}
			if _, err := e.ChooseTax("1", tt.percent); !errors.Is(err, ErrNoPendingDecision) {
				t.Errorf("Expected ErrNoPendingDecision, got %v", err)
			}
		})
	}
}

func TestIncomeTaxCountsPropertyWorth(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice())
	give(e, "1", 39, 37)

	amount, err := e.ApplyTax("1", 4, true)
	if err != nil {
		t.Fatalf("ApplyTax failed: %v", err)
	}
	if amount != 225 {
		t.Errorf("Expected floor((1500+750)*0.1) = 225, got %d", amount)
	}
	if amount, _ := e.ApplyTax("1", 5, true); amount != 0 {
		t.Errorf("Non-tax tile must charge nothing, got %d", amount)
	}
}

func TestIncomeTaxOnDoublesKeepsExtraRoll(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice([2]int{2, 2}))

	if _, err := e.Roll(); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if _, err := e.ChooseTax("1", false); err != nil {
		t.Fatalf("ChooseTax failed: %v", err)
	}
	if e.Phase() != PhaseAwaitingRoll {
		t.Errorf("Expected another roll after paying tax on doubles, got %s", e.Phase())
	}
}

func TestLuxuryTax(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice([2]int{1, 2}))
	e.players[0].Position = 35

	res, err := e.Roll()
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.TaxPaid != 75 {
		t.Errorf("Expected luxury tax 75, got %d", res.TaxPaid)
	}
	p, _ := e.Player("1")
	if p.Money != 1425 {
		t.Errorf("Expected 1425, got %d", p.Money)
	}
}

func TestBankruptcyReleasesHoldings(t *testing.T) {
	e := newTestEngine(t, 3, scriptedDice())
	give(e, "1", 5, 15, 1, 3)
	e.board.PropertyByID(1).Houses = 1
	give(e, "2", 37, 39)
	e.board.PropertyByID(39).Hotel = 1
	e.players[0].Money = 100

	var bankrupt []string
	e.Subscribe(EventBankrupt, func(ev Event) { bankrupt = append(bankrupt, ev.(Bankrupt).PlayerID) })

	rent, err := e.PayRent("1", 39, 0)
	if err != nil {
		t.Fatalf("PayRent failed: %v", err)
	}
	if rent != 2000 {
		t.Errorf("Expected hotel rent 2000, got %d", rent)
	}

	p, _ := e.Player("1")
	if !p.Bankrupt || len(p.Properties) != 0 {
		t.Errorf("Expected bankrupt with no holdings, got %+v", p)
	}
	for _, id := range []int{1, 3, 5, 15} {
		prop, _ := e.Property(id)
		if prop.IsOwned() || prop.Houses != 0 {
			t.Errorf("Property %d not released: %+v", id, prop)
		}
	}
	if len(bankrupt) != 1 || bankrupt[0] != "1" {
		t.Errorf("Expected one bankrupt event for player 1, got %v", bankrupt)
	}
	if e.Phase() == PhaseGameOver {
		t.Error("Two solvent participants remain, game must continue")
	}
	if err := e.PurchaseProperty("1", 6); !errors.Is(err, ErrBankrupt) {
		t.Errorf("Expected ErrBankrupt, got %v", err)
	}
}

func TestLastSolventParticipantWins(t *testing.T) {
	e := newTestEngine(t, 2, scriptedDice([2]int{2, 3}))
	give(e, "2", 5, 15, 25, 35)
	e.players[0].Money = 100

	res, err := e.Roll()
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.RentPaid != 200 || !res.Bankrupt {
		t.Errorf("Expected 200 rent and bankruptcy, got %+v", res)
	}
	if res.Phase != PhaseGameOver {
		t.Errorf("Expected game over, got %s", res.Phase)
	}

	winner, ok := e.Winner()
	if !ok || winner.ID != "2" {
		t.Errorf("Expected player 2 to win, got %+v", winner)
	}
	if err := e.AdvanceTurn(); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver, got %v", err)
	}
	if _, err := e.Roll(); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver on roll, got %v", err)
	}
	if state := e.Snapshot(); state.WinnerID != "2" || !state.GameOver() {
		t.Errorf("Snapshot must report the winner, got %+v", state)
	}
}
