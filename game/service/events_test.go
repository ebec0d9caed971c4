package service_test

import (
	"testing"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
)

type namer struct{}

func (namer) PlayerName(id string) string { return "P" + id }
func (namer) PropertyName(id int) string {
	if p := engine.NewBoard().PropertyByID(id); p != nil {
		return p.Name
	}
	return "?"
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		event engine.Event
		want  string
	}{
		{engine.Moved{PlayerID: "1", From: 38, To: 2}, "P1 moved from 38 to 2"},
		{engine.PassedGo{PlayerID: "1", Amount: 200}, "P1 passed GO and collected $200"},
		{engine.RentPaid{PayerID: "2", OwnerID: "1", PropertyID: 39, Amount: 50}, "P2 paid $50 rent to P1 for Boardwalk"},
		{engine.PropertyBought{PlayerID: "1", PropertyID: 5, Price: 200}, "P1 bought Reading Railroad for $200"},
		{engine.PurchaseDeclined{PlayerID: "1", PropertyID: 3}, "P1 passed on Baltic Ave"},
		{engine.BailPaid{PlayerID: "3", Amount: 50, Forced: true}, "P3 was forced to pay $50 bail"},
		{engine.Bankrupt{PlayerID: "2"}, "P2 is bankrupt"},
		{engine.ImprovementBought{PlayerID: "1", PropertyID: 1, Houses: 2, Cost: 50}, "P1 built house 2 on Mediterranean Ave for $50"},
		{engine.ImprovementBought{PlayerID: "1", PropertyID: 1, Hotel: true, Cost: 50}, "P1 built a hotel on Mediterranean Ave for $50"},
		{engine.TurnAdvanced{PlayerID: "2", Round: 4}, "Round 4: P2's turn"},
		{engine.GameWon{PlayerID: "1"}, "P1 wins the game!"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Kind()), func(t *testing.T) {
			if got := service.Describe(tt.event, namer{}); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
