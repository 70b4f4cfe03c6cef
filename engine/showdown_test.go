package engine

import (
	"testing"

	"holdemroom/models"
)

func dealHoleCards(p *models.Player, cards ...models.Card) {
	p.Cards = cards
}

func TestRunShowdownSplitPotOnTie(t *testing.T) {
	room := newTestRoom(2, 100)
	hand := models.NewCurrentHand(1)
	room.Hand = hand
	hand.Phase = models.PhaseRiver
	hand.SmallBlindSeat = 0
	hand.LastAggressorSeat = -1
	hand.CommunityCards = []models.Card{
		c(models.King, models.Clubs), c(models.King, models.Diamonds),
		c(models.Queen, models.Clubs), c(models.Queen, models.Diamonds),
		c(models.Nine, models.Hearts),
	}
	room.Seats[0].TotalInvestedThisHand = 50
	room.Seats[1].TotalInvestedThisHand = 50
	dealHoleCards(room.Seats[0], c(models.Two, models.Clubs), c(models.Three, models.Spades))
	dealHoleCards(room.Seats[1], c(models.Four, models.Clubs), c(models.Five, models.Spades))

	events, err := RunShowdown(room)
	if err != nil {
		t.Fatalf("RunShowdown: %v", err)
	}
	if hand.Showdown == nil || len(hand.Showdown.Winners) != 2 {
		t.Fatalf("expected a split pot between both seats, got %+v", hand.Showdown)
	}
	total := 0
	for _, w := range hand.Showdown.Winners {
		total += w.Amount
	}
	if total != 100 {
		t.Fatalf("expected the full pot distributed, got %d", total)
	}

	found := false
	for _, e := range events {
		if e.Event == models.EvtShowdown {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a showdown event")
	}
}

func TestBuildShowdownSnapshotMustShowWinnersAndAggressor(t *testing.T) {
	room := newTestRoom(3, 100)
	hand := models.NewCurrentHand(1)
	room.Hand = hand
	hand.Phase = models.PhaseRiver
	hand.SmallBlindSeat = 0
	hand.LastAggressorSeat = 2
	hand.CommunityCards = []models.Card{
		c(models.Two, models.Clubs), c(models.Seven, models.Diamonds),
		c(models.Nine, models.Hearts), c(models.Jack, models.Spades),
		c(models.Four, models.Clubs),
	}
	room.Seats[0].TotalInvestedThisHand = 30
	room.Seats[1].TotalInvestedThisHand = 30
	room.Seats[2].TotalInvestedThisHand = 30
	room.Seats[1].Status = models.StatusFolded
	dealHoleCards(room.Seats[0], c(models.Ace, models.Hearts), c(models.King, models.Hearts))
	dealHoleCards(room.Seats[2], c(models.Three, models.Clubs), c(models.Six, models.Spades))

	if _, err := RunShowdown(room); err != nil {
		t.Fatalf("RunShowdown: %v", err)
	}

	byseat := map[int]models.ShowdownEntry{}
	for _, e := range hand.Showdown.Entries {
		byseat[e.SeatIndex] = e
	}
	if _, ok := byseat[1]; ok {
		t.Fatalf("folded seat must not appear in the showdown snapshot")
	}
	winner := byseat[0]
	if !winner.MustShow || winner.Mucked {
		t.Fatalf("winner must be flagged must-show and not mucked, got %+v", winner)
	}
	aggressor := byseat[2]
	if !aggressor.MustShow {
		t.Fatalf("last aggressor must be flagged must-show even when they lost, got %+v", aggressor)
	}
}

func TestMuckHandRejectsMustShowSeat(t *testing.T) {
	room := newTestRoom(2, 100)
	hand := models.NewCurrentHand(1)
	room.Hand = hand
	hand.Phase = models.PhaseRiver
	hand.SmallBlindSeat = 0
	hand.LastAggressorSeat = -1
	hand.CommunityCards = []models.Card{
		c(models.Two, models.Clubs), c(models.Seven, models.Diamonds),
		c(models.Nine, models.Hearts), c(models.Jack, models.Spades),
		c(models.Four, models.Clubs),
	}
	room.Seats[0].TotalInvestedThisHand = 30
	room.Seats[1].TotalInvestedThisHand = 30
	dealHoleCards(room.Seats[0], c(models.Ace, models.Hearts), c(models.King, models.Hearts))
	dealHoleCards(room.Seats[1], c(models.Three, models.Clubs), c(models.Six, models.Spades))

	if _, err := RunShowdown(room); err != nil {
		t.Fatalf("RunShowdown: %v", err)
	}

	winnerSession := room.Seats[0].SessionID
	if err := MuckHand(room, winnerSession); err == nil {
		t.Fatalf("expected the must-show winner to be rejected when mucking")
	}
}
