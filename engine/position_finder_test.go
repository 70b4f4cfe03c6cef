package engine

import (
	"testing"

	"holdemroom/models"
)

func fiveSeats() []*models.Player {
	seats := make([]*models.Player, 5)
	for i := range seats {
		seats[i] = models.NewPlayer(seatSession(i), seatSession(i), i, 100)
	}
	return seats
}

func TestCalculateBlindPositionsRingGame(t *testing.T) {
	pf := NewPositionFinder(fiveSeats())
	sb, bb := pf.calculateBlindPositions(0, 5)
	if sb != 1 || bb != 2 {
		t.Fatalf("expected sb=1 bb=2, got sb=%d bb=%d", sb, bb)
	}
}

func TestCalculateBlindPositionsHeadsUp(t *testing.T) {
	seats := fiveSeats()[:2]
	pf := NewPositionFinder(seats)
	sb, bb := pf.calculateBlindPositions(0, 2)
	if sb != 0 || bb != 1 {
		t.Fatalf("heads-up: dealer must also be small blind, got sb=%d bb=%d", sb, bb)
	}
}

func TestFindNextWithChipsSkipsBustSeats(t *testing.T) {
	seats := fiveSeats()
	seats[1].Chips = 0
	seats[2].Status = models.StatusSittingOut
	pf := NewPositionFinder(seats)
	if got := pf.findNextWithChips(0); got != 3 {
		t.Fatalf("expected to skip busted and sitting-out seats, got %d", got)
	}
}

func TestFindFirstWithChips(t *testing.T) {
	seats := fiveSeats()
	seats[0].Chips = 0
	pf := NewPositionFinder(seats)
	if got := pf.findFirstWithChips(); got != 1 {
		t.Fatalf("expected first seat with chips to be 1, got %d", got)
	}
}
