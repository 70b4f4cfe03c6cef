package engine

import (
	"reflect"
	"testing"

	"holdemroom/models"
)

func seatWith(sessionID string, invested int, status models.PlayerStatus) *models.Player {
	p := models.NewPlayer(sessionID, sessionID, 0, 0)
	p.TotalInvestedThisHand = invested
	p.Status = status
	return p
}

func TestCalculatePotsNoSidePots(t *testing.T) {
	seats := []*models.Player{
		seatWith("a", 100, models.StatusAllIn),
		seatWith("b", 100, models.StatusActive),
		nil,
	}
	result := CalculatePots(seats)
	if result.Main != 200 {
		t.Fatalf("expected main pot 200, got %d", result.Main)
	}
	if len(result.Side) != 0 {
		t.Fatalf("expected no side pots, got %d", len(result.Side))
	}
	if !reflect.DeepEqual(result.MainEligible, []int{0, 1}) {
		t.Fatalf("unexpected eligible seats %v", result.MainEligible)
	}
}

func TestCalculatePotsSidePotFromShortAllIn(t *testing.T) {
	// Seat 0 is all-in for 50, seats 1 and 2 both put in 150.
	seats := []*models.Player{
		seatWith("a", 50, models.StatusAllIn),
		seatWith("b", 150, models.StatusActive),
		seatWith("c", 150, models.StatusActive),
	}
	result := CalculatePots(seats)
	if result.Main != 150 {
		t.Fatalf("expected main pot 150 (50*3), got %d", result.Main)
	}
	if !reflect.DeepEqual(result.MainEligible, []int{0, 1, 2}) {
		t.Fatalf("unexpected main eligible %v", result.MainEligible)
	}
	if len(result.Side) != 1 {
		t.Fatalf("expected one side pot, got %d", len(result.Side))
	}
	if result.Side[0].Amount != 200 {
		t.Fatalf("expected side pot 200 (100*2), got %d", result.Side[0].Amount)
	}
	if !reflect.DeepEqual(result.Side[0].EligibleSeats, []int{1, 2}) {
		t.Fatalf("unexpected side eligible %v", result.Side[0].EligibleSeats)
	}
}

func TestCalculatePotsFolderChipsStillFeedPot(t *testing.T) {
	// Seat 0 folded after putting in 100, seats 1 and 2 both put in 200.
	// Contribution levels come only from non-folded seats (200), but seat
	// 0's chips still count toward that single layer's amount.
	seats := []*models.Player{
		seatWith("a", 100, models.StatusFolded),
		seatWith("b", 200, models.StatusActive),
		seatWith("c", 200, models.StatusAllIn),
	}
	result := CalculatePots(seats)
	if result.Main != 500 {
		t.Fatalf("expected single layer of 500 (100+200+200), got %d", result.Main)
	}
	if len(result.Side) != 0 {
		t.Fatalf("expected no side pots, got %d", len(result.Side))
	}
	if !reflect.DeepEqual(result.MainEligible, []int{1, 2}) {
		t.Fatalf("folded seat must not be eligible, got %v", result.MainEligible)
	}
}

func TestCalculatePotsMultipleAllInLevels(t *testing.T) {
	seats := []*models.Player{
		seatWith("a", 25, models.StatusAllIn),
		seatWith("b", 75, models.StatusAllIn),
		seatWith("c", 150, models.StatusActive),
	}
	result := CalculatePots(seats)
	if result.Main != 75 { // 25*3
		t.Fatalf("expected main pot 75, got %d", result.Main)
	}
	// Two side pots: 75-25 matched by b and c, then c's unmatched 150-75.
	if len(result.Side) != 2 {
		t.Fatalf("expected two side pots, got %d", len(result.Side))
	}
	if result.Side[0].Amount != 100 { // (75-25)*2
		t.Fatalf("expected side pot 100, got %d", result.Side[0].Amount)
	}
	if result.Side[1].Amount != 75 { // (150-75)*1
		t.Fatalf("expected second side pot 75, got %d", result.Side[1].Amount)
	}
}

func TestAwardPotSplitsEvenlyAndOddChipGoesClockwiseFromSB(t *testing.T) {
	// 101 chips split between seats 2 and 4, sb at seat 1: clockwise order
	// from seat 1 is 2, 3, 4, 0 -> seat 2 gets the odd chip.
	pot := models.Pot{Amount: 101, EligibleSeats: []int{2, 4}}
	evals := map[int]HandEvaluation{
		2: {Category: CategoryPair, Value: 10},
		4: {Category: CategoryPair, Value: 10},
	}
	winners := AwardPot(pot, evals, 1, 5)
	amounts := map[int]int{}
	for _, w := range winners {
		amounts[w.SeatIndex] = w.Amount
	}
	if amounts[2] != 51 || amounts[4] != 50 {
		t.Fatalf("expected seat 2 to take the odd chip, got %v", amounts)
	}
}

func TestAwardPotSingleWinner(t *testing.T) {
	pot := models.Pot{Amount: 300, EligibleSeats: []int{0, 1, 2}}
	evals := map[int]HandEvaluation{
		0: {Category: CategoryPair, Value: 5},
		1: {Category: CategoryTwoPair, Value: 10},
		2: {Category: CategoryHighCard, Value: 1},
	}
	winners := AwardPot(pot, evals, 0, 3)
	if len(winners) != 1 || winners[0].SeatIndex != 1 || winners[0].Amount != 300 {
		t.Fatalf("expected seat 1 to take the whole pot, got %+v", winners)
	}
}
