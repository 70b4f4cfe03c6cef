package engine

import (
	"sort"

	"holdemroom/models"
)

// CalculatePots builds the contribution-tier pot layers for the current
// hand: the first layer is the main pot, the rest are side pots. Contribution
// levels are taken from non-folded seats only, but every contributor
// (including folders) feeds chips into whichever layer their stake reaches,
// since a folded player's chips don't disappear, they just can't win them
// back.
func CalculatePots(seats []*models.Player) models.PotResult {
	type contribution struct {
		seat   int
		amount int
		folded bool
	}

	var contributions []contribution
	var nonFoldedLevels []int
	for i, p := range seats {
		if p == nil || p.TotalInvestedThisHand <= 0 {
			continue
		}
		folded := p.Status == models.StatusFolded
		contributions = append(contributions, contribution{seat: i, amount: p.TotalInvestedThisHand, folded: folded})
		if !folded {
			nonFoldedLevels = append(nonFoldedLevels, p.TotalInvestedThisHand)
		}
	}

	if len(contributions) == 0 {
		return models.PotResult{Side: []models.SidePot{}}
	}

	levels := dedupAscending(nonFoldedLevels)

	var layers []models.Pot
	prev := 0
	for _, level := range levels {
		amount := 0
		var eligible []int
		for _, c := range contributions {
			capped := c.amount
			if capped > level {
				capped = level
			}
			if delta := capped - prev; delta > 0 {
				amount += delta
			}
			if !c.folded && c.amount >= level {
				eligible = append(eligible, c.seat)
			}
		}
		if amount > 0 {
			sort.Ints(eligible)
			layers = append(layers, models.Pot{Amount: amount, EligibleSeats: eligible})
		}
		prev = level
	}

	// Folded chips above the highest non-folded level go into the top layer;
	// if every contributor folded they form one layer with no eligible seat.
	excess := 0
	for _, c := range contributions {
		if c.amount > prev {
			excess += c.amount - prev
		}
	}
	if len(layers) > 0 {
		layers[len(layers)-1].Amount += excess
	} else if excess > 0 {
		layers = append(layers, models.Pot{Amount: excess})
	}

	if len(layers) == 0 {
		return models.PotResult{Side: []models.SidePot{}}
	}

	result := models.PotResult{Side: []models.SidePot{}}
	for i, layer := range layers {
		if i == 0 {
			result.Main = layer.Amount
			result.MainEligible = layer.EligibleSeats
			continue
		}
		result.Side = append(result.Side, layer)
	}
	return result
}

// AwardPot splits one pot layer's amount among its best-hand eligible
// seats. Ties split evenly; an indivisible remainder is paid one chip at a
// time to the eligible winner(s) nearest clockwise from the small blind
// seat, per the deterministic tiebreak documented for this room.
func AwardPot(pot models.Pot, evaluations map[int]HandEvaluation, sbSeat, numSeats int) []models.Winner {
	if pot.Amount <= 0 || len(pot.EligibleSeats) == 0 {
		return nil
	}

	var best HandEvaluation
	var winningSeats []int
	for _, seat := range pot.EligibleSeats {
		eval, ok := evaluations[seat]
		if !ok {
			continue
		}
		switch {
		case len(winningSeats) == 0 || Compare(eval, best) > 0:
			best = eval
			winningSeats = []int{seat}
		case Compare(eval, best) == 0:
			winningSeats = append(winningSeats, seat)
		}
	}
	if len(winningSeats) == 0 {
		return nil
	}

	share := pot.Amount / len(winningSeats)
	remainder := pot.Amount % len(winningSeats)

	winners := make([]models.Winner, len(winningSeats))
	amounts := make(map[int]int, len(winningSeats))
	for i, seat := range winningSeats {
		amounts[seat] = share
		winners[i] = models.Winner{SeatIndex: seat}
	}

	if remainder > 0 {
		order := clockwiseFromSB(winningSeats, sbSeat, numSeats)
		for i := 0; i < remainder; i++ {
			amounts[order[i%len(order)]]++
		}
	}

	for i := range winners {
		winners[i].Amount = amounts[winners[i].SeatIndex]
		winners[i].HandRank = evaluations[winners[i].SeatIndex].Category.String()
	}
	return winners
}

// clockwiseFromSB orders seats by distance travelling clockwise from the
// small blind seat, the positional tiebreak spec'd for odd-chip remainders.
func clockwiseFromSB(seats []int, sbSeat, numSeats int) []int {
	ordered := append([]int{}, seats...)
	distance := func(seat int) int {
		if numSeats <= 0 {
			return 0
		}
		return ((seat-sbSeat)%numSeats + numSeats) % numSeats
	}
	sort.Slice(ordered, func(i, j int) bool {
		return distance(ordered[i]) < distance(ordered[j])
	})
	return ordered
}
