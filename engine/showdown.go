package engine

import (
	"fmt"

	"holdemroom/models"
)

func evaluateShowdownHands(room *models.Room, board []models.Card) map[int]HandEvaluation {
	out := map[int]HandEvaluation{}
	for i, p := range room.Seats {
		if p == nil || p.Status == models.StatusFolded {
			continue
		}
		cards := append(append([]models.Card{}, p.Cards...), board...)
		out[i] = EvaluateHand(cards)
	}
	return out
}

func awardSingleBoard(room *models.Room, pot models.PotResult, evaluations map[int]HandEvaluation) []models.Winner {
	sbSeat := room.Hand.SmallBlindSeat
	n := len(room.Seats)
	var winners []models.Winner
	main := models.Pot{Amount: pot.Main, EligibleSeats: pot.MainEligible}
	winners = append(winners, AwardPot(main, evaluations, sbSeat, n)...)
	for _, side := range pot.Side {
		winners = append(winners, AwardPot(side, evaluations, sbSeat, n)...)
	}
	return winners
}

// awardDualBoard halves every pot layer between the two run-it-twice
// boards; an odd chip in a layer stays with board 1, per the positional
// remainder rule extended to the two-board case.
func awardDualBoard(room *models.Room, pot models.PotResult, eval1, eval2 map[int]HandEvaluation) []models.Winner {
	sbSeat := room.Hand.SmallBlindSeat
	n := len(room.Seats)
	layers := append([]models.Pot{{Amount: pot.Main, EligibleSeats: pot.MainEligible}}, pot.Side...)

	var winners []models.Winner
	for _, layer := range layers {
		board1Amount := layer.Amount - layer.Amount/2 // ceil: board 1 keeps the odd chip
		board2Amount := layer.Amount / 2

		board1 := models.Pot{Amount: board1Amount, EligibleSeats: layer.EligibleSeats}
		board2 := models.Pot{Amount: board2Amount, EligibleSeats: layer.EligibleSeats}

		w1 := AwardPot(board1, eval1, sbSeat, n)
		for i := range w1 {
			w1[i].Board = 0
		}
		w2 := AwardPot(board2, eval2, sbSeat, n)
		for i := range w2 {
			w2[i].Board = 1
		}
		winners = append(winners, w1...)
		winners = append(winners, w2...)
	}
	return winners
}

// RunShowdown evaluates every non-folded hand, awards each pot layer (or,
// under run-it-twice, each halved layer against each board), and builds the
// public showdown snapshot.
func RunShowdown(room *models.Room) ([]models.Event, error) {
	hand := room.Hand
	hand.Phase = models.PhaseShowdown
	hand.CurrentTurnSeat = -1

	potResult := CalculatePots(room.Seats)
	hand.Pot = potResult

	evaluations := evaluateShowdownHands(room, hand.CommunityCards)
	boards := [][]models.Card{append([]models.Card{}, hand.CommunityCards...)}

	var winners []models.Winner
	if hand.RunItTwice.Activated {
		evaluations2 := evaluateShowdownHands(room, hand.SecondBoard)
		boards = append(boards, append([]models.Card{}, hand.SecondBoard...))
		winners = awardDualBoard(room, potResult, evaluations, evaluations2)
	} else {
		winners = awardSingleBoard(room, potResult, evaluations)
	}

	for i := range winners {
		if p := room.Seats[winners[i].SeatIndex]; p != nil {
			p.AddChips(winners[i].Amount)
			winners[i].SessionID = p.SessionID
		}
	}

	hand.Showdown = buildShowdownSnapshot(room, evaluations, winners, boards)
	return []models.Event{{Event: models.EvtShowdown, RoomID: room.RoomID, Data: hand.Showdown}}, nil
}

// buildShowdownSnapshot records, for every non-folded seat, whether they
// must show (every winner plus the last aggressor) and freezes their cards
// if so; everyone else starts mucked-by-default until a show/muck command
// resolves it.
func buildShowdownSnapshot(room *models.Room, evaluations map[int]HandEvaluation, winners []models.Winner, boards [][]models.Card) *models.ShowdownSnapshot {
	hand := room.Hand
	winnerSeats := map[int]bool{}
	for _, w := range winners {
		winnerSeats[w.SeatIndex] = true
	}

	var entries []models.ShowdownEntry
	for i, p := range room.Seats {
		if p == nil || p.Status == models.StatusFolded {
			continue
		}
		mustShow := winnerSeats[i] || i == hand.LastAggressorSeat
		entry := models.ShowdownEntry{SeatIndex: i, SessionID: p.SessionID, MustShow: mustShow}
		if eval, ok := evaluations[i]; ok {
			entry.HandRank = eval.Category.String()
		}
		if mustShow {
			entry.Cards = p.Cards
		} else {
			entry.Mucked = true
		}
		entries = append(entries, entry)
	}

	return &models.ShowdownSnapshot{
		HandNumber: hand.HandNumber,
		Entries:    entries,
		Winners:    winners,
		Boards:     boards,
	}
}

// ShowHand reveals sessionID's hole cards in the current showdown snapshot.
func ShowHand(room *models.Room, sessionID string) error {
	return setShowdownReveal(room, sessionID, false)
}

// MuckHand hides sessionID's hole cards; a must-show seat cannot muck.
func MuckHand(room *models.Room, sessionID string) error {
	return setShowdownReveal(room, sessionID, true)
}

func setShowdownReveal(room *models.Room, sessionID string, muck bool) error {
	hand := room.Hand
	if hand == nil || hand.Showdown == nil {
		return fmt.Errorf("not at showdown")
	}
	player := room.PlayerBySession(sessionID)
	if player == nil {
		return fmt.Errorf("player not found")
	}
	for i := range hand.Showdown.Entries {
		entry := &hand.Showdown.Entries[i]
		if entry.SessionID != sessionID {
			continue
		}
		if entry.MustShow && muck {
			return fmt.Errorf("you must show your cards")
		}
		entry.Mucked = muck
		if muck {
			entry.Cards = nil
		} else {
			entry.Cards = player.Cards
		}
		return nil
	}
	return fmt.Errorf("you are not part of this showdown")
}
