package engine

import (
	"fmt"
	"time"

	"holdemroom/models"
)

// canStartHand is the filter for seats eligible to be dealt into a hand:
// occupied, not sitting out, holding chips, and not mid-session waiting for
// the next deal.
func canStartHand(p *models.Player) bool {
	return p != nil && p.Chips > 0 && p.Status != models.StatusSittingOut && !p.WaitingForNextHand
}

func isBettingPhase(phase models.Phase) bool {
	switch phase {
	case models.PhasePreFlop, models.PhaseFlop, models.PhaseTurn, models.PhaseRiver:
		return true
	default:
		return false
	}
}

// participatingOrder walks the seats clockwise starting just after from,
// returning every seat matching filter exactly once.
func participatingOrder(seats []*models.Player, from int, filter PlayerFilter) []int {
	n := len(seats)
	if n == 0 {
		return nil
	}
	var order []int
	seat := from
	for i := 0; i < n; i++ {
		seat = (seat + 1) % n
		if filter(seats[seat]) {
			order = append(order, seat)
		}
	}
	return order
}

// nextSeat finds the next seat matching filter clockwise from from, via the
// position finder's ring-walk.
func nextSeat(seats []*models.Player, from int, filter PlayerFilter) int {
	return NewPositionFinder(seats).findNext(from, filter)
}

// StartHand resets the room for a new deal: vacates busted seats, validates
// preconditions, shuffles a fresh deck, advances the dealer button, posts
// blinds, deals hole cards, and opens the first betting round.
func StartHand(room *models.Room) ([]models.Event, error) {
	if room.Status != models.RoomRunning {
		return nil, fmt.Errorf("game is not running")
	}

	var busted []int
	for i, p := range room.Seats {
		if p != nil && p.Chips <= 0 {
			busted = append(busted, i)
			p.SeatNumber = -1
			room.Seats[i] = nil
		}
	}

	eligible := 0
	for _, p := range room.Seats {
		if canStartHand(p) {
			eligible++
		}
	}
	if eligible < 2 {
		return nil, fmt.Errorf("need at least two seated players to start a hand")
	}

	for _, p := range room.Seats {
		if p != nil {
			p.ResetForHand()
		}
	}
	// Recount after ResetForHand clears WaitingForNextHand: a player seated
	// mid previous-hand is excluded from the precondition check above but
	// fully participates starting now.
	participants := countPlayers(room.Seats, canStartHand)

	prevDealer := -1
	if room.Hand != nil {
		prevDealer = room.Hand.DealerSeat
	}

	room.HandNumber++
	room.Deck = models.NewDeck()
	if room.PendingRig != "" {
		applyRig(room.Deck, room.PendingRig)
		room.PendingRig = ""
	}

	room.Hand = models.NewCurrentHand(room.HandNumber)
	hand := room.Hand

	var events []models.Event
	if len(busted) > 0 {
		events = append(events, models.Event{
			Event: models.EvtPlayersBusted, RoomID: room.RoomID,
			Data: models.PlayersBustedEvent{SeatIndexes: busted},
		})
	}

	pf := NewPositionFinder(room.Seats)
	dealerSeat := pf.findNext(prevDealer, canStartHand)
	hand.DealerSeat = dealerSeat
	room.Seats[dealerSeat].IsDealer = true

	sbSeat, bbSeat := pf.calculateBlindPositions(dealerSeat, participants)
	hand.SmallBlindSeat = sbSeat
	hand.BigBlindSeat = bbSeat

	sb := room.Seats[sbSeat]
	bb := room.Seats[bbSeat]
	sb.IsSmallBlind = true
	bb.IsBigBlind = true
	sb.PlaceBet(room.Config.SmallBlind)
	bb.PlaceBet(room.Config.BigBlind)
	sb.LastAction = ""
	bb.LastAction = ""
	// BB has not yet "acted": they retain the option even if action limps
	// all the way around.
	sb.HasActedThisRound = false
	bb.HasActedThisRound = false

	hand.CurrentBet = room.Config.BigBlind
	hand.MinRaise = room.Config.BigBlind
	hand.LastAggressorSeat = bbSeat

	order := participatingOrder(room.Seats, dealerSeat, canStartHand)
	for round := 0; round < 2; round++ {
		for _, seat := range order {
			card, err := room.Deck.Deal()
			if err != nil {
				return nil, err
			}
			room.Seats[seat].Cards = append(room.Seats[seat].Cards, card)
		}
	}

	hand.Phase = models.PhasePreFlop
	if participants == 2 {
		hand.CurrentTurnSeat = dealerSeat
	} else {
		hand.CurrentTurnSeat = nextSeat(room.Seats, bbSeat, canAct)
	}

	events = append(events, models.Event{Event: models.EvtNewHand, RoomID: room.RoomID, Data: map[string]interface{}{
		"handNumber": hand.HandNumber,
		"dealerSeat": dealerSeat,
	}})
	return events, nil
}

// isRoundComplete reports whether every non-folded, non-all-in seat has
// both acted and matched the current bet.
func isRoundComplete(room *models.Room) bool {
	hand := room.Hand
	for _, p := range room.Seats {
		if p == nil || p.Status == models.StatusFolded || p.Status == models.StatusAllIn {
			continue
		}
		if !p.HasActedThisRound || p.Bet != hand.CurrentBet {
			return false
		}
	}
	return true
}

// ProcessAction applies one betting action for sessionID and advances the
// hand (next turn, next street, all-in fast-forward offer, or showdown) as
// far as that single action's consequences reach.
func ProcessAction(room *models.Room, sessionID string, action models.PlayerAction, amount int) ([]models.Event, error) {
	hand := room.Hand
	if hand == nil || !isBettingPhase(hand.Phase) {
		return nil, fmt.Errorf("not a betting street")
	}

	if err := NewTurnValidator(room).ValidateTurn(sessionID); err != nil {
		return nil, err
	}

	seat := hand.CurrentTurnSeat
	player := room.Seats[seat]
	bv := NewBettingValidator(hand.CurrentBet, hand.MinRaise)
	ap := NewActionProcessor(bv, room.Seats)

	switch action {
	case models.ActionFold:
		ap.processFold(player)
	case models.ActionCheck:
		if err := ap.processCheck(player); err != nil {
			return nil, err
		}
	case models.ActionCall:
		ap.processCall(player, hand.CurrentBet)
	case models.ActionRaise, "bet":
		totalBet := hand.CurrentBet + amount
		reopened, err := ap.processRaise(player, totalBet, &hand.CurrentBet, &hand.MinRaise)
		if err != nil {
			return nil, err
		}
		if reopened {
			hand.LastAggressorSeat = seat
		}
	case models.ActionAllIn, "all-in":
		reopened, err := ap.processAllIn(player, &hand.CurrentBet, &hand.MinRaise)
		if err != nil {
			return nil, err
		}
		if reopened {
			hand.LastAggressorSeat = seat
		}
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}

	player.HasActedThisRound = true
	hand.LastActionSeat = seat
	hand.LastActionTime = time.Now()

	events := []models.Event{{
		Event: models.EvtPlayerAction, RoomID: room.RoomID,
		Data: models.PlayerActionEvent{SeatIndex: seat, Action: action, Amount: player.LastActionAmount},
	}}

	if countPlayers(room.Seats, isNotFolded) == 1 {
		evs, err := concludeByFold(room)
		if err != nil {
			return nil, err
		}
		return append(events, evs...), nil
	}

	if !isRoundComplete(room) {
		hand.CurrentTurnSeat = nextSeat(room.Seats, seat, canAct)
		return events, nil
	}

	contenders := countPlayers(room.Seats, canAct)
	nonFolded := countPlayers(room.Seats, isNotFolded)
	if contenders == 0 && nonFolded > 1 && hand.Phase != models.PhaseRiver &&
		!hand.RunItTwice.Offered && !hand.RunItTwice.Activated {
		events = append(events, OfferRunItTwice(room)...)
		hand.CurrentTurnSeat = -1
		return events, nil
	}

	evs, err := AdvancePhase(room)
	if err != nil {
		return nil, err
	}
	return append(events, evs...), nil
}

// AdvancePhase deals the next street (twice, if run-it-twice has been
// activated) and either opens the next betting round or, from the river,
// runs the showdown. It is also the entry point the room actor re-invokes,
// one street at a time with a display-delay timer in between, whenever no
// seat can act (the all-in fast-forward path).
func AdvancePhase(room *models.Room) ([]models.Event, error) {
	hand := room.Hand
	resetPlayersForNewRound(room.Seats)
	hand.CurrentBet = 0
	hand.MinRaise = room.Config.BigBlind
	hand.ActedThisRound = map[int]bool{}

	dealStreet := func(n int) error {
		if err := room.Deck.Burn(); err != nil {
			return err
		}
		cards, err := room.Deck.DealMultiple(n)
		if err != nil {
			return err
		}
		hand.CommunityCards = append(hand.CommunityCards, cards...)
		if hand.RunItTwice.Activated {
			if err := room.Deck.Burn(); err != nil {
				return err
			}
			cards2, err := room.Deck.DealMultiple(n)
			if err != nil {
				return err
			}
			hand.SecondBoard = append(hand.SecondBoard, cards2...)
		}
		return nil
	}

	var events []models.Event
	switch hand.Phase {
	case models.PhasePreFlop:
		hand.Phase = models.PhaseFlop
		if err := dealStreet(3); err != nil {
			return nil, err
		}
		events = append(events, models.Event{Event: models.EvtFlop, RoomID: room.RoomID, Data: hand.CommunityCards})
	case models.PhaseFlop:
		hand.Phase = models.PhaseTurn
		if err := dealStreet(1); err != nil {
			return nil, err
		}
		events = append(events, models.Event{Event: models.EvtTurn, RoomID: room.RoomID, Data: hand.CommunityCards})
	case models.PhaseTurn:
		hand.Phase = models.PhaseRiver
		if err := dealStreet(1); err != nil {
			return nil, err
		}
		events = append(events, models.Event{Event: models.EvtRiver, RoomID: room.RoomID, Data: hand.CommunityCards})
	case models.PhaseRiver:
		evs, err := RunShowdown(room)
		if err != nil {
			return nil, err
		}
		return append(events, evs...), nil
	default:
		return nil, fmt.Errorf("cannot advance phase from %s", hand.Phase)
	}

	if countPlayers(room.Seats, canAct) == 0 {
		hand.CurrentTurnSeat = -1
	} else {
		hand.CurrentTurnSeat = nextSeat(room.Seats, hand.DealerSeat, canAct)
	}
	return events, nil
}

// concludeByFold awards the whole pot to the sole remaining non-folded
// player without a showdown.
func concludeByFold(room *models.Room) ([]models.Event, error) {
	hand := room.Hand
	winnerSeat := -1
	for i, p := range room.Seats {
		if isNotFolded(p) {
			winnerSeat = i
			break
		}
	}
	if winnerSeat == -1 {
		return nil, fmt.Errorf("no non-folded player remains")
	}

	amount := 0
	for _, p := range room.Seats {
		if p != nil {
			amount += p.TotalInvestedThisHand
		}
	}
	room.Seats[winnerSeat].AddChips(amount)

	hand.Phase = models.PhaseShowdown
	hand.CurrentTurnSeat = -1
	hand.Pot = models.PotResult{Main: amount, MainEligible: []int{winnerSeat}, Side: []models.SidePot{}}
	winner := models.Winner{SeatIndex: winnerSeat, SessionID: room.Seats[winnerSeat].SessionID, Amount: amount}
	hand.Showdown = &models.ShowdownSnapshot{HandNumber: hand.HandNumber, Winners: []models.Winner{winner}}

	return []models.Event{{
		Event: models.EvtHandWon, RoomID: room.RoomID,
		Data: models.HandWonEvent{SeatIndex: winnerSeat, Amount: amount},
	}}, nil
}
