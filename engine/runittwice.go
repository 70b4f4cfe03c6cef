package engine

import (
	"fmt"
	"time"

	"holdemroom/models"
)

const runItTwiceVoteWindow = 15 * time.Second

func eligibleSeats(seats []*models.Player, filter PlayerFilter) []int {
	var out []int
	for i, p := range seats {
		if filter(p) {
			out = append(out, i)
		}
	}
	return out
}

func containsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}

// OfferRunItTwice opens the vote to every non-folded seat and starts the
// bounded wait timer the room actor is responsible for scheduling.
func OfferRunItTwice(room *models.Room) []models.Event {
	hand := room.Hand
	eligible := eligibleSeats(room.Seats, isNotFolded)
	deadline := time.Now().Add(runItTwiceVoteWindow)
	hand.RunItTwice = models.RunItTwiceState{
		Offered:       true,
		EligibleSeats: eligible,
		Votes:         make(map[int]bool, len(eligible)),
		Deadline:      &deadline,
	}
	return []models.Event{{
		Event:  models.EvtRunItTwiceOffered,
		RoomID: room.RoomID,
		Data: models.RunItTwiceOfferedEvent{
			EligibleSeats: eligible,
			Deadline:      deadline.Format(time.RFC3339),
		},
	}}
}

// CastRunItTwiceVote records one seat's accept/decline. Once every eligible
// seat has voted the offer resolves immediately.
func CastRunItTwiceVote(room *models.Room, sessionID string, accept bool) ([]models.Event, error) {
	hand := room.Hand
	if hand == nil || !hand.RunItTwice.Offered || hand.RunItTwice.Activated {
		return nil, fmt.Errorf("run it twice is not currently being offered")
	}
	player := room.PlayerBySession(sessionID)
	if player == nil {
		return nil, fmt.Errorf("player not found")
	}
	seat := player.SeatNumber
	if !containsSeat(hand.RunItTwice.EligibleSeats, seat) {
		return nil, fmt.Errorf("not eligible to vote on run it twice")
	}

	hand.RunItTwice.Votes[seat] = accept
	events := []models.Event{{
		Event:  models.EvtRunItTwiceVote,
		RoomID: room.RoomID,
		Data:   map[string]interface{}{"seatIndex": seat, "accept": accept},
	}}

	if len(hand.RunItTwice.Votes) < len(hand.RunItTwice.EligibleSeats) {
		return events, nil
	}
	resolved, err := resolveRunItTwice(room)
	if err != nil {
		return nil, err
	}
	return append(events, resolved...), nil
}

// ResolveRunItTwiceTimeout is invoked by the actor's bounded wait timer;
// any seat that has not yet voted is treated as a decline.
func ResolveRunItTwiceTimeout(room *models.Room) ([]models.Event, error) {
	hand := room.Hand
	if hand == nil || !hand.RunItTwice.Offered || hand.RunItTwice.Activated {
		return nil, nil
	}
	return resolveRunItTwice(room)
}

func resolveRunItTwice(room *models.Room) ([]models.Event, error) {
	hand := room.Hand
	activated := len(hand.RunItTwice.EligibleSeats) > 0
	for _, seat := range hand.RunItTwice.EligibleSeats {
		if accepted, ok := hand.RunItTwice.Votes[seat]; !ok || !accepted {
			activated = false
			break
		}
	}
	hand.RunItTwice.Activated = activated
	hand.RunItTwice.Deadline = nil

	events := []models.Event{{
		Event:  models.EvtRunItTwiceResult,
		RoomID: room.RoomID,
		Data:   models.RunItTwiceResultEvent{Activated: activated},
	}}

	evs, err := AdvancePhase(room)
	if err != nil {
		return nil, err
	}
	return append(events, evs...), nil
}
