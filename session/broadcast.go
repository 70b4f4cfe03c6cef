package session

import (
	"encoding/json"

	"holdemroom/engine"
	"holdemroom/models"
)

// RoomChanged implements actor.Notifier. It runs on the room's own actor
// goroutine (see actor.Room.afterMutation), so by the time Submit returns
// to the command's caller every connection in the room has already been
// handed the update — a client can never read its own action as not yet
// applied, per spec §5's ordering guarantee.
func (m *Manager) RoomChanged(room *models.Room, events []models.Event) {
	m.mu.Lock()
	entry, ok := m.rooms[room.RoomID]
	var clients []*Client
	if ok {
		clients = make([]*Client, 0, len(entry.conns))
		for _, c := range entry.conns {
			clients = append(clients, c)
		}
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	for _, ev := range events {
		data, err := json.Marshal(envelope{Type: "game-event", Payload: ev})
		if err != nil {
			continue
		}
		for _, c := range clients {
			enqueue(c, data)
		}

		if ev.Event == models.EvtHostChanged {
			if hc, ok := ev.Data.(models.HostChangedEvent); ok {
				youAreHost, err := json.Marshal(envelope{Type: "game-event", Payload: models.Event{
					Event: models.EvtYouAreHost, RoomID: room.RoomID,
				}})
				if err == nil {
					for _, c := range clients {
						if c.SessionID == hc.NewHostSessionID {
							enqueue(c, youAreHost)
						}
					}
				}
			}
		}
	}

	roomState := buildRoomState(room)
	roomData, err := json.Marshal(envelope{Type: "room-state", Payload: roomState})
	if err == nil {
		for _, c := range clients {
			enqueue(c, roomData)
		}
	}

	for _, c := range clients {
		view := buildPlayerState(room, c.SessionID)
		data, err := json.Marshal(envelope{Type: "player-state", Payload: view})
		if err != nil {
			continue
		}
		enqueue(c, data)
	}
}

type seatView struct {
	SeatIndex  int    `json:"seatIndex"`
	SessionID  string `json:"sessionId"`
	Name       string `json:"playerName"`
	Chips      int    `json:"chips"`
	Bet        int    `json:"bet"`
	Status     string `json:"status"`
	IsDealer   bool   `json:"isDealer"`
	IsSmallBlind bool `json:"isSmallBlind"`
	IsBigBlind bool   `json:"isBigBlind"`
	Cards      []string `json:"cards,omitempty"`
}

type roomStateView struct {
	RoomID        string                 `json:"roomId"`
	Status        string                 `json:"status"`
	Host          string                 `json:"host"`
	Seats         []*seatView            `json:"seats"`
	Pot           models.PotResult       `json:"pot"`
	Board         []string               `json:"board,omitempty"`
	SecondBoard   []string               `json:"secondBoard,omitempty"`
	Phase         string                 `json:"phase,omitempty"`
	DealerSeat    int                    `json:"dealerSeat,omitempty"`
	CurrentTurn   int                    `json:"currentTurnSeat,omitempty"`
	SmallBlind    int                    `json:"smallBlind"`
	BigBlind      int                    `json:"bigBlind"`
	SeatRequests  []*models.SeatRequest  `json:"seatRequests,omitempty"`
	Showdown      *models.ShowdownSnapshot `json:"showdown,omitempty"`
}

// showdownEntryFor finds seatIndex's entry in the current showdown
// snapshot, if one exists.
func showdownEntryFor(hand *models.CurrentHand, seatIndex int) (models.ShowdownEntry, bool) {
	if hand == nil || hand.Showdown == nil {
		return models.ShowdownEntry{}, false
	}
	for _, e := range hand.Showdown.Entries {
		if e.SeatIndex == seatIndex {
			return e, true
		}
	}
	return models.ShowdownEntry{}, false
}

func buildRoomState(room *models.Room) roomStateView {
	view := roomStateView{
		RoomID:     room.RoomID,
		Status:     string(room.Status),
		Host:       room.Host,
		Seats:      make([]*seatView, len(room.Seats)),
		SmallBlind: room.Config.SmallBlind,
		BigBlind:   room.Config.BigBlind,
	}

	for i, p := range room.Seats {
		if p == nil {
			continue
		}
		sv := &seatView{
			SeatIndex:    i,
			SessionID:    p.SessionID,
			Name:         p.PlayerName,
			Chips:        p.Chips,
			Bet:          p.Bet,
			Status:       string(p.Status),
			IsDealer:     p.IsDealer,
			IsSmallBlind: p.IsSmallBlind,
			IsBigBlind:   p.IsBigBlind,
		}
		if entry, ok := showdownEntryFor(room.Hand, i); ok && (entry.MustShow || !entry.Mucked) {
			sv.Cards = cardStrings(entry.Cards)
		}
		view.Seats[i] = sv
	}

	for _, req := range room.SeatRequests {
		view.SeatRequests = append(view.SeatRequests, req)
	}

	if hand := room.Hand; hand != nil {
		view.Pot = hand.Pot
		view.Board = cardStrings(hand.CommunityCards)
		view.SecondBoard = cardStrings(hand.SecondBoard)
		view.Phase = string(hand.Phase)
		view.DealerSeat = hand.DealerSeat
		view.CurrentTurn = hand.CurrentTurnSeat
		view.Showdown = hand.Showdown
	}

	return view
}

type playerStateView struct {
	SessionID          string              `json:"sessionId"`
	SeatIndex          int                 `json:"seatIndex"`
	HoleCards          []string            `json:"holeCards,omitempty"`
	BestHand           string              `json:"bestHand,omitempty"`
	LegalActions       []string            `json:"legalActions,omitempty"`
	AmountToCall       int                 `json:"amountToCall"`
	MinRaiseTo         int                 `json:"minRaiseTo,omitempty"`
	PendingSeatRequest *models.SeatRequest `json:"pendingSeatRequest,omitempty"`
	ShowdownActions    []string            `json:"showdownActions,omitempty"`
}

func buildPlayerState(room *models.Room, sessionID string) playerStateView {
	view := playerStateView{SessionID: sessionID, SeatIndex: -1}

	player, ok := room.Players[sessionID]
	if !ok {
		return view
	}
	view.SeatIndex = player.SeatNumber

	for _, req := range room.SeatRequests {
		if req.SessionID == sessionID {
			view.PendingSeatRequest = req
			break
		}
	}

	if player.SeatNumber < 0 {
		return view
	}

	// A seat always sees its own hole cards, independent of phase.
	view.HoleCards = cardStrings(player.Cards)

	hand := room.Hand
	if hand == nil {
		return view
	}

	if len(player.Cards) > 0 && player.Status != models.StatusFolded {
		combined := append(append([]models.Card{}, player.Cards...), hand.CommunityCards...)
		view.BestHand = engine.EvaluateHand(combined).Category.String()
	}

	if entry, ok := showdownEntryFor(hand, player.SeatNumber); ok && !entry.MustShow {
		view.ShowdownActions = []string{"show", "muck"}
	}

	if hand.CurrentTurnSeat != player.SeatNumber {
		return view
	}

	owed := hand.CurrentBet - player.Bet
	view.AmountToCall = owed
	if owed <= 0 {
		view.LegalActions = []string{"check", "raise", "allin"}
	} else {
		view.LegalActions = []string{"fold", "call", "raise", "allin"}
	}
	view.MinRaiseTo = hand.CurrentBet + hand.MinRaise

	return view
}

func cardStrings(cards []models.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
