package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"holdemroom/models"
)

// NewRoomWithHost creates a room and registers its host as a spectator
// (no seat yet) per the join lifecycle.
func NewRoomWithHost(roomID, displayName, hostSessionID, hostName string, config models.RoomConfig) *models.Room {
	room := models.NewRoom(roomID, displayName, hostSessionID, config)
	Join(room, hostSessionID, hostName)
	return room
}

// Join registers a session as present in the room, as a spectator, unless
// it is already known.
func Join(room *models.Room, sessionID, displayName string) {
	if _, ok := room.Players[sessionID]; ok {
		return
	}
	room.Players[sessionID] = models.NewPlayer(sessionID, displayName, -1, 0)
	room.PlayerOrder = append(room.PlayerOrder, sessionID)
}

// RequestSeat queues a seat request, auto-approving it if the requester is
// the room's host.
func RequestSeat(room *models.Room, sessionID string, seatIndex, buyIn int) (*models.SeatRequest, error) {
	if seatIndex < 0 || seatIndex >= len(room.Seats) {
		return nil, fmt.Errorf("invalid seat")
	}
	if room.Seats[seatIndex] != nil {
		return nil, fmt.Errorf("seat taken")
	}
	minBuyIn := room.Config.MinBuyInBB * room.Config.BigBlind
	if buyIn < minBuyIn {
		return nil, fmt.Errorf("minimum buy-in is %d", minBuyIn)
	}
	player, ok := room.Players[sessionID]
	if !ok {
		return nil, fmt.Errorf("not in a room")
	}
	if player.SeatNumber >= 0 {
		return nil, fmt.Errorf("already seated")
	}

	req := &models.SeatRequest{
		RequestID: uuid.NewString(),
		SessionID: sessionID,
		SeatIndex: seatIndex,
		BuyIn:     buyIn,
		Timestamp: time.Now(),
	}
	if sessionID == room.Host {
		takeSeat(room, player, seatIndex, buyIn)
		return req, nil
	}
	room.SeatRequests[req.RequestID] = req
	return req, nil
}

func takeSeat(room *models.Room, player *models.Player, seatIndex, buyIn int) {
	player.SeatNumber = seatIndex
	player.Chips = buyIn
	player.Status = models.StatusActive
	if room.Hand != nil {
		player.WaitingForNextHand = true
	}
	room.Seats[seatIndex] = player
}

// ApproveSeat seats the requester with their proposed buy-in; host-only,
// enforced by the caller.
func ApproveSeat(room *models.Room, requestID string) (*models.SeatRequest, error) {
	req, ok := room.SeatRequests[requestID]
	if !ok {
		return nil, fmt.Errorf("seat request not found")
	}
	delete(room.SeatRequests, requestID)
	if room.Seats[req.SeatIndex] != nil {
		return nil, fmt.Errorf("seat taken")
	}
	player, ok := room.Players[req.SessionID]
	if !ok {
		return nil, fmt.Errorf("requester is no longer in the room")
	}
	takeSeat(room, player, req.SeatIndex, req.BuyIn)
	return req, nil
}

// DenySeat drops a pending request without seating anyone; host-only,
// enforced by the caller.
func DenySeat(room *models.Room, requestID string) (*models.SeatRequest, error) {
	req, ok := room.SeatRequests[requestID]
	if !ok {
		return nil, fmt.Errorf("seat request not found")
	}
	delete(room.SeatRequests, requestID)
	return req, nil
}

// CancelSeatRequest drops sessionID's own pending request, if any.
func CancelSeatRequest(room *models.Room, sessionID string) {
	for id, req := range room.SeatRequests {
		if req.SessionID == sessionID {
			delete(room.SeatRequests, id)
		}
	}
}

// LeaveSeat vacates sessionID's seat. If they were due to act right now
// they are auto-folded first; otherwise, if they are live in a hand in
// progress, they are simply marked folded.
func LeaveSeat(room *models.Room, sessionID string) ([]models.Event, error) {
	player, ok := room.Players[sessionID]
	if !ok || player.SeatNumber < 0 {
		return nil, fmt.Errorf("not seated")
	}
	seat := player.SeatNumber

	var events []models.Event
	if room.Hand != nil && isBettingPhase(room.Hand.Phase) && isNotFolded(player) {
		if room.Hand.CurrentTurnSeat == seat {
			evs, err := ProcessAction(room, sessionID, models.ActionFold, 0)
			if err == nil {
				events = append(events, evs...)
			}
		} else {
			player.Status = models.StatusFolded
		}
	}

	room.Seats[seat] = nil
	player.SeatNumber = -1
	return events, nil
}

func StartGame(room *models.Room) {
	room.Status = models.RoomRunning
}

func PauseGame(room *models.Room) {
	room.Status = models.RoomPaused
}

func ResumeGame(room *models.Room) {
	room.Status = models.RoomRunning
}

func StopGame(room *models.Room) {
	room.Status = models.RoomStopped
	room.Hand = nil
}

// TransferHost re-binds the host pointer, used both for explicit join-by-
// original-host rebinding and for disconnect-triggered succession.
func TransferHost(room *models.Room, newHostSessionID string) {
	room.Host = newHostSessionID
}

func EnablePrivilegedMode(room *models.Room, secret, expected string) error {
	if secret != expected {
		return fmt.Errorf("nice try")
	}
	room.PrivilegedMode = true
	return nil
}

func DisablePrivilegedMode(room *models.Room) {
	room.PrivilegedMode = false
	room.PendingRig = ""
}

func SetRiggedHand(room *models.Room, handType string) error {
	if !room.PrivilegedMode {
		return fmt.Errorf("god mode not enabled")
	}
	room.PendingRig = handType
	return nil
}
