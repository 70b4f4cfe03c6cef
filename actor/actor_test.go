package actor

import (
	"testing"
	"time"

	"holdemroom/engine"
	"holdemroom/models"
)

// capturingNotifier records every RoomChanged call so a test can inspect
// exactly what the fan-out layer would have been told to broadcast.
type capturingNotifier struct {
	calls [][]models.Event
}

func (n *capturingNotifier) RoomChanged(room *models.Room, events []models.Event) {
	n.calls = append(n.calls, events)
}

func (n *capturingNotifier) lastEvents() []models.Event {
	if len(n.calls) == 0 {
		return nil
	}
	return n.calls[len(n.calls)-1]
}

func testRoomConfig() models.RoomConfig {
	return models.RoomConfig{MaxSeats: 4, SmallBlind: 1, BigBlind: 2, MinBuyInBB: 40, ActionTimeout: 20}
}

// newTestActor builds a Room actor around a fresh host-only room without
// starting its Run goroutine; tests drive it by calling handle directly,
// which is enough to exercise dispatch/afterMutation synchronously. Timer
// durations are set far longer than any test run so none of them fire.
func newTestActor(hostSession string) (*Room, *capturingNotifier) {
	room := engine.NewRoomWithHost("r1", "room", hostSession, hostSession, testRoomConfig())
	notifier := &capturingNotifier{}
	a := NewRoom(room, notifier, "secret", time.Hour, time.Hour, time.Hour)
	return a, notifier
}

func mustHandle(t *testing.T, a *Room, sessionID string, cmd models.Command) models.Response {
	t.Helper()
	resp := a.handle(sessionID, cmd)
	if !resp.Success {
		t.Fatalf("handle(%s) for %s failed: %s", cmd.Command, sessionID, resp.Error)
	}
	return resp
}

func findEvent(events []models.Event, name string) (models.Event, bool) {
	for _, e := range events {
		if e.Event == name {
			return e, true
		}
	}
	return models.Event{}, false
}

func TestDispatchRejectsHostOnlyCommandsFromNonHost(t *testing.T) {
	a, _ := newTestActor("host")
	engine.Join(a.room, "guest", "guest")

	resp := a.handle("guest", models.Command{Command: models.CmdStartGame})
	if resp.Success {
		t.Fatalf("expected start-game from a non-host to fail")
	}
}

func TestLeaveRoomTransfersHostAndBroadcastsHostChanged(t *testing.T) {
	a, notifier := newTestActor("host")
	engine.Join(a.room, "guest", "guest")

	mustHandle(t, a, "host", models.Command{Command: models.CmdLeaveRoom})

	if a.room.Host != "guest" {
		t.Fatalf("expected host succession to guest, got %q", a.room.Host)
	}
	ev, ok := findEvent(notifier.lastEvents(), models.EvtHostChanged)
	if !ok {
		t.Fatalf("expected a host-changed event, got %+v", notifier.lastEvents())
	}
	hc, ok := ev.Data.(models.HostChangedEvent)
	if !ok || hc.NewHostSessionID != "guest" {
		t.Fatalf("unexpected host-changed payload %+v", ev.Data)
	}
}

func TestLeaveRoomRejectsUnknownSession(t *testing.T) {
	a, _ := newTestActor("host")
	resp := a.handle("stranger", models.Command{Command: models.CmdLeaveRoom})
	if resp.Success {
		t.Fatalf("expected leave-room for an unknown session to fail")
	}
}

func TestAfterMutationNotifiesOnEveryHandledCommand(t *testing.T) {
	a, notifier := newTestActor("host")
	engine.Join(a.room, "guest", "guest")

	mustHandle(t, a, "host", models.Command{Command: models.CmdRequestSeat, Data: map[string]interface{}{
		"seatIndex": 0, "buyIn": 80,
	}})
	if len(notifier.calls) != 1 {
		t.Fatalf("expected exactly one RoomChanged call, got %d", len(notifier.calls))
	}
}

// TestPlayerActionFlowAdvancesHandAndEmitsPlayerAction seats two players,
// starts a hand, and submits one action through the same dispatch path the
// websocket layer uses, checking both the room mutation and the event the
// fan-out layer receives.
func TestPlayerActionFlowAdvancesHandAndEmitsPlayerAction(t *testing.T) {
	a, notifier := newTestActor("host")
	engine.Join(a.room, "guest", "guest")

	mustHandle(t, a, "host", models.Command{Command: models.CmdRequestSeat, Data: map[string]interface{}{
		"seatIndex": 0, "buyIn": 200,
	}})
	mustHandle(t, a, "guest", models.Command{Command: models.CmdRequestSeat, Data: map[string]interface{}{
		"seatIndex": 1, "buyIn": 200,
	}})
	var requestID string
	for id, req := range a.room.SeatRequests {
		if req.SessionID == "guest" {
			requestID = id
		}
	}
	if requestID == "" {
		t.Fatalf("expected guest's seat request to be queued for host approval")
	}
	mustHandle(t, a, "host", models.Command{Command: models.CmdApproveSeat, Data: map[string]interface{}{
		"requestId": requestID,
	}})

	// start-game only flips room status; dealing the opening hand is
	// normally the next-hand timer's job once two seats are filled. Invoke
	// the engine directly here rather than waiting on a real timer.
	events, err := engine.StartHand(a.room)
	if err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	a.afterMutation(events)

	hand := a.room.Hand
	if hand == nil {
		t.Fatalf("expected a hand to be dealt")
	}
	actingSeat := hand.CurrentTurnSeat
	actingSession := a.room.Seats[actingSeat].SessionID

	mustHandle(t, a, actingSession, models.Command{Command: models.CmdPlayerAction, Data: map[string]interface{}{
		"action": "call",
	}})

	ev, ok := findEvent(notifier.lastEvents(), models.EvtPlayerAction)
	if !ok {
		t.Fatalf("expected a player-action event, got %+v", notifier.lastEvents())
	}
	pa, ok := ev.Data.(models.PlayerActionEvent)
	if !ok || pa.SeatIndex != actingSeat {
		t.Fatalf("unexpected player-action payload %+v", ev.Data)
	}
}

func TestPrivilegedModeRequiresMatchingSecret(t *testing.T) {
	a, _ := newTestActor("host")
	resp := a.handle("host", models.Command{Command: models.CmdPrivilegedEnable, Data: map[string]interface{}{
		"secret": "wrong",
	}})
	if resp.Success {
		t.Fatalf("expected privileged-mode-enable with a wrong secret to fail")
	}
	if a.room.PrivilegedMode {
		t.Fatalf("privileged mode must not be enabled by a wrong secret")
	}

	mustHandle(t, a, "host", models.Command{Command: models.CmdPrivilegedEnable, Data: map[string]interface{}{
		"secret": "secret",
	}})
	if !a.room.PrivilegedMode {
		t.Fatalf("expected privileged mode to be enabled with the matching secret")
	}
}
