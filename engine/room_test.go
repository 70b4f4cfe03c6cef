package engine

import (
	"testing"

	"holdemroom/models"
)

func TestRequestSeatAutoApprovesHost(t *testing.T) {
	room := NewRoomWithHost("r1", "Test Room", "host", "Host", testConfig())
	minBuyIn := testConfig().MinBuyInBB * testConfig().BigBlind

	req, err := RequestSeat(room, "host", 0, minBuyIn)
	if err != nil {
		t.Fatalf("RequestSeat: %v", err)
	}
	if room.Seats[0] == nil || room.Seats[0].SessionID != "host" {
		t.Fatalf("expected host to be auto-seated")
	}
	if _, ok := room.SeatRequests[req.RequestID]; ok {
		t.Fatalf("host's own request should not be queued")
	}
}

func TestRequestSeatQueuesForNonHost(t *testing.T) {
	room := NewRoomWithHost("r1", "Test Room", "host", "Host", testConfig())
	Join(room, "guest", "Guest")
	minBuyIn := testConfig().MinBuyInBB * testConfig().BigBlind

	req, err := RequestSeat(room, "guest", 1, minBuyIn)
	if err != nil {
		t.Fatalf("RequestSeat: %v", err)
	}
	if room.Seats[1] != nil {
		t.Fatalf("guest should not be auto-seated")
	}
	if _, ok := room.SeatRequests[req.RequestID]; !ok {
		t.Fatalf("expected a pending seat request")
	}

	approved, err := ApproveSeat(room, req.RequestID)
	if err != nil {
		t.Fatalf("ApproveSeat: %v", err)
	}
	if approved.SessionID != "guest" {
		t.Fatalf("unexpected approved request %+v", approved)
	}
	if room.Seats[1] == nil || room.Seats[1].SessionID != "guest" {
		t.Fatalf("expected guest to be seated after approval")
	}
}

func TestRequestSeatRejectsBelowMinimumBuyIn(t *testing.T) {
	room := NewRoomWithHost("r1", "Test Room", "host", "Host", testConfig())
	Join(room, "guest", "Guest")

	_, err := RequestSeat(room, "guest", 1, 1)
	if err == nil {
		t.Fatalf("expected an error for a below-minimum buy-in")
	}
}

func TestLeaveSeatDuringTurnAutoFolds(t *testing.T) {
	room := newTestRoom(2, 200)
	if _, err := StartHand(room); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	hand := room.Hand
	actingSeat := hand.CurrentTurnSeat
	actingSession := room.Seats[actingSeat].SessionID

	events, err := LeaveSeat(room, actingSession)
	if err != nil {
		t.Fatalf("LeaveSeat: %v", err)
	}
	if room.Seats[actingSeat] != nil {
		t.Fatalf("expected the seat to be vacated")
	}
	if hand.Phase != models.PhaseShowdown {
		t.Fatalf("auto-fold on the only remaining opponent should end the hand, phase=%s", hand.Phase)
	}
	if len(events) == 0 {
		t.Fatalf("expected at least a fold event")
	}
}

func TestEnablePrivilegedModeRejectsWrongSecret(t *testing.T) {
	room := NewRoomWithHost("r1", "Test Room", "host", "Host", testConfig())
	if err := EnablePrivilegedMode(room, "wrong", "correct"); err == nil {
		t.Fatalf("expected a mismatched secret to be rejected")
	}
	if room.PrivilegedMode {
		t.Fatalf("privileged mode must not be enabled on a bad secret")
	}
	if err := EnablePrivilegedMode(room, "correct", "correct"); err != nil {
		t.Fatalf("EnablePrivilegedMode: %v", err)
	}
	if !room.PrivilegedMode {
		t.Fatalf("expected privileged mode to be enabled")
	}
}

func TestSetRiggedHandRequiresPrivilegedMode(t *testing.T) {
	room := NewRoomWithHost("r1", "Test Room", "host", "Host", testConfig())
	if err := SetRiggedHand(room, RigRoyalFlush); err == nil {
		t.Fatalf("expected rigging to be rejected outside privileged mode")
	}
	if err := EnablePrivilegedMode(room, "s", "s"); err != nil {
		t.Fatalf("EnablePrivilegedMode: %v", err)
	}
	if err := SetRiggedHand(room, RigRoyalFlush); err != nil {
		t.Fatalf("SetRiggedHand: %v", err)
	}
	if room.PendingRig != RigRoyalFlush {
		t.Fatalf("expected the pending rig to be recorded")
	}
}
