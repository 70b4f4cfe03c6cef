// Package actor implements the single-writer room executor: one goroutine
// per room draining one command channel, applying engine package functions
// to the room's state, and handing the resulting events to a Notifier.
// Timer callbacks (action clock, all-in fast-forward, run-it-twice vote
// deadline, auto-start next hand) re-enter the same goroutine as ordinary
// commands instead of mutating state from their own goroutine.
package actor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"holdemroom/engine"
	"holdemroom/models"
)

// Notifier is how a Room pushes state changes out to the fan-out layer. It
// runs synchronously inside the actor goroutine, before the triggering
// command's reply is sent, so a client can never observe a broadcast that
// lags behind the acknowledgment of its own command.
type Notifier interface {
	RoomChanged(room *models.Room, events []models.Event)
}

type request struct {
	sessionID string
	cmd       models.Command
	reply     chan models.Response
}

type timerFire struct {
	kind string
	gen  int
}

const (
	timerAction      = "action"
	timerAdvance     = "advance"
	timerRunItTwice  = "run-it-twice"
	timerNextHand    = "next-hand"
)

// Room is the serial executor wrapping one *models.Room. No goroutine other
// than the one running Run may touch the wrapped room.
type Room struct {
	room             *models.Room
	notifier         Notifier
	privilegedSecret string

	actionTimeout time.Duration
	displayDelay  time.Duration
	nextHandDelay time.Duration

	requests chan request
	timers   chan timerFire
	done     chan struct{}
	stopOnce sync.Once

	handTimer  *time.Timer
	handGen    int
	nextTimer  *time.Timer
	nextGen    int
}

func NewRoom(room *models.Room, notifier Notifier, privilegedSecret string, actionTimeout, displayDelay, nextHandDelay time.Duration) *Room {
	return &Room{
		room:             room,
		notifier:         notifier,
		privilegedSecret: privilegedSecret,
		actionTimeout:    actionTimeout,
		displayDelay:     displayDelay,
		nextHandDelay:    nextHandDelay,
		requests:         make(chan request, 64),
		timers:           make(chan timerFire, 8),
		done:             make(chan struct{}),
	}
}

func (r *Room) RoomID() string { return r.room.RoomID }

// Run drains commands and timer callbacks until ctx is cancelled or Stop is
// called. Call it on its own goroutine.
func (r *Room) Run(ctx context.Context) {
	defer r.stopAllTimers()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case req := <-r.requests:
			req.reply <- r.handle(req.sessionID, req.cmd)
		case t := <-r.timers:
			r.handleTimer(t)
		}
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Submit enqueues a client command and blocks for its acknowledgment. Safe
// to call from any goroutine.
func (r *Room) Submit(sessionID string, cmd models.Command) models.Response {
	reply := make(chan models.Response, 1)
	r.requests <- request{sessionID: sessionID, cmd: cmd, reply: reply}
	return <-reply
}

func (r *Room) handle(sessionID string, cmd models.Command) models.Response {
	events, err := r.dispatch(sessionID, cmd)
	if err != nil {
		return models.Response{Success: false, Error: err.Error()}
	}
	r.afterMutation(events)
	return models.Response{Success: true}
}

func (r *Room) dispatch(sessionID string, cmd models.Command) ([]models.Event, error) {
	switch cmd.Command {
	case models.CmdJoinRoom:
		engine.Join(r.room, sessionID, getString(cmd.Data, "username"))
		return nil, nil

	case models.CmdRequestSeat:
		req, err := engine.RequestSeat(r.room, sessionID, getInt(cmd.Data, "seatIndex"), getInt(cmd.Data, "buyIn"))
		if err != nil {
			return nil, err
		}
		if _, queued := r.room.SeatRequests[req.RequestID]; !queued {
			return nil, nil // host auto-approval: no queue event to announce
		}
		return []models.Event{{Event: models.EvtSeatRequested, RoomID: r.room.RoomID, Data: models.SeatRequestedEvent{
			RequestID: req.RequestID, SeatIndex: req.SeatIndex, BuyIn: req.BuyIn,
		}}}, nil

	case models.CmdApproveSeat:
		if err := r.requireHost(sessionID); err != nil {
			return nil, err
		}
		req, err := engine.ApproveSeat(r.room, getString(cmd.Data, "requestId"))
		if err != nil {
			return nil, err
		}
		return []models.Event{{Event: models.EvtSeatApproved, RoomID: r.room.RoomID, Data: req}}, nil

	case models.CmdDenySeat:
		if err := r.requireHost(sessionID); err != nil {
			return nil, err
		}
		req, err := engine.DenySeat(r.room, getString(cmd.Data, "requestId"))
		if err != nil {
			return nil, err
		}
		return []models.Event{{Event: models.EvtSeatDenied, RoomID: r.room.RoomID, Data: req}}, nil

	case models.CmdCancelSeatRequest:
		engine.CancelSeatRequest(r.room, sessionID)
		return nil, nil

	case models.CmdLeaveSeat:
		return engine.LeaveSeat(r.room, sessionID)

	case models.CmdStartGame:
		if err := r.requireHost(sessionID); err != nil {
			return nil, err
		}
		engine.StartGame(r.room)
		return nil, nil

	case models.CmdPauseGame:
		if err := r.requireHost(sessionID); err != nil {
			return nil, err
		}
		engine.PauseGame(r.room)
		return nil, nil

	case models.CmdResumeGame:
		if err := r.requireHost(sessionID); err != nil {
			return nil, err
		}
		engine.ResumeGame(r.room)
		return nil, nil

	case models.CmdStopGame:
		if err := r.requireHost(sessionID); err != nil {
			return nil, err
		}
		engine.StopGame(r.room)
		return nil, nil

	case models.CmdPlayerAction:
		action := models.PlayerAction(getString(cmd.Data, "action"))
		return engine.ProcessAction(r.room, sessionID, action, getInt(cmd.Data, "amount"))

	case models.CmdShowHand:
		return nil, engine.ShowHand(r.room, sessionID)

	case models.CmdMuckHand:
		return nil, engine.MuckHand(r.room, sessionID)

	case models.CmdRunItTwiceVote:
		return engine.CastRunItTwiceVote(r.room, sessionID, getBool(cmd.Data, "accept"))

	case models.CmdLeaveRoom:
		return r.leaveRoom(sessionID)

	case models.CmdPrivilegedEnable:
		return nil, engine.EnablePrivilegedMode(r.room, getString(cmd.Data, "secret"), r.privilegedSecret)

	case models.CmdSetRiggedHand:
		if !r.room.PrivilegedMode {
			return nil, fmt.Errorf("god mode not enabled")
		}
		return nil, engine.SetRiggedHand(r.room, getString(cmd.Data, "handType"))

	case models.CmdPrivilegedDisable:
		engine.DisablePrivilegedMode(r.room)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command: %s", cmd.Command)
	}
}

func (r *Room) requireHost(sessionID string) error {
	if sessionID != r.room.Host {
		return fmt.Errorf("only the host can do that")
	}
	return nil
}

// leaveRoom drops sessionID entirely: vacates their seat (auto-folding if
// they were live), removes them from the room's player/spectator roster,
// and transfers host if they held it.
func (r *Room) leaveRoom(sessionID string) ([]models.Event, error) {
	player, ok := r.room.Players[sessionID]
	if !ok {
		return nil, fmt.Errorf("not in this room")
	}

	var events []models.Event
	if player.SeatNumber >= 0 {
		evs, err := engine.LeaveSeat(r.room, sessionID)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}

	delete(r.room.Players, sessionID)
	for i, id := range r.room.PlayerOrder {
		if id == sessionID {
			r.room.PlayerOrder = append(r.room.PlayerOrder[:i], r.room.PlayerOrder[i+1:]...)
			break
		}
	}

	if r.room.Host == sessionID && len(r.room.PlayerOrder) > 0 {
		newHost := r.room.PlayerOrder[0]
		engine.TransferHost(r.room, newHost)
		events = append(events, models.Event{
			Event: models.EvtHostChanged, RoomID: r.room.RoomID,
			Data: models.HostChangedEvent{NewHostSessionID: newHost},
		})
	}
	return events, nil
}

// afterMutation notifies the fan-out layer and re-arms whatever timer the
// new state implies: a player's action clock, an all-in fast-forward step,
// a run-it-twice vote deadline, or the next hand's auto-start.
func (r *Room) afterMutation(events []models.Event) {
	r.notifier.RoomChanged(r.room, events)
	r.rescheduleHandTimer()
	r.rescheduleNextHandTimer()
}

func (r *Room) rescheduleHandTimer() {
	r.handGen++
	gen := r.handGen
	if r.handTimer != nil {
		r.handTimer.Stop()
		r.handTimer = nil
	}

	hand := r.room.Hand
	if hand == nil {
		return
	}

	switch {
	case hand.RunItTwice.Offered && !hand.RunItTwice.Activated && hand.RunItTwice.Deadline != nil:
		wait := time.Until(*hand.RunItTwice.Deadline)
		if wait < 0 {
			wait = 0
		}
		r.armHandTimer(timerRunItTwice, gen, wait)

	case hand.CurrentTurnSeat < 0 && (hand.Phase == models.PhasePreFlop || hand.Phase == models.PhaseFlop ||
		hand.Phase == models.PhaseTurn || hand.Phase == models.PhaseRiver):
		// Nobody left to act: fast-forward the remaining streets with a
		// short pause between each so spectators can see them land.
		r.armHandTimer(timerAdvance, gen, r.displayDelay)

	case hand.CurrentTurnSeat >= 0 && r.actionTimeout > 0:
		r.armHandTimer(timerAction, gen, r.actionTimeout)
	}
}

func (r *Room) rescheduleNextHandTimer() {
	r.nextGen++
	gen := r.nextGen
	if r.nextTimer != nil {
		r.nextTimer.Stop()
		r.nextTimer = nil
	}

	if r.room.Status != models.RoomRunning {
		return
	}
	if r.room.Hand != nil && r.room.Hand.Phase != models.PhaseShowdown {
		return
	}
	seated := 0
	for _, p := range r.room.Seats {
		if p != nil && p.Chips > 0 {
			seated++
		}
	}
	if seated < 2 {
		return
	}

	r.nextTimer = time.AfterFunc(r.nextHandDelay, func() {
		select {
		case r.timers <- timerFire{kind: timerNextHand, gen: gen}:
		case <-r.done:
		}
	})
}

func (r *Room) armHandTimer(kind string, gen int, wait time.Duration) {
	r.handTimer = time.AfterFunc(wait, func() {
		select {
		case r.timers <- timerFire{kind: kind, gen: gen}:
		case <-r.done:
		}
	})
}

func (r *Room) handleTimer(t timerFire) {
	switch t.kind {
	case timerNextHand:
		if t.gen != r.nextGen {
			return
		}
		events, err := engine.StartHand(r.room)
		if err != nil {
			return
		}
		r.afterMutation(events)

	case timerAction:
		if t.gen != r.handGen || r.room.Hand == nil {
			return
		}
		r.autoActOnTimeout()

	case timerAdvance:
		if t.gen != r.handGen || r.room.Hand == nil {
			return
		}
		events, err := engine.AdvancePhase(r.room)
		if err != nil {
			return
		}
		r.afterMutation(events)

	case timerRunItTwice:
		if t.gen != r.handGen || r.room.Hand == nil {
			return
		}
		events, err := engine.ResolveRunItTwiceTimeout(r.room)
		if err != nil {
			return
		}
		r.afterMutation(events)
	}
}

// autoActOnTimeout folds the seat whose clock expired, or checks if check
// is legal, and announces which it did.
func (r *Room) autoActOnTimeout() {
	hand := r.room.Hand
	seat := hand.CurrentTurnSeat
	if seat < 0 || seat >= len(r.room.Seats) || r.room.Seats[seat] == nil {
		return
	}
	player := r.room.Seats[seat]

	action := models.ActionFold
	if player.Bet == hand.CurrentBet {
		action = models.ActionCheck
	}

	events, err := engine.ProcessAction(r.room, player.SessionID, action, 0)
	if err != nil {
		return
	}
	events = append(events, models.Event{
		Event: models.EvtPlayerAction, RoomID: r.room.RoomID,
		Data: models.ActionTimeoutEvent{SeatIndex: seat, AutoAction: string(action)},
	})
	r.afterMutation(events)
}

func (r *Room) stopAllTimers() {
	if r.handTimer != nil {
		r.handTimer.Stop()
	}
	if r.nextTimer != nil {
		r.nextTimer.Stop()
	}
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	if v, ok := data[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return 0
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
