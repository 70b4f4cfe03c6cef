package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"holdemroom/actor"
	"holdemroom/engine"
	"holdemroom/models"
)

// record is what the session map keeps per durable session identity.
type record struct {
	connID string
	roomID string
	name   string
}

// roomEntry pairs a running room actor with the sockets currently
// subscribed to it, keyed by connection id.
type roomEntry struct {
	room  *actor.Room
	conns map[string]*Client
	reap  *time.Timer
}

// Manager is the fan-out layer: it owns every live *Client and every
// running *actor.Room, and is the actor.Notifier each room broadcasts
// through. One Manager serves the whole process; rooms underneath it run
// independently per spec §5's cross-room parallelism.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*record
	connRoom map[string]string
	rooms    map[string]*roomEntry

	disconnectTimers map[string]*time.Timer

	registry *engine.RoomManager
	config   RoomDefaults

	reapGrace       time.Duration
	disconnectGrace time.Duration

	idempotency *ActionTracker
	limiter     *ConnectionLimiter
}

// RoomDefaults seeds a room the first time someone joins an unknown
// roomID; actual room discovery/creation policy lives in the external
// collaborator this layer assumes, not here.
type RoomDefaults struct {
	Config           models.RoomConfig
	PrivilegedSecret string
	ActionTimeout    time.Duration
	DisplayDelay     time.Duration
	NextHandDelay    time.Duration
}

func NewManager(registry *engine.RoomManager, defaults RoomDefaults, reapGrace, disconnectGrace time.Duration) *Manager {
	return &Manager{
		sessions:         make(map[string]*record),
		connRoom:         make(map[string]string),
		rooms:            make(map[string]*roomEntry),
		disconnectTimers: make(map[string]*time.Timer),
		registry:         registry,
		config:           defaults,
		reapGrace:        reapGrace,
		disconnectGrace:  disconnectGrace,
		idempotency:      NewActionTracker(5 * time.Minute),
		limiter:          NewConnectionLimiter(),
	}
}

// Connect registers a new socket under sessionID in roomID, creating the
// room (with sessionID as host) the first time it is seen. It rejects a
// second simultaneous connection for a session already live in the same
// room, per spec §4.6's duplicate-tab guard.
func (m *Manager) Connect(conn *websocket.Conn, sessionID, roomID, displayName string) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sessionID]; ok && existing.roomID == roomID {
		if entry, ok := m.rooms[roomID]; ok {
			if _, live := entry.conns[existing.connID]; live {
				return nil, fmt.Errorf("session already connected to this room")
			}
		}
	}

	entry := m.rooms[roomID]
	if entry == nil {
		entry = m.startRoom(roomID, sessionID, displayName)
	}
	if entry.reap != nil {
		entry.reap.Stop()
		entry.reap = nil
	}
	if t, ok := m.disconnectTimers[sessionID]; ok {
		t.Stop()
		delete(m.disconnectTimers, sessionID)
	}

	connID := uuid.NewString()
	client := NewClient(sessionID, connID, roomID, conn)
	entry.conns[connID] = client
	m.connRoom[connID] = roomID
	m.sessions[sessionID] = &record{connID: connID, roomID: roomID, name: displayName}

	resp := entry.room.Submit(sessionID, models.Command{
		Command: models.CmdJoinRoom,
		Data:    map[string]interface{}{"username": displayName},
	})
	if !resp.Success {
		log.Printf("join-room %s/%s: %s", sessionID, roomID, resp.Error)
	}

	return client, nil
}

func (m *Manager) startRoom(roomID, hostSessionID, hostName string) *roomEntry {
	cfg := m.config.Config
	room := engine.NewRoomWithHost(roomID, roomID, hostSessionID, hostName, cfg)
	m.registry.Create(room)

	a := actor.NewRoom(room, m, m.config.PrivilegedSecret,
		m.config.ActionTimeout, m.config.DisplayDelay, m.config.NextHandDelay)
	entry := &roomEntry{room: a, conns: make(map[string]*Client)}
	m.rooms[roomID] = entry

	go a.Run(context.Background())
	return entry
}

// HandleMessage decodes one inbound frame as a models.Command, applies
// idempotency/rate-limit gates, submits it to the owning room actor, and
// replies on the same connection with the command's acknowledgment.
func (m *Manager) HandleMessage(c *Client, data []byte) {
	if !m.limiter.Allow(c.ConnID) {
		m.reply(c, models.Response{Success: false, Error: "rate limit exceeded"})
		return
	}

	var cmd models.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		m.reply(c, models.Response{Success: false, Error: "malformed command"})
		return
	}

	if cmd.Command == models.CmdPlayerAction {
		requestID, _ := cmd.Data["requestId"].(string)
		if m.idempotency.IsDuplicate(requestID) {
			m.reply(c, models.Response{Success: true})
			return
		}
		m.idempotency.MarkProcessed(requestID)
	}

	m.mu.Lock()
	entry, ok := m.rooms[c.RoomID]
	m.mu.Unlock()
	if !ok {
		m.reply(c, models.Response{Success: false, Error: "room no longer exists"})
		return
	}

	resp := entry.room.Submit(c.SessionID, cmd)
	m.reply(c, resp)

	if cmd.Command == models.CmdLeaveRoom {
		m.Disconnect(c)
	}
}

func (m *Manager) reply(c *Client, resp models.Response) {
	data, err := json.Marshal(envelope{Type: "response", Payload: resp})
	if err != nil {
		return
	}
	enqueue(c, data)
}

// Disconnect drops a socket. The owning player is not removed immediately:
// a grace window lets a reconnect rebind the same session before the
// layer calls leave-room on its behalf (spec §2's "destroyed ... on
// disconnect after a grace window").
func (m *Manager) Disconnect(c *Client) {
	m.mu.Lock()
	entry, ok := m.rooms[c.RoomID]
	if ok {
		delete(entry.conns, c.ConnID)
	}
	delete(m.connRoom, c.ConnID)
	sessionID := c.SessionID
	roomID := c.RoomID
	m.mu.Unlock()
	m.limiter.Forget(c.ConnID)
	if !ok {
		return
	}

	timer := time.AfterFunc(m.disconnectGrace, func() {
		m.finalizeDisconnect(sessionID, roomID)
	})
	m.mu.Lock()
	m.disconnectTimers[sessionID] = timer
	m.mu.Unlock()
}

func (m *Manager) finalizeDisconnect(sessionID, roomID string) {
	m.mu.Lock()
	if rec, ok := m.sessions[sessionID]; !ok || rec.roomID != roomID {
		m.mu.Unlock()
		return // reconnected elsewhere, or to a different room, during grace
	}
	if _, stillConnected := m.disconnectTimers[sessionID]; !stillConnected {
		m.mu.Unlock()
		return
	}
	delete(m.disconnectTimers, sessionID)
	delete(m.sessions, sessionID)
	entry, ok := m.rooms[roomID]
	m.mu.Unlock()
	if !ok {
		return
	}

	entry.room.Submit(sessionID, models.Command{Command: models.CmdLeaveRoom})

	m.mu.Lock()
	empty := len(entry.conns) == 0
	if empty {
		entry.reap = time.AfterFunc(m.reapGrace, func() { m.reap(roomID) })
	}
	m.mu.Unlock()
}

func (m *Manager) reap(roomID string) {
	m.mu.Lock()
	entry, ok := m.rooms[roomID]
	if !ok || len(entry.conns) != 0 {
		m.mu.Unlock()
		return
	}
	delete(m.rooms, roomID)
	m.mu.Unlock()

	entry.room.Stop()
	m.registry.Delete(roomID)
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
