package models

import "time"

type RoomStatus string

const (
	RoomRunning RoomStatus = "running"
	RoomPaused  RoomStatus = "paused"
	RoomStopped RoomStatus = "stopped"
)

// RoomConfig holds the per-room settings an external collaborator chooses
// at room-creation time; none of it is renegotiated mid-hand.
type RoomConfig struct {
	MaxSeats      int `json:"maxSeats"`
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
	MinBuyInBB    int `json:"minBuyInBB"` // request-seat requires buyIn >= MinBuyInBB * BigBlind
	ActionTimeout int `json:"actionTimeoutSeconds"`
}

// SeatRequest is a pending request to fill an empty seat, awaiting host
// approval (or auto-approved when the requester is the host).
type SeatRequest struct {
	RequestID string    `json:"requestId"`
	SessionID string    `json:"sessionId"`
	SeatIndex int       `json:"seatIndex"`
	BuyIn     int        `json:"buyIn"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is the passive room-scoped data: seats, players, pot bookkeeping,
// phase, blinds, deck remainder, community board(s), seat-request queue,
// and showdown snapshot. All mutation happens through the room actor that
// wraps it; nothing here is safe for concurrent use on its own.
type Room struct {
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName"`
	Host        string `json:"host"` // session identity holding privileged room controls

	Config RoomConfig `json:"config"`

	// Seats is a fixed-length array; a nil slot is empty.
	Seats []*Player `json:"seats"`

	// Players is a superset of seated players: it also holds spectators
	// (a session that joined but has no seat yet).
	Players map[string]*Player `json:"-"`
	// PlayerOrder records session-id insertion order, the deterministic
	// tiebreaker for host succession (§4.6).
	PlayerOrder []string `json:"-"`

	Status RoomStatus `json:"status"`

	HandNumber int          `json:"handNumber"`
	Deck       *Deck        `json:"-"`
	Hand       *CurrentHand `json:"currentHand,omitempty"`

	SeatRequests map[string]*SeatRequest `json:"seatRequests,omitempty"`

	PrivilegedMode bool `json:"-"`

	// PendingRig, when non-empty, is a privileged-mode test fixture that
	// forces the next hand's deal into a specific deterministic
	// arrangement. Consumed and cleared by the next StartHand.
	PendingRig string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func NewRoom(roomID, displayName, host string, config RoomConfig) *Room {
	if config.MaxSeats <= 0 {
		config.MaxSeats = 8
	}
	return &Room{
		RoomID:       roomID,
		DisplayName:  displayName,
		Host:         host,
		Config:       config,
		Seats:        make([]*Player, config.MaxSeats),
		Players:      make(map[string]*Player),
		PlayerOrder:  make([]string, 0, config.MaxSeats),
		Status:       RoomRunning,
		SeatRequests: make(map[string]*SeatRequest),
		CreatedAt:    time.Now(),
	}
}

// SeatedCount returns how many non-spectator seats are occupied.
func (r *Room) SeatedCount() int {
	count := 0
	for _, p := range r.Seats {
		if p != nil {
			count++
		}
	}
	return count
}

// PlayerBySession returns the room-scoped player for a session, including
// spectators.
func (r *Room) PlayerBySession(sessionID string) *Player {
	return r.Players[sessionID]
}
