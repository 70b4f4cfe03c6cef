package session

import (
	"sync"

	"golang.org/x/time/rate"
)

// ConnectionLimiter caps how fast one connection can push commands into a
// room, preventing a single misbehaving client from flooding an actor's
// request channel. Grounded on the teacher's WebSocketActionLimiter, more
// restrictive than its HTTP rate limiter since every accepted message here
// becomes a room-actor round trip.
type ConnectionLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewConnectionLimiter() *ConnectionLimiter {
	return &ConnectionLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *ConnectionLimiter) Allow(connID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[connID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(5), 10)
		l.limiters[connID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

func (l *ConnectionLimiter) Forget(connID string) {
	l.mu.Lock()
	delete(l.limiters, connID)
	l.mu.Unlock()
}
