package picker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory creates the Picker for a new session.
type Factory func(session string) *Picker

type sessionEntry struct {
	picker   *Picker
	lastSeen time.Time
}

// Sessions keeps one Picker per browser session in memory. A session that
// stays idle longer than the TTL is dropped along with its state.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	factory Factory
	ttl     time.Duration
	now     func() time.Time
}

// NewSessions returns an empty session table.
func NewSessions(factory Factory, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		entries: make(map[string]*sessionEntry),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Acquire returns the picker for id, creating a new session when id is
// empty or unknown. The returned id is the one to hand back to the client.
func (s *Sessions) Acquire(id string) (string, *Picker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[id]; ok && id != "" {
		e.lastSeen = now
		return id, e.picker
	}
	id = uuid.NewString()
	e := &sessionEntry{picker: s.factory(id), lastSeen: now}
	s.entries[id] = e
	return id, e.picker
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
