package utils

import (
	"sync"
	"time"

	"menu-backend/cart"

	"github.com/google/uuid"
)

// Session is one guest's ordering session and its cart.
type Session struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	BranchID     *uuid.UUID
	Cart         *cart.Cart
	CreatedAt    time.Time
	LastSeen     time.Time
}

// SessionStore keeps guest sessions in memory
type SessionStore struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
	idleTTL  time.Duration
	now      func() time.Time
}

func NewSessionStore(idleTTL time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// CleanupIdle removes sessions not seen within the idle TTL.
func (s *SessionStore) CleanupIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Create opens a new session with an empty cart
func (s *SessionStore) Create(restaurantID uuid.UUID, branchID *uuid.UUID) *Session {
	// Clean up idle sessions on each new creation
	s.CleanupIdle()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		BranchID:     branchID,
		Cart:         cart.New(),
		CreatedAt:    now,
		LastSeen:     now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Touch returns the session and marks it as seen. A session that was evicted
// but still carries a valid token is recreated with an empty cart.
func (s *SessionStore) Touch(id, restaurantID uuid.UUID, branchID *uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, exists := s.sessions[id]; exists && !sess.LastSeen.Before(now.Add(-s.idleTTL)) {
		sess.LastSeen = now
		return sess
	}

	sess := &Session{
		ID:           id,
		RestaurantID: restaurantID,
		BranchID:     branchID,
		Cart:         cart.New(),
		CreatedAt:    now,
		LastSeen:     now,
	}
	s.sessions[id] = sess
	return sess
}

// Get retrieves a session by ID
func (s *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	return sess, exists
}

// Len is the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor evicts idle sessions every interval until stop is closed.
func (s *SessionStore) RunJanitor(interval time.Duration, stop <-chan struct{}, onEvict func(n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.CleanupIdle(); n > 0 && onEvict != nil {
				onEvict(n)
			}
		case <-stop:
			return
		}
	}
}
