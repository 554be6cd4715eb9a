package session

import (
	"context"
	"sync"
	"time"

	"github.com/sman1la/tatib-bot/internal/models"
)

// MemoryStore keeps sessions in process memory. This is the default
// backend; state is lost on restart, which matches the conversational
// contract (users simply start over).
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session
	idleTTL  time.Duration
}

// NewMemoryStore constructs a MemoryStore. idleTTL of zero disables
// expiry; otherwise sessions untouched for longer than idleTTL are
// treated as absent on read.
func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*models.Session),
		idleTTL:  idleTTL,
	}
}

// Get returns the stored session or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, userID int64) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.idleTTL > 0 && time.Since(sess.UpdatedAt) > s.idleTTL {
		s.mu.Lock()
		delete(s.sessions, userID)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

// Put stores the session, replacing any previous one for the same user.
func (s *MemoryStore) Put(_ context.Context, sess *models.Session) error {
	copied := *sess
	copied.UpdatedAt = time.Now()
	s.mu.Lock()
	s.sessions[sess.UserID] = &copied
	s.mu.Unlock()
	return nil
}

// Delete removes the session. Deleting an absent session is a no-op.
func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}
