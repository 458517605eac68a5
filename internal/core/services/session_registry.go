package services

import (
	"sync"
	"time"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"
)

// SessionRegistry is the process-wide map of in-flight upload sessions.
// It is injected into the orchestrator so the service itself carries no
// hidden shared state. Every pipeline exit path clears its session, so a
// registry entry never outlives the request that created it.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.UploadSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*domain.UploadSession),
	}
}

// Register creates the session for uploadID, or returns the existing one.
// Registering the same id twice is a no-op, not an error.
func (r *SessionRegistry) Register(uploadID, ownerID string) *domain.UploadSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[uploadID]; ok {
		return existing
	}

	session := &domain.UploadSession{
		ID:           uploadID,
		OwnerID:      ownerID,
		RegisteredAt: time.Now(),
	}
	r.sessions[uploadID] = session
	return session
}

// Get returns the live session for uploadID, if any.
func (r *SessionRegistry) Get(uploadID string) (*domain.UploadSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[uploadID]
	return session, ok
}

// Clear removes the session. Clearing an unknown id is a safe no-op.
func (r *SessionRegistry) Clear(uploadID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, uploadID)
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

var _ ports.SessionStore = (*SessionRegistry)(nil)
