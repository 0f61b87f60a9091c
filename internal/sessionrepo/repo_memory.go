// Package sessionrepo manages repository layer of sessions.
//
// Sessions live in process memory only and are gone after a restart.
package sessionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RepoMemory facilitates session repository layer logic.
type RepoMemory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]domain.Session
	now      func() time.Time
}

// NewRepoMemory returns an empty session store.
func NewRepoMemory() *RepoMemory {
	return &RepoMemory{
		sessions: make(map[uuid.UUID]domain.Session),
		now:      time.Now,
	}
}

// Create stores the session and then returns it.
func (r *RepoMemory) Create(ctx context.Context, s domain.Session) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()

	r.sessions[s.ID] = s

	zerolog.Ctx(ctx).Debug().Str("session_id", s.ID.String()).Str("username", s.Username).Msg("session created")

	return s, nil
}

// Get returns the session with the given id.
func (r *RepoMemory) Get(_ context.Context, id uuid.UUID) (domain.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	if r.now().After(s.ExpiresAt) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()

		return domain.Session{}, domain.ErrExpiredSession
	}

	return s, nil
}

// Delete removes the session with the given id.
func (r *RepoMemory) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}

	delete(r.sessions, id)

	return nil
}

// Len returns the number of stored sessions.
func (r *RepoMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// sweep drops expired sessions. Callers hold the write lock.
func (r *RepoMemory) sweep() {
	now := r.now()

	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
		}
	}
}
