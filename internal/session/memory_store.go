// Package session keeps upload sessions in memory between requests.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"adframes/internal/domain"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// MemoryStore implements port.SessionStore. Every read and write copies the
// session so callers never share state with the store. Writes are checked
// against the session's Version so a stale copy cannot overwrite a newer one.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.UploadSession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty store; ttl <= 0 uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*domain.UploadSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) touch(s *domain.UploadSession) {
	now := m.now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(m.ttl)
}

func (m *MemoryStore) Create(_ context.Context, s *domain.UploadSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	s.Version = 1
	m.touch(s)
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || m.now().After(s.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, s *domain.UploadSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[s.ID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if stored.Version != s.Version {
		return fmt.Errorf("%w: session %s was changed by another request", domain.ErrInvalidSessionState, s.ID)
	}
	s.Version++
	m.touch(s)
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Transition(_ context.Context, id uuid.UUID, from []domain.SessionState, to domain.SessionState) (*domain.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	allowed := false
	for _, st := range from {
		if s.State == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrInvalidSessionState, s.State)
	}
	s.State = to
	s.Version++
	m.touch(s)
	return s.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// EvictExpired drops sessions whose expiry is before now and returns how many
// were removed. Sessions mid-commit are kept.
func (m *MemoryStore) EvictExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.State != domain.SessionCommitting && now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of held sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
