package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"adframes/internal/domain"
)

// SessionStore holds upload sessions between requests. Get returns a copy
// that callers may change freely and write back with Update. Update fails
// with domain.ErrInvalidSessionState when the session was written since the
// copy was read.
type SessionStore interface {
	Create(ctx context.Context, s *domain.UploadSession) error
	Get(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	Update(ctx context.Context, s *domain.UploadSession) error
	// Transition atomically moves the session to "to" if it is currently in
	// one of "from", returning the updated copy.
	Transition(ctx context.Context, id uuid.UUID, from []domain.SessionState, to domain.SessionState) (*domain.UploadSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	EvictExpired(now time.Time) int
}
