package driven

import (
	"context"

	"github.com/forlark/larkfetch/internal/core/domain"
)

// SessionStore persists the single user session and the in-flight
// authorization attempt. Both slots hold at most one record; saving
// replaces any existing one.
type SessionStore interface {
	// SaveSession stores the user session, replacing any prior one.
	SaveSession(ctx context.Context, session *domain.UserSession) error

	// GetSession retrieves the stored session.
	// Returns domain.ErrNotFound when none exists.
	GetSession(ctx context.Context) (*domain.UserSession, error)

	// DeleteSession removes the stored session. Deleting when none
	// exists is not an error.
	DeleteSession(ctx context.Context) error

	// SavePending stores the in-flight authorization attempt,
	// replacing any prior one.
	SavePending(ctx context.Context, pending *domain.PendingAuthorization) error

	// GetPending retrieves the in-flight authorization attempt.
	// Returns domain.ErrNotFound when none exists.
	GetPending(ctx context.Context) (*domain.PendingAuthorization, error)

	// DeletePending removes the in-flight authorization attempt.
	DeletePending(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
