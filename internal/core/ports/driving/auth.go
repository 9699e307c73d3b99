package driving

import (
	"context"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
)

// AuthorizationStart is the outcome of beginning an OAuth attempt:
// the URL to open in a browser and the state nonce the callback must
// echo back.
type AuthorizationStart struct {
	URL    string        `json:"url"`
	State  string        `json:"state"`
	Region domain.Region `json:"region"`
}

// AuthStatus reports the current session for status displays.
type AuthStatus struct {
	// Authorized is true when a user session exists, expired or not.
	Authorized bool `json:"authorized"`
	// Expired is true when the session's access token is past its
	// margin-adjusted expiry.
	Expired bool `json:"expired"`
	// Refreshable is true when the session carries a refresh token.
	Refreshable bool `json:"refreshable"`
	// ExpiresAt is the access token's expiry, zero when unauthorized.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	// Region the session belongs to.
	Region domain.Region `json:"region,omitempty"`
	// User is the session owner's profile, nil when unknown.
	User *domain.UserProfile `json:"user,omitempty"`
}

// AuthService runs the user authorization lifecycle: the OAuth flow,
// manual token entry, refresh, and logout.
type AuthService interface {
	// Begin starts an OAuth attempt for a region: issues a fresh state
	// nonce, records the pending authorization, and returns the
	// browser URL. A new attempt replaces any prior pending one.
	Begin(ctx context.Context, region domain.Region, redirectURI string) (*AuthorizationStart, error)

	// Complete finishes an OAuth attempt with the code and state from
	// the callback. A state mismatch fails with domain.ErrStateMismatch
	// and leaves no session. On success the session is persisted and
	// the pending authorization cleared; a failed profile fetch is
	// logged but does not fail completion.
	Complete(ctx context.Context, code, state string) (*domain.UserSession, error)

	// CompleteFromURL parses a pasted callback URL and completes the
	// attempt with the code and state it carries.
	CompleteFromURL(ctx context.Context, rawURL string) (*domain.UserSession, error)

	// Refresh exchanges the session's refresh token for fresh tokens.
	// Returns domain.ErrNoRefreshToken for unrefreshable sessions and
	// domain.ErrNotAuthorized when no session exists.
	Refresh(ctx context.Context) (*domain.UserSession, error)

	// SetManualToken stores a hand-supplied access token as the
	// session. Manual sessions have no refresh token and assume the
	// platform's default two-hour validity.
	SetManualToken(ctx context.Context, accessToken string, region domain.Region) (*domain.UserSession, error)

	// Status reports the current session state.
	Status(ctx context.Context) (*AuthStatus, error)

	// Logout discards the stored session and any pending attempt.
	Logout(ctx context.Context) error
}
