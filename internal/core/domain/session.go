package domain

import "time"

// UserSessionMargin is how long before expiry a user access token is
// treated as expired and refreshed (or dropped).
const UserSessionMargin = time.Minute

// TokenKind tags which credential class was used for a request.
type TokenKind string

// Token kinds.
const (
	// TokenKindTenant is a service-level application credential.
	TokenKindTenant TokenKind = "tenant"
	// TokenKindUser is an end-user OAuth credential.
	TokenKindUser TokenKind = "user"
)

// UserProfile is the authenticated user's identity, fetched from the
// platform's user_info endpoint after authorization. Optional: a
// session is valid without one.
type UserProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// UserSession stores an end user's OAuth tokens. Exactly one session
// exists at a time: a new authorization silently replaces any prior
// session (single slot, last writer wins).
type UserSession struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken renews the access token. Empty for manually
	// entered tokens, which cannot be refreshed.
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiresAt is when the access token expires.
	ExpiresAt time.Time `json:"expires_at"`
	// Region the session was authorized in.
	Region Region `json:"region"`
	// Kind is always TokenKindUser for stored sessions.
	Kind TokenKind `json:"kind"`
	// User is the owning user's profile, nil when the profile fetch
	// failed or was skipped.
	User *UserProfile `json:"user,omitempty"`
}

// ExpiredAt reports whether the access token is past (or within the
// margin of) its expiry at the given instant.
func (s *UserSession) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt.Add(-UserSessionMargin))
}

// HasRefreshToken reports whether the session can be refreshed.
func (s *UserSession) HasRefreshToken() bool {
	return s.RefreshToken != ""
}

// PendingAuthorization binds an in-flight OAuth attempt to its
// callback. The state nonce is compared exactly on callback; a
// mismatch is a hard authorization failure.
type PendingAuthorization struct {
	// State is the random CSRF nonce issued with the authorize URL.
	State string `json:"state"`
	// Region chosen for this attempt.
	Region Region `json:"region"`
	// RedirectURI used on the authorize URL. The code exchange must
	// repeat it exactly.
	RedirectURI string `json:"redirect_uri"`
	// CreatedAt is when the attempt was started.
	CreatedAt time.Time `json:"created_at"`
}
