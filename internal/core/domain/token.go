package domain

import "time"

// ServiceTokenMargin is how long before the platform-reported expiry a
// tenant token is treated as stale. The platform reports roughly
// two-hour lifetimes; renewing five minutes early avoids using a token
// that dies mid-request.
const ServiceTokenMargin = 5 * time.Minute

// ServiceToken is a tenant access token: a credential representing the
// application itself rather than any end user. One exists per region,
// cached for the process lifetime and re-acquired when stale.
type ServiceToken struct {
	// Region the token was issued for.
	Region Region
	// Token is the bearer token value.
	Token string
	// ExpiresAt is the platform-reported expiry instant.
	ExpiresAt time.Time
}

// ValidAt reports whether the token is still usable at the given
// instant, honouring the safety margin.
func (t ServiceToken) ValidAt(now time.Time) bool {
	if t.Token == "" {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-ServiceTokenMargin))
}
