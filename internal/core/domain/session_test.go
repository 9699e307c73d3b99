package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestUserSession_ExpiredAt tests margin-adjusted expiry
func TestUserSession_ExpiredAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"well before expiry", now.Add(time.Hour), false},
		{"just outside margin", now.Add(UserSessionMargin + time.Second), false},
		{"inside margin", now.Add(30 * time.Second), true},
		{"exactly at margin", now.Add(UserSessionMargin), true},
		{"already past expiry", now.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &UserSession{AccessToken: "tok", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, s.ExpiredAt(now))
		})
	}
}

// TestUserSession_HasRefreshToken tests refreshability
func TestUserSession_HasRefreshToken(t *testing.T) {
	assert.True(t, (&UserSession{RefreshToken: "r"}).HasRefreshToken())
	assert.False(t, (&UserSession{}).HasRefreshToken())
}

// TestServiceToken_ValidAt tests the five-minute safety margin
func TestServiceToken_ValidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	valid := ServiceToken{Region: RegionFeishu, Token: "t", ExpiresAt: now.Add(time.Hour)}
	assert.True(t, valid.ValidAt(now))

	stale := ServiceToken{Region: RegionFeishu, Token: "t", ExpiresAt: now.Add(ServiceTokenMargin - time.Second)}
	assert.False(t, stale.ValidAt(now))

	empty := ServiceToken{Region: RegionFeishu, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, empty.ValidAt(now))
}
