package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forlark/larkfetch/internal/adapters/driven/storage/memory"
	"github.com/forlark/larkfetch/internal/core/domain"
)

func newAuthFlow(t *testing.T, platform *fakePlatform) (*AuthFlow, *memory.SessionStore) {
	t.Helper()
	sessions := memory.NewSessionStore()
	cfg := configuredStore(t)
	return NewAuthFlow(platform, sessions, cfg, NewTokenCache(platform, cfg)), sessions
}

func scriptedSession() *domain.UserSession {
	return &domain.UserSession{
		AccessToken:  "u-access",
		RefreshToken: "u-refresh",
		ExpiresAt:    time.Now().Add(2 * time.Hour),
	}
}

// TestAuthFlow_Begin tests that starting an attempt records the nonce
func TestAuthFlow_Begin(t *testing.T) {
	flow, sessions := newAuthFlow(t, &fakePlatform{})

	start, err := flow.Begin(context.Background(), domain.RegionLarkSuite, "http://localhost:9001/callback")
	require.NoError(t, err)

	assert.NotEmpty(t, start.State)
	assert.Equal(t, domain.RegionLarkSuite, start.Region)
	assert.Contains(t, start.URL, "open.larksuite.com")
	assert.Contains(t, start.URL, start.State)

	pending, err := sessions.GetPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, start.State, pending.State)
	assert.Equal(t, "http://localhost:9001/callback", pending.RedirectURI)
}

// TestAuthFlow_Begin_DefaultsToConfiguredRegion tests the region fallback
func TestAuthFlow_Begin_DefaultsToConfiguredRegion(t *testing.T) {
	flow, _ := newAuthFlow(t, &fakePlatform{})

	start, err := flow.Begin(context.Background(), "", "http://localhost:9001/callback")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionFeishu, start.Region)
}

// TestAuthFlow_Begin_FreshNoncePerAttempt tests nonce rotation
func TestAuthFlow_Begin_FreshNoncePerAttempt(t *testing.T) {
	flow, _ := newAuthFlow(t, &fakePlatform{})

	first, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)
	second, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	assert.NotEqual(t, first.State, second.State)
}

// TestAuthFlow_Complete tests the happy path end to end
func TestAuthFlow_Complete(t *testing.T) {
	platform := &fakePlatform{
		session: scriptedSession(),
		profile: &domain.UserProfile{Name: "Alice", Email: "alice@example.com"},
	}
	flow, sessions := newAuthFlow(t, platform)

	start, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	session, err := flow.Complete(context.Background(), "auth-code", start.State)
	require.NoError(t, err)

	assert.Equal(t, "u-access", session.AccessToken)
	assert.Equal(t, domain.RegionFeishu, session.Region)
	assert.Equal(t, domain.TokenKindUser, session.Kind)
	require.NotNil(t, session.User)
	assert.Equal(t, "Alice", session.User.Name)

	// The exchange carried the app credentials and the original
	// redirect URI, authorized by a tenant token.
	assert.Equal(t, "cli_test", platform.lastExchange.ClientID)
	assert.Equal(t, "secret", platform.lastExchange.ClientSecret)
	assert.Equal(t, "auth-code", platform.lastExchange.Code)
	assert.Equal(t, "http://localhost:9001/callback", platform.lastExchange.RedirectURI)
	assert.NotEmpty(t, platform.lastTenant)

	// Session persisted, pending consumed.
	stored, err := sessions.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-access", stored.AccessToken)
	_, err = sessions.GetPending(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestAuthFlow_Complete_StateMismatch tests the CSRF guard
func TestAuthFlow_Complete_StateMismatch(t *testing.T) {
	platform := &fakePlatform{session: scriptedSession()}
	flow, sessions := newAuthFlow(t, platform)

	_, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	_, err = flow.Complete(context.Background(), "auth-code", "forged-state")
	assert.ErrorIs(t, err, domain.ErrStateMismatch)

	// The attempt is discarded and no session exists.
	assert.Equal(t, 0, platform.exchangeCalls)
	_, err = sessions.GetSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = sessions.GetPending(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestAuthFlow_Complete_TenantTokenFailureNamesStep tests that a
// failed service-token acquisition reports which exchange step broke
func TestAuthFlow_Complete_TenantTokenFailureNamesStep(t *testing.T) {
	platform := &fakePlatform{
		session:   scriptedSession(),
		tenantErr: &domain.CredentialError{Code: 10003, Msg: "invalid app_secret"},
	}
	flow, _ := newAuthFlow(t, platform)

	start, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	_, err = flow.Complete(context.Background(), "auth-code", start.State)
	var exchangeErr *domain.AuthExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, domain.ExchangeStepTenantToken, exchangeErr.Step)
	assert.Equal(t, 10003, exchangeErr.Code)
	assert.Equal(t, 0, platform.exchangeCalls)
}

// TestAuthFlow_Complete_NoPending tests callbacks with nothing in flight
func TestAuthFlow_Complete_NoPending(t *testing.T) {
	flow, _ := newAuthFlow(t, &fakePlatform{session: scriptedSession()})

	_, err := flow.Complete(context.Background(), "auth-code", "any")
	assert.ErrorIs(t, err, domain.ErrNoPendingAuthorization)
}

// TestAuthFlow_Complete_DuplicateCallback tests that a second delivery
// fails cleanly after the pending record is consumed
func TestAuthFlow_Complete_DuplicateCallback(t *testing.T) {
	platform := &fakePlatform{session: scriptedSession(), profile: &domain.UserProfile{Name: "A"}}
	flow, _ := newAuthFlow(t, platform)

	start, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	_, err = flow.Complete(context.Background(), "auth-code", start.State)
	require.NoError(t, err)

	_, err = flow.Complete(context.Background(), "auth-code", start.State)
	assert.ErrorIs(t, err, domain.ErrNoPendingAuthorization)
	assert.Equal(t, 1, platform.exchangeCalls)
}

// TestAuthFlow_Complete_ProfileFailureNonFatal tests that a failed
// profile fetch still yields a stored session
func TestAuthFlow_Complete_ProfileFailureNonFatal(t *testing.T) {
	platform := &fakePlatform{
		session:    scriptedSession(),
		profileErr: &domain.ProtocolError{Endpoint: "/authen/v1/user_info", ContentType: "text/html"},
	}
	flow, sessions := newAuthFlow(t, platform)

	start, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	session, err := flow.Complete(context.Background(), "auth-code", start.State)
	require.NoError(t, err)
	assert.Nil(t, session.User)

	stored, err := sessions.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-access", stored.AccessToken)
}

// TestAuthFlow_CompleteFromURL tests completion from a pasted URL
func TestAuthFlow_CompleteFromURL(t *testing.T) {
	platform := &fakePlatform{session: scriptedSession(), profile: &domain.UserProfile{Name: "A"}}
	flow, _ := newAuthFlow(t, platform)

	start, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	rawURL := "http://localhost:9001/callback?code=pasted-code&state=" + start.State
	session, err := flow.CompleteFromURL(context.Background(), rawURL)
	require.NoError(t, err)
	assert.Equal(t, "pasted-code", platform.lastExchange.Code)
	assert.Equal(t, "u-access", session.AccessToken)
}

// TestAuthFlow_CompleteFromURL_NoCode tests rejection of URLs without a code
func TestAuthFlow_CompleteFromURL_NoCode(t *testing.T) {
	flow, _ := newAuthFlow(t, &fakePlatform{})

	_, err := flow.CompleteFromURL(context.Background(), "http://localhost:9001/callback?state=x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAuthFlow_Refresh tests token refresh with profile carry-over
func TestAuthFlow_Refresh(t *testing.T) {
	platform := &fakePlatform{
		refreshed: &domain.UserSession{
			AccessToken:  "u-access-2",
			RefreshToken: "u-refresh-2",
			ExpiresAt:    time.Now().Add(2 * time.Hour),
		},
	}
	flow, sessions := newAuthFlow(t, platform)

	existing := scriptedSession()
	existing.Region = domain.RegionLarkSuite
	existing.Kind = domain.TokenKindUser
	existing.User = &domain.UserProfile{Name: "Alice"}
	require.NoError(t, sessions.SaveSession(context.Background(), existing))

	fresh, err := flow.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u-access-2", fresh.AccessToken)
	assert.Equal(t, "u-refresh", platform.lastRefresh)
	assert.Equal(t, domain.RegionLarkSuite, fresh.Region)
	require.NotNil(t, fresh.User)
	assert.Equal(t, "Alice", fresh.User.Name)
}

// TestAuthFlow_Refresh_NoSession tests refresh without a session
func TestAuthFlow_Refresh_NoSession(t *testing.T) {
	flow, _ := newAuthFlow(t, &fakePlatform{})

	_, err := flow.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

// TestAuthFlow_Refresh_ManualToken tests refresh of an unrefreshable session
func TestAuthFlow_Refresh_ManualToken(t *testing.T) {
	flow, sessions := newAuthFlow(t, &fakePlatform{})

	require.NoError(t, sessions.SaveSession(context.Background(), &domain.UserSession{
		AccessToken: "manual",
		ExpiresAt:   time.Now().Add(time.Hour),
		Region:      domain.RegionFeishu,
		Kind:        domain.TokenKindUser,
	}))

	_, err := flow.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoRefreshToken)
}

// TestAuthFlow_SetManualToken tests manual token entry
func TestAuthFlow_SetManualToken(t *testing.T) {
	platform := &fakePlatform{profile: &domain.UserProfile{Name: "Bob"}}
	flow, sessions := newAuthFlow(t, platform)

	session, err := flow.SetManualToken(context.Background(), "hand-token", "")
	require.NoError(t, err)

	assert.Equal(t, "hand-token", session.AccessToken)
	assert.Empty(t, session.RefreshToken)
	assert.Equal(t, domain.RegionFeishu, session.Region)
	assert.WithinDuration(t, time.Now().Add(manualTokenTTL), session.ExpiresAt, time.Minute)
	require.NotNil(t, session.User)
	assert.Equal(t, "Bob", session.User.Name)

	_, err = sessions.GetSession(context.Background())
	require.NoError(t, err)
}

// TestAuthFlow_SetManualToken_Empty tests rejection of an empty token
func TestAuthFlow_SetManualToken_Empty(t *testing.T) {
	flow, _ := newAuthFlow(t, &fakePlatform{})

	_, err := flow.SetManualToken(context.Background(), "", domain.RegionFeishu)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAuthFlow_Status tests the status projection
func TestAuthFlow_Status(t *testing.T) {
	flow, sessions := newAuthFlow(t, &fakePlatform{})

	status, err := flow.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Authorized)

	session := scriptedSession()
	session.Region = domain.RegionFeishu
	session.Kind = domain.TokenKindUser
	require.NoError(t, sessions.SaveSession(context.Background(), session))

	status, err = flow.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Authorized)
	assert.False(t, status.Expired)
	assert.True(t, status.Refreshable)
	assert.Equal(t, domain.RegionFeishu, status.Region)
}

// TestAuthFlow_Status_Expired tests expiry reporting
func TestAuthFlow_Status_Expired(t *testing.T) {
	flow, sessions := newAuthFlow(t, &fakePlatform{})

	require.NoError(t, sessions.SaveSession(context.Background(), &domain.UserSession{
		AccessToken: "old",
		ExpiresAt:   time.Now().Add(-time.Hour),
		Region:      domain.RegionFeishu,
		Kind:        domain.TokenKindUser,
	}))

	status, err := flow.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Authorized)
	assert.True(t, status.Expired)
	assert.False(t, status.Refreshable)
}

// TestAuthFlow_Logout tests that logout clears session and pending state
func TestAuthFlow_Logout(t *testing.T) {
	flow, sessions := newAuthFlow(t, &fakePlatform{})

	require.NoError(t, sessions.SaveSession(context.Background(), scriptedSession()))
	_, err := flow.Begin(context.Background(), domain.RegionFeishu, "http://localhost:9001/callback")
	require.NoError(t, err)

	require.NoError(t, flow.Logout(context.Background()))

	_, err = sessions.GetSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = sessions.GetPending(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
