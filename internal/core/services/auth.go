package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/core/ports/driving"
	"github.com/forlark/larkfetch/internal/logger"
)

// manualTokenTTL is the assumed validity of a hand-supplied access
// token, matching the platform's default user token lifetime.
const manualTokenTTL = 2 * time.Hour

// Ensure AuthFlow implements the interface.
var _ driving.AuthService = (*AuthFlow)(nil)

// AuthFlow runs the user authorization lifecycle: starting the OAuth
// flow, completing it from a callback, refreshing, manual token entry,
// and logout.
type AuthFlow struct {
	platform driven.PlatformClient
	sessions driven.SessionStore
	config   driven.ConfigStore
	tokens   *TokenCache
	now      func() time.Time
}

// NewAuthFlow creates a new authorization service.
func NewAuthFlow(platform driven.PlatformClient, sessions driven.SessionStore, config driven.ConfigStore, tokens *TokenCache) *AuthFlow {
	return &AuthFlow{
		platform: platform,
		sessions: sessions,
		config:   config,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Begin starts an OAuth attempt: a fresh state nonce is issued, the
// pending authorization recorded, and the browser URL returned. A new
// attempt replaces any prior pending one.
func (f *AuthFlow) Begin(ctx context.Context, region domain.Region, redirectURI string) (*driving.AuthorizationStart, error) {
	appID, _, err := appCredentials(f.config)
	if err != nil {
		return nil, err
	}
	if !region.Valid() {
		region = configuredRegion(f.config)
	}

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state nonce: %w", err)
	}

	pending := &domain.PendingAuthorization{
		State:       state,
		Region:      region,
		RedirectURI: redirectURI,
		CreatedAt:   f.now(),
	}
	if err := f.sessions.SavePending(ctx, pending); err != nil {
		return nil, fmt.Errorf("recording pending authorization: %w", err)
	}

	authURL := f.platform.AuthorizeURL(region, appID, redirectURI, state)
	logger.Debug("authorization started for %s", region)
	return &driving.AuthorizationStart{
		URL:    authURL,
		State:  state,
		Region: region,
	}, nil
}

// Complete finishes the pending OAuth attempt. The state from the
// callback must match the pending nonce exactly; a mismatch discards
// the attempt and no session is stored. Completion is idempotent in
// the sense that once the pending record is consumed, a duplicate
// callback fails cleanly with ErrNoPendingAuthorization.
func (f *AuthFlow) Complete(ctx context.Context, code, state string) (*domain.UserSession, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)
	}

	pending, err := f.sessions.GetPending(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPendingAuthorization
		}
		return nil, err
	}

	if state != pending.State {
		// Possible CSRF. Drop the attempt entirely.
		_ = f.sessions.DeletePending(ctx)
		return nil, domain.ErrStateMismatch
	}

	appID, appSecret, err := appCredentials(f.config)
	if err != nil {
		return nil, err
	}
	tenantToken, err := f.tokens.Get(ctx, pending.Region)
	if err != nil {
		// The exchange failed before the code was spent; name the step.
		exchangeErr := &domain.AuthExchangeError{Step: domain.ExchangeStepTenantToken, Msg: err.Error()}
		var credErr *domain.CredentialError
		if errors.As(err, &credErr) {
			exchangeErr.Code = credErr.Code
			exchangeErr.Msg = credErr.Msg
		}
		return nil, exchangeErr
	}

	session, err := f.platform.ExchangeCode(ctx, pending.Region, tenantToken, driven.CodeExchange{
		ClientID:     appID,
		ClientSecret: appSecret,
		Code:         code,
		RedirectURI:  pending.RedirectURI,
	})
	if err != nil {
		return nil, err
	}
	session.Region = pending.Region
	session.Kind = domain.TokenKindUser

	// Profile fetch failures never fail the authorization.
	if profile, err := f.platform.UserInfo(ctx, pending.Region, session.AccessToken); err != nil {
		logger.Warn("profile fetch failed: %v", err)
	} else {
		session.User = profile
	}

	if err := f.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	if err := f.sessions.DeletePending(ctx); err != nil {
		logger.Warn("clearing pending authorization: %v", err)
	}

	logger.Info("user authorization complete for %s", session.Region)
	return session, nil
}

// CompleteFromURL completes the pending attempt using a pasted
// callback URL, extracting the code and state query parameters.
func (f *AuthFlow) CompleteFromURL(ctx context.Context, rawURL string) (*domain.UserSession, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	q := u.Query()
	code := q.Get("code")
	if code == "" {
		return nil, fmt.Errorf("%w: callback URL carries no code parameter", domain.ErrInvalidInput)
	}
	return f.Complete(ctx, code, q.Get("state"))
}

// Refresh exchanges the stored session's refresh token for fresh
// tokens, preserving the profile when the platform omits it.
func (f *AuthFlow) Refresh(ctx context.Context) (*domain.UserSession, error) {
	session, err := f.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotAuthorized
		}
		return nil, err
	}
	if !session.HasRefreshToken() {
		return nil, domain.ErrNoRefreshToken
	}

	fresh, err := f.platform.RefreshUserToken(ctx, session.Region, session.RefreshToken)
	if err != nil {
		return nil, err
	}
	fresh.Region = session.Region
	fresh.Kind = domain.TokenKindUser
	if fresh.User == nil {
		fresh.User = session.User
	}

	if err := f.sessions.SaveSession(ctx, fresh); err != nil {
		return nil, fmt.Errorf("storing refreshed session: %w", err)
	}
	logger.Debug("user session refreshed, expires %s", fresh.ExpiresAt.Format(time.RFC3339))
	return fresh, nil
}

// SetManualToken stores a hand-supplied access token as the session.
// Manual sessions carry no refresh token, so once expired they fall
// back to service-level access.
func (f *AuthFlow) SetManualToken(ctx context.Context, accessToken string, region domain.Region) (*domain.UserSession, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", domain.ErrInvalidInput)
	}
	if !region.Valid() {
		region = configuredRegion(f.config)
	}

	session := &domain.UserSession{
		AccessToken: accessToken,
		ExpiresAt:   f.now().Add(manualTokenTTL),
		Region:      region,
		Kind:        domain.TokenKindUser,
	}

	if profile, err := f.platform.UserInfo(ctx, region, accessToken); err != nil {
		logger.Warn("profile fetch failed: %v", err)
	} else {
		session.User = profile
	}

	if err := f.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return session, nil
}

// Status reports the stored session's state.
func (f *AuthFlow) Status(ctx context.Context) (*driving.AuthStatus, error) {
	session, err := f.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &driving.AuthStatus{}, nil
		}
		return nil, err
	}
	return &driving.AuthStatus{
		Authorized:  true,
		Expired:     session.ExpiredAt(f.now()),
		Refreshable: session.HasRefreshToken(),
		ExpiresAt:   session.ExpiresAt,
		Region:      session.Region,
		User:        session.User,
	}, nil
}

// Logout discards the stored session and any pending attempt.
func (f *AuthFlow) Logout(ctx context.Context) error {
	if err := f.sessions.DeleteSession(ctx); err != nil {
		return err
	}
	return f.sessions.DeletePending(ctx)
}
