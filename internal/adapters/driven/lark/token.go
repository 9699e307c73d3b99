package lark

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

type tenantTokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// TenantAccessToken acquires a service-level token for the app.
func (c *Client) TenantAccessToken(ctx context.Context, region domain.Region, appID, appSecret string) (*domain.ServiceToken, error) {
	endpoint := c.apiBase(region) + "/open-apis/auth/v3/tenant_access_token/internal"
	body := map[string]string{
		"app_id":     appID,
		"app_secret": appSecret,
	}

	var out tenantTokenResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, endpoint, body, &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, &domain.CredentialError{Code: out.Code, Msg: out.Msg}
	}

	return &domain.ServiceToken{
		Region:    region,
		Token:     out.TenantAccessToken,
		ExpiresAt: time.Now().Add(time.Duration(out.Expire) * time.Second),
	}, nil
}

type userTokenResponse struct {
	Code         int    `json:"code"`
	Msg          string `json:"msg"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for user tokens. The
// tenant token authorizes the exchange call itself.
func (c *Client) ExchangeCode(ctx context.Context, region domain.Region, tenantToken string, exchange driven.CodeExchange) (*domain.UserSession, error) {
	endpoint := c.apiBase(region) + "/open-apis/authen/v1/oidc/access_token"
	body := map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     exchange.ClientID,
		"client_secret": exchange.ClientSecret,
		"code":          exchange.Code,
		"redirect_uri":  exchange.RedirectURI,
	}

	var out userTokenResponse
	if err := c.doJSON(ctx, c.bearerClient(ctx, tenantToken), http.MethodPost, endpoint, body, &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, &domain.AuthExchangeError{Step: domain.ExchangeStepUserToken, Code: out.Code, Msg: out.Msg}
	}

	return &domain.UserSession{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
		Region:       region,
		Kind:         domain.TokenKindUser,
	}, nil
}

// RefreshUserToken trades a refresh token for fresh user tokens. The
// old refresh token is carried forward when the platform omits a new
// one.
func (c *Client) RefreshUserToken(ctx context.Context, region domain.Region, refreshToken string) (*domain.UserSession, error) {
	endpoint := c.apiBase(region) + "/open-apis/authen/v1/oidc/refresh_access_token"
	body := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}

	var out userTokenResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, endpoint, body, &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, &domain.AuthExchangeError{Step: domain.ExchangeStepRefresh, Code: out.Code, Msg: out.Msg}
	}

	fresh := out.RefreshToken
	if fresh == "" {
		fresh = refreshToken
	}
	return &domain.UserSession{
		AccessToken:  out.AccessToken,
		RefreshToken: fresh,
		ExpiresAt:    time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
		Region:       region,
		Kind:         domain.TokenKindUser,
	}, nil
}

type userInfoResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
		UserID    string `json:"user_id"`
	} `json:"data"`
}

// UserInfo fetches the authorized user's profile.
func (c *Client) UserInfo(ctx context.Context, region domain.Region, accessToken string) (*domain.UserProfile, error) {
	endpoint := c.apiBase(region) + "/open-apis/authen/v1/user_info"

	var out userInfoResponse
	if err := c.doJSON(ctx, c.bearerClient(ctx, accessToken), http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("user info failed: %s (code: %d)", out.Msg, out.Code)
	}

	return &domain.UserProfile{
		Name:      out.Data.Name,
		Email:     out.Data.Email,
		AvatarURL: out.Data.AvatarURL,
		UserID:    out.Data.UserID,
	}, nil
}

// AuthorizeURL builds the browser authorization URL for a region.
func (c *Client) AuthorizeURL(region domain.Region, appID, redirectURI, state string) string {
	q := url.Values{}
	q.Set("app_id", appID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", region.AuthScope())
	q.Set("state", state)
	return c.apiBase(region) + "/open-apis/authen/v1/authorize?" + q.Encode()
}
