package driven

import (
	"context"

	"github.com/forlark/larkfetch/internal/core/domain"
)

// DocumentMeta is the metadata record for a document, fetched before
// its blocks. The title comes from here rather than the page block so
// that a metadata failure surfaces before any block traffic.
type DocumentMeta struct {
	ID    string
	Title string
}

// CodeExchange carries the parameters of an authorization-code
// exchange. RedirectURI must match the one used on the authorize URL
// exactly or the platform rejects the exchange.
type CodeExchange struct {
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
}

// PlatformClient talks to the document platform's open API for a
// single region per call. All methods translate non-zero platform
// status codes into typed domain errors and never retry.
type PlatformClient interface {
	// TenantAccessToken acquires a service-level token using the
	// configured app credentials. A platform rejection is returned as
	// *domain.CredentialError.
	TenantAccessToken(ctx context.Context, region domain.Region, appID, appSecret string) (*domain.ServiceToken, error)

	// ExchangeCode exchanges an OAuth authorization code for a user
	// session. The tenant token authorizes the exchange call itself.
	ExchangeCode(ctx context.Context, region domain.Region, tenantToken string, exchange CodeExchange) (*domain.UserSession, error)

	// RefreshUserToken exchanges a refresh token for a fresh user
	// session. When the platform omits a new refresh token, the old
	// one is carried forward.
	RefreshUserToken(ctx context.Context, region domain.Region, refreshToken string) (*domain.UserSession, error)

	// UserInfo fetches the authorized user's profile.
	UserInfo(ctx context.Context, region domain.Region, accessToken string) (*domain.UserProfile, error)

	// DocumentMeta fetches a document's metadata. Permission and
	// existence failures are returned as *domain.DocumentAccessError.
	DocumentMeta(ctx context.Context, region domain.Region, accessToken, documentID string) (*DocumentMeta, error)

	// BlockChildren fetches one page of a block's children. An empty
	// pageToken requests the first page.
	BlockChildren(ctx context.Context, region domain.Region, accessToken, documentID, blockID, pageToken string) (*domain.BlockChildrenPage, error)

	// AuthorizeURL builds the browser authorization URL for a region,
	// carrying the given CSRF state nonce.
	AuthorizeURL(region domain.Region, appID, redirectURI, state string) string
}
