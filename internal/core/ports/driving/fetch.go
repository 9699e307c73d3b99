package driving

import (
	"context"

	"github.com/forlark/larkfetch/internal/core/domain"
)

// FetchResult is a rendered document plus the context a caller needs
// to report how it was fetched.
type FetchResult struct {
	DocumentID string              `json:"document_id"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	Format     domain.OutputFormat `json:"format"`
	// TokenKind records which credential class served the request.
	TokenKind domain.TokenKind `json:"token_kind"`
	// BlockCount is the number of blocks rendered, pagination included.
	BlockCount int `json:"block_count"`
}

// FetchService fetches a remote document and renders it. This is the
// primary operation; everything else exists to serve it.
type FetchService interface {
	// Fetch retrieves the document named by ref (a bare id or a
	// document URL), reassembles its blocks across pagination, and
	// renders it in the requested format. Documents are fetched fresh
	// on every call.
	Fetch(ctx context.Context, ref string, format domain.OutputFormat) (*FetchResult, error)
}

// ConnectionStatus is the outcome of a credential test.
type ConnectionStatus struct {
	Region domain.Region `json:"region"`
	// ExpiresIn is the platform-reported token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// CredentialService manages the app credentials and the service token
// derived from them.
type CredentialService interface {
	// SetAppCredentials stores the app id and secret and clears any
	// cached service token so the next request uses the new pair.
	SetAppCredentials(ctx context.Context, appID, appSecret string, region domain.Region) error

	// TestConnection acquires a fresh service token to prove the
	// configured credentials work against the configured region.
	TestConnection(ctx context.Context) (*ConnectionStatus, error)
}
