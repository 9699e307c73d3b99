package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfigurationMissing indicates no app ID/secret is configured
	// for an operation that needs one. The user must configure and retry.
	ErrConfigurationMissing = errors.New("app credentials not configured")

	// ErrStateMismatch indicates an OAuth callback's state nonce did not
	// match the pending authorization. Possible CSRF; hard stop.
	ErrStateMismatch = errors.New("oauth state mismatch")

	// ErrNoRefreshToken indicates the session cannot be refreshed.
	// Manually entered tokens commonly lack a refresh token. Non-fatal:
	// callers fall back to service-level access.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrNotAuthorized indicates no user session exists.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNoPendingAuthorization indicates a callback arrived with no
	// authorization attempt in flight.
	ErrNoPendingAuthorization = errors.New("no pending authorization")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// CredentialError is a non-zero platform status from the tenant token
// endpoint: the platform rejected the app credentials. Reported
// verbatim with the platform code and message, never retried.
type CredentialError struct {
	Code int
	Msg  string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential rejected: %s (code: %d)", e.Msg, e.Code)
}

// Auth exchange steps, used to name which call failed.
const (
	// ExchangeStepTenantToken is the service-token acquisition that
	// authorizes the code exchange.
	ExchangeStepTenantToken = "tenant_access_token"
	// ExchangeStepUserToken is the authorization-code exchange itself.
	ExchangeStepUserToken = "oidc/access_token"
	// ExchangeStepRefresh is the refresh-token exchange.
	ExchangeStepRefresh = "oidc/refresh_access_token"
)

// AuthExchangeError is a non-zero platform status during the OAuth
// code exchange or refresh. Step names which call failed.
type AuthExchangeError struct {
	Step string
	Code int
	Msg  string
}

func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("auth exchange failed at %s: %s (code: %d)", e.Step, e.Msg, e.Code)
}

// ProtocolError indicates the platform returned a non-JSON response,
// typically an HTML error page when the region/app/endpoint
// combination is wrong. Detected from the declared content type, not
// by parse failure, so it can carry an actionable hint.
type ProtocolError struct {
	Endpoint    string
	ContentType string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected %s response from %s (expected JSON); "+
		"the app may have been created in a different region than the document",
		e.ContentType, e.Endpoint)
}

// DocumentAccessError is a non-zero platform status on document
// retrieval: a permission or existence failure. The platform code is
// surfaced so callers can map known codes to remediation text.
type DocumentAccessError struct {
	Code int
	Msg  string
}

func (e *DocumentAccessError) Error() string {
	return fmt.Sprintf("document access failed: %s (code: %d)", e.Msg, e.Code)
}

// permissionDeniedCode is the platform's "app lacks permission" code.
const permissionDeniedCode = 99991663

// Remediation returns user-facing guidance for known failure codes,
// or an empty string when no specific guidance applies.
func (e *DocumentAccessError) Remediation() string {
	if e.Code != permissionDeniedCode && !strings.Contains(strings.ToLower(e.Msg), "forbidden") {
		return ""
	}
	return "Possible causes:\n" +
		"  1. The app lacks the docs:document.content:read permission\n" +
		"  2. The app is not published (enable a test version or publish it)\n" +
		"  3. The document requires user authorization (run 'larkfetch auth login')\n" +
		"  4. The app was created in a different region than the document"
}

// IsPermissionDenied checks whether the error is a document access
// failure caused by missing permissions.
func IsPermissionDenied(err error) bool {
	var accessErr *DocumentAccessError
	if errors.As(err, &accessErr) {
		return accessErr.Remediation() != ""
	}
	return false
}
