package mcp

import (
	"errors"

	"github.com/forlark/larkfetch/internal/core/ports/driving"
)

// ErrMissingFetchService indicates the server was built without the
// fetch service it cannot run without.
var ErrMissingFetchService = errors.New("mcp: fetch service is required")

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Fetch retrieves and renders documents.
	Fetch driving.FetchService

	// Auth reports session state.
	Auth driving.AuthService

	// Credentials validates the configured app credentials.
	Credentials driving.CredentialService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Fetch == nil {
		return ErrMissingFetchService
	}
	// Auth and Credentials only add status tools
	return nil
}
