package driving

import "context"

// ActionName identifies one dispatchable operation. Adapters that
// speak a request/response protocol (MCP, future IPC surfaces) route
// through these instead of binding to individual services.
type ActionName string

// Dispatchable actions.
const (
	ActionFetchDocument  ActionName = "fetch_document"
	ActionAuthStatus     ActionName = "auth_status"
	ActionTestConnection ActionName = "test_connection"
	ActionGetAuthURL     ActionName = "get_auth_url"
	ActionOAuthCallback  ActionName = "oauth_callback"
	ActionLogout         ActionName = "logout"
)

// ActionRequest is one dispatch request. Args carries the action's
// string parameters; unknown keys are ignored.
type ActionRequest struct {
	// ID correlates the response with the request. Empty IDs are
	// assigned by the dispatcher.
	ID   string            `json:"id,omitempty"`
	Name ActionName        `json:"action"`
	Args map[string]string `json:"args,omitempty"`
}

// ActionResponse is the uniform dispatch outcome. Exactly one of
// Payload and Error is meaningful.
type ActionResponse struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ActionDispatcher routes named actions to core services and folds
// every outcome, including failures, into an ActionResponse.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, req ActionRequest) ActionResponse
}
