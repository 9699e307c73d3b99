package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driving"
	"github.com/forlark/larkfetch/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.ActionDispatcher = (*Dispatcher)(nil)

// Dispatcher routes named actions to core services for adapters that
// speak a request/response protocol. Every outcome, success or
// failure, folds into an ActionResponse; Dispatch never returns an
// error itself.
type Dispatcher struct {
	fetch driving.FetchService
	auth  driving.AuthService
	creds driving.CredentialService
}

// NewDispatcher creates a new action dispatcher.
func NewDispatcher(fetch driving.FetchService, auth driving.AuthService, creds driving.CredentialService) *Dispatcher {
	return &Dispatcher{
		fetch: fetch,
		auth:  auth,
		creds: creds,
	}
}

// Dispatch executes one action. Requests without an ID are assigned
// one so responses always correlate.
func (d *Dispatcher) Dispatch(ctx context.Context, req driving.ActionRequest) driving.ActionResponse {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger.Debug("dispatching action %s (%s)", req.Name, id)

	payload, err := d.run(ctx, req)
	if err != nil {
		return driving.ActionResponse{ID: id, OK: false, Error: err.Error()}
	}
	return driving.ActionResponse{ID: id, OK: true, Payload: payload}
}

func (d *Dispatcher) run(ctx context.Context, req driving.ActionRequest) (any, error) {
	switch req.Name {
	case driving.ActionFetchDocument:
		format := domain.FormatMarkdown
		if raw := req.Args["format"]; raw != "" {
			parsed, err := domain.ParseOutputFormat(raw)
			if err != nil {
				return nil, err
			}
			format = parsed
		}
		return d.fetch.Fetch(ctx, req.Args["document"], format)

	case driving.ActionAuthStatus:
		return d.auth.Status(ctx)

	case driving.ActionTestConnection:
		return d.creds.TestConnection(ctx)

	case driving.ActionGetAuthURL:
		return d.auth.Begin(ctx, domain.Region(req.Args["region"]), req.Args["redirect_uri"])

	case driving.ActionOAuthCallback:
		// The callback payload is either a pasted redirect URL or the
		// code and state it carries. Tokens never cross this boundary;
		// the resulting session is reported as a status.
		var err error
		if rawURL := req.Args["url"]; rawURL != "" {
			_, err = d.auth.CompleteFromURL(ctx, rawURL)
		} else {
			_, err = d.auth.Complete(ctx, req.Args["code"], req.Args["state"])
		}
		if err != nil {
			return nil, err
		}
		return d.auth.Status(ctx)

	case driving.ActionLogout:
		return nil, d.auth.Logout(ctx)

	default:
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, req.Name)
	}
}
