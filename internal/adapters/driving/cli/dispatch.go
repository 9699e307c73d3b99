package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forlark/larkfetch/internal/core/ports/driving"
)

var dispatchService driving.ActionDispatcher

// SetDispatcher injects the action dispatcher. Must be called before
// Execute when the dispatch command is needed.
func SetDispatcher(d driving.ActionDispatcher) {
	dispatchService = d
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <request-json>",
	Short: "Run one action from a JSON request and print the JSON response",
	Long: `Run a single named action and print its response as JSON, for
scripting and editor integrations. The request names an action and its
string arguments:

  larkfetch dispatch '{"action":"fetch_document","args":{"document":"AbCdEfGh","format":"text"}}'
  larkfetch dispatch '{"action":"auth_status"}'
  larkfetch dispatch '{"action":"test_connection"}'
  larkfetch dispatch '{"action":"get_auth_url","args":{"redirect_uri":"http://localhost:9000/callback"}}'
  larkfetch dispatch '{"action":"oauth_callback","args":{"url":"http://localhost:9000/callback?code=...&state=..."}}'
  larkfetch dispatch '{"action":"logout"}'

Failures are reported inside the response envelope, not as a non-zero
exit, so callers handle exactly one shape.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dispatchService == nil {
			return errors.New("dispatcher not configured")
		}

		var req driving.ActionRequest
		if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
			return fmt.Errorf("parsing request: %w", err)
		}

		resp := dispatchService.Dispatch(cmd.Context(), req)
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}

		cmd.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
}
