package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forlark/larkfetch/internal/adapters/driving/oauth"
	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/logger"
)

var (
	authRegion    string
	authPort      int
	authNoBrowser bool
	authTimeout   time.Duration
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage user authorization",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize as a user via the browser OAuth flow",
	Long: `Start the OAuth flow: open the platform's authorization page in the
browser and wait for the redirect on a local callback server.

When the browser cannot reach localhost (remote shells, containers),
pass --no-browser, open the printed URL yourself, and either let the
redirect land on a machine that can reach this one or paste the full
redirect URL into 'larkfetch auth complete'.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}

		// An empty region lets the core fall back to the configured one.
		var region domain.Region
		if authRegion != "" {
			var err error
			region, err = parseRegionFlag(authRegion)
			if err != nil {
				return err
			}
		}

		port := authPort
		if port == 0 {
			var err error
			port, err = oauth.FindAvailablePort(9000, 9100)
			if err != nil {
				return err
			}
		}

		server := oauth.NewCallbackServer(port)
		if err := server.Start(); err != nil {
			return fmt.Errorf("starting callback server: %w", err)
		}
		defer server.Stop() //nolint:errcheck

		start, err := authService.Begin(cmd.Context(), region, server.RedirectURI())
		if err != nil {
			return fmt.Errorf("beginning authorization: %w", err)
		}

		cmd.Printf("Authorize larkfetch in your browser:\n\n  %s\n\n", start.URL)
		if !authNoBrowser {
			if err := oauth.OpenBrowser(start.URL); err != nil {
				logger.Warn("Could not open browser: %v", err)
			}
		}

		cb, err := waitForAuthorization(cmd.Context(), server)
		if err != nil {
			return err
		}

		session, err := authService.Complete(cmd.Context(), cb.Code, cb.State)
		if err != nil {
			return fmt.Errorf("completing authorization: %w", err)
		}

		printSessionSummary(cmd, session)
		return nil
	},
}

var authCompleteCmd = &cobra.Command{
	Use:   "complete <redirect-url>",
	Short: "Finish a pending authorization from a pasted redirect URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}

		session, err := authService.CompleteFromURL(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("completing authorization: %w", err)
		}

		printSessionSummary(cmd, session)
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token [access-token]",
	Short: "Store a hand-supplied user access token",
	Long: `Store a user access token obtained outside the OAuth flow, for
example from the API explorer in the developer console. Manual tokens
cannot be refreshed and expire after the platform's default two hours.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}

		token := ""
		if len(args) == 1 {
			token = args[0]
		} else {
			var err error
			token, err = promptSecret(cmd, "Access token: ")
			if err != nil {
				return err
			}
		}

		var region domain.Region
		if authRegion != "" {
			var err error
			region, err = parseRegionFlag(authRegion)
			if err != nil {
				return err
			}
		}

		session, err := authService.SetManualToken(cmd.Context(), token, region)
		if err != nil {
			return fmt.Errorf("storing token: %w", err)
		}

		cmd.Printf("Token stored, valid until %s.\n", session.ExpiresAt.Format(time.RFC1123))
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authorization state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}

		status, err := authService.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading status: %w", err)
		}

		if !status.Authorized {
			cmd.Println("Not authorized. Run 'larkfetch auth login' to authorize.")
			return nil
		}

		state := "valid"
		if status.Expired {
			state = "expired"
			if status.Refreshable {
				state = "expired (refreshable)"
			}
		}

		cmd.Printf("Authorized: %s\n", state)
		if status.User != nil {
			cmd.Printf("User:       %s\n", status.User.Name)
		}
		cmd.Printf("Region:     %s\n", status.Region.DisplayName())
		cmd.Printf("Expires:    %s\n", status.ExpiresAt.Format(time.RFC1123))
		return nil
	},
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the user access token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}

		session, err := authService.Refresh(cmd.Context())
		if err != nil {
			return fmt.Errorf("refreshing token: %w", err)
		}

		cmd.Printf("Token refreshed, valid until %s.\n", session.ExpiresAt.Format(time.RFC1123))
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored user session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}

		if err := authService.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}

		cmd.Println("Logged out.")
		return nil
	},
}

// waitForAuthorization races the local callback server against the
// capture file watcher and returns whichever delivers first.
func waitForAuthorization(parent context.Context, server *oauth.CallbackServer) (oauth.Callback, error) {
	ctx, cancel := context.WithTimeout(parent, authTimeout)
	defer cancel()

	type outcome struct {
		cb  oauth.Callback
		err error
	}
	results := make(chan outcome, 2)

	go func() {
		cb, err := server.WaitForCallback(ctx)
		results <- outcome{cb, err}
	}()

	var watcher *oauth.CaptureWatcher
	if configStore != nil {
		w, err := oauth.NewCaptureWatcher(captureDir())
		if err != nil {
			logger.Debug("Capture watcher unavailable: %v", err)
		} else {
			watcher = w
			go func() {
				cb, err := watcher.WaitForCallback(ctx)
				results <- outcome{cb, err}
			}()
		}
	}
	if watcher != nil {
		defer watcher.Close() //nolint:errcheck
	}

	// The two observers share the context, so on timeout both report
	// the same cancellation and the first result is as good as any.
	res := <-results
	if res.err != nil {
		return oauth.Callback{}, fmt.Errorf("authorization not received: %w", res.err)
	}
	return res.cb, nil
}

// captureDir is where hosted callback pages drop the capture file,
// next to the config file.
func captureDir() string {
	return filepath.Dir(configStore.Path())
}

func printSessionSummary(cmd *cobra.Command, session *domain.UserSession) {
	name := "user"
	if session.User != nil && session.User.Name != "" {
		name = session.User.Name
	}
	cmd.Printf("Authorized as %s, token valid until %s.\n",
		name, session.ExpiresAt.Format(time.RFC1123))
}

func init() {
	authLoginCmd.Flags().StringVar(&authRegion, "region", "", "Region to authorize against: feishu or larksuite")
	authLoginCmd.Flags().IntVar(&authPort, "port", 0, "Callback server port (0 picks a free one)")
	authLoginCmd.Flags().BoolVar(&authNoBrowser, "no-browser", false, "Print the URL instead of opening a browser")
	authLoginCmd.Flags().DurationVar(&authTimeout, "timeout", 5*time.Minute, "How long to wait for the callback")
	authTokenCmd.Flags().StringVar(&authRegion, "region", "", "Region the token belongs to: feishu or larksuite")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authCompleteCmd)
	authCmd.AddCommand(authTokenCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}
