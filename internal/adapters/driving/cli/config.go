package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/services"
)

var (
	configAppID     string
	configAppSecret string
	configRegion    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage app credentials and defaults",
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the app id, secret, and default region",
	Long: `Store the app credentials used to acquire service tokens.

The app id and secret come from the developer console of your Feishu or
Lark app. When --app-secret is omitted the secret is prompted for
without echo so it stays out of shell history.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if credService == nil {
			return errors.New("credential service not configured")
		}

		appID := strings.TrimSpace(configAppID)
		if appID == "" {
			return errors.New("--app-id is required")
		}

		secret := configAppSecret
		if secret == "" {
			var err error
			secret, err = promptSecret(cmd, "App secret: ")
			if err != nil {
				return err
			}
		}
		secret = strings.TrimSpace(secret)
		if secret == "" {
			return errors.New("app secret must not be empty")
		}

		region, err := parseRegionFlag(configRegion)
		if err != nil {
			return err
		}

		if err := credService.SetAppCredentials(cmd.Context(), appID, secret, region); err != nil {
			return fmt.Errorf("storing credentials: %w", err)
		}

		cmd.Printf("Credentials stored for app %s (%s).\n", appID, region.DisplayName())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored configuration with the secret masked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}

		appID := configStore.GetString(services.ConfigKeyAppID)
		if appID == "" {
			appID = "(not set)"
		}
		region := configStore.GetString(services.ConfigKeyRegion)
		if region == "" {
			region = string(domain.RegionFeishu) + " (default)"
		}

		cmd.Printf("Config file: %s\n", configStore.Path())
		cmd.Printf("App ID:      %s\n", appID)
		cmd.Printf("App secret:  %s\n", maskSecret(configStore.GetString(services.ConfigKeyAppSecret)))
		cmd.Printf("Region:      %s\n", region)
		if last := configStore.GetString(services.ConfigKeyLastDocument); last != "" {
			cmd.Printf("Last fetch:  %s\n", last)
		}
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify the stored credentials against the platform",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if credService == nil {
			return errors.New("credential service not configured")
		}

		status, err := credService.TestConnection(cmd.Context())
		if err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}

		cmd.Printf("Connection OK: %s, token valid for %ds.\n",
			status.Region.DisplayName(), status.ExpiresIn)
		return nil
	},
}

// parseRegionFlag maps the --region flag to a region. Empty means
// "keep the default"; anything else must name a known region.
func parseRegionFlag(v string) (domain.Region, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "":
		return domain.RegionFeishu, nil
	case "lark", "international":
		return domain.RegionLarkSuite, nil
	}
	region := domain.Region(v)
	if !region.Valid() {
		return "", fmt.Errorf("unknown region %q (expected feishu or larksuite)", v)
	}
	return region, nil
}

// promptSecret reads a line from the terminal without echoing it.
// Falls back to plain stdin reads when stdin is not a terminal, so
// piped input still works.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return line, nil
}

func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

func init() {
	configSetCmd.Flags().StringVar(&configAppID, "app-id", "", "App ID from the developer console")
	configSetCmd.Flags().StringVar(&configAppSecret, "app-secret", "", "App secret (prompted when omitted)")
	configSetCmd.Flags().StringVar(&configRegion, "region", "", "Default region: feishu or larksuite")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configTestCmd)
	rootCmd.AddCommand(configCmd)
}
