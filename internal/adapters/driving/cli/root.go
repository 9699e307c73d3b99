// Package cli implements the larkfetch command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/core/ports/driving"
	"github.com/forlark/larkfetch/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// Services are injected by the composition root before Execute runs.
// Commands nil-check the services they need so a partially wired
// binary fails with a clear message instead of a panic.
var (
	authService  driving.AuthService
	fetchService driving.FetchService
	credService  driving.CredentialService
	configStore  driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "larkfetch",
	Short: "Fetch Feishu/Lark cloud documents from the terminal",
	Long: `larkfetch retrieves documents from the Feishu (飞书) and LarkSuite
open APIs and renders them as plain text, Markdown, or HTML.

Configure an app credential once, optionally authorize as a user for
documents the app cannot read on its own, then fetch:

  larkfetch config set --app-id cli_xxx
  larkfetch auth login
  larkfetch fetch https://example.feishu.cn/docx/AbCdEfGh -f markdown`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Ports aggregates everything the CLI needs from the composition root.
type Ports struct {
	Auth        driving.AuthService
	Fetch       driving.FetchService
	Credentials driving.CredentialService
	Config      driven.ConfigStore
}

// SetServices injects the core services. Must be called before Execute.
func SetServices(p Ports) {
	authService = p.Auth
	fetchService = p.Fetch
	credService = p.Credentials
	configStore = p.Config
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
}
