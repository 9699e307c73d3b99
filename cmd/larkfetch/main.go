// Command larkfetch fetches Feishu/Lark cloud documents and renders
// them as plain text, Markdown, or HTML.
package main

import (
	"fmt"
	"os"

	"github.com/forlark/larkfetch/internal/adapters/driven/config/file"
	"github.com/forlark/larkfetch/internal/adapters/driven/lark"
	"github.com/forlark/larkfetch/internal/adapters/driven/storage/sqlite"
	"github.com/forlark/larkfetch/internal/adapters/driving/cli"
	"github.com/forlark/larkfetch/internal/core/services"
	"github.com/forlark/larkfetch/internal/render"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	sessionStore, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer sessionStore.Close() //nolint:errcheck

	platform := lark.NewClient()
	tokens := services.NewTokenCache(platform, configStore)
	authFlow := services.NewAuthFlow(platform, sessionStore, configStore, tokens)
	fetcher := services.NewFetcher(platform, sessionStore, configStore, tokens, authFlow, render.DefaultRegistry())
	credentials := services.NewCredentialsService(configStore, platform, tokens)

	cli.SetDispatcher(services.NewDispatcher(fetcher, authFlow, credentials))
	cli.SetServices(cli.Ports{
		Auth:        authFlow,
		Fetch:       fetcher,
		Credentials: credentials,
		Config:      configStore,
	})

	return cli.Execute(version)
}
