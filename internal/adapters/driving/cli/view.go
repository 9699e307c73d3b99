package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forlark/larkfetch/internal/adapters/driving/tui"
	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/services"
)

var viewFormat string

var viewCmd = &cobra.Command{
	Use:   "view [document]",
	Short: "Fetch a document and page through it in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchService == nil {
			return errors.New("fetch service not configured")
		}

		ref := ""
		if len(args) == 1 {
			ref = args[0]
		} else if configStore != nil {
			ref = configStore.GetString(services.ConfigKeyLastDocument)
		}
		if ref == "" {
			return errors.New("no document given and no previous fetch to repeat")
		}

		format, err := domain.ParseOutputFormat(viewFormat)
		if err != nil {
			return err
		}

		if err := tui.Run(fetchService, ref, format); err != nil {
			return fmt.Errorf("running viewer: %w", err)
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewFormat, "format", "f", "markdown", "Format to render: text, markdown, or html")
	rootCmd.AddCommand(viewCmd)
}
