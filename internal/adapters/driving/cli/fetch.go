package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/services"
	"github.com/forlark/larkfetch/internal/logger"
)

var (
	fetchFormat string
	fetchOutput string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [document]",
	Short: "Fetch a document and print it",
	Long: `Fetch a cloud document by URL or bare document id and render it in
the requested format. With no argument the last fetched document is
fetched again.

Accepted references:

  https://example.feishu.cn/docx/AbCdEfGh
  https://example.larksuite.com/wiki/AbCdEfGh
  AbCdEfGh`,
	Args: cobra.MaximumNArgs(1),
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

		format, err := domain.ParseOutputFormat(fetchFormat)
		if err != nil {
			return err
		}

		result, err := fetchService.Fetch(cmd.Context(), ref, format)
		if err != nil {
			var access *domain.DocumentAccessError
			if errors.As(err, &access) {
				fmt.Fprintln(cmd.ErrOrStderr(), access.Remediation())
			}
			return fmt.Errorf("fetching document: %w", err)
		}

		logger.Info("Fetched %q: %d blocks via %s token", result.Title, result.BlockCount, result.TokenKind)

		if fetchOutput != "" {
			if err := os.WriteFile(fetchOutput, []byte(result.Content), 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			cmd.Printf("Wrote %q to %s.\n", result.Title, fetchOutput)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), result.Content)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", "markdown", "Output format: text, markdown, or html")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}
