package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pantry/internal/bootstrap"
	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
)

var translateCmd = &cobra.Command{
	Use:   "translate <text>...",
	Short: "Translate one or more items through the cached translator",
	Args:  cobra.MinimumNArgs(1),
	RunE: withServices(func(cmd *cobra.Command, app *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		source, _ := cmd.Flags().GetString("from")
		target, _ := cmd.Flags().GetString("to")
		if source == "" {
			source = app.Config.Translation.DisplayLang
		}
		if target == "" {
			target = app.Config.Translation.ProviderLang
		}

		items := svc.Translator.TranslateBatch(ctx, cmd.Flags().Args(), source, target)
		for _, item := range items {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), item); err != nil {
				return errs.Wrap(err, "write translate output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().String("from", "", "Source language (defaults to translation.display_lang)")
	translateCmd.Flags().String("to", "", "Target language (defaults to translation.provider_lang)")
}
