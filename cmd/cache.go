package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pantry/internal/bootstrap"
	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
	"pantry/internal/ports"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the response cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE: withServices(func(cmd *cobra.Command, app *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		purger, ok := svc.Cache.(ports.CachePurger)
		if !ok {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cache driver %q expires entries natively, nothing to purge\n", app.Config.Cache.Driver)
			return errs.Wrap(err, "write cache output")
		}

		removed, err := purger.Purge(ctx)
		if err != nil {
			return errs.Wrap(err, "purge cache")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired entries\n", removed); err != nil {
			return errs.Wrap(err, "write cache output")
		}
		return nil
	}),
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete one cache entry, e.g. details:716429",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, _ *bootstrap.App, svc *bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		key := cmd.Flags().Arg(0)
		if err := svc.Cache.Delete(ctx, key); err != nil {
			return errs.Wrap(err, "delete cache entry")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key); err != nil {
			return errs.Wrap(err, "write cache output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePurgeCmd, cacheDeleteCmd)
}
