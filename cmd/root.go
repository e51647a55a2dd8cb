/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "pantry",
	Short:        "Pantry inventory and recipe suggestions",
	Long:         "Keep a pantry inventory and search recipes with what is on hand, translated between display and provider languages.",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger := logging.New(cmd.ErrOrStderr(), logLevel, "text")
		cmdCtx := logging.WithLogger(cmd.Context(), logger)
		cmd.SetContext(logging.WithAttrs(cmdCtx, slog.String("app", "pantry")))
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Bootstrap log level (debug, info, warn, error)")
}
