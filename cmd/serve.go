package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pantry/internal/bootstrap"
	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
	"pantry/internal/ports"
	"pantry/internal/transport/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: withServices(func(cmd *cobra.Command, app *bootstrap.App, svc *bootstrap.Services) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.WithLogger(ctx, svc.Logger)
		ctx = logging.WithAttrs(ctx, slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}

		server := &http.Server{
			Addr: addr,
			Handler: httpapi.NewRouter(httpapi.Deps{
				Inventory:      svc.Inventory,
				Recipes:        svc.Recipes,
				Translator:     svc.Translator,
				Logger:         svc.Logger,
				DisplayLang:    app.Config.Translation.DisplayLang,
				ProviderLang:   app.Config.Translation.ProviderLang,
				RequestTimeout: app.Config.HTTP.RequestTimeout,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if purger, ok := svc.Cache.(ports.CachePurger); ok && app.Config.Cache.PurgeInterval > 0 {
			go runCachePurger(ctx, purger, app.Config.Cache.PurgeInterval)
		}

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server started", slog.String("addr", addr))
			serveErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "http server failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve http")
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		logging.Info(ctx, "http server stopped")
		return nil
	}),
}

// runCachePurger removes expired cache rows until ctx is done.
func runCachePurger(ctx context.Context, purger ports.CachePurger, interval time.Duration) {
	ctx = logging.WithAttrs(ctx, slog.String("component", "cache.janitor"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := purger.Purge(ctx)
			if err != nil {
				logging.Warn(ctx, "cache purge failed", slog.Any("err", errs.Loggable(err)))
				continue
			}
			if removed > 0 {
				logging.Info(ctx, "expired cache entries purged", slog.Int64("removed", removed))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to http.addr from config)")
}
