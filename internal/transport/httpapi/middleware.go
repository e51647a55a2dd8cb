package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
)

var errMissingOwner = errors.New("missing " + OwnerHeader + " header")

type ownerKey struct{}

func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// requireOwner rejects requests that did not pass through the auth gate.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if owner == "" {
			writeUsecaseError(w, r, errs.Unauthorized(errMissingOwner))
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey{}, owner)
		ctx = logging.WithRequest(ctx, "", owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger puts the logger and request id on the context and logs one
// line per request once it completes.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger != nil {
				ctx = logging.WithLogger(ctx, logger)
			}
			ctx = logging.WithRequest(ctx, middleware.GetReqID(ctx), "")

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
			}
			if status >= http.StatusInternalServerError {
				logging.Warn(ctx, "http request", attrs...)
				return
			}
			logging.Info(ctx, "http request", attrs...)
		})
	}
}
