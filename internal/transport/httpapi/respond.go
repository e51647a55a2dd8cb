package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pantry/internal/bootstrap/logging"
	"pantry/internal/domain/recipe"
	"pantry/internal/errs"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps usecase errors to HTTP statuses.
func statusFor(err error) int {
	var providerErr *recipe.ProviderError
	switch {
	case errors.As(err, &providerErr):
		return providerErr.HTTPStatus()
	case errors.Is(err, recipe.ErrNoIngredients):
		return http.StatusBadRequest
	case errors.Is(err, recipe.ErrMalformedResponse):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch errs.KindOf(err) {
	case errs.KindInvalid:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		if !errors.Is(err, recipe.ErrMalformedResponse) {
			message = "internal error"
		}
	}
	writeError(w, status, message)
}
