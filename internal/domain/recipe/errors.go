package recipe

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoIngredients     = errors.New("inventory has no ingredients to search with")
	ErrInvalidRecipeID   = errors.New("invalid recipe id")
	ErrUnknownDiet       = errors.New("unknown diet")
	ErrNegativeLimit     = errors.New("nutrient limit must not be negative")
	ErrInvalidLimit      = errors.New("nutrient limit must be an integer")
	ErrMalformedResponse = errors.New("recipe provider response is missing required fields")
)

// ProviderError is a failed call to the recipe provider. Status is the
// provider's HTTP status, or 0 when the request never got a response.
type ProviderError struct {
	Status  int
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Status > 0 {
		msg = http.StatusText(e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("recipe provider error (status %d): %s: %v", e.Status, msg, e.Cause)
	}
	return fmt.Sprintf("recipe provider error (status %d): %s", e.Status, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// HTTPStatus is the status to relay to our own callers: the provider's when it
// is an error status, 502 otherwise.
func (e *ProviderError) HTTPStatus() int {
	if e.Status >= 400 && e.Status <= 599 {
		return e.Status
	}
	return http.StatusBadGateway
}
