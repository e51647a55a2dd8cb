// Package recipeapi is the HTTP client for a Spoonacular-compatible recipe API.
package recipeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"pantry/internal/domain/recipe"
	"pantry/internal/errs"
	"pantry/internal/ports"
)

const (
	defaultBaseURL  = "https://api.spoonacular.com"
	defaultTimeout  = 10 * time.Second
	defaultNumber   = 10
	maxErrorMessage = 512
	userAgent       = "pantry/1.0"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Number is the result count requested per search.
	Number int
	// BreakerFailures is the consecutive failure count that opens the breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration
}

// apiError is the provider's error body.
type apiError struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Client struct {
	apiKey  string
	number  int
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

var _ ports.RecipeProvider = (*Client)(nil)

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	number := cfg.Number
	if number <= 0 {
		number = defaultNumber
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &Client{
		apiKey: cfg.APIKey,
		number: number,
		http:   httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "recipe-provider",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: breakerSuccess,
		}),
	}
}

// Search runs complexSearch with the given comma-separated ingredients.
func (c *Client) Search(ctx context.Context, ingredients string, filters recipe.Filters) (recipe.SearchResponse, error) {
	var out recipe.SearchResponse
	err := c.get(ctx, "/recipes/complexSearch", func(req *resty.Request) {
		req.SetQueryParamsFromValues(filters.Query()).
			SetQueryParams(map[string]string{
				"includeIngredients":   ingredients,
				"fillIngredients":      "true",
				"addRecipeInformation": "false",
				"number":               strconv.Itoa(c.number),
			}).
			SetResult(&out)
	})
	if err != nil {
		return recipe.SearchResponse{}, err
	}
	return out, nil
}

func (c *Client) Details(ctx context.Context, id int64) (recipe.Detail, error) {
	if id <= 0 {
		return recipe.Detail{}, recipe.ErrInvalidRecipeID
	}

	var out recipe.Detail
	err := c.get(ctx, "/recipes/{id}/information", func(req *resty.Request) {
		req.SetPathParam("id", strconv.FormatInt(id, 10)).
			SetResult(&out)
	})
	if err != nil {
		return recipe.Detail{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, build func(*resty.Request)) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, build)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &recipe.ProviderError{
				Status:  http.StatusServiceUnavailable,
				Message: "recipe provider temporarily unavailable",
				Cause:   err,
			}
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, build func(*resty.Request)) error {
	var apiErr apiError
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if c.apiKey != "" {
		req.SetQueryParam("apiKey", c.apiKey)
	}
	build(req)

	resp, err := req.Get(path)
	if err != nil {
		// A response with a status means the body failed to decode.
		if resp != nil && resp.StatusCode() != 0 && !resp.IsError() {
			return fmt.Errorf("%w: decode %s: %v", recipe.ErrMalformedResponse, path, err)
		}
		if resp != nil && resp.IsError() {
			return &recipe.ProviderError{Status: resp.StatusCode(), Message: errorMessage(apiErr, resp)}
		}
		return &recipe.ProviderError{Message: "request failed", Cause: err}
	}
	if resp.IsError() {
		return &recipe.ProviderError{Status: resp.StatusCode(), Message: errorMessage(apiErr, resp)}
	}
	if !isJSON(resp.Header().Get("Content-Type")) {
		return fmt.Errorf("%w: %s returned %q", recipe.ErrMalformedResponse, path, resp.Header().Get("Content-Type"))
	}
	return nil
}

// errorMessage prefers the provider's "message" field over the raw body.
func errorMessage(apiErr apiError, resp *resty.Response) string {
	if msg := strings.TrimSpace(apiErr.Message); msg != "" {
		return msg
	}
	raw := strings.TrimSpace(resp.String())
	if len(raw) > maxErrorMessage {
		raw = raw[:maxErrorMessage]
	}
	return raw
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

// breakerSuccess keeps caller mistakes (4xx other than 429) from tripping the breaker.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var providerErr *recipe.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Status >= 400 && providerErr.Status < 500 && providerErr.Status != http.StatusTooManyRequests
	}
	return false
}
