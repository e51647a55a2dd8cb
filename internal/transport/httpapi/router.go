// Package httpapi exposes inventory, recipe search and translation over JSON.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
	"pantry/internal/ports"
)

// OwnerHeader carries the authenticated owner id set by the auth gate in front
// of the service.
const OwnerHeader = "X-Owner-ID"

type InventoryService interface {
	ListItems(ctx context.Context, ownerID string) ([]inventory.Item, error)
	AddItem(ctx context.Context, input inventory.NewItemInput) (inventory.Item, error)
	DeleteItem(ctx context.Context, ownerID string, itemID string) error
}

type RecipeService interface {
	Search(ctx context.Context, ownerID string, filters recipe.Filters) ([]recipe.Summary, error)
	Details(ctx context.Context, id int64) (recipe.Detail, error)
}

type Deps struct {
	Inventory  InventoryService
	Recipes    RecipeService
	Translator ports.Translator
	Logger     *slog.Logger

	DisplayLang    string
	ProviderLang   string
	RequestTimeout time.Duration
}

type handler struct {
	deps Deps
}

func NewRouter(deps Deps) http.Handler {
	if deps.DisplayLang == "" {
		deps.DisplayLang = "es"
	}
	if deps.ProviderLang == "" {
		deps.ProviderLang = "en"
	}
	h := &handler{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireOwner)

		r.Get("/inventory", h.listInventory)
		r.Post("/inventory", h.addInventory)
		r.Delete("/inventory/{id}", h.deleteInventory)

		r.Get("/recipes/search", h.searchRecipes)
		r.Get("/recipes/{id}", h.recipeDetails)

		r.Post("/translate", h.translate)
	})
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
