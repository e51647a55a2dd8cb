package ports

import (
	"context"

	"pantry/internal/domain/recipe"
)

// RecipeProvider is the third-party recipe search/detail API. Failures are
// reported as *recipe.ProviderError.
type RecipeProvider interface {
	Search(ctx context.Context, ingredients string, filters recipe.Filters) (recipe.SearchResponse, error)
	Details(ctx context.Context, id int64) (recipe.Detail, error)
}
