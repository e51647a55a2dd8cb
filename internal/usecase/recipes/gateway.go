// Package recipes answers recipe searches from the caller's inventory: it
// translates ingredients for the provider, caches provider responses and
// translates the results back for display.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pantry/internal/bootstrap/logging"
	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
	"pantry/internal/errs"
	"pantry/internal/ports"
)

type Options struct {
	DisplayLang  string
	ProviderLang string
	// CacheTTL is passed to the cache on write; zero means the store default.
	CacheTTL time.Duration
}

type Gateway struct {
	inventory  ports.InventoryReader
	provider   ports.RecipeProvider
	translator ports.Translator
	cache      ports.Cache
	opts       Options
}

func NewGateway(inv ports.InventoryReader, provider ports.RecipeProvider, translator ports.Translator, cache ports.Cache, opts Options) *Gateway {
	if strings.TrimSpace(opts.DisplayLang) == "" {
		opts.DisplayLang = "es"
	}
	if strings.TrimSpace(opts.ProviderLang) == "" {
		opts.ProviderLang = "en"
	}
	return &Gateway{
		inventory:  inv,
		provider:   provider,
		translator: translator,
		cache:      cache,
		opts:       opts,
	}
}

// Search finds recipes that use the owner's inventory. Results come back in
// the display language; untranslatable text keeps the provider's wording.
func (g *Gateway) Search(ctx context.Context, ownerID string, filters recipe.Filters) ([]recipe.Summary, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, errs.Invalid(inventory.ErrOwnerRequired)
	}
	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		return nil, errs.Invalid(err)
	}

	ctx = logging.WithAttrs(ctx, slog.String("component", "recipes.search"))

	items, err := g.inventory.ListItems(ctx, ownerID)
	if err != nil {
		return nil, errs.Wrap(err, "list inventory")
	}
	names := inventory.Names(items)
	if len(recipe.NormalizeIngredients(names)) == 0 {
		return nil, recipe.ErrNoIngredients
	}

	translated := g.translator.TranslateBatch(ctx, names, g.opts.DisplayLang, g.opts.ProviderLang)
	ingredients := recipe.NormalizeIngredients(translated)
	if len(ingredients) == 0 {
		return nil, recipe.ErrNoIngredients
	}

	key := recipe.SearchKey(ingredients, filters)
	results, hit := g.cachedSummaries(ctx, key)
	if !hit {
		resp, err := g.provider.Search(ctx, strings.Join(ingredients, ","), filters)
		if err != nil {
			return nil, errs.Upstream(errs.Wrap(err, "search recipes"))
		}
		if err := recipe.ValidateSummaries(resp.Results); err != nil {
			logging.Error(ctx, "recipe search response rejected", slog.Any("err", errs.Loggable(err)))
			return nil, err
		}
		results = resp.Results
		if results == nil {
			results = []recipe.Summary{}
		}
		g.setCacheBestEffort(ctx, key, results)
	}

	logging.Info(ctx, "recipe search resolved",
		slog.Int("ingredients", len(ingredients)),
		slog.Int("results", len(results)),
		slog.Bool("cache_hit", hit),
	)
	return g.localizeSummaries(ctx, results), nil
}

// Details returns one recipe in the display language.
func (g *Gateway) Details(ctx context.Context, id int64) (recipe.Detail, error) {
	if ctx == nil {
		return recipe.Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return recipe.Detail{}, errs.Wrap(err, "check context")
	}
	if id <= 0 {
		return recipe.Detail{}, errs.Invalid(recipe.ErrInvalidRecipeID)
	}

	ctx = logging.WithAttrs(ctx,
		slog.String("component", "recipes.details"),
		slog.Int64("recipe_id", id),
	)

	key := recipe.DetailsKey(id)
	detail, hit := g.cachedDetail(ctx, key, id)
	if !hit {
		fetched, err := g.provider.Details(ctx, id)
		if err != nil {
			return recipe.Detail{}, errs.Upstream(errs.Wrap(err, "fetch recipe details"))
		}
		if err := recipe.ValidateDetail(fetched, id); err != nil {
			logging.Error(ctx, "recipe detail response rejected", slog.Any("err", errs.Loggable(err)))
			return recipe.Detail{}, err
		}
		detail = fetched
		g.setCacheBestEffort(ctx, key, detail)
	}

	logging.Debug(ctx, "recipe details resolved", slog.Bool("cache_hit", hit))
	return g.localizeDetail(ctx, detail), nil
}

func (g *Gateway) localizeSummaries(ctx context.Context, results []recipe.Summary) []recipe.Summary {
	if len(results) == 0 {
		return results
	}

	titles := recipe.Titles(results)
	missed := recipe.MissedOriginals(results)

	var wg sync.WaitGroup
	var titleOut, missedOut []string
	wg.Add(1)
	go func() {
		defer wg.Done()
		titleOut = g.translator.TranslateBatch(ctx, titles, g.opts.ProviderLang, g.opts.DisplayLang)
	}()
	if len(missed) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			missedOut = g.translator.TranslateBatch(ctx, missed, g.opts.ProviderLang, g.opts.DisplayLang)
		}()
	}
	wg.Wait()

	return recipe.MergeSummaries(results, titleOut, missedOut)
}

func (g *Gateway) localizeDetail(ctx context.Context, d recipe.Detail) recipe.Detail {
	src, tgt := g.opts.ProviderLang, g.opts.DisplayLang

	var (
		wg   sync.WaitGroup
		text recipe.DetailText
	)
	single := func(in string, out *string) {
		defer wg.Done()
		if translated, ok := g.translator.Translate(ctx, in, src, tgt); ok {
			*out = translated
		}
	}

	wg.Add(3)
	go single(d.Title, &text.Title)
	go single(d.Summary, &text.Summary)
	go single(d.Instructions, &text.Instructions)
	if originals := recipe.IngredientOriginals(d); len(originals) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text.Ingredients = g.translator.TranslateBatch(ctx, originals, src, tgt)
		}()
	}
	wg.Wait()

	return recipe.MergeDetail(d, text)
}

func (g *Gateway) cachedSummaries(ctx context.Context, key string) ([]recipe.Summary, bool) {
	raw, found := g.getCacheBestEffort(ctx, key)
	if !found {
		return nil, false
	}
	var results []recipe.Summary
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		logging.Warn(ctx, "cached search results unreadable, refetching",
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
		return nil, false
	}
	if results == nil {
		results = []recipe.Summary{}
	}
	return results, true
}

func (g *Gateway) cachedDetail(ctx context.Context, key string, id int64) (recipe.Detail, bool) {
	raw, found := g.getCacheBestEffort(ctx, key)
	if !found {
		return recipe.Detail{}, false
	}
	var d recipe.Detail
	if err := json.Unmarshal([]byte(raw), &d); err != nil || recipe.ValidateDetail(d, id) != nil {
		logging.Warn(ctx, "cached recipe detail unreadable, refetching", slog.String("key", key))
		return recipe.Detail{}, false
	}
	return d, true
}

func (g *Gateway) getCacheBestEffort(ctx context.Context, key string) (string, bool) {
	if g.cache == nil {
		return "", false
	}
	value, found, err := g.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "recipe cache read failed, treating as miss",
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
		return "", false
	}
	return value, found
}

func (g *Gateway) setCacheBestEffort(ctx context.Context, key string, value any) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logging.Warn(ctx, "encode recipe cache value failed", slog.Any("err", errs.Loggable(err)))
		return
	}
	if err := g.cache.Set(ctx, key, string(raw), g.opts.CacheTTL); err != nil {
		logging.Warn(ctx, "recipe cache write failed",
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
