package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
	"pantry/internal/errs"
	"pantry/internal/usecase/translation"
)

type fakeInventory struct {
	items []inventory.Item
	err   error
}

func (f *fakeInventory) ListItems(_ context.Context, _ string) ([]inventory.Item, error) {
	return f.items, f.err
}

func pantry(names ...string) *fakeInventory {
	inv := &fakeInventory{}
	for _, n := range names {
		inv.items = append(inv.items, inventory.Item{Name: n, Unit: inventory.UnitPiece})
	}
	return inv
}

type fakeProvider struct {
	mu              sync.Mutex
	searchResp      recipe.SearchResponse
	detail          recipe.Detail
	err             error
	searchCalls     int
	detailCalls     int
	lastIngredients string
	lastFilters     recipe.Filters
}

func (p *fakeProvider) Search(_ context.Context, ingredients string, filters recipe.Filters) (recipe.SearchResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searchCalls++
	p.lastIngredients = ingredients
	p.lastFilters = filters
	return p.searchResp, p.err
}

func (p *fakeProvider) Details(_ context.Context, _ int64) (recipe.Detail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detailCalls++
	return p.detail, p.err
}

// fakeTranslator translates through a fixed dictionary; unknown words keep
// their original text. down simulates an unreachable provider.
type fakeTranslator struct {
	dict map[string]string
	down bool
}

func (t *fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, bool) {
	if t.down {
		return text, false
	}
	if v, ok := t.dict[text]; ok {
		return v, true
	}
	return text, false
}

func (t *fakeTranslator) TranslateBatch(ctx context.Context, items []string, src, tgt string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = t.Translate(ctx, item, src, tgt)
	}
	return out
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

var esEn = map[string]string{
	"pan":             "bread",
	"leche":           "milk",
	"huevo":           "egg",
	"French Toast":    "Torrija",
	"Egg Custard":     "Natillas",
	"1 cup sugar":     "1 taza de azúcar",
	"2 tbsp butter":   "2 cucharadas de mantequilla",
	"Soak the bread.": "Remoja el pan.",
	"A classic.":      "Un clásico.",
}

func sampleSearch() recipe.SearchResponse {
	return recipe.SearchResponse{
		Results: []recipe.Summary{
			{
				ID: 1, Title: "French Toast", Image: "https://img/1.jpg", ImageType: "jpg",
				UsedIngredientCount: 2, MissedIngredientCount: 2,
				MissedIngredients: []recipe.Ingredient{
					{ID: 10, Name: "sugar", Original: "1 cup sugar", Amount: 1, Unit: "cup"},
					{ID: 11, Name: "butter", Original: "2 tbsp butter", Amount: 2, Unit: "tbsp"},
				},
				UsedIngredients: []recipe.Ingredient{{ID: 12, Name: "bread", Original: "2 slices bread"}},
			},
			{ID: 2, Title: "Egg Custard", UsedIngredientCount: 2},
		},
		TotalResults: 2,
	}
}

func newTestGateway(inv *fakeInventory, provider *fakeProvider, tr *fakeTranslator, cache *fakeCache) *Gateway {
	return NewGateway(inv, provider, tr, cache, Options{DisplayLang: "es", ProviderLang: "en"})
}

func TestSearchTranslatesQueryAndResults(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	gw := newTestGateway(pantry("leche", "pan", "leche"), provider, &fakeTranslator{dict: esEn}, newFakeCache())

	got, err := gw.Search(context.Background(), "u1", recipe.Filters{Diet: "Vegetarian"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.lastIngredients != "bread,milk" {
		t.Fatalf("provider ingredients = %q", provider.lastIngredients)
	}
	if provider.lastFilters.Diet != "vegetarian" {
		t.Fatalf("provider filters = %+v", provider.lastFilters)
	}
	if len(got) != 2 || got[0].Title != "Torrija" || got[1].Title != "Natillas" {
		t.Fatalf("titles = %+v", got)
	}
	missed := got[0].MissedIngredients
	if missed[0].Original != "1 taza de azúcar" || missed[1].Original != "2 cucharadas de mantequilla" {
		t.Fatalf("missed ingredients = %+v", missed)
	}
	if missed[0].Name != "sugar" || missed[0].Amount != 1 || got[0].Image != "https://img/1.jpg" {
		t.Fatalf("non-translatable fields changed: %+v", got[0])
	}
	if got[0].UsedIngredients[0].Original != "2 slices bread" {
		t.Fatalf("used ingredients must not be translated: %+v", got[0].UsedIngredients)
	}
}

func TestSearchCachesNormalizedResults(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	cache := newFakeCache()
	gw := newTestGateway(pantry("pan", "leche"), provider, &fakeTranslator{dict: esEn}, cache)
	ctx := context.Background()

	first, err := gw.Search(ctx, "u1", recipe.Filters{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	second, err := gw.Search(ctx, "u1", recipe.Filters{})
	if err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	if provider.searchCalls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.searchCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs:\n%+v\n%+v", first, second)
	}

	raw, ok := cache.values["search:bread,milk:"]
	if !ok {
		t.Fatalf("expected cache entry under search:bread,milk:, have %v", cache.values)
	}
	var stored []recipe.Summary
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("cached value is not a result list: %v", err)
	}
	if stored[0].Title != "French Toast" {
		t.Fatalf("cache must hold provider-language results, got %q", stored[0].Title)
	}
}

func TestSearchKeyIgnoresInventoryOrder(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	cache := newFakeCache()
	tr := &fakeTranslator{dict: esEn}
	ctx := context.Background()

	if _, err := newTestGateway(pantry("pan", "leche", "huevo"), provider, tr, cache).Search(ctx, "u1", recipe.Filters{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if _, err := newTestGateway(pantry("huevo", "pan", "leche"), provider, tr, cache).Search(ctx, "u1", recipe.Filters{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.searchCalls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.searchCalls)
	}
}

func TestSearchKeyDependsOnFilters(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	cache := newFakeCache()
	gw := newTestGateway(pantry("pan"), provider, &fakeTranslator{dict: esEn}, cache)
	ctx := context.Background()

	if _, err := gw.Search(ctx, "u1", recipe.Filters{Diet: "vegan"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if _, err := gw.Search(ctx, "u1", recipe.Filters{Diet: "vegetarian"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if _, err := gw.Search(ctx, "u1", recipe.Filters{Diet: "vegan", MaxCalories: 500}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.searchCalls != 3 {
		t.Fatalf("provider calls = %d, want 3", provider.searchCalls)
	}
	if len(cache.values) != 3 {
		t.Fatalf("cache entries = %d, want 3", len(cache.values))
	}
}

func TestSearchDegradesWhenTranslationIsDown(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	gw := newTestGateway(pantry("pan", "leche"), provider, &fakeTranslator{down: true}, newFakeCache())

	got, err := gw.Search(context.Background(), "u1", recipe.Filters{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.lastIngredients != "leche,pan" {
		t.Fatalf("untranslated ingredients = %q", provider.lastIngredients)
	}
	if !reflect.DeepEqual(got, sampleSearch().Results) {
		t.Fatalf("degraded result should equal provider result:\n%+v", got)
	}
}

func TestSearchEmptyInventory(t *testing.T) {
	provider := &fakeProvider{}
	gw := newTestGateway(pantry(" ", ""), provider, &fakeTranslator{dict: esEn}, newFakeCache())

	_, err := gw.Search(context.Background(), "u1", recipe.Filters{})
	if !errors.Is(err, recipe.ErrNoIngredients) {
		t.Fatalf("expected ErrNoIngredients, got %v", err)
	}
	if provider.searchCalls != 0 {
		t.Fatalf("provider should not be called")
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	gw := newTestGateway(pantry("pan"), &fakeProvider{}, &fakeTranslator{}, newFakeCache())
	ctx := context.Background()

	if _, err := gw.Search(ctx, "", recipe.Filters{}); errs.KindOf(err) != errs.KindInvalid {
		t.Fatalf("missing owner: kind = %v, err = %v", errs.KindOf(err), err)
	}
	_, err := gw.Search(ctx, "u1", recipe.Filters{Diet: "carnivore"})
	if !errors.Is(err, recipe.ErrUnknownDiet) || errs.KindOf(err) != errs.KindInvalid {
		t.Fatalf("unknown diet: err = %v", err)
	}
}

func TestSearchSurfacesProviderError(t *testing.T) {
	provider := &fakeProvider{err: &recipe.ProviderError{Status: 402, Message: "daily quota used"}}
	cache := newFakeCache()
	gw := newTestGateway(pantry("pan"), provider, &fakeTranslator{dict: esEn}, cache)

	_, err := gw.Search(context.Background(), "u1", recipe.Filters{})
	var providerErr *recipe.ProviderError
	if !errors.As(err, &providerErr) || providerErr.HTTPStatus() != 402 {
		t.Fatalf("expected provider error 402, got %v", err)
	}
	if len(cache.values) != 0 {
		t.Fatalf("failed search was cached: %v", cache.values)
	}
}

func TestProviderFailuresAreUpstream(t *testing.T) {
	down := errors.New("connection reset")
	gw := newTestGateway(pantry("pan"), &fakeProvider{err: down}, &fakeTranslator{dict: esEn}, newFakeCache())
	ctx := context.Background()

	_, err := gw.Search(ctx, "u1", recipe.Filters{})
	if !errors.Is(err, down) || errs.KindOf(err) != errs.KindUpstream {
		t.Fatalf("Search() err = %v, kind = %v", err, errs.KindOf(err))
	}
	_, err = gw.Details(ctx, 7)
	if !errors.Is(err, down) || errs.KindOf(err) != errs.KindUpstream {
		t.Fatalf("Details() err = %v, kind = %v", err, errs.KindOf(err))
	}
}

func TestSearchRejectsMalformedResponse(t *testing.T) {
	provider := &fakeProvider{searchResp: recipe.SearchResponse{Results: []recipe.Summary{{ID: 1}}}}
	cache := newFakeCache()
	gw := newTestGateway(pantry("pan"), provider, &fakeTranslator{dict: esEn}, cache)

	_, err := gw.Search(context.Background(), "u1", recipe.Filters{})
	if !errors.Is(err, recipe.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if len(cache.values) != 0 {
		t.Fatalf("malformed response was cached")
	}
}

func TestSearchCacheReadErrorFallsBackToProvider(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	cache := newFakeCache()
	cache.getErr = errors.New("database is locked")
	gw := newTestGateway(pantry("pan"), provider, &fakeTranslator{dict: esEn}, cache)

	if _, err := gw.Search(context.Background(), "u1", recipe.Filters{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.searchCalls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.searchCalls)
	}
}

func TestSearchNoResults(t *testing.T) {
	provider := &fakeProvider{searchResp: recipe.SearchResponse{}}
	gw := newTestGateway(pantry("pan"), provider, &fakeTranslator{dict: esEn}, newFakeCache())

	got, err := gw.Search(context.Background(), "u1", recipe.Filters{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Search() = %#v, want empty list", got)
	}
}

func sampleDetail() recipe.Detail {
	return recipe.Detail{
		ID:             7,
		Title:          "French Toast",
		Summary:        "A classic.",
		Instructions:   "Soak the bread.",
		Image:          "https://img/7.jpg",
		ReadyInMinutes: 20,
		Servings:       2,
		SourceURL:      "https://example.org/toast",
		ExtendedIngredients: []recipe.Ingredient{
			{ID: 1, Name: "sugar", Original: "1 cup sugar", Amount: 1, Unit: "cup"},
			{ID: 2, Name: "vanilla", Original: "1 tsp vanilla", Amount: 1, Unit: "tsp"},
		},
	}
}

func TestDetailsTranslatesAllowListedFields(t *testing.T) {
	provider := &fakeProvider{detail: sampleDetail()}
	gw := newTestGateway(pantry(), provider, &fakeTranslator{dict: esEn}, newFakeCache())

	got, err := gw.Details(context.Background(), 7)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}

	want := sampleDetail()
	want.Title = "Torrija"
	want.Summary = "Un clásico."
	want.Instructions = "Remoja el pan."
	want.ExtendedIngredients[0].Original = "1 taza de azúcar"
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Details() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestDetailsStructuralPreservationWhenTranslationDown(t *testing.T) {
	provider := &fakeProvider{detail: sampleDetail()}
	gw := newTestGateway(pantry(), provider, &fakeTranslator{down: true}, newFakeCache())

	got, err := gw.Details(context.Background(), 7)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if !reflect.DeepEqual(got, sampleDetail()) {
		t.Fatalf("Details() changed structure:\n%+v", got)
	}
}

func TestDetailsCachesProviderRecord(t *testing.T) {
	provider := &fakeProvider{detail: sampleDetail()}
	cache := newFakeCache()
	gw := newTestGateway(pantry(), provider, &fakeTranslator{dict: esEn}, cache)
	ctx := context.Background()

	if _, err := gw.Details(ctx, 7); err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if _, err := gw.Details(ctx, 7); err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if provider.detailCalls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.detailCalls)
	}
	if _, ok := cache.values["details:7"]; !ok {
		t.Fatalf("expected details:7 in cache, have %v", cache.values)
	}
}

func TestDetailsErrors(t *testing.T) {
	ctx := context.Background()

	gw := newTestGateway(pantry(), &fakeProvider{}, &fakeTranslator{}, newFakeCache())
	if _, err := gw.Details(ctx, 0); !errors.Is(err, recipe.ErrInvalidRecipeID) {
		t.Fatalf("expected ErrInvalidRecipeID, got %v", err)
	}

	mismatched := sampleDetail()
	mismatched.ID = 8
	gw = newTestGateway(pantry(), &fakeProvider{detail: mismatched}, &fakeTranslator{}, newFakeCache())
	if _, err := gw.Details(ctx, 7); !errors.Is(err, recipe.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}

	gw = newTestGateway(pantry(), &fakeProvider{err: &recipe.ProviderError{Status: 404}}, &fakeTranslator{}, newFakeCache())
	_, err := gw.Details(ctx, 7)
	var providerErr *recipe.ProviderError
	if !errors.As(err, &providerErr) || providerErr.HTTPStatus() != 404 {
		t.Fatalf("expected provider 404, got %v", err)
	}
}

type batchCall struct {
	items  []string
	source string
	target string
}

// countingTranslator records every call before delegating to fakeTranslator.
type countingTranslator struct {
	fakeTranslator
	mu      sync.Mutex
	batches []batchCall
	singles int
}

func (t *countingTranslator) Translate(ctx context.Context, text, src, tgt string) (string, bool) {
	t.mu.Lock()
	t.singles++
	t.mu.Unlock()
	return t.fakeTranslator.Translate(ctx, text, src, tgt)
}

func (t *countingTranslator) TranslateBatch(ctx context.Context, items []string, src, tgt string) []string {
	t.mu.Lock()
	t.batches = append(t.batches, batchCall{items: append([]string(nil), items...), source: src, target: tgt})
	t.mu.Unlock()
	return t.fakeTranslator.TranslateBatch(ctx, items, src, tgt)
}

// localized returns the provider-to-display batches keyed by their first item.
func (t *countingTranslator) localized() map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := map[string][]string{}
	for _, call := range t.batches {
		if call.source == "en" && call.target == "es" && len(call.items) > 0 {
			out[call.items[0]] = call.items
		}
	}
	return out
}

func TestSearchTranslatesTitlesAndMissedInOneBatchEach(t *testing.T) {
	provider := &fakeProvider{searchResp: sampleSearch()}
	tr := &countingTranslator{fakeTranslator: fakeTranslator{dict: esEn}}
	gw := NewGateway(pantry("pan", "leche"), provider, tr, newFakeCache(), Options{DisplayLang: "es", ProviderLang: "en"})

	if _, err := gw.Search(context.Background(), "u1", recipe.Filters{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(tr.batches) != 3 || tr.singles != 0 {
		t.Fatalf("batches = %+v, singles = %d; want query, titles and missed batches only", tr.batches, tr.singles)
	}
	if query := tr.batches[0]; query.source != "es" || query.target != "en" || !reflect.DeepEqual(query.items, []string{"pan", "leche"}) {
		t.Fatalf("query batch = %+v", query)
	}
	localized := tr.localized()
	if !reflect.DeepEqual(localized["French Toast"], []string{"French Toast", "Egg Custard"}) {
		t.Fatalf("titles batch = %v", localized["French Toast"])
	}
	if !reflect.DeepEqual(localized["1 cup sugar"], []string{"1 cup sugar", "2 tbsp butter"}) {
		t.Fatalf("missed batch = %v", localized["1 cup sugar"])
	}
}

func TestSearchSkipsMissedBatchWhenNothingIsMissing(t *testing.T) {
	onlyCustard := recipe.SearchResponse{Results: sampleSearch().Results[1:], TotalResults: 1}
	provider := &fakeProvider{searchResp: onlyCustard}
	tr := &countingTranslator{fakeTranslator: fakeTranslator{dict: esEn}}
	gw := NewGateway(pantry("huevo"), provider, tr, newFakeCache(), Options{DisplayLang: "es", ProviderLang: "en"})

	got, err := gw.Search(context.Background(), "u1", recipe.Filters{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Natillas" {
		t.Fatalf("Search() = %+v", got)
	}
	if len(tr.batches) != 2 {
		t.Fatalf("batches = %+v, want query and titles only", tr.batches)
	}
	if titles := tr.localized()["Egg Custard"]; !reflect.DeepEqual(titles, []string{"Egg Custard"}) {
		t.Fatalf("titles batch = %v", titles)
	}
}

type unreachableGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *unreachableGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return "", errors.New("dial tcp: connection refused")
}

func TestGatewayDegradesThroughTranslationService(t *testing.T) {
	gen := &unreachableGenerator{}
	tr := translation.NewService(newFakeCache(), gen, translation.Options{})
	provider := &fakeProvider{searchResp: sampleSearch(), detail: sampleDetail()}
	gw := NewGateway(pantry("pan", "leche"), provider, tr, newFakeCache(), Options{DisplayLang: "es", ProviderLang: "en"})
	ctx := context.Background()

	results, err := gw.Search(ctx, "u1", recipe.Filters{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.lastIngredients != "leche,pan" {
		t.Fatalf("untranslated ingredients = %q", provider.lastIngredients)
	}
	if !reflect.DeepEqual(results, sampleSearch().Results) {
		t.Fatalf("degraded search result:\n%+v", results)
	}

	detail, err := gw.Details(ctx, 7)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if !reflect.DeepEqual(detail, sampleDetail()) {
		t.Fatalf("degraded detail:\n%+v", detail)
	}

	// query, titles, missed, then title, summary, instructions and ingredients.
	if gen.calls != 7 {
		t.Fatalf("provider calls = %d, want 7", gen.calls)
	}
}
