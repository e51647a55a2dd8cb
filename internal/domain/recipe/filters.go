package recipe

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Diets accepted by the provider's diet filter.
var Diets = []string{
	"gluten free",
	"ketogenic",
	"lacto-vegetarian",
	"low fodmap",
	"ovo-vegetarian",
	"paleo",
	"pescetarian",
	"primal",
	"vegan",
	"vegetarian",
	"whole30",
}

func knownDiet(diet string) bool {
	for _, d := range Diets {
		if d == diet {
			return true
		}
	}
	return false
}

// Filters narrows a search. Zero values are "not set".
type Filters struct {
	Diet        string
	MaxCalories int
	MaxCarbs    int
	MaxProtein  int
	MaxSugar    int
}

// Normalize lowercases and trims the diet.
func (f Filters) Normalize() Filters {
	f.Diet = strings.ToLower(strings.TrimSpace(f.Diet))
	return f
}

// Validate rejects unknown diets and negative limits.
func (f Filters) Validate() error {
	f = f.Normalize()
	if f.Diet != "" {
		if !knownDiet(f.Diet) {
			return fmt.Errorf("%w: %q", ErrUnknownDiet, f.Diet)
		}
	}
	for name, v := range map[string]int{
		"maxCalories": f.MaxCalories,
		"maxCarbs":    f.MaxCarbs,
		"maxProtein":  f.MaxProtein,
		"maxSugar":    f.MaxSugar,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeLimit, name, v)
		}
	}
	return nil
}

// Query returns the provider query parameters for the set filters.
func (f Filters) Query() url.Values {
	f = f.Normalize()
	q := url.Values{}
	if f.Diet != "" {
		q.Set("diet", f.Diet)
	}
	setPositive(q, "maxCalories", f.MaxCalories)
	setPositive(q, "maxCarbs", f.MaxCarbs)
	setPositive(q, "maxProtein", f.MaxProtein)
	setPositive(q, "maxSugar", f.MaxSugar)
	return q
}

func setPositive(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

// ParseFilters reads filters from request query parameters.
func ParseFilters(q url.Values) (Filters, error) {
	var f Filters
	f.Diet = q.Get("diet")

	targets := []struct {
		key string
		dst *int
	}{
		{"maxCalories", &f.MaxCalories},
		{"maxCarbs", &f.MaxCarbs},
		{"maxProtein", &f.MaxProtein},
		{"maxSugar", &f.MaxSugar},
	}
	for _, tgt := range targets {
		raw := strings.TrimSpace(q.Get(tgt.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Filters{}, fmt.Errorf("%w: %s=%q", ErrInvalidLimit, tgt.key, raw)
		}
		*tgt.dst = v
	}

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

// NormalizeIngredients trims, lowercases, drops empties, dedupes and sorts, so the
// same set of ingredients yields the same query regardless of inventory order.
func NormalizeIngredients(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
